package parcela

import (
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
)

// Dia reduz t à data civil (meia-noite UTC), que é como vencimentos e
// pagamentos são guardados.
func Dia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Vencida diz se uma parcela pendente já passou do vencimento em hoje.
func Vencida(p Parcela, hoje time.Time) bool {
	return p.Status == StatusPendente && p.DataVencimento != nil &&
		Dia(*p.DataVencimento).Before(Dia(hoje))
}

// Observar devolve o status como ele deve ser lido em hoje.
func Observar(p Parcela, hoje time.Time) Status {
	if Vencida(p, hoje) {
		return StatusVencido
	}
	return p.Status
}

// Alternar aplica a ação do usuário (marcar/desmarcar como pago).
// Devolve false quando a parcela já está no status pedido.
//
//	pendente -> pago, vencido -> pago: data_pagamento = pagoEm
//	pago -> pendente: data_pagamento = nil
//	gerado -> qualquer: conflito
//	vencido -> pendente: conflito
func Alternar(p *Parcela, destino Status, pagoEm time.Time) (bool, error) {
	if destino != StatusPago && destino != StatusPendente {
		return false, apperr.NovaValidacao("Status '%s' não pode ser definido manualmente", destino)
	}
	if p.Status == StatusGerado {
		return false, apperr.NovoConflito("Parcela %d ainda não foi liberada para cobrança", p.ID)
	}
	if p.Status == destino {
		return false, nil
	}

	switch destino {
	case StatusPago:
		d := Dia(pagoEm)
		p.Status = StatusPago
		p.DataPagamento = &d
	case StatusPendente:
		if p.Status == StatusVencido {
			return false, apperr.NovoConflito("Parcela %d está vencida e só pode ser marcada como paga", p.ID)
		}
		p.Status = StatusPendente
		p.DataPagamento = nil
	}
	return true, nil
}

// Liberar move uma parcela gerada para pendente quando o plano é fechado.
func Liberar(p *Parcela) error {
	if p.Status != StatusGerado {
		return apperr.NovoConflito("Parcela %d não está com status gerado", p.ID)
	}
	if p.DataVencimento == nil {
		return apperr.NovaValidacao("Parcela %d sem data de vencimento", p.ID)
	}
	p.Status = StatusPendente
	return nil
}
