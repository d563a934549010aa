package parcela

import "github.com/oficina-mecanica/api-oficina/internal/apperr"

// Nomes dos filtros da listagem de parcelas. Cada filtro corresponde a um
// único status: "Pagamentos Pendente" não inclui parcelas geradas.
const (
	FiltroPagamentos         = "Pagamentos"
	FiltroPagamentosPendente = "Pagamentos Pendente"
	FiltroPagamentosPagos    = "Pagamentos Pagos"
	FiltroPagamentosVencido  = "Pagamentos Vencido"
)

var statusPorFiltro = map[string]Status{
	FiltroPagamentos:         StatusGerado,
	FiltroPagamentosPendente: StatusPendente,
	FiltroPagamentosPagos:    StatusPago,
	FiltroPagamentosVencido:  StatusVencido,
}

// StatusDoFiltro converte o nome do filtro. Nome vazio não filtra (nil).
func StatusDoFiltro(nome string) (*Status, error) {
	if nome == "" {
		return nil, nil
	}
	s, ok := statusPorFiltro[nome]
	if !ok {
		return nil, apperr.NovaValidacao("Filtro de status desconhecido: %s", nome)
	}
	return &s, nil
}

// Filtro é o predicado aplicado pelo repositório.
type Filtro struct {
	Status  *Status
	CaixaID *uint
	OrdemID *uint
}

