// internal/parcela/model.go
package parcela

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusGerado   Status = "gerado"
	StatusPendente Status = "pendente"
	StatusPago     Status = "pago"
	StatusVencido  Status = "vencido"
)

func (s Status) Valido() bool {
	switch s {
	case StatusGerado, StatusPendente, StatusPago, StatusVencido:
		return true
	}
	return false
}

type FormaPagamento string

const (
	Dinheiro FormaPagamento = "Dinheiro"
	Debito   FormaPagamento = "Debito"
	Pix      FormaPagamento = "Pix"
	Credito  FormaPagamento = "Credito"
)

var FormasPagamento = []FormaPagamento{Dinheiro, Debito, Pix, Credito}

func (f FormaPagamento) Valida() bool {
	for _, v := range FormasPagamento {
		if f == v {
			return true
		}
	}
	return false
}

// Parcela é uma cobrança dentro de um pagamento registrado para a ordem.
// TotalParcelas nulo significa pagamento à vista.
type Parcela struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrdemID        uint            `gorm:"not null;index" json:"ordem_id"`
	PagamentoID    uint            `gorm:"not null;index" json:"pagamento_id"`
	CaixaID        *uint           `gorm:"index" json:"caixa_id"`
	NumeroParcela  int             `gorm:"not null;default:1" json:"numero_parcela"`
	TotalParcelas  *int            `json:"total_parcelas"`
	Valor          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"valor"`
	Juros          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"juros"` // não entra no total
	FormaPagamento FormaPagamento  `gorm:"size:20;not null" json:"forma_pagamento"`
	Status         Status          `gorm:"size:20;not null;default:'pendente';index" json:"status"`
	DataVencimento *time.Time      `gorm:"index" json:"data_vencimento"`
	DataPagamento  *time.Time      `json:"data_pagamento"`
	UsuarioID      *uint           `json:"usuario_id"`
	Versao         int             `gorm:"not null;default:1" json:"versao"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AVista indica parcela única, exibida como "À vista".
func (p Parcela) AVista() bool { return p.TotalParcelas == nil }

// HistoricoStatus registra cada mudança de status; nunca é alterado.
type HistoricoStatus struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ParcelaID     uint       `gorm:"not null;index" json:"parcela_id"`
	De            Status     `gorm:"size:20" json:"de"`
	Para          Status     `gorm:"size:20;not null" json:"para"`
	UsuarioID     *uint      `json:"usuario_id"`
	DataPagamento *time.Time `json:"data_pagamento"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (HistoricoStatus) TableName() string { return "historico_status_parcelas" }
