package pagamento

import (
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/shopspring/decimal"
)

// Pagamento registra um plano de pagamento de uma ordem e é dono das parcelas.
type Pagamento struct {
	ID                 uint                   `gorm:"primaryKey" json:"id"`
	OrdemID            uint                   `gorm:"not null;uniqueIndex" json:"ordem_id"`
	FormaPagamento     parcela.FormaPagamento `gorm:"size:20;not null" json:"forma_pagamento"`
	Subtotal           decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Desconto           decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"desconto"`
	Acrescimos         decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"acrescimos"`
	Juros              decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"juros"`
	Total              decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"total"`
	AVista             bool                   `gorm:"not null" json:"a_vista"`
	QuantidadeParcelas int                    `gorm:"not null" json:"quantidade_parcelas"`
	CaixaID            *uint                  `gorm:"index" json:"caixa_id"`
	UsuarioID          *uint                  `json:"usuario_id"`
	CreatedAt          time.Time              `json:"created_at"`

	Parcelas []parcela.Parcela `gorm:"foreignKey:PagamentoID" json:"parcelas"`
}
