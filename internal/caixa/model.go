package caixa

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusAberto  = "aberto"
	StatusFechado = "fechado"
)

// Caixa é o turno de um operador. Pagamentos e despesas ficam vinculados a ele.
type Caixa struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	UsuarioID       uint             `gorm:"not null;index" json:"usuario_id"`
	Status          string           `gorm:"size:10;not null;default:'aberto';index" json:"status"`
	ValorAbertura   decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"valor_abertura"`
	ValorFechamento *decimal.Decimal `gorm:"type:decimal(12,2)" json:"valor_fechamento,omitempty"`
	Observacao      string           `json:"observacao,omitempty"`
	AbertoEm        time.Time        `gorm:"not null" json:"aberto_em"`
	FechadoEm       *time.Time       `json:"fechado_em,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (c *Caixa) Aberto() bool { return c.Status == StatusAberto }

// Resumo consolida o movimento do caixa.
type Resumo struct {
	CaixaID          uint                       `json:"caixa_id"`
	Status           string                     `json:"status"`
	ValorAbertura    decimal.Decimal            `json:"valor_abertura"`
	Recebido         decimal.Decimal            `json:"recebido"`
	PorForma         map[string]decimal.Decimal `json:"por_forma"`
	QtdParcelas      int                        `json:"qtd_parcelas"`
	Despesas         decimal.Decimal            `json:"despesas"`
	DinheiroEsperado decimal.Decimal            `json:"dinheiro_esperado"`
	ValorFechamento  *decimal.Decimal           `json:"valor_fechamento,omitempty"`
	Diferenca        *decimal.Decimal           `json:"diferenca,omitempty"`
}
