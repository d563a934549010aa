package despesa

import (
	"time"

	"github.com/shopspring/decimal"
)

// Despesa é uma saída de dinheiro lançada em um caixa aberto.
type Despesa struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CaixaID   uint            `gorm:"not null;index" json:"caixa_id"`
	UsuarioID *uint           `json:"usuario_id,omitempty"`
	Descricao string          `gorm:"size:255;not null" json:"descricao"`
	Categoria string          `gorm:"size:60;index" json:"categoria"`
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"valor"`
	Data      time.Time       `gorm:"not null" json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}
