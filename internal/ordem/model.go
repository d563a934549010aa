// internal/ordem/model.go
package ordem

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusAberta      = "aberta"
	StatusEmAndamento = "em_andamento"
	StatusConcluida   = "concluida"
	StatusCancelada   = "cancelada"
)

const (
	TipoPeca    = "peca"
	TipoServico = "servico"
)

// Ordem de serviço. Desconto e acréscimos guardam o último pagamento registrado.
type Ordem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ClienteID  uint            `gorm:"not null;index" json:"cliente_id"`
	Veiculo    string          `gorm:"size:120" json:"veiculo"`
	Placa      string          `gorm:"size:10;index" json:"placa"`
	Descricao  string          `json:"descricao"`
	Status     string          `gorm:"size:20;not null;default:'aberta';index" json:"status"`
	Desconto   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"desconto"`
	Acrescimos decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"acrescimos"`

	Itens []ItemOrdem `gorm:"foreignKey:OrdemID;constraint:OnDelete:CASCADE" json:"itens"`

	// calculados ao carregar
	Subtotal decimal.Decimal `gorm:"-" json:"subtotal"`
	Total    decimal.Decimal `gorm:"-" json:"total"`
}

// ItemOrdem é uma peça ou serviço lançado na ordem. Itens removidos ficam
// inativos e saem do subtotal.
type ItemOrdem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrdemID       uint            `gorm:"not null;index" json:"ordem_id"`
	Tipo          string          `gorm:"size:20;not null" json:"tipo"`
	Descricao     string          `gorm:"size:255;not null" json:"descricao"`
	Quantidade    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantidade"`
	ValorUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"valor_unitario"`
	Ativo         bool            `gorm:"not null;default:true" json:"ativo"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (i ItemOrdem) ValorTotal() decimal.Decimal {
	return i.Quantidade.Mul(i.ValorUnitario).Round(2)
}

// CalcularSubtotal soma os itens ativos.
func (o *Ordem) CalcularSubtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range o.Itens {
		if it.Ativo {
			subtotal = subtotal.Add(it.ValorTotal())
		}
	}
	return subtotal
}

// PreencherTotais atualiza Subtotal e Total (subtotal - desconto + acréscimos).
func (o *Ordem) PreencherTotais() {
	o.Subtotal = o.CalcularSubtotal()
	o.Total = o.Subtotal.Sub(o.Desconto).Add(o.Acrescimos)
}

func (o *Ordem) Cancelada() bool { return o.Status == StatusCancelada }
