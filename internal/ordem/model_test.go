package ordem

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPreencherTotais(t *testing.T) {
	o := Ordem{
		Desconto:   d("50"),
		Acrescimos: d("10.50"),
		Itens: []ItemOrdem{
			{Quantidade: d("2"), ValorUnitario: d("120.00"), Ativo: true},
			{Quantidade: d("1.5"), ValorUnitario: d("80.10"), Ativo: true},
			{Quantidade: d("1"), ValorUnitario: d("999"), Ativo: false},
		},
	}
	o.PreencherTotais()

	assert.True(t, d("360.15").Equal(o.Subtotal), o.Subtotal.String())
	assert.True(t, d("320.65").Equal(o.Total), o.Total.String())
}

func TestSubtotalSemItens(t *testing.T) {
	o := Ordem{}
	o.PreencherTotais()
	assert.True(t, o.Subtotal.IsZero())
	assert.True(t, o.Total.IsZero())
}
