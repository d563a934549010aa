package ordem

import "github.com/shopspring/decimal"

type OrdemCreateDTO struct {
	ClienteID uint           `json:"cliente_id" validate:"required"`
	Veiculo   string         `json:"veiculo" validate:"max=120"`
	Placa     string         `json:"placa" validate:"max=10"`
	Descricao string         `json:"descricao"`
	Itens     []ItemOrdemDTO `json:"itens" validate:"dive"`
}

type OrdemUpdateDTO struct {
	ClienteID *uint   `json:"cliente_id"`
	Veiculo   *string `json:"veiculo" validate:"omitempty,max=120"`
	Placa     *string `json:"placa" validate:"omitempty,max=10"`
	Descricao *string `json:"descricao"`
	Status    *string `json:"status" validate:"omitempty,oneof=aberta em_andamento concluida cancelada"`
}

type ItemOrdemDTO struct {
	Tipo          string          `json:"tipo" validate:"required,oneof=peca servico"`
	Descricao     string          `json:"descricao" validate:"required,max=255"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
}

func (d ItemOrdemDTO) paraItem(ordemID uint) ItemOrdem {
	qtd := d.Quantidade
	if qtd.IsZero() {
		qtd = decimal.NewFromInt(1)
	}
	return ItemOrdem{
		OrdemID:       ordemID,
		Tipo:          d.Tipo,
		Descricao:     d.Descricao,
		Quantidade:    qtd,
		ValorUnitario: d.ValorUnitario,
		Ativo:         true,
	}
}
