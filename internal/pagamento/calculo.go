package pagamento

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/shopspring/decimal"
)

// Plano é o campo "parcelas" do pagamento: "vista" ou a quantidade N.
type Plano struct {
	AVista     bool
	Quantidade int
}

var PlanoAVista = Plano{AVista: true, Quantidade: 1}

func Parcelado(n int) Plano { return Plano{Quantidade: n} }

// MaxParcelas limita o parcelamento a dez anos de vencimentos mensais.
const MaxParcelas = 120

func validarQuantidade(n int) error {
	if n < 1 {
		return apperr.NovaValidacao("Quantidade de parcelas deve ser pelo menos 1")
	}
	if n > MaxParcelas {
		return apperr.NovaValidacao("Quantidade de parcelas deve ser no máximo %d", MaxParcelas)
	}
	return nil
}

// ParsePlano aceita "vista", "à vista" ou um inteiro entre 1 e MaxParcelas.
func ParsePlano(s string) (Plano, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "vista", "a vista", "à vista", "avista":
		return PlanoAVista, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(v, "x"))
	if err != nil {
		return Plano{}, apperr.NovaValidacao("Parcelas deve ser \"vista\" ou um número inteiro, recebido '%s'", s)
	}
	if err := validarQuantidade(n); err != nil {
		return Plano{}, err
	}
	return Parcelado(n), nil
}

func (p Plano) String() string {
	if p.AVista {
		return "vista"
	}
	return strconv.Itoa(p.Quantidade)
}

func (p Plano) MarshalJSON() ([]byte, error) {
	if p.AVista {
		return []byte(`"vista"`), nil
	}
	return []byte(strconv.Itoa(p.Quantidade)), nil
}

// UnmarshalJSON aceita string ("vista", "3") ou número inteiro.
func (p *Plano) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	} else {
		raw = string(b)
	}
	plano, err := ParsePlano(raw)
	if err != nil {
		return err
	}
	*p = plano
	return nil
}

// Entrada reúne os valores do painel de pagamento.
type Entrada struct {
	Subtotal           decimal.Decimal
	Desconto           decimal.Decimal
	Acrescimos         decimal.Decimal
	Juros              decimal.Decimal
	Plano              Plano
	PrimeiroVencimento *time.Time
}

type ParcelaCalculada struct {
	Numero         int             `json:"numero_parcela"`
	TotalParcelas  *int            `json:"total_parcelas"`
	Valor          decimal.Decimal `json:"valor"`
	DataVencimento *time.Time      `json:"data_vencimento"`
}

type Resultado struct {
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Desconto   decimal.Decimal    `json:"desconto"`
	Acrescimos decimal.Decimal    `json:"acrescimos"`
	Juros      decimal.Decimal    `json:"juros"`
	Total      decimal.Decimal    `json:"total"`
	Plano      Plano              `json:"plano"`
	Parcelas   []ParcelaCalculada `json:"parcelas"`
}

// Calcular aplica desconto e acréscimos ao subtotal e divide o total nas
// parcelas. Juros é devolvido como veio e não entra no total.
func Calcular(e Entrada) (Resultado, error) {
	if !e.Subtotal.IsPositive() {
		return Resultado{}, apperr.NovaValidacao("Subtotal deve ser maior que zero")
	}
	if e.Desconto.IsNegative() {
		return Resultado{}, apperr.NovaValidacao("Desconto não pode ser negativo")
	}
	if e.Acrescimos.IsNegative() {
		return Resultado{}, apperr.NovaValidacao("Acréscimo não pode ser negativo")
	}
	if e.Juros.IsNegative() {
		return Resultado{}, apperr.NovaValidacao("Juros não pode ser negativo")
	}
	if !e.Plano.AVista {
		if err := validarQuantidade(e.Plano.Quantidade); err != nil {
			return Resultado{}, err
		}
	}
	if !e.Plano.AVista && e.PrimeiroVencimento == nil {
		return Resultado{}, apperr.NovaValidacao("Data de vencimento é obrigatória para pagamento parcelado")
	}

	total := e.Subtotal.Sub(e.Desconto).Add(e.Acrescimos).Round(2)
	if total.IsNegative() {
		return Resultado{}, apperr.NovaValidacao("Desconto maior que o valor da ordem")
	}

	res := Resultado{
		Subtotal:   e.Subtotal.Round(2),
		Desconto:   e.Desconto.Round(2),
		Acrescimos: e.Acrescimos.Round(2),
		Juros:      e.Juros.Round(2),
		Total:      total,
		Plano:      e.Plano,
	}

	if e.Plano.AVista {
		res.Parcelas = []ParcelaCalculada{{Numero: 1, Valor: total, DataVencimento: e.PrimeiroVencimento}}
		return res, nil
	}

	n := e.Plano.Quantidade
	// toda parcela de um total positivo vale pelo menos um centavo
	if total.IsPositive() && total.LessThan(decimal.New(int64(n), -2)) {
		return Resultado{}, apperr.NovaValidacao("Total de %s não pode ser dividido em %d parcelas", total.StringFixed(2), n)
	}
	valores := Dividir(total, n)
	res.Parcelas = make([]ParcelaCalculada, n)
	for i := 0; i < n; i++ {
		venc := AddMeses(*e.PrimeiroVencimento, i)
		res.Parcelas[i] = ParcelaCalculada{
			Numero:         i + 1,
			TotalParcelas:  &n,
			Valor:          valores[i],
			DataVencimento: &venc,
		}
	}
	return res, nil
}

// Dividir reparte total em n valores arredondados para baixo no centavo; a
// sobra fica na primeira parcela, então a soma bate exatamente com o total.
func Dividir(total decimal.Decimal, n int) []decimal.Decimal {
	if n < 1 {
		return nil
	}
	base := total.Div(decimal.NewFromInt(int64(n))).RoundFloor(2)
	sobra := total.Sub(base.Mul(decimal.NewFromInt(int64(n))))

	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = base
	}
	out[0] = base.Add(sobra)
	return out
}

// AddMeses soma n meses a partir de t; quando o dia não existe no mês de
// destino usa o último dia (31/01 + 1 mês = 28/02).
func AddMeses(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	alvo := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	ultimo := alvo.AddDate(0, 1, -1).Day()
	if d > ultimo {
		d = ultimo
	}
	return time.Date(alvo.Year(), alvo.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
