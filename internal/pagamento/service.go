package pagamento

import (
	"context"
	"errors"
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/auth"
	"github.com/oficina-mecanica/api-oficina/internal/caixa"
	"github.com/oficina-mecanica/api-oficina/internal/notificacao"
	"github.com/oficina-mecanica/api-oficina/internal/ordem"
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	Repo     *Repository
	Ordens   *ordem.Repository
	Caixas   *caixa.Repository
	Parcelas *parcela.Repository
	Pub      notificacao.Publicador
	Log      *zap.Logger
	Agora    func() time.Time
}

func NewService(db *gorm.DB, pub notificacao.Publicador, log *zap.Logger) *Service {
	if pub == nil {
		pub = notificacao.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Repo:     NewRepository(db),
		Ordens:   ordem.NewRepository(db),
		Caixas:   caixa.NewRepository(db),
		Parcelas: parcela.NewRepository(db),
		Pub:      pub,
		Log:      log,
		Agora:    time.Now,
	}
}

// Registro é o pedido de pagamento de uma ordem.
type Registro struct {
	FormaPagamento     parcela.FormaPagamento
	Plano              Plano
	Desconto           decimal.Decimal
	Acrescimos         decimal.Decimal
	Juros              decimal.Decimal
	PrimeiroVencimento *time.Time
	ValorSubtotal      decimal.Decimal // zero = usa o subtotal da ordem
	CaixaID            *uint
	UsuarioID          uint
	Gerar              bool
}

// Simular roda o cálculo sem gravar nada.
func (s *Service) Simular(in Registro) (Resultado, error) {
	return Calcular(s.entrada(in, in.ValorSubtotal))
}

func (s *Service) entrada(in Registro, subtotal decimal.Decimal) Entrada {
	e := Entrada{
		Subtotal:   subtotal,
		Desconto:   in.Desconto,
		Acrescimos: in.Acrescimos,
		Juros:      in.Juros,
		Plano:      in.Plano,
	}
	if in.PrimeiroVencimento != nil {
		d := parcela.Dia(*in.PrimeiroVencimento)
		e.PrimeiroVencimento = &d
	}
	return e
}

// statusInicial segue o fluxo do painel:
// gerar -> gerado; à vista sem vencimento -> pago na hora; demais -> pendente.
func statusInicial(in Registro) parcela.Status {
	switch {
	case in.Gerar:
		return parcela.StatusGerado
	case in.Plano.AVista && in.PrimeiroVencimento == nil:
		return parcela.StatusPago
	default:
		return parcela.StatusPendente
	}
}

// Registrar calcula e grava o pagamento com as parcelas em uma única transação.
// Cada ordem aceita um único pagamento.
func (s *Service) Registrar(ctx context.Context, ordemID uint, in Registro, sessao auth.Sessao) (*Pagamento, error) {
	if !in.FormaPagamento.Valida() {
		return nil, apperr.NovaValidacao("Forma de pagamento '%s' inválida", in.FormaPagamento)
	}
	if in.Gerar && in.PrimeiroVencimento == nil {
		return nil, apperr.NovaValidacao("Data de vencimento é obrigatória para gerar cobrança")
	}
	if in.ValorSubtotal.IsNegative() {
		return nil, apperr.NovaValidacao("Subtotal deve ser maior que zero")
	}

	caixaID := in.CaixaID
	if caixaID == nil {
		caixaID = sessao.CaixaID
	}
	usuario := in.UsuarioID
	if usuario == 0 {
		usuario = sessao.UsuarioID
	}

	var pag *Pagamento
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.Ordens.WithDB(tx).FindByID(ordemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NovoNaoEncontrado("Ordem %d não encontrada", ordemID)
			}
			return err
		}
		if o.Cancelada() {
			return apperr.NovoConflito("Ordem %d está cancelada", ordemID)
		}
		// as parcelas da ordem somam o total dela, então só cabe um pagamento
		existe, err := s.Repo.WithDB(tx).ExisteParaOrdem(ordemID)
		if err != nil {
			return err
		}
		if existe {
			return apperr.NovoConflito("Ordem %d já possui pagamento registrado", ordemID)
		}

		subtotal, err := conferirSubtotal(o, in.ValorSubtotal)
		if err != nil {
			return err
		}

		if caixaID != nil {
			c, err := s.Caixas.WithDB(tx).FindByID(*caixaID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NovoNaoEncontrado("Caixa %d não encontrado", *caixaID)
				}
				return err
			}
			if !c.Aberto() {
				return apperr.NovoConflito("Caixa %d está fechado", *caixaID)
			}
		}

		res, err := Calcular(s.entrada(in, subtotal))
		if err != nil {
			return err
		}

		pag = s.montar(o.ID, in, res, caixaID, usuario)
		if err := s.Repo.WithDB(tx).Create(pag); err != nil {
			return err
		}
		if err := s.Ordens.WithDB(tx).AtualizarFinanceiro(o.ID, res.Desconto, res.Acrescimos); err != nil {
			return err
		}

		historico := make([]parcela.HistoricoStatus, len(pag.Parcelas))
		for i, p := range pag.Parcelas {
			historico[i] = parcela.HistoricoStatus{
				ParcelaID:     p.ID,
				Para:          p.Status,
				UsuarioID:     p.UsuarioID,
				DataPagamento: p.DataPagamento,
			}
		}
		return s.Parcelas.WithDB(tx).CriarHistorico(historico...)
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("pagamento registrado",
		zap.Uint("pagamento_id", pag.ID),
		zap.Uint("ordem_id", ordemID),
		zap.String("total", pag.Total.StringFixed(2)),
		zap.Int("parcelas", len(pag.Parcelas)))
	for _, p := range pag.Parcelas {
		s.Pub.Publicar(parcela.Evento(notificacao.ParcelaCriada, p))
	}
	return pag, nil
}

// conferirSubtotal usa o subtotal dos itens ativos; quando o cliente envia
// valor_subtotal ele precisa bater com o da ordem. Ordem sem itens aceita o
// valor informado.
func conferirSubtotal(o *ordem.Ordem, informado decimal.Decimal) (decimal.Decimal, error) {
	calculado := o.CalcularSubtotal()
	temItens := false
	for _, it := range o.Itens {
		if it.Ativo {
			temItens = true
			break
		}
	}
	if !temItens {
		return informado, nil
	}
	if informado.IsZero() {
		return calculado, nil
	}
	if !informado.Round(2).Equal(calculado.Round(2)) {
		return decimal.Zero, apperr.NovaValidacao("Subtotal informado (%s) difere do subtotal da ordem (%s)",
			informado.StringFixed(2), calculado.StringFixed(2))
	}
	return calculado, nil
}

func (s *Service) montar(ordemID uint, in Registro, res Resultado, caixaID *uint, usuario uint) *Pagamento {
	pag := &Pagamento{
		OrdemID:            ordemID,
		FormaPagamento:     in.FormaPagamento,
		Subtotal:           res.Subtotal,
		Desconto:           res.Desconto,
		Acrescimos:         res.Acrescimos,
		Juros:              res.Juros,
		Total:              res.Total,
		AVista:             res.Plano.AVista,
		QuantidadeParcelas: len(res.Parcelas),
		CaixaID:            caixaID,
	}
	if usuario > 0 {
		pag.UsuarioID = &usuario
	}

	status := statusInicial(in)
	var pagoEm *time.Time
	if status == parcela.StatusPago {
		d := parcela.Dia(s.Agora())
		pagoEm = &d
	}
	// juros vai só na primeira parcela, apenas para registro
	jurosPorParcela := make([]decimal.Decimal, len(res.Parcelas))
	for i := range jurosPorParcela {
		jurosPorParcela[i] = decimal.Zero
	}
	if len(jurosPorParcela) > 0 {
		jurosPorParcela[0] = res.Juros
	}

	pag.Parcelas = make([]parcela.Parcela, len(res.Parcelas))
	for i, pc := range res.Parcelas {
		pag.Parcelas[i] = parcela.Parcela{
			OrdemID:        ordemID,
			CaixaID:        caixaID,
			NumeroParcela:  pc.Numero,
			TotalParcelas:  pc.TotalParcelas,
			Valor:          pc.Valor,
			Juros:          jurosPorParcela[i],
			FormaPagamento: in.FormaPagamento,
			Status:         status,
			DataVencimento: pc.DataVencimento,
			DataPagamento:  pagoEm,
			UsuarioID:      pag.UsuarioID,
			Versao:         1,
		}
	}
	return pag
}

// Listar devolve os pagamentos da ordem com o status das parcelas como visto hoje.
func (s *Service) Listar(ctx context.Context, ordemID uint) ([]Pagamento, error) {
	db := s.Repo.DB.WithContext(ctx)
	if _, err := s.Ordens.WithDB(db).FindByID(ordemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NovoNaoEncontrado("Ordem %d não encontrada", ordemID)
		}
		return nil, err
	}
	pagamentos, err := s.Repo.WithDB(db).ListByOrdem(ordemID)
	if err != nil {
		return nil, err
	}
	hoje := parcela.Dia(s.Agora())
	for i := range pagamentos {
		for j := range pagamentos[i].Parcelas {
			p := &pagamentos[i].Parcelas[j]
			p.Status = parcela.Observar(*p, hoje)
		}
	}
	return pagamentos, nil
}
