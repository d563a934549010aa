package caixa

import (
	"context"
	"errors"
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/despesa"
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	Repo     *Repository
	Parcelas *parcela.Repository
	Despesas despesa.Repository
	Log      *zap.Logger
	Agora    func() time.Time
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Repo:     NewRepository(db),
		Parcelas: parcela.NewRepository(db),
		Despesas: despesa.NewRepository(),
		Log:      log,
		Agora:    time.Now,
	}
}

func (s *Service) db(ctx context.Context) *gorm.DB {
	return s.Repo.DB.WithContext(ctx)
}

func naoEncontrado(id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NovoNaoEncontrado("Caixa %d não encontrado", id)
	}
	return err
}

// Abrir inicia um caixa para o operador; cada operador tem no máximo um aberto.
func (s *Service) Abrir(ctx context.Context, usuarioID uint, valorAbertura decimal.Decimal) (*Caixa, error) {
	if usuarioID == 0 {
		return nil, apperr.NovaValidacao("Informe o usuário do caixa")
	}
	if valorAbertura.IsNegative() {
		return nil, apperr.NovaValidacao("Valor de abertura não pode ser negativo")
	}

	var c *Caixa
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithDB(tx)
		aberto, err := repo.AbertoDoUsuario(usuarioID)
		if err == nil {
			return apperr.NovoConflito("Usuário %d já possui o caixa %d aberto", usuarioID, aberto.ID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		c = &Caixa{
			UsuarioID:     usuarioID,
			Status:        StatusAberto,
			ValorAbertura: valorAbertura.Round(2),
			AbertoEm:      s.Agora(),
		}
		return repo.Create(c)
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("caixa aberto", zap.Uint("caixa_id", c.ID), zap.Uint("usuario_id", usuarioID))
	return c, nil
}

// Atual devolve o caixa aberto do operador.
func (s *Service) Atual(ctx context.Context, usuarioID uint) (*Caixa, error) {
	c, err := s.Repo.WithDB(s.db(ctx)).AbertoDoUsuario(usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NovoNaoEncontrado("Nenhum caixa aberto para o usuário %d", usuarioID)
	}
	return c, err
}

func (s *Service) VerificarAberto(ctx context.Context, caixaID uint) error {
	c, err := s.Repo.WithDB(s.db(ctx)).FindByID(caixaID)
	if err != nil {
		return naoEncontrado(caixaID, err)
	}
	if !c.Aberto() {
		return apperr.NovoConflito("Caixa %d está fechado", caixaID)
	}
	return nil
}

// Fechar encerra o caixa com o valor contado pelo operador.
func (s *Service) Fechar(ctx context.Context, id uint, valorDeclarado decimal.Decimal, observacao string) (*Resumo, error) {
	if valorDeclarado.IsNegative() {
		return nil, apperr.NovaValidacao("Valor de fechamento não pode ser negativo")
	}
	repo := s.Repo.WithDB(s.db(ctx))
	c, err := repo.FindByID(id)
	if err != nil {
		return nil, naoEncontrado(id, err)
	}
	if !c.Aberto() {
		return nil, apperr.NovoConflito("Caixa %d já está fechado", id)
	}

	agora := s.Agora()
	v := valorDeclarado.Round(2)
	c.ValorFechamento = &v
	c.Observacao = observacao
	c.FechadoEm = &agora
	ok, err := repo.Fechar(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NovoConflito("Caixa %d já está fechado", id)
	}

	r, err := s.Resumo(ctx, id)
	if err != nil {
		return nil, err
	}
	campos := []zap.Field{zap.Uint("caixa_id", id), zap.String("esperado", r.DinheiroEsperado.StringFixed(2))}
	if r.Diferenca != nil && !r.Diferenca.IsZero() {
		s.Log.Warn("caixa fechado com diferença", append(campos, zap.String("diferenca", r.Diferenca.StringFixed(2)))...)
	} else {
		s.Log.Info("caixa fechado", campos...)
	}
	return r, nil
}

// Resumo soma as parcelas pagas no caixa por forma de pagamento e desconta as
// despesas do dinheiro esperado em gaveta.
func (s *Service) Resumo(ctx context.Context, id uint) (*Resumo, error) {
	db := s.db(ctx)
	c, err := s.Repo.WithDB(db).FindByID(id)
	if err != nil {
		return nil, naoEncontrado(id, err)
	}
	pagas, err := s.Parcelas.WithDB(db).ListPagasNoCaixa(id)
	if err != nil {
		return nil, err
	}
	despesas, err := s.Despesas.TotalDoCaixa(db, id)
	if err != nil {
		return nil, err
	}

	r := &Resumo{
		CaixaID:         c.ID,
		Status:          c.Status,
		ValorAbertura:   c.ValorAbertura,
		Recebido:        decimal.Zero,
		PorForma:        map[string]decimal.Decimal{},
		QtdParcelas:     len(pagas),
		Despesas:        despesas,
		ValorFechamento: c.ValorFechamento,
	}
	for _, f := range parcela.FormasPagamento {
		r.PorForma[string(f)] = decimal.Zero
	}
	for _, p := range pagas {
		forma := string(p.FormaPagamento)
		r.PorForma[forma] = r.PorForma[forma].Add(p.Valor)
		r.Recebido = r.Recebido.Add(p.Valor)
	}
	r.DinheiroEsperado = c.ValorAbertura.Add(r.PorForma[string(parcela.Dinheiro)]).Sub(despesas)
	if c.ValorFechamento != nil {
		dif := c.ValorFechamento.Sub(r.DinheiroEsperado)
		r.Diferenca = &dif
	}
	return r, nil
}
