package parcela

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/auth"
	"github.com/oficina-mecanica/api-oficina/internal/notificacao"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service concentra as regras de status das parcelas.
type Service struct {
	Repo  *Repository
	Pub   notificacao.Publicador
	Log   *zap.Logger
	Agora func() time.Time
}

func NewService(repo *Repository, pub notificacao.Publicador, log *zap.Logger) *Service {
	if pub == nil {
		pub = notificacao.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Repo: repo, Pub: pub, Log: log, Agora: time.Now}
}

func (s *Service) hoje() time.Time { return Dia(s.Agora()) }

func (s *Service) repo(ctx context.Context) *Repository {
	return s.Repo.WithDB(s.Repo.DB.WithContext(ctx))
}

func naoEncontrada(id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NovoNaoEncontrado("Parcela %d não encontrada", id)
	}
	return err
}

// AtualizarVencidas marca como vencidas as parcelas pendentes com vencimento
// anterior a hoje. Roda antes de cada leitura e pelo job periódico.
func (s *Service) AtualizarVencidas(ctx context.Context) (int, error) {
	vencidas, err := s.repo(ctx).MarcarVencidas(s.hoje())
	if err != nil {
		return 0, fmt.Errorf("marcar parcelas vencidas: %w", err)
	}
	for _, p := range vencidas {
		s.publicar(notificacao.ParcelaAtualizada, p)
	}
	return len(vencidas), nil
}

// Listar devolve as parcelas do filtro nomeado (ver filtro.go).
func (s *Service) Listar(ctx context.Context, nomeFiltro string, caixaID, ordemID *uint) ([]Parcela, error) {
	status, err := StatusDoFiltro(nomeFiltro)
	if err != nil {
		return nil, err
	}
	if _, err := s.AtualizarVencidas(ctx); err != nil {
		return nil, err
	}
	return s.repo(ctx).List(Filtro{Status: status, CaixaID: caixaID, OrdemID: ordemID})
}

func (s *Service) Buscar(ctx context.Context, id uint) (*Parcela, error) {
	p, err := s.repo(ctx).FindByID(id)
	if err != nil {
		return nil, naoEncontrada(id, err)
	}
	p.Status = Observar(*p, s.hoje())
	return p, nil
}

func (s *Service) Historico(ctx context.Context, id uint) ([]HistoricoStatus, error) {
	if _, err := s.repo(ctx).FindByID(id); err != nil {
		return nil, naoEncontrada(id, err)
	}
	return s.repo(ctx).Historico(id)
}

// AtualizacaoStatus é o pedido de marcar/desmarcar uma parcela como paga.
type AtualizacaoStatus struct {
	Status        Status
	UsuarioID     uint
	DataPagamento *time.Time
	Versao        *int
}

// AtualizarStatus aplica o toggle do usuário. Repetir o status atual não
// altera nada.
func (s *Service) AtualizarStatus(ctx context.Context, id uint, in AtualizacaoStatus, sessao auth.Sessao) (*Parcela, error) {
	var (
		p     *Parcela
		mudou bool
	)
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithDB(tx)

		var err error
		p, err = repo.FindByID(id)
		if err != nil {
			return naoEncontrada(id, err)
		}
		if in.Versao != nil && *in.Versao != p.Versao {
			return apperr.NovoConflito("Parcela %d foi alterada por outro usuário, recarregue a lista", id)
		}

		versaoLida := p.Versao
		gravado := p.Status
		de := Observar(*p, s.hoje())
		p.Status = de

		pagoEm := s.Agora()
		if in.DataPagamento != nil {
			pagoEm = *in.DataPagamento
		}
		mudou, err = Alternar(p, in.Status, pagoEm)
		if err != nil || !mudou {
			return err
		}

		usuario := in.UsuarioID
		if usuario == 0 {
			usuario = sessao.UsuarioID
		}
		if usuario > 0 {
			p.UsuarioID = &usuario
		}
		if p.Status == StatusPago && sessao.CaixaID != nil {
			p.CaixaID = sessao.CaixaID
		}

		if err := repo.AtualizarStatus(p, versaoLida); err != nil {
			return err
		}
		// vencimento ainda não gravado pelo job entra no histórico antes do toggle
		var historico []HistoricoStatus
		if gravado != de {
			historico = append(historico, HistoricoStatus{ParcelaID: p.ID, De: gravado, Para: de})
		}
		historico = append(historico, HistoricoStatus{
			ParcelaID:     p.ID,
			De:            de,
			Para:          p.Status,
			UsuarioID:     p.UsuarioID,
			DataPagamento: p.DataPagamento,
		})
		return repo.CriarHistorico(historico...)
	})
	if err != nil {
		return nil, err
	}

	if mudou {
		s.Log.Info("status da parcela alterado",
			zap.Uint("parcela_id", p.ID), zap.String("status", string(p.Status)), zap.Uint("ordem_id", p.OrdemID))
		s.publicar(notificacao.ParcelaAtualizada, *p)
	}
	p.Status = Observar(*p, s.hoje())
	return p, nil
}

// FinalizarPlano libera para cobrança (gerado -> pendente) as parcelas geradas da ordem.
func (s *Service) FinalizarPlano(ctx context.Context, ordemID uint, sessao auth.Sessao) ([]Parcela, error) {
	var liberadas []Parcela
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithDB(tx)

		geradas, err := repo.ListByOrdemEStatus(ordemID, StatusGerado)
		if err != nil {
			return err
		}
		if len(geradas) == 0 {
			return apperr.NovoConflito("Ordem %d não possui parcelas geradas", ordemID)
		}

		var usuario *uint
		if sessao.UsuarioID > 0 {
			usuario = &sessao.UsuarioID
		}
		for i := range geradas {
			p := &geradas[i]
			versaoLida := p.Versao
			if err := Liberar(p); err != nil {
				return err
			}
			p.UsuarioID = usuario
			if err := repo.AtualizarStatus(p, versaoLida); err != nil {
				return err
			}
			if err := repo.CriarHistorico(HistoricoStatus{ParcelaID: p.ID, De: StatusGerado, Para: StatusPendente, UsuarioID: usuario}); err != nil {
				return err
			}
		}
		liberadas = geradas
		return nil
	})
	if err != nil {
		return nil, err
	}

	hoje := s.hoje()
	for i := range liberadas {
		s.publicar(notificacao.ParcelaAtualizada, liberadas[i])
		liberadas[i].Status = Observar(liberadas[i], hoje)
	}
	return liberadas, nil
}

func (s *Service) publicar(tipo notificacao.TipoEvento, p Parcela) {
	s.Pub.Publicar(Evento(tipo, p))
}

// Evento monta a notificação de uma parcela.
func Evento(tipo notificacao.TipoEvento, p Parcela) notificacao.Evento {
	return notificacao.Evento{
		Tipo:      tipo,
		ParcelaID: p.ID,
		OrdemID:   p.OrdemID,
		Status:    string(p.Status),
		CaixaID:   p.CaixaID,
	}
}
