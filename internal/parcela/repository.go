// internal/parcela/repository.go
package parcela

import (
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de parcelas.
type Repository struct {
	DB *gorm.DB
}

// NewRepository instancia um novo repositório.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB retorna uma cópia do repo usando um *gorm.DB específico (ex.: tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

/* ========================= Leitura ========================= */

// FindByID busca uma única parcela pelo seu ID.
func (r *Repository) FindByID(id uint) (*Parcela, error) {
	var p Parcela
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List aplica o filtro e ordena por vencimento.
func (r *Repository) List(f Filtro) ([]Parcela, error) {
	q := r.DB.Model(&Parcela{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.CaixaID != nil {
		q = q.Where("caixa_id = ?", *f.CaixaID)
	}
	if f.OrdemID != nil {
		q = q.Where("ordem_id = ?", *f.OrdemID)
	}
	parcelas := []Parcela{}
	err := q.Order("data_vencimento ASC").Order("ordem_id ASC").Order("numero_parcela ASC").
		Find(&parcelas).Error
	return parcelas, err
}

// ListPagasNoCaixa devolve as parcelas pagas vinculadas ao caixa.
func (r *Repository) ListPagasNoCaixa(caixaID uint) ([]Parcela, error) {
	st := StatusPago
	return r.List(Filtro{Status: &st, CaixaID: &caixaID})
}

// ListByOrdemEStatus lista as parcelas de uma ordem em um status.
func (r *Repository) ListByOrdemEStatus(ordemID uint, status Status) ([]Parcela, error) {
	return r.List(Filtro{Status: &status, OrdemID: &ordemID})
}

// Historico lista as mudanças de status da parcela, da mais antiga para a mais nova.
func (r *Repository) Historico(parcelaID uint) ([]HistoricoStatus, error) {
	hs := []HistoricoStatus{}
	err := r.DB.Where("parcela_id = ?", parcelaID).Order("id ASC").Find(&hs).Error
	return hs, err
}

/* ========================= Escrita ========================= */

// CreateInBatch cria múltiplas parcelas de uma vez (ignora se vazio).
func (r *Repository) CreateInBatch(parcelas []*Parcela) error {
	if len(parcelas) == 0 {
		return nil
	}
	return r.DB.Create(parcelas).Error
}

// AtualizarStatus grava status, data_pagamento, caixa e usuário se a versão
// no banco ainda for versaoLida; caso contrário devolve conflito.
func (r *Repository) AtualizarStatus(p *Parcela, versaoLida int) error {
	res := r.DB.Model(&Parcela{}).
		Where("id = ? AND versao = ?", p.ID, versaoLida).
		Updates(map[string]interface{}{
			"status":         p.Status,
			"data_pagamento": p.DataPagamento,
			"caixa_id":       p.CaixaID,
			"usuario_id":     p.UsuarioID,
			"versao":         gorm.Expr("versao + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NovoConflito("Parcela %d foi alterada por outro usuário, recarregue a lista", p.ID)
	}
	p.Versao = versaoLida + 1
	return nil
}

// MarcarVencidas troca pendente -> vencido para tudo que venceu antes de hoje
// e devolve as parcelas alteradas.
func (r *Repository) MarcarVencidas(hoje time.Time) ([]Parcela, error) {
	var vencidas []Parcela
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status = ? AND data_vencimento IS NOT NULL AND data_vencimento < ?", StatusPendente, hoje).
			Find(&vencidas).Error; err != nil {
			return err
		}
		if len(vencidas) == 0 {
			return nil
		}

		ids := make([]uint, len(vencidas))
		historico := make([]HistoricoStatus, len(vencidas))
		for i := range vencidas {
			ids[i] = vencidas[i].ID
			historico[i] = HistoricoStatus{ParcelaID: vencidas[i].ID, De: StatusPendente, Para: StatusVencido}
			vencidas[i].Status = StatusVencido
			vencidas[i].Versao++
		}
		if err := tx.Model(&Parcela{}).
			Where("id IN ? AND status = ?", ids, StatusPendente).
			Updates(map[string]interface{}{
				"status": StatusVencido,
				"versao": gorm.Expr("versao + 1"),
			}).Error; err != nil {
			return err
		}
		return tx.Create(&historico).Error
	})
	return vencidas, err
}

// CriarHistorico acrescenta entradas ao histórico de status.
func (r *Repository) CriarHistorico(hs ...HistoricoStatus) error {
	if len(hs) == 0 {
		return nil
	}
	return r.DB.Create(&hs).Error
}
