package pagamento

import "gorm.io/gorm"

type Repository struct {
	DB *gorm.DB
}

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

// Create grava o pagamento junto com as parcelas.
func (r *Repository) Create(p *Pagamento) error {
	return r.DB.Create(p).Error
}

// ExisteParaOrdem diz se a ordem já tem pagamento registrado.
func (r *Repository) ExisteParaOrdem(ordemID uint) (bool, error) {
	var n int64
	if err := r.DB.Model(&Pagamento{}).Where("ordem_id = ?", ordemID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByOrdem devolve os pagamentos da ordem com as parcelas em ordem.
func (r *Repository) ListByOrdem(ordemID uint) ([]Pagamento, error) {
	pagamentos := []Pagamento{}
	err := r.DB.Preload("Parcelas", func(db *gorm.DB) *gorm.DB {
		return db.Order("numero_parcela ASC")
	}).Where("ordem_id = ?", ordemID).Order("id ASC").Find(&pagamentos).Error
	return pagamentos, err
}
