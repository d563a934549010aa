package despesa

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, d *Despesa) error
	ListarPorCaixa(db *gorm.DB, caixaID *uint) ([]Despesa, error)
	BuscarPorID(db *gorm.DB, id uint) (*Despesa, error)
	Remover(db *gorm.DB, id uint) error
	TotalDoCaixa(db *gorm.DB, caixaID uint) (decimal.Decimal, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, d *Despesa) error {
	return db.Create(d).Error
}

func (r *repositoryImpl) ListarPorCaixa(db *gorm.DB, caixaID *uint) ([]Despesa, error) {
	despesas := []Despesa{}
	q := db.Order("id ASC")
	if caixaID != nil {
		q = q.Where("caixa_id = ?", *caixaID)
	}
	err := q.Find(&despesas).Error
	return despesas, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Despesa, error) {
	var d Despesa
	if err := db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	return db.Delete(&Despesa{}, id).Error
}

// TotalDoCaixa soma em memória para não depender do tipo numérico do driver.
func (r *repositoryImpl) TotalDoCaixa(db *gorm.DB, caixaID uint) (decimal.Decimal, error) {
	despesas, err := r.ListarPorCaixa(db, &caixaID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, d := range despesas {
		total = total.Add(d.Valor)
	}
	return total, nil
}
