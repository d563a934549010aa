package cliente

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, c *Cliente) error
	Listar(db *gorm.DB, busca string) ([]Cliente, error)
	BuscarPorID(db *gorm.DB, id uint) (*Cliente, error)
	BuscarPorDocumento(db *gorm.DB, documento string) (*Cliente, error)
	Atualizar(db *gorm.DB, c *Cliente) error
	Remover(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, c *Cliente) error {
	return db.Create(c).Error
}

// Listar filtra por nome (sem diferenciar maiúsculas) ou documento.
func (r *repositoryImpl) Listar(db *gorm.DB, busca string) ([]Cliente, error) {
	clientes := []Cliente{}
	q := db.Order("nome ASC")
	if busca = strings.TrimSpace(busca); busca != "" {
		q = q.Where("LOWER(nome) LIKE ? OR documento = ?", "%"+strings.ToLower(busca)+"%", busca)
	}
	err := q.Find(&clientes).Error
	return clientes, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Cliente, error) {
	var c Cliente
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) BuscarPorDocumento(db *gorm.DB, documento string) (*Cliente, error) {
	var c Cliente
	if err := db.Where("documento = ?", documento).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, c *Cliente) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	res := db.Delete(&Cliente{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
