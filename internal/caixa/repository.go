package caixa

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

func (r *Repository) Create(c *Caixa) error {
	return r.DB.Create(c).Error
}

func (r *Repository) FindByID(id uint) (*Caixa, error) {
	var c Caixa
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// AbertoDoUsuario devolve o caixa aberto do operador, se houver.
func (r *Repository) AbertoDoUsuario(usuarioID uint) (*Caixa, error) {
	var c Caixa
	err := r.DB.Where("usuario_id = ? AND status = ?", usuarioID, StatusAberto).
		Order("id DESC").First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Fechar só altera o caixa se ele ainda estiver aberto.
func (r *Repository) Fechar(c *Caixa) (bool, error) {
	res := r.DB.Model(&Caixa{}).
		Where("id = ? AND status = ?", c.ID, StatusAberto).
		Updates(map[string]interface{}{
			"status":           StatusFechado,
			"valor_fechamento": c.ValorFechamento,
			"observacao":       c.Observacao,
			"fechado_em":       c.FechadoEm,
		})
	return res.RowsAffected > 0, res.Error
}
