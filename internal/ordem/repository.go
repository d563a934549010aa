// internal/ordem/repository.go
package ordem

import (
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository encapsula o acesso a ordens de serviço e seus itens.
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

func (r *Repository) Create(o *Ordem) error {
	if err := r.DB.Create(o).Error; err != nil {
		return err
	}
	o.PreencherTotais()
	return nil
}

// FindByID carrega a ordem com itens e totais.
func (r *Repository) FindByID(id uint) (*Ordem, error) {
	var o Ordem
	if err := r.DB.Preload("Itens", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&o, id).Error; err != nil {
		return nil, err
	}
	o.PreencherTotais()
	return &o, nil
}

type Filtro struct {
	Status    string
	ClienteID *uint
	Placa     string
}

func (r *Repository) List(f Filtro) ([]Ordem, error) {
	q := r.DB.Preload("Itens")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClienteID != nil {
		q = q.Where("cliente_id = ?", *f.ClienteID)
	}
	if f.Placa != "" {
		q = q.Where("placa = ?", f.Placa)
	}
	ordens := []Ordem{}
	if err := q.Order("id DESC").Find(&ordens).Error; err != nil {
		return nil, err
	}
	for i := range ordens {
		ordens[i].PreencherTotais()
	}
	return ordens, nil
}

// Update grava os campos editáveis do cabeçalho (itens têm rotas próprias).
func (r *Repository) Update(o *Ordem) error {
	return r.DB.Model(o).Select("cliente_id", "veiculo", "placa", "descricao", "status").Updates(o).Error
}

// AtualizarFinanceiro grava o desconto e os acréscimos usados no pagamento.
func (r *Repository) AtualizarFinanceiro(id uint, desconto, acrescimos decimal.Decimal) error {
	return r.DB.Model(&Ordem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"desconto":   desconto,
		"acrescimos": acrescimos,
	}).Error
}

func (r *Repository) AddItem(item *ItemOrdem) error {
	return r.DB.Create(item).Error
}

// DesativarItem retira o item do subtotal; retorna gorm.ErrRecordNotFound se não existir.
func (r *Repository) DesativarItem(ordemID, itemID uint) error {
	res := r.DB.Model(&ItemOrdem{}).
		Where("id = ? AND ordem_id = ?", itemID, ordemID).
		Update("ativo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ContarParcelas conta as parcelas da ordem; com status informados, só as que estão neles.
func (r *Repository) ContarParcelas(ordemID uint, status ...parcela.Status) (int64, error) {
	q := r.DB.Model(&parcela.Parcela{}).Where("ordem_id = ?", ordemID)
	if len(status) > 0 {
		q = q.Where("status IN ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
