package usuario

import "gorm.io/gorm"

// Usuario opera o caixa e altera parcelas.
type Usuario struct {
	gorm.Model
	Nome    string `gorm:"size:120;not null" json:"nome"`
	Email   string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Senha   string `json:"-"`
	IsAdmin bool   `json:"is_admin"`
	Ativo   bool   `gorm:"not null;default:true" json:"ativo"`
}
