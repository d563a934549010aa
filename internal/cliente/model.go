package cliente

import "gorm.io/gorm"

type Cliente struct {
	gorm.Model
	Nome      string `gorm:"size:150;not null" json:"nome"`
	Documento string `gorm:"size:14;index" json:"documento"`
	Telefone  string `gorm:"size:20" json:"telefone"`
	Email     string `gorm:"size:150" json:"email"`
	Endereco  string `json:"endereco"`
}
