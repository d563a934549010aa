package db

import (
	"github.com/oficina-mecanica/api-oficina/internal/caixa"
	"github.com/oficina-mecanica/api-oficina/internal/cliente"
	"github.com/oficina-mecanica/api-oficina/internal/despesa"
	"github.com/oficina-mecanica/api-oficina/internal/ordem"
	"github.com/oficina-mecanica/api-oficina/internal/pagamento"
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/oficina-mecanica/api-oficina/internal/usuario"
	"gorm.io/gorm"
)

// Migrar cria/atualiza as tabelas de todos os modelos.
func Migrar(db *gorm.DB) error {
	return db.AutoMigrate(
		&usuario.Usuario{},
		&cliente.Cliente{},
		&ordem.Ordem{},
		&ordem.ItemOrdem{},
		&caixa.Caixa{},
		&despesa.Despesa{},
		&pagamento.Pagamento{},
		&parcela.Parcela{},
		&parcela.HistoricoStatus{},
	)
}
