package usuario

import (
	"context"
	"errors"
	"strings"

	"github.com/oficina-mecanica/api-oficina/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedAdmin cria o administrador inicial se o e-mail ainda não existir.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, senha string, log *zap.Logger) error {
	if email == "" || senha == "" {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	email = strings.ToLower(strings.TrimSpace(email))
	repo := NewRepository()
	db = db.WithContext(ctx)
	if _, err := repo.BuscarPorEmail(db, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashSenha(senha)
	if err != nil {
		return err
	}
	u := Usuario{Nome: "Administrador", Email: email, Senha: hash, IsAdmin: true, Ativo: true}
	if err := repo.Salvar(db, &u); err != nil {
		return err
	}
	log.Info("usuário administrador criado", zap.String("email", u.Email))
	return nil
}
