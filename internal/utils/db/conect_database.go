package db

import (
	"context"
	"fmt"

	"github.com/oficina-mecanica/api-oficina/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDataBase abre a conexão com o Postgres usando as credenciais do ambiente
// ou, na ausência delas, do Secrets Manager.
func ConnectDataBase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var sslMode string
	if cfg.DBSSLDisable {
		sslMode = " sslmode=disable"
	}
	username, password, err := retrieveCredentials(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("credenciais do banco: %w", err)
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		cfg.DBHost, username, password, cfg.DBName, cfg.DBPort, sslMode)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("abrir conexão: %w", err)
	}
	return database, nil
}
