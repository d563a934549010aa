package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/auth"
	"github.com/oficina-mecanica/api-oficina/internal/config"
	"github.com/oficina-mecanica/api-oficina/internal/notificacao"
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/oficina-mecanica/api-oficina/internal/routes"
	"github.com/oficina-mecanica/api-oficina/internal/usuario"
	"github.com/oficina-mecanica/api-oficina/internal/utils/db"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Erro ao carregar configuração:", err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatal("Erro ao criar logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("servidor encerrado com erro", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// valores monetários saem como número no JSON
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.ConnectDataBase(ctx, cfg)
	if err != nil {
		return err
	}

	// AutoMigrate para todos os modelos
	if err := db.Migrar(database); err != nil {
		return err
	}
	if err := usuario.SeedAdmin(ctx, database, cfg.AdminEmail, cfg.AdminSenha, logger); err != nil {
		return err
	}

	// Notificações
	broker := notificacao.NewBroker(64, logger)
	defer broker.Encerrar()
	logCh, _ := broker.Inscrever()
	go notificacao.Registrar(logCh, logger)
	if cfg.WebhookURL != "" {
		whCh, _ := broker.Inscrever()
		go notificacao.NewWebhook(cfg.WebhookURL, logger).Consumir(whCh)
	}

	svc := routes.NovosServicos(database, broker, logger)

	var emissor *auth.Emissor
	if cfg.AuthHabilitada() {
		emissor, err = auth.NewEmissor(cfg)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("AUTH_RSA_PRIVATE_PATH vazio: rotas /api sem autenticação")
	}

	job, err := parcela.IniciarJobVencimento(svc.Parcelas, cfg.VencimentoCron, logger)
	if err != nil {
		return err
	}
	defer job.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Porta,
		Handler:           routes.Setup(database, svc, routes.Opcoes{Emissor: emissor, CorsOrigins: cfg.CorsOrigins}, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	erros := make(chan error, 1)
	go func() {
		logger.Info("servidor rodando", zap.String("porta", cfg.Porta), zap.String("ambiente", cfg.Ambiente))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			erros <- err
		}
		close(erros)
	}()

	select {
	case err := <-erros:
		return err
	case <-ctx.Done():
	}

	logger.Info("encerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
