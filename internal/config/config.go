package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config reúne as variáveis de ambiente usadas pela API.
type Config struct {
	Porta    string
	Ambiente string

	DBHost       string
	DBPort       uint
	DBName       string
	DBUsername   string
	DBPassword   string
	DBSecretID   string
	DBSSLDisable bool

	CorsOrigins    []string
	WebhookURL     string
	VencimentoCron string

	AuthChavePrivada string
	AuthKID          string
	AuthIssuer       string
	AuthAudience     string

	AdminEmail string
	AdminSenha string
}

// Load carrega o .env (se existir) e lê o ambiente.
func Load() (*Config, error) {
	// .env é opcional: em produção as variáveis vêm do sistema
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return FromEnv(), nil
}

func FromEnv() *Config {
	return &Config{
		Porta:    getEnv("PORT", "8080"),
		Ambiente: getEnv("APP_ENV", "development"),

		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       uint(getEnvInt("DB_PORT", 5432)),
		DBName:       getEnv("DB_NAME", "oficina"),
		DBUsername:   os.Getenv("DB_USERNAME"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBSecretID:   os.Getenv("DB_SECRET_ID"),
		DBSSLDisable: getEnvBool("DB_SSL_MODE_DISABLE", false),

		CorsOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		VencimentoCron: getEnv("VENCIMENTO_CRON", "@every 1h"),

		AuthChavePrivada: os.Getenv("AUTH_RSA_PRIVATE_PATH"),
		AuthKID:          os.Getenv("AUTH_KID"),
		AuthIssuer:       os.Getenv("AUTH_ISSUER"),
		AuthAudience:     os.Getenv("AUTH_AUDIENCE"),

		AdminEmail: os.Getenv("ADMIN_EMAIL"),
		AdminSenha: os.Getenv("ADMIN_PASSWORD"),
	}
}

func (c *Config) Producao() bool { return c.Ambiente == "production" }

// AuthHabilitada indica se as rotas /api exigem token.
func (c *Config) AuthHabilitada() bool { return c.AuthChavePrivada != "" }

// NewLogger monta o zap.Logger conforme o ambiente.
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.Producao() {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
