package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/oficina-mecanica/api-oficina/internal/config"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func retrieveCredentials(ctx context.Context, cfg *config.Config) (string, string, error) {
	if cfg.DBUsername != "" && cfg.DBPassword != "" {
		return cfg.DBUsername, cfg.DBPassword, nil
	}
	if cfg.DBSecretID == "" {
		return "", "", errors.New("defina DB_USERNAME/DB_PASSWORD ou DB_SECRET_ID")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", "", err
	}
	secrets := secretsmanager.NewFromConfig(awsCfg)

	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(cfg.DBSecretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", err
	}
	return parseCredentials(aws.ToString(result.SecretString))
}

func parseCredentials(secret string) (string, string, error) {
	var c Credentials
	if err := json.Unmarshal([]byte(secret), &c); err != nil {
		return "", "", err
	}
	if c.Username == "" || c.Password == "" {
		return "", "", errors.New("segredo sem username/password")
	}
	return c.Username, c.Password, nil
}
