package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oficina-mecanica/api-oficina/internal/config"
)

// Emissor assina e valida os access tokens da API.
type Emissor struct {
	priv     *rsa.PrivateKey
	pubKeys  map[string]*rsa.PublicKey // kid -> pub
	kid      string
	issuer   string
	audience string
}

func NewEmissor(cfg *config.Config) (*Emissor, error) {
	if cfg.AuthChavePrivada == "" || cfg.AuthKID == "" || cfg.AuthIssuer == "" || cfg.AuthAudience == "" {
		return nil, errors.New("missing envs: AUTH_RSA_PRIVATE_PATH/AUTH_KID/AUTH_ISSUER/AUTH_AUDIENCE")
	}
	b, err := os.ReadFile(cfg.AuthChavePrivada)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	priv, err := parsePrivateKey(b)
	if err != nil {
		return nil, err
	}
	return NewEmissorComChave(priv, cfg.AuthKID, cfg.AuthIssuer, cfg.AuthAudience), nil
}

func NewEmissorComChave(priv *rsa.PrivateKey, kid, issuer, audience string) *Emissor {
	return &Emissor{
		priv:     priv,
		pubKeys:  map[string]*rsa.PublicKey{kid: &priv.PublicKey},
		kid:      kid,
		issuer:   issuer,
		audience: audience,
	}
}

func parsePrivateKey(b []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("pem decode private key failed")
	}

	// PKCS#1 ou PKCS#8
	var pk any
	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		pk = k
	} else if k8, err2 := x509.ParsePKCS8PrivateKey(block.Bytes); err2 == nil {
		pk = k8
	} else {
		return nil, fmt.Errorf("parse private key: %v / %v", err, err2)
	}

	priv, ok := pk.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not RSA")
	}
	return priv, nil
}

func (e *Emissor) getPub(kid string) (*rsa.PublicKey, bool) { p, ok := e.pubKeys[kid]; return p, ok }
func signMethod() jwt.SigningMethod                        { return jwt.SigningMethodRS256 }
