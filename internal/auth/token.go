package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims do access token (IsAdmin libera rotas de usuários)
type Claims struct {
	UsuarioID uint `json:"usuarioId"`
	IsAdmin   bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Tempo de vida do access token: um turno de oficina
const AccessTTL = 12 * time.Hour

// GenerateAccessToken gera um JWT RS256 com kid, iss, aud, iat, nbf e jti.
func (e *Emissor) GenerateAccessToken(usuarioID uint, isAdmin bool) (string, error) {
	if e.priv == nil {
		return "", errors.New("private key not loaded")
	}
	now := time.Now()
	claims := &Claims{
		UsuarioID: usuarioID,
		IsAdmin:   isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    e.issuer,
			Audience:  []string{e.audience},
			Subject:   fmt.Sprint(usuarioID),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			ID:        fmt.Sprintf("%d-%d", usuarioID, now.UnixNano()),
		},
	}

	tok := jwt.NewWithClaims(signMethod(), claims)
	tok.Header["kid"] = e.kid
	return tok.SignedString(e.priv)
}

// ParseAndValidate valida assinatura, iss, aud e exp.
func (e *Emissor) ParseAndValidate(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}), jwt.WithExpirationRequired())
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		k, _ := t.Header["kid"].(string)
		if k == "" {
			return nil, errors.New("kid ausente")
		}
		pub, ok := e.getPub(k)
		if !ok {
			return nil, errors.New("kid desconhecido")
		}
		return pub, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("token inválido")
	}

	c, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, errors.New("claims inválidas")
	}
	if c.Issuer != e.issuer {
		return nil, errors.New("issuer inválido")
	}
	if !slices.Contains(c.Audience, e.audience) {
		return nil, errors.New("audience inválida")
	}
	return c, nil
}
