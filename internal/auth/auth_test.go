package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/oficina-mecanica/api-oficina/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoEmissor(t *testing.T) *Emissor {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewEmissorComChave(priv, "k1", "api-oficina", "oficina-web")
}

func TestTokenIdaEVolta(t *testing.T) {
	e := novoEmissor(t)
	tok, err := e.GenerateAccessToken(42, true)
	require.NoError(t, err)

	c, err := e.ParseAndValidate(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), c.UsuarioID)
	assert.True(t, c.IsAdmin)
}

func TestTokenDeOutroEmissor(t *testing.T) {
	tok, err := novoEmissor(t).GenerateAccessToken(1, false)
	require.NoError(t, err)

	_, err = novoEmissor(t).ParseAndValidate(tok)
	assert.Error(t, err)
}

func TestTokenAudienceErrada(t *testing.T) {
	e := novoEmissor(t)
	outro := NewEmissorComChave(e.priv, "k1", "api-oficina", "outro-app")
	tok, err := outro.GenerateAccessToken(1, false)
	require.NoError(t, err)

	_, err = e.ParseAndValidate(tok)
	assert.Error(t, err)
}

func TestNewEmissorLeArquivoPEM(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})
	path := filepath.Join(t.TempDir(), "priv.pem")
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

	e, err := NewEmissor(&config.Config{AuthChavePrivada: path, AuthKID: "k", AuthIssuer: "i", AuthAudience: "a"})
	require.NoError(t, err)
	assert.Equal(t, "k", e.kid)

	_, err = NewEmissor(&config.Config{AuthChavePrivada: path})
	assert.Error(t, err)
}

func TestMiddlewareAutenticacao(t *testing.T) {
	e := novoEmissor(t)
	var sessao Sessao
	h := e.MiddlewareAutenticacao(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessao = SessaoDe(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/parcelas", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/parcelas", nil)
	req.Header.Set("Authorization", "Bearer lixo")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := e.GenerateAccessToken(7, false)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/parcelas", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("X-Caixa-ID", "3")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(7), sessao.UsuarioID)
	require.NotNil(t, sessao.CaixaID)
	assert.Equal(t, uint(3), *sessao.CaixaID)
}

func TestRequireAdmin(t *testing.T) {
	e := novoEmissor(t)
	h := e.MiddlewareAutenticacao(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	tok, _ := e.GenerateAccessToken(1, false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/usuarios", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSessaoSemToken(t *testing.T) {
	s := SessaoDe(httptest.NewRequest(http.MethodGet, "/api/parcelas?caixa_id=x", nil))
	assert.Zero(t, s.UsuarioID)
	assert.Nil(t, s.CaixaID)
}

func TestJWKS(t *testing.T) {
	e := novoEmissor(t)
	rec := httptest.NewRecorder()
	e.JWKSHandler(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys []jwk `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, "k1", body.Keys[0].Kid)
	assert.Equal(t, "RS256", body.Keys[0].Alg)
}
