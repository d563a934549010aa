package auth

import (
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
)

type jwk struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// GET /.well-known/jwks.json
func (e *Emissor) JWKSHandler(w http.ResponseWriter, r *http.Request) {
	pub, ok := e.getPub(e.kid)
	if !ok || pub == nil {
		http.Error(w, "no public key", http.StatusInternalServerError)
		return
	}

	resp := struct {
		Keys []jwk `json:"keys"`
	}{
		Keys: []jwk{{
			Kty: "RSA",
			Alg: "RS256",
			Use: "sig",
			Kid: e.kid,
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
