package utils

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/oficina-mecanica/api-oficina/internal/apperr"
)

// JSON escreve v com o status informado.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// IDDaRota lê um id numérico positivo de mux.Vars.
func IDDaRota(r *http.Request, nome string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[nome], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// IDDaQuery lê um id opcional da query string.
func IDDaQuery(r *http.Request, nome string) (*uint, error) {
	raw := r.URL.Query().Get(nome)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, apperr.NovaValidacao("Parâmetro '%s' inválido", nome)
	}
	v := uint(id)
	return &v, nil
}
