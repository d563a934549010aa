package despesa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/utils/dbtest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// caixasFake considera abertos os ids do mapa com valor true.
type caixasFake map[uint]bool

func (c caixasFake) VerificarAberto(_ context.Context, id uint) error {
	aberto, ok := c[id]
	if !ok {
		return apperr.NovoNaoEncontrado("Caixa %d não encontrado", id)
	}
	if !aberto {
		return apperr.NovoConflito("Caixa %d está fechado", id)
	}
	return nil
}

func novoRouter(t *testing.T, caixas caixasFake) (*mux.Router, *gorm.DB) {
	db := dbtest.Novo(t, &Despesa{})
	h := NewHandler(db, caixas)
	r := mux.NewRouter()
	r.HandleFunc("/despesas", h.Criar).Methods("POST")
	r.HandleFunc("/despesas", h.Listar).Methods("GET")
	r.HandleFunc("/despesas/{id}", h.Remover).Methods("DELETE")
	return r, db
}

func fazer(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCriarDespesa(t *testing.T) {
	r, db := novoRouter(t, caixasFake{1: true, 2: false})

	rec := fazer(r, http.MethodPost, "/despesas", `{"caixa_id":1,"descricao":"Estopa","categoria":"limpeza","valor":"12.5","data":"2026-10-18"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var criada Despesa
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &criada))
	assert.Equal(t, "limpeza", criada.Categoria)
	assert.Equal(t, 18, criada.Data.Day())

	// caixa vindo do cabeçalho da sessão
	rec = fazer(r, http.MethodPost, "/despesas", `{"descricao":"Café","valor":8}`, "X-Caixa-ID", "1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	total, err := NewRepository().TotalDoCaixa(db, 1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("20.5").Equal(total), total.String())

	cases := []struct {
		nome, body string
		status     int
	}{
		{"caixa fechado", `{"caixa_id":2,"descricao":"x","valor":"1"}`, http.StatusConflict},
		{"caixa inexistente", `{"caixa_id":3,"descricao":"x","valor":"1"}`, http.StatusNotFound},
		{"sem caixa", `{"descricao":"x","valor":"1"}`, http.StatusBadRequest},
		{"valor zero", `{"caixa_id":1,"descricao":"x","valor":"0"}`, http.StatusBadRequest},
		{"sem descricao", `{"caixa_id":1,"valor":"3"}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.status, fazer(r, http.MethodPost, "/despesas", c.body).Code)
		})
	}
}

func TestListarERemover(t *testing.T) {
	caixas := caixasFake{1: true, 2: true}
	r, _ := novoRouter(t, caixas)
	fazer(r, http.MethodPost, "/despesas", `{"caixa_id":1,"descricao":"a","valor":"1"}`)
	fazer(r, http.MethodPost, "/despesas", `{"caixa_id":2,"descricao":"b","valor":"2"}`)

	var out []Despesa
	rec := fazer(r, http.MethodGet, "/despesas?caixa_id=2", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].Descricao)

	caixas[2] = false
	assert.Equal(t, http.StatusConflict, fazer(r, http.MethodDelete, "/despesas/2", "").Code)
	assert.Equal(t, http.StatusNoContent, fazer(r, http.MethodDelete, "/despesas/1", "").Code)
	assert.Equal(t, http.StatusNotFound, fazer(r, http.MethodDelete, "/despesas/1", "").Code)
}
