package pagamento

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoRouter(svc *Service) *mux.Router {
	h := NewHandler(svc)
	r := mux.NewRouter()
	r.HandleFunc("/ordens/{id}/pagamentos", h.Registrar).Methods("POST")
	r.HandleFunc("/ordens/{id}/pagamentos", h.Listar).Methods("GET")
	r.HandleFunc("/pagamentos/simular", h.Simular).Methods("POST")
	return r
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

func TestHandlerRegistrar(t *testing.T) {
	svc, _, db := novoService(t)
	criarOrdem(t, db, "1000")
	r := novoRouter(svc)

	body := `{"forma_pagamento":"Credito","parcelas":3,"desconto":"100","acrescimo":0,"data_vencimento":"2026-11-05","valor_subtotal":1000}`
	rec := fazer(r, http.MethodPost, "/ordens/1/pagamentos", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var pag Pagamento
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pag))
	assert.Equal(t, "900.00", pag.Total.StringFixed(2))
	require.Len(t, pag.Parcelas, 3)
	for _, p := range pag.Parcelas {
		assert.Equal(t, "300.00", p.Valor.StringFixed(2))
		assert.Equal(t, 3, *p.TotalParcelas)
	}
	assert.Equal(t, 5, pag.Parcelas[2].DataVencimento.Day())
	assert.Equal(t, 2027, pag.Parcelas[2].DataVencimento.Year())

	rec = fazer(r, http.MethodPost, "/ordens/1/pagamentos", body)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = fazer(r, http.MethodGet, "/ordens/1/pagamentos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lista []Pagamento
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lista))
	assert.Len(t, lista, 1)
}

func TestHandlerRegistrarVistaComCaixaDaSessao(t *testing.T) {
	svc, _, db := novoService(t)
	criarOrdem(t, db, "50")
	c := criarCaixa(t, db, "aberto")
	r := novoRouter(svc)

	rec := fazer(r, http.MethodPost, "/ordens/1/pagamentos", `{"forma_pagamento":"Dinheiro","parcelas":"vista"}`,
		"X-Caixa-ID", "1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var pag Pagamento
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pag))
	require.Len(t, pag.Parcelas, 1)
	assert.Equal(t, parcela.StatusPago, pag.Parcelas[0].Status)
	assert.Equal(t, c.ID, *pag.Parcelas[0].CaixaID)
}

func TestHandlerRegistrarErros(t *testing.T) {
	svc, _, db := novoService(t)
	criarOrdem(t, db, "100")
	r := novoRouter(svc)

	cases := []struct {
		nome, path, body string
		status           int
	}{
		{"json", "/ordens/1/pagamentos", `{`, http.StatusBadRequest},
		{"forma", "/ordens/1/pagamentos", `{"forma_pagamento":"Boleto","parcelas":"vista"}`, http.StatusBadRequest},
		{"sem parcelas", "/ordens/1/pagamentos", `{"forma_pagamento":"Pix"}`, http.StatusBadRequest},
		{"parcelas zero", "/ordens/1/pagamentos", `{"forma_pagamento":"Pix","parcelas":0}`, http.StatusBadRequest},
		{"parcelas demais", "/ordens/1/pagamentos", `{"forma_pagamento":"Pix","parcelas":5000,"data_vencimento":"2026-11-05"}`, http.StatusBadRequest},
		{"parcelas fracionadas", "/ordens/1/pagamentos", `{"forma_pagamento":"Pix","parcelas":2.5}`, http.StatusBadRequest},
		{"sem vencimento", "/ordens/1/pagamentos", `{"forma_pagamento":"Pix","parcelas":2}`, http.StatusBadRequest},
		{"data ruim", "/ordens/1/pagamentos", `{"forma_pagamento":"Pix","parcelas":2,"data_vencimento":"05/11/2026"}`, http.StatusBadRequest},
		{"ordem inexistente", "/ordens/9/pagamentos", `{"forma_pagamento":"Pix","parcelas":"vista"}`, http.StatusNotFound},
		{"id", "/ordens/x/pagamentos", `{"forma_pagamento":"Pix","parcelas":"vista"}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.nome, func(t *testing.T) {
			rec := fazer(r, http.MethodPost, c.path, c.body)
			assert.Equal(t, c.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandlerSimular(t *testing.T) {
	svc, _, _ := novoService(t)
	r := novoRouter(svc)

	rec := fazer(r, http.MethodPost, "/pagamentos/simular",
		`{"forma_pagamento":"Pix","parcelas":"3","valor_subtotal":"1000","data_vencimento":"2026-01-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res Resultado
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"333.34", "333.33", "333.33"}, valores(res.Parcelas))
	assert.Equal(t, 28, res.Parcelas[1].DataVencimento.Day())
	assert.Equal(t, 3, res.Plano.Quantidade)

	rec = fazer(r, http.MethodPost, "/pagamentos/simular", `{"forma_pagamento":"Pix","parcelas":"vista"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
