package ordem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/oficina-mecanica/api-oficina/internal/cliente"
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/oficina-mecanica/api-oficina/internal/utils/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func novoRouter(t *testing.T) (*mux.Router, *gorm.DB) {
	db := dbtest.Novo(t, &cliente.Cliente{}, &Ordem{}, &ItemOrdem{}, &parcela.Parcela{})
	require.NoError(t, db.Create(&cliente.Cliente{Nome: "Maria"}).Error)

	h := NewHandler(NewRepository(db))
	r := mux.NewRouter()
	r.HandleFunc("/ordens", h.Criar).Methods("POST")
	r.HandleFunc("/ordens", h.Listar).Methods("GET")
	r.HandleFunc("/ordens/{id}", h.BuscarPorID).Methods("GET")
	r.HandleFunc("/ordens/{id}", h.Atualizar).Methods("PUT")
	r.HandleFunc("/ordens/{id}/itens", h.AdicionarItem).Methods("POST")
	r.HandleFunc("/ordens/{id}/itens/{itemId}", h.RemoverItem).Methods("DELETE")
	return r, db
}

func fazer(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func ler(t *testing.T, rec *httptest.ResponseRecorder) Ordem {
	t.Helper()
	var o Ordem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o), rec.Body.String())
	return o
}

const novaOrdem = `{
	"cliente_id": 1,
	"veiculo": "Gol 1.0 2015",
	"placa": "abc1d23",
	"itens": [
		{"tipo":"peca","descricao":"Pastilha de freio","quantidade":"2","valor_unitario":"150.00"},
		{"tipo":"servico","descricao":"Mão de obra","valor_unitario":"200"}
	]
}`

func TestCriarOrdem(t *testing.T) {
	r, _ := novoRouter(t)

	rec := fazer(r, http.MethodPost, "/ordens", novaOrdem)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	o := ler(t, rec)
	assert.Equal(t, "ABC1D23", o.Placa)
	assert.Equal(t, StatusAberta, o.Status)
	require.Len(t, o.Itens, 2)
	assert.True(t, d("500").Equal(o.Subtotal), o.Subtotal.String())

	rec = fazer(r, http.MethodGet, "/ordens/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, d("500").Equal(ler(t, rec).Total))
}

func TestCriarOrdemInvalida(t *testing.T) {
	r, _ := novoRouter(t)

	cases := []struct {
		nome, body string
		status     int
	}{
		{"sem cliente", `{"veiculo":"Uno"}`, http.StatusBadRequest},
		{"cliente inexistente", `{"cliente_id":9}`, http.StatusBadRequest},
		{"tipo de item", `{"cliente_id":1,"itens":[{"tipo":"outro","descricao":"x"}]}`, http.StatusBadRequest},
		{"valor negativo", `{"cliente_id":1,"itens":[{"tipo":"peca","descricao":"x","valor_unitario":"-1"}]}`, http.StatusBadRequest},
		{"json", `{`, http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.status, fazer(r, http.MethodPost, "/ordens", c.body).Code)
		})
	}
}

func TestItensDaOrdem(t *testing.T) {
	r, _ := novoRouter(t)
	require.Equal(t, http.StatusCreated, fazer(r, http.MethodPost, "/ordens", novaOrdem).Code)

	rec := fazer(r, http.MethodPost, "/ordens/1/itens", `{"tipo":"peca","descricao":"Óleo","quantidade":"4","valor_unitario":"35.90"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	o := ler(t, fazer(r, http.MethodGet, "/ordens/1", ""))
	assert.True(t, d("643.60").Equal(o.Subtotal), o.Subtotal.String())

	assert.Equal(t, http.StatusNoContent, fazer(r, http.MethodDelete, "/ordens/1/itens/1", "").Code)
	o = ler(t, fazer(r, http.MethodGet, "/ordens/1", ""))
	assert.True(t, d("343.60").Equal(o.Subtotal), o.Subtotal.String())
	assert.Len(t, o.Itens, 3)
	assert.False(t, o.Itens[0].Ativo)

	assert.Equal(t, http.StatusNotFound, fazer(r, http.MethodDelete, "/ordens/1/itens/99", "").Code)
	assert.Equal(t, http.StatusNotFound, fazer(r, http.MethodPost, "/ordens/7/itens", `{"tipo":"peca","descricao":"x"}`).Code)
}

func TestAtualizarOrdem(t *testing.T) {
	r, _ := novoRouter(t)
	require.Equal(t, http.StatusCreated, fazer(r, http.MethodPost, "/ordens", novaOrdem).Code)

	rec := fazer(r, http.MethodPut, "/ordens/1", `{"status":"em_andamento","descricao":"Revisão"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	o := ler(t, rec)
	assert.Equal(t, StatusEmAndamento, o.Status)
	assert.Equal(t, "Revisão", o.Descricao)
	assert.Equal(t, "ABC1D23", o.Placa)

	assert.Equal(t, http.StatusBadRequest, fazer(r, http.MethodPut, "/ordens/1", `{"status":"x"}`).Code)
	assert.Equal(t, http.StatusOK, fazer(r, http.MethodPut, "/ordens/1", `{"status":"cancelada"}`).Code)
	assert.Equal(t, http.StatusConflict, fazer(r, http.MethodPut, "/ordens/1", `{"descricao":"y"}`).Code)
	assert.Equal(t, http.StatusConflict, fazer(r, http.MethodPost, "/ordens/1/itens", `{"tipo":"peca","descricao":"x"}`).Code)
}

func criarParcela(t *testing.T, db *gorm.DB, ordemID uint, numero int, status parcela.Status) {
	t.Helper()
	total := 2
	p := parcela.Parcela{
		OrdemID: ordemID, PagamentoID: 1, NumeroParcela: numero, TotalParcelas: &total,
		Valor: d("321.80"), FormaPagamento: parcela.Pix, Status: status, Versao: 1,
	}
	require.NoError(t, db.Create(&p).Error)
}

func TestItensTravadosDepoisDoPagamento(t *testing.T) {
	r, db := novoRouter(t)
	require.Equal(t, http.StatusCreated, fazer(r, http.MethodPost, "/ordens", novaOrdem).Code)
	criarParcela(t, db, 1, 1, parcela.StatusPendente)
	criarParcela(t, db, 1, 2, parcela.StatusPendente)

	rec := fazer(r, http.MethodPost, "/ordens/1/itens", `{"tipo":"servico","descricao":"Alinhamento","valor_unitario":"500"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusConflict, fazer(r, http.MethodDelete, "/ordens/1/itens/1", "").Code)

	// subtotal continua igual à soma das parcelas
	o := ler(t, fazer(r, http.MethodGet, "/ordens/1", ""))
	assert.True(t, d("500").Equal(o.Subtotal), o.Subtotal.String())
	assert.Len(t, o.Itens, 2)
	assert.True(t, o.Itens[0].Ativo)
}

func TestCancelarOrdemComParcelasEmAberto(t *testing.T) {
	r, db := novoRouter(t)
	require.Equal(t, http.StatusCreated, fazer(r, http.MethodPost, "/ordens", novaOrdem).Code)
	criarParcela(t, db, 1, 1, parcela.StatusPago)
	criarParcela(t, db, 1, 2, parcela.StatusVencido)

	rec := fazer(r, http.MethodPut, "/ordens/1", `{"status":"cancelada"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, StatusAberta, ler(t, fazer(r, http.MethodGet, "/ordens/1", "")).Status)

	// quitada a última parcela, o cancelamento passa
	require.NoError(t, db.Model(&parcela.Parcela{}).Where("numero_parcela = ?", 2).Update("status", parcela.StatusPago).Error)
	assert.Equal(t, http.StatusOK, fazer(r, http.MethodPut, "/ordens/1", `{"status":"cancelada"}`).Code)
}

func TestListarOrdens(t *testing.T) {
	r, _ := novoRouter(t)
	fazer(r, http.MethodPost, "/ordens", novaOrdem)
	fazer(r, http.MethodPost, "/ordens", `{"cliente_id":1,"placa":"XYZ9K88"}`)
	fazer(r, http.MethodPut, "/ordens/2", `{"status":"concluida"}`)

	var out []Ordem
	rec := fazer(r, http.MethodGet, "/ordens?status=aberta", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, uint(1), out[0].ID)

	rec = fazer(r, http.MethodGet, "/ordens?placa=xyz9k88", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, uint(2), out[0].ID)

	assert.Equal(t, http.StatusBadRequest, fazer(r, http.MethodGet, "/ordens?cliente_id=x", "").Code)
}
