package despesa

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/auth"
	"github.com/oficina-mecanica/api-oficina/internal/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VerificadorCaixa confirma que o caixa existe e está aberto.
type VerificadorCaixa interface {
	VerificarAberto(ctx context.Context, caixaID uint) error
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Caixas     VerificadorCaixa
}

func NewHandler(db *gorm.DB, caixas VerificadorCaixa) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Caixas:     caixas,
	}
}

type DespesaDTO struct {
	CaixaID   uint            `json:"caixa_id"`
	Descricao string          `json:"descricao" validate:"required,max=255"`
	Categoria string          `json:"categoria" validate:"max=60"`
	Valor     decimal.Decimal `json:"valor"`
	Data      string          `json:"data"`
}

// POST /despesas
// Sem caixa_id no corpo usa o caixa da sessão.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var dto DespesaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(dto); err != nil {
		apperr.Responder(w, err, "")
		return
	}
	if !dto.Valor.IsPositive() {
		apperr.Responder(w, apperr.NovaValidacao("Valor da despesa deve ser maior que zero"), "")
		return
	}

	sessao := auth.SessaoDe(r)
	caixaID := dto.CaixaID
	if caixaID == 0 && sessao.CaixaID != nil {
		caixaID = *sessao.CaixaID
	}
	if caixaID == 0 {
		apperr.Responder(w, apperr.NovaValidacao("Informe o caixa da despesa"), "")
		return
	}
	if err := h.Caixas.VerificarAberto(r.Context(), caixaID); err != nil {
		apperr.Responder(w, err, "Erro ao verificar caixa")
		return
	}

	data, err := utils.ParseData("data", dto.Data)
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}
	d := Despesa{
		CaixaID:   caixaID,
		Descricao: dto.Descricao,
		Categoria: dto.Categoria,
		Valor:     dto.Valor.Round(2),
		Data:      time.Now(),
	}
	if data != nil {
		d.Data = *data
	}
	if sessao.UsuarioID > 0 {
		d.UsuarioID = &sessao.UsuarioID
	}
	if err := h.Repository.Criar(h.DB.WithContext(r.Context()), &d); err != nil {
		http.Error(w, "Erro ao registrar despesa", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, d)
}

// GET /despesas?caixa_id=1
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	caixaID, err := utils.IDDaQuery(r, "caixa_id")
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}
	despesas, err := h.Repository.ListarPorCaixa(h.DB.WithContext(r.Context()), caixaID)
	if err != nil {
		http.Error(w, "Erro ao listar despesas", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, despesas)
}

// DELETE /despesas/{id}
// Só é possível remover enquanto o caixa estiver aberto.
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	db := h.DB.WithContext(r.Context())
	d, err := h.Repository.BuscarPorID(db, id)
	if err != nil {
		apperr.Responder(w, err, "Erro ao buscar despesa")
		return
	}
	if err := h.Caixas.VerificarAberto(r.Context(), d.CaixaID); err != nil {
		apperr.Responder(w, err, "Erro ao verificar caixa")
		return
	}
	if err := h.Repository.Remover(db, id); err != nil {
		http.Error(w, "Erro ao remover despesa", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
