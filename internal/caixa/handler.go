package caixa

import (
	"encoding/json"
	"net/http"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/auth"
	"github.com/oficina-mecanica/api-oficina/internal/utils"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

type AbrirCaixaDTO struct {
	UsuarioID     uint            `json:"usuario_id"`
	ValorAbertura decimal.Decimal `json:"valor_abertura"`
}

type FecharCaixaDTO struct {
	ValorFechamento decimal.Decimal `json:"valor_fechamento"`
	Observacao      string          `json:"observacao"`
}

// usuario prefere o do token; sem autenticação aceita o informado.
func usuario(r *http.Request, informado uint) uint {
	if id, ok := auth.UsuarioDoContexto(r.Context()); ok {
		return id
	}
	return informado
}

// POST /caixas
func (h *Handler) Abrir(w http.ResponseWriter, r *http.Request) {
	var dto AbrirCaixaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	c, err := h.Service.Abrir(r.Context(), usuario(r, dto.UsuarioID), dto.ValorAbertura)
	if err != nil {
		apperr.Responder(w, err, "Erro ao abrir caixa")
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

// GET /caixas/atual?usuario_id=1
func (h *Handler) Atual(w http.ResponseWriter, r *http.Request) {
	informado, err := utils.IDDaQuery(r, "usuario_id")
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}
	var id uint
	if informado != nil {
		id = *informado
	}
	id = usuario(r, id)
	if id == 0 {
		apperr.Responder(w, apperr.NovaValidacao("Informe o usuário do caixa"), "")
		return
	}
	c, err := h.Service.Atual(r.Context(), id)
	if err != nil {
		apperr.Responder(w, err, "Erro ao buscar caixa")
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

// POST /caixas/{id}/fechar
func (h *Handler) Fechar(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID do caixa inválido", http.StatusBadRequest)
		return
	}
	var dto FecharCaixaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	resumo, err := h.Service.Fechar(r.Context(), id, dto.ValorFechamento, dto.Observacao)
	if err != nil {
		apperr.Responder(w, err, "Erro ao fechar caixa")
		return
	}
	utils.JSON(w, http.StatusOK, resumo)
}

// GET /caixas/{id}/resumo
func (h *Handler) Resumo(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID do caixa inválido", http.StatusBadRequest)
		return
	}
	resumo, err := h.Service.Resumo(r.Context(), id)
	if err != nil {
		apperr.Responder(w, err, "Erro ao montar resumo do caixa")
		return
	}
	utils.JSON(w, http.StatusOK, resumo)
}
