package parcela

import (
	"encoding/json"
	"net/http"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/auth"
	"github.com/oficina-mecanica/api-oficina/internal/utils"
)

/* ============================== Handler & DTOs ============================== */

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// DTO usado no PUT /parcelas/{id}
type ParcelaStatusDTO struct {
	Status        string `json:"status" validate:"required,oneof=gerado pendente pago vencido"`
	UsuarioID     uint   `json:"usuario_id"`
	DataPagamento string `json:"data_pagamento"`
	Versao        *int   `json:"versao"`
}

/* ============================== Endpoints ============================== */

// GET /parcelas?status=Pagamentos Pendente&caixa_id=1&ordem_id=2
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caixaID, err := utils.IDDaQuery(r, "caixa_id")
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}
	ordemID, err := utils.IDDaQuery(r, "ordem_id")
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}

	parcelas, err := h.Service.Listar(r.Context(), r.URL.Query().Get("status"), caixaID, ordemID)
	if err != nil {
		apperr.Responder(w, err, "Erro ao buscar parcelas")
		return
	}
	utils.JSON(w, http.StatusOK, parcelas)
}

// GET /parcelas/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da parcela inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Service.Buscar(r.Context(), id)
	if err != nil {
		apperr.Responder(w, err, "Erro ao buscar parcela")
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// PUT /parcelas/{id}
// Só aceita marcar como "pago" ou voltar para "pendente".
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da parcela inválido", http.StatusBadRequest)
		return
	}

	var payload ParcelaStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(payload); err != nil {
		apperr.Responder(w, err, "")
		return
	}
	dataPagamento, err := utils.ParseData("data_pagamento", payload.DataPagamento)
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}

	p, err := h.Service.AtualizarStatus(r.Context(), id, AtualizacaoStatus{
		Status:        Status(payload.Status),
		UsuarioID:     payload.UsuarioID,
		DataPagamento: dataPagamento,
		Versao:        payload.Versao,
	}, auth.SessaoDe(r))
	if err != nil {
		apperr.Responder(w, err, "Erro ao atualizar status da parcela")
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// GET /parcelas/{id}/historico
func (h *Handler) Historico(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da parcela inválido", http.StatusBadRequest)
		return
	}
	hs, err := h.Service.Historico(r.Context(), id)
	if err != nil {
		apperr.Responder(w, err, "Erro ao buscar histórico")
		return
	}
	utils.JSON(w, http.StatusOK, hs)
}

// POST /ordens/{id}/pagamentos/finalizar
func (h *Handler) FinalizarPlano(w http.ResponseWriter, r *http.Request) {
	ordemID, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da ordem inválido", http.StatusBadRequest)
		return
	}
	parcelas, err := h.Service.FinalizarPlano(r.Context(), ordemID, auth.SessaoDe(r))
	if err != nil {
		apperr.Responder(w, err, "Erro ao finalizar plano de pagamento")
		return
	}
	utils.JSON(w, http.StatusOK, parcelas)
}
