package pagamento

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/auth"
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/oficina-mecanica/api-oficina/internal/utils"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// PagamentoCreateDTO é o corpo do painel de pagamento.
type PagamentoCreateDTO struct {
	FormaPagamento string          `json:"forma_pagamento" validate:"required,oneof=Dinheiro Debito Pix Credito"`
	Parcelas       *Plano          `json:"parcelas" validate:"required"`
	Desconto       decimal.Decimal `json:"desconto"`
	Acrescimo      decimal.Decimal `json:"acrescimo"`
	Juros          decimal.Decimal `json:"juros"`
	DataVencimento string          `json:"data_vencimento"`
	ValorSubtotal  decimal.Decimal `json:"valor_subtotal"`
	CaixaID        *uint           `json:"caixa_id"`
	UsuarioID      uint            `json:"usuario_id"`
	Gerar          bool            `json:"gerar"`
}

func decodificar(r *http.Request) (Registro, error) {
	var dto PagamentoCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		// erros do Plano já chegam como validação
		var e *apperr.Erro
		if errors.As(err, &e) {
			return Registro{}, err
		}
		return Registro{}, apperr.NovaValidacao("JSON mal formado")
	}
	if err := utils.Validar(dto); err != nil {
		return Registro{}, err
	}
	venc, err := utils.ParseData("data_vencimento", dto.DataVencimento)
	if err != nil {
		return Registro{}, err
	}
	return Registro{
		FormaPagamento:     parcela.FormaPagamento(dto.FormaPagamento),
		Plano:              *dto.Parcelas,
		Desconto:           dto.Desconto,
		Acrescimos:         dto.Acrescimo,
		Juros:              dto.Juros,
		PrimeiroVencimento: venc,
		ValorSubtotal:      dto.ValorSubtotal,
		CaixaID:            dto.CaixaID,
		UsuarioID:          dto.UsuarioID,
		Gerar:              dto.Gerar,
	}, nil
}

// POST /ordens/{id}/pagamentos
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	ordemID, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da ordem inválido", http.StatusBadRequest)
		return
	}
	in, err := decodificar(r)
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}
	pag, err := h.Service.Registrar(r.Context(), ordemID, in, auth.SessaoDe(r))
	if err != nil {
		apperr.Responder(w, err, "Erro ao registrar pagamento")
		return
	}
	utils.JSON(w, http.StatusCreated, pag)
}

// GET /ordens/{id}/pagamentos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	ordemID, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da ordem inválido", http.StatusBadRequest)
		return
	}
	pagamentos, err := h.Service.Listar(r.Context(), ordemID)
	if err != nil {
		apperr.Responder(w, err, "Erro ao listar pagamentos")
		return
	}
	utils.JSON(w, http.StatusOK, pagamentos)
}

// POST /pagamentos/simular
func (h *Handler) Simular(w http.ResponseWriter, r *http.Request) {
	in, err := decodificar(r)
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}
	res, err := h.Service.Simular(in)
	if err != nil {
		apperr.Responder(w, err, "Erro ao simular pagamento")
		return
	}
	utils.JSON(w, http.StatusOK, res)
}
