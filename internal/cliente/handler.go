package cliente

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/utils"
	"gorm.io/gorm"
)

// Handler encapsula o DB e o Repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

func decodificar(r *http.Request) (*ClienteDTO, error) {
	var dto ClienteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return nil, apperr.NovaValidacao("JSON inválido")
	}
	if err := utils.Validar(dto); err != nil {
		return nil, err
	}
	dto.Documento = utils.SomenteDigitos(dto.Documento)
	return &dto, nil
}

// documentoLivre garante que nenhum outro cliente use o mesmo CPF/CNPJ.
func (h *Handler) documentoLivre(r *http.Request, documento string, id uint) error {
	if documento == "" {
		return nil
	}
	existente, err := h.Repository.BuscarPorDocumento(h.DB.WithContext(r.Context()), documento)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existente.ID != id {
		return apperr.NovoConflito("Já existe cliente com o documento %s", documento)
	}
	return nil
}

// POST /clientes
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	dto, err := decodificar(r)
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}
	if err := h.documentoLivre(r, dto.Documento, 0); err != nil {
		apperr.Responder(w, err, "Erro ao criar cliente")
		return
	}

	c := Cliente{
		Nome:      dto.Nome,
		Documento: dto.Documento,
		Telefone:  dto.Telefone,
		Email:     dto.Email,
		Endereco:  dto.Endereco,
	}
	if err := h.Repository.Criar(h.DB.WithContext(r.Context()), &c); err != nil {
		http.Error(w, "Erro ao criar cliente", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

// GET /clientes?busca=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.Repository.Listar(h.DB.WithContext(r.Context()), r.URL.Query().Get("busca"))
	if err != nil {
		http.Error(w, "Erro ao listar clientes", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, clientes)
}

// GET /clientes/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	c, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), id)
	if err != nil {
		apperr.Responder(w, err, "Erro ao buscar cliente")
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

// PUT /clientes/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	dto, err := decodificar(r)
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}

	db := h.DB.WithContext(r.Context())
	c, err := h.Repository.BuscarPorID(db, id)
	if err != nil {
		apperr.Responder(w, err, "Erro ao buscar cliente")
		return
	}
	if err := h.documentoLivre(r, dto.Documento, id); err != nil {
		apperr.Responder(w, err, "Erro ao atualizar cliente")
		return
	}

	c.Nome = dto.Nome
	c.Documento = dto.Documento
	c.Telefone = dto.Telefone
	c.Email = dto.Email
	c.Endereco = dto.Endereco
	if err := h.Repository.Atualizar(db, c); err != nil {
		http.Error(w, "Erro ao atualizar cliente", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

// DELETE /clientes/{id}
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Remover(h.DB.WithContext(r.Context()), id); err != nil {
		apperr.Responder(w, err, "Erro ao remover cliente")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
