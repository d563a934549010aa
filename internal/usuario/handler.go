package usuario

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/auth"
	"github.com/oficina-mecanica/api-oficina/internal/utils"
	"gorm.io/gorm"
)

// GeradorToken emite o access token do login.
type GeradorToken interface {
	GenerateAccessToken(usuarioID uint, isAdmin bool) (string, error)
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Tokens     GeradorToken // nil quando a autenticação está desligada
}

func NewHandler(db *gorm.DB, tokens GeradorToken) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Tokens:     tokens,
	}
}

// Login gera um JWT para credenciais válidas
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Tokens == nil {
		http.Error(w, "autenticação desabilitada", http.StatusServiceUnavailable)
		return
	}
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		apperr.Responder(w, err, "")
		return
	}

	u, err := h.Repository.BuscarPorEmail(h.DB.WithContext(r.Context()), req.Email)
	if err != nil || !u.Ativo || !utils.CheckSenha(u.Senha, req.Senha) {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}

	token, err := h.Tokens.GenerateAccessToken(u.ID, u.IsAdmin)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"token": token, "usuario": u})
}

// Criar cadastra um operador. Com autenticação ligada a rota exige admin.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req CriarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		apperr.Responder(w, err, "")
		return
	}

	db := h.DB.WithContext(r.Context())
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := h.Repository.BuscarPorEmail(db, email); err == nil {
		apperr.Responder(w, apperr.NovoConflito("E-mail %s já cadastrado", email), "")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "erro ao verificar e-mail", http.StatusInternalServerError)
		return
	}

	hash, err := utils.HashSenha(req.Senha)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}
	u := Usuario{Nome: req.Nome, Email: email, Senha: hash, IsAdmin: req.IsAdmin, Ativo: true}
	if err := h.Repository.Salvar(db, &u); err != nil {
		http.Error(w, "erro ao salvar usuário", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, u)
}

// GET /usuarios
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.Repository.Listar(h.DB.WithContext(r.Context()))
	if err != nil {
		http.Error(w, "erro ao listar usuários", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, usuarios)
}

// Me retorna o usuário logado
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Não autenticado", http.StatusUnauthorized)
		return
	}
	u, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), id)
	if err != nil {
		apperr.Responder(w, err, "erro ao buscar usuário")
		return
	}
	utils.JSON(w, http.StatusOK, u)
}
