package ordem

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/oficina-mecanica/api-oficina/internal/cliente"
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/oficina-mecanica/api-oficina/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	Repo     *Repository
	Clientes cliente.Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo, Clientes: cliente.NewRepository()}
}

func (h *Handler) repo(r *http.Request) *Repository {
	return h.Repo.WithDB(h.Repo.DB.WithContext(r.Context()))
}

func naoEncontrada(id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NovoNaoEncontrado("Ordem %d não encontrada", id)
	}
	return err
}

func validarItem(it ItemOrdemDTO) error {
	if it.Quantidade.IsNegative() {
		return apperr.NovaValidacao("Quantidade do item '%s' não pode ser negativa", it.Descricao)
	}
	if it.ValorUnitario.IsNegative() {
		return apperr.NovaValidacao("Valor unitário do item '%s' não pode ser negativo", it.Descricao)
	}
	return nil
}

func (h *Handler) clienteExiste(db *gorm.DB, id uint) error {
	if _, err := h.Clientes.BuscarPorID(db, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NovaValidacao("Cliente %d não existe", id)
		}
		return err
	}
	return nil
}

// itensTravados impede mexer nos itens depois do pagamento: as parcelas já
// somam o total calculado com eles.
func itensTravados(repo *Repository, id uint) error {
	n, err := repo.ContarParcelas(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.NovoConflito("Ordem %d já possui parcelas, os itens não podem ser alterados", id)
	}
	return nil
}

// POST /ordens
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var dto OrdemCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(dto); err != nil {
		apperr.Responder(w, err, "")
		return
	}
	for _, it := range dto.Itens {
		if err := validarItem(it); err != nil {
			apperr.Responder(w, err, "")
			return
		}
	}

	repo := h.repo(r)
	if err := h.clienteExiste(repo.DB, dto.ClienteID); err != nil {
		apperr.Responder(w, err, "Erro ao criar ordem")
		return
	}

	o := Ordem{
		ClienteID: dto.ClienteID,
		Veiculo:   dto.Veiculo,
		Placa:     strings.ToUpper(strings.TrimSpace(dto.Placa)),
		Descricao: dto.Descricao,
		Status:    StatusAberta,
	}
	for _, it := range dto.Itens {
		o.Itens = append(o.Itens, it.paraItem(0))
	}
	if err := repo.Create(&o); err != nil {
		http.Error(w, "Erro ao criar ordem", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, o)
}

// GET /ordens?status=aberta&cliente_id=1&placa=ABC1D23
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	clienteID, err := utils.IDDaQuery(r, "cliente_id")
	if err != nil {
		apperr.Responder(w, err, "")
		return
	}
	q := r.URL.Query()
	ordens, err := h.repo(r).List(Filtro{
		Status:    q.Get("status"),
		ClienteID: clienteID,
		Placa:     strings.ToUpper(q.Get("placa")),
	})
	if err != nil {
		http.Error(w, "Erro ao listar ordens", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, ordens)
}

// GET /ordens/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da ordem inválido", http.StatusBadRequest)
		return
	}
	o, err := h.repo(r).FindByID(id)
	if err != nil {
		apperr.Responder(w, naoEncontrada(id, err), "Erro ao buscar ordem")
		return
	}
	utils.JSON(w, http.StatusOK, o)
}

// PUT /ordens/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da ordem inválido", http.StatusBadRequest)
		return
	}
	var dto OrdemUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(dto); err != nil {
		apperr.Responder(w, err, "")
		return
	}

	repo := h.repo(r)
	o, err := repo.FindByID(id)
	if err != nil {
		apperr.Responder(w, naoEncontrada(id, err), "Erro ao buscar ordem")
		return
	}
	if o.Cancelada() {
		apperr.Responder(w, apperr.NovoConflito("Ordem %d está cancelada", id), "")
		return
	}

	if dto.ClienteID != nil && *dto.ClienteID != o.ClienteID {
		if err := h.clienteExiste(repo.DB, *dto.ClienteID); err != nil {
			apperr.Responder(w, err, "Erro ao atualizar ordem")
			return
		}
		o.ClienteID = *dto.ClienteID
	}
	if dto.Veiculo != nil {
		o.Veiculo = *dto.Veiculo
	}
	if dto.Placa != nil {
		o.Placa = strings.ToUpper(strings.TrimSpace(*dto.Placa))
	}
	if dto.Descricao != nil {
		o.Descricao = *dto.Descricao
	}
	if dto.Status != nil {
		if *dto.Status == StatusCancelada {
			// parcela em aberto precisa ser quitada antes
			abertas, err := repo.ContarParcelas(id, parcela.StatusGerado, parcela.StatusPendente, parcela.StatusVencido)
			if err != nil {
				http.Error(w, "Erro ao atualizar ordem", http.StatusInternalServerError)
				return
			}
			if abertas > 0 {
				apperr.Responder(w, apperr.NovoConflito("Ordem %d tem %d parcela(s) em aberto e não pode ser cancelada", id, abertas), "")
				return
			}
		}
		o.Status = *dto.Status
	}

	if err := repo.Update(o); err != nil {
		http.Error(w, "Erro ao atualizar ordem", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, o)
}

// POST /ordens/{id}/itens
func (h *Handler) AdicionarItem(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da ordem inválido", http.StatusBadRequest)
		return
	}
	var dto ItemOrdemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(dto); err != nil {
		apperr.Responder(w, err, "")
		return
	}
	if err := validarItem(dto); err != nil {
		apperr.Responder(w, err, "")
		return
	}

	repo := h.repo(r)
	o, err := repo.FindByID(id)
	if err != nil {
		apperr.Responder(w, naoEncontrada(id, err), "Erro ao buscar ordem")
		return
	}
	if o.Cancelada() {
		apperr.Responder(w, apperr.NovoConflito("Ordem %d está cancelada", id), "")
		return
	}
	if err := itensTravados(repo, id); err != nil {
		apperr.Responder(w, err, "Erro ao adicionar item")
		return
	}

	item := dto.paraItem(o.ID)
	if err := repo.AddItem(&item); err != nil {
		http.Error(w, "Erro ao adicionar item", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, item)
}

// DELETE /ordens/{id}/itens/{itemId}
// O item fica inativo e deixa de contar no subtotal.
func (h *Handler) RemoverItem(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDDaRota(r, "id")
	if !ok {
		http.Error(w, "ID da ordem inválido", http.StatusBadRequest)
		return
	}
	itemID, ok := utils.IDDaRota(r, "itemId")
	if !ok {
		http.Error(w, "ID do item inválido", http.StatusBadRequest)
		return
	}
	repo := h.repo(r)
	if err := itensTravados(repo, id); err != nil {
		apperr.Responder(w, err, "Erro ao remover item")
		return
	}
	if err := repo.DesativarItem(id, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperr.NovoNaoEncontrado("Item %d não encontrado na ordem %d", itemID, id)
		}
		apperr.Responder(w, err, "Erro ao remover item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
