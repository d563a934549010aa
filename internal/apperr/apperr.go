// Package apperr define os tipos de erro de domínio e o mapeamento para HTTP.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type Tipo int

const (
	Interno Tipo = iota
	Validacao
	NaoEncontrado
	ConflitoEstado
)

// Erro carrega o tipo e a mensagem exibida ao usuário.
type Erro struct {
	Tipo     Tipo
	Mensagem string
	Causa    error
}

func (e *Erro) Error() string {
	if e.Causa != nil {
		return e.Mensagem + ": " + e.Causa.Error()
	}
	return e.Mensagem
}

func (e *Erro) Unwrap() error { return e.Causa }

func NovaValidacao(format string, args ...any) error {
	return &Erro{Tipo: Validacao, Mensagem: fmt.Sprintf(format, args...)}
}

func NovoNaoEncontrado(format string, args ...any) error {
	return &Erro{Tipo: NaoEncontrado, Mensagem: fmt.Sprintf(format, args...)}
}

func NovoConflito(format string, args ...any) error {
	return &Erro{Tipo: ConflitoEstado, Mensagem: fmt.Sprintf(format, args...)}
}

// TipoDe devolve o tipo do erro; gorm.ErrRecordNotFound conta como NaoEncontrado.
func TipoDe(err error) Tipo {
	var e *Erro
	if errors.As(err, &e) {
		return e.Tipo
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NaoEncontrado
	}
	return Interno
}

func Is(err error, t Tipo) bool {
	return err != nil && TipoDe(err) == t
}

func StatusHTTP(err error) int {
	switch TipoDe(err) {
	case Validacao:
		return http.StatusBadRequest
	case NaoEncontrado:
		return http.StatusNotFound
	case ConflitoEstado:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Responder escreve {"erro": "..."} com o status correspondente.
// Erros internos não expõem a causa; fallback é a mensagem genérica.
func Responder(w http.ResponseWriter, err error, fallback string) {
	status := StatusHTTP(err)
	msg := fallback
	var e *Erro
	if errors.As(err, &e) && e.Tipo != Interno {
		msg = e.Mensagem
	} else if status == http.StatusNotFound {
		msg = "Registro não encontrado"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"erro": msg})
}
