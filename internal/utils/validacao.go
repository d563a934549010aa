package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oficina-mecanica/api-oficina/internal/apperr"
)

var validate = novoValidador()

func novoValidador() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("cpfcnpj", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return CPFValido(s) || CNPJValido(s)
	})
	return v
}

// Validar roda as tags `validate` e converte as falhas em erro de validação.
func Validar(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.NovaValidacao("Dados inválidos")
	}
	campos := make([]string, 0, len(ve))
	for _, fe := range ve {
		campos = append(campos, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return apperr.NovaValidacao("Campos inválidos: %s", strings.Join(campos, ", "))
}
