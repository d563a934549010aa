package utils

import (
	"strings"
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
)

var layoutsData = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// ParseData aceita "2006-01-02" ou RFC3339; string vazia devolve nil.
func ParseData(campo, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range layoutsData {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.NovaValidacao("Data inválida em '%s': %s", campo, s)
}
