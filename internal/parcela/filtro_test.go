package parcela

import (
	"testing"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusDoFiltro(t *testing.T) {
	cases := map[string]Status{
		"Pagamentos":          StatusGerado,
		"Pagamentos Pendente": StatusPendente,
		"Pagamentos Pagos":    StatusPago,
		"Pagamentos Vencido":  StatusVencido,
	}
	for nome, espera := range cases {
		s, err := StatusDoFiltro(nome)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, espera, *s, nome)
	}
}

func TestStatusDoFiltroVazio(t *testing.T) {
	s, err := StatusDoFiltro("")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestStatusDoFiltroDesconhecido(t *testing.T) {
	for _, nome := range []string{"pendente", "Pagamentos pendentes", "Todos"} {
		_, err := StatusDoFiltro(nome)
		assert.True(t, apperr.Is(err, apperr.Validacao), nome)
	}
}
