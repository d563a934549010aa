package parcela

import (
	"testing"
	"time"

	"github.com/oficina-mecanica/api-oficina/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hoje = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

func data(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestObservar(t *testing.T) {
	cases := []struct {
		nome   string
		p      Parcela
		espera Status
	}{
		{"pendente vencendo hoje", Parcela{Status: StatusPendente, DataVencimento: data(2026, 10, 19)}, StatusPendente},
		{"pendente vencida ontem", Parcela{Status: StatusPendente, DataVencimento: data(2026, 10, 18)}, StatusVencido},
		{"pendente sem vencimento", Parcela{Status: StatusPendente}, StatusPendente},
		{"paga com vencimento passado", Parcela{Status: StatusPago, DataVencimento: data(2026, 1, 1)}, StatusPago},
		{"gerada com vencimento passado", Parcela{Status: StatusGerado, DataVencimento: data(2026, 1, 1)}, StatusGerado},
	}
	for _, c := range cases {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.espera, Observar(c.p, hoje))
		})
	}
}

func TestAlternarPagoEVolta(t *testing.T) {
	venc := data(2026, 11, 10)
	p := &Parcela{ID: 1, Status: StatusPendente, DataVencimento: venc}

	mudou, err := Alternar(p, StatusPago, hoje)
	require.NoError(t, err)
	assert.True(t, mudou)
	assert.Equal(t, StatusPago, p.Status)
	require.NotNil(t, p.DataPagamento)
	assert.Equal(t, *data(2026, 10, 19), *p.DataPagamento)

	mudou, err = Alternar(p, StatusPendente, hoje)
	require.NoError(t, err)
	assert.True(t, mudou)
	assert.Equal(t, StatusPendente, p.Status)
	assert.Nil(t, p.DataPagamento)
	assert.Equal(t, venc, p.DataVencimento)
}

func TestAlternarVencidoParaPago(t *testing.T) {
	p := &Parcela{ID: 2, Status: StatusVencido, DataVencimento: data(2026, 9, 1)}
	mudou, err := Alternar(p, StatusPago, hoje)
	require.NoError(t, err)
	assert.True(t, mudou)
	assert.Equal(t, StatusPago, p.Status)
	assert.NotNil(t, p.DataPagamento)
}

func TestAlternarVencidoParaPendenteRejeitado(t *testing.T) {
	p := &Parcela{ID: 3, Status: StatusVencido, DataVencimento: data(2026, 9, 1)}
	mudou, err := Alternar(p, StatusPendente, hoje)
	assert.False(t, mudou)
	assert.True(t, apperr.Is(err, apperr.ConflitoEstado))
	assert.Equal(t, StatusVencido, p.Status)
}

func TestAlternarGeradoRejeitado(t *testing.T) {
	for _, destino := range []Status{StatusPago, StatusPendente} {
		p := &Parcela{ID: 4, Status: StatusGerado, DataVencimento: data(2026, 12, 1)}
		mudou, err := Alternar(p, destino, hoje)
		assert.False(t, mudou)
		assert.True(t, apperr.Is(err, apperr.ConflitoEstado))
		assert.Equal(t, StatusGerado, p.Status)
		assert.Nil(t, p.DataPagamento)
	}
}

func TestAlternarDestinoNaoManual(t *testing.T) {
	for _, destino := range []Status{StatusVencido, StatusGerado, "cancelado"} {
		p := &Parcela{Status: StatusPendente}
		_, err := Alternar(p, destino, hoje)
		assert.True(t, apperr.Is(err, apperr.Validacao), destino)
		assert.Equal(t, StatusPendente, p.Status)
	}
}

func TestAlternarIdempotente(t *testing.T) {
	pagoEm := data(2026, 10, 1)
	p := &Parcela{Status: StatusPago, DataPagamento: pagoEm}
	mudou, err := Alternar(p, StatusPago, hoje)
	require.NoError(t, err)
	assert.False(t, mudou)
	assert.Equal(t, pagoEm, p.DataPagamento)

	p = &Parcela{Status: StatusPendente}
	mudou, err = Alternar(p, StatusPendente, hoje)
	require.NoError(t, err)
	assert.False(t, mudou)
}

func TestLiberar(t *testing.T) {
	p := &Parcela{Status: StatusGerado, DataVencimento: data(2026, 12, 1)}
	require.NoError(t, Liberar(p))
	assert.Equal(t, StatusPendente, p.Status)

	assert.True(t, apperr.Is(Liberar(p), apperr.ConflitoEstado))
	assert.True(t, apperr.Is(Liberar(&Parcela{Status: StatusGerado}), apperr.Validacao))
}

func TestDia(t *testing.T) {
	sp := time.FixedZone("BRT", -3*3600)
	assert.Equal(t, *data(2026, 10, 19), Dia(time.Date(2026, 10, 19, 23, 59, 0, 0, sp)))
}
