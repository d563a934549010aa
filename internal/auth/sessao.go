package auth

import (
	"context"
	"net/http"
	"strconv"
)

// Sessao é o contexto do posto de caixa: quem está operando e em qual caixa.
// Os serviços recebem a sessão explicitamente.
type Sessao struct {
	UsuarioID uint
	CaixaID   *uint
}

func UsuarioDoContexto(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(CtxUsuarioID).(uint)
	return id, ok && id > 0
}

// SessaoDe monta a sessão a partir do token e do cabeçalho X-Caixa-ID
// (ou ?caixa_id=). Valores do corpo da requisição têm precedência e são
// aplicados pelo handler.
func SessaoDe(r *http.Request) Sessao {
	var s Sessao
	if id, ok := UsuarioDoContexto(r.Context()); ok {
		s.UsuarioID = id
	}
	raw := r.Header.Get("X-Caixa-ID")
	if raw == "" {
		raw = r.URL.Query().Get("caixa_id")
	}
	if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
		c := uint(id)
		s.CaixaID = &c
	}
	return s
}
