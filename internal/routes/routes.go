// Package routes monta o roteador da API.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/oficina-mecanica/api-oficina/internal/auth"
	"github.com/oficina-mecanica/api-oficina/internal/caixa"
	"github.com/oficina-mecanica/api-oficina/internal/cliente"
	"github.com/oficina-mecanica/api-oficina/internal/despesa"
	"github.com/oficina-mecanica/api-oficina/internal/middleware"
	"github.com/oficina-mecanica/api-oficina/internal/notificacao"
	"github.com/oficina-mecanica/api-oficina/internal/ordem"
	"github.com/oficina-mecanica/api-oficina/internal/pagamento"
	"github.com/oficina-mecanica/api-oficina/internal/parcela"
	"github.com/oficina-mecanica/api-oficina/internal/usuario"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Servicos são as regras de negócio compartilhadas entre rotas e jobs.
type Servicos struct {
	Parcelas   *parcela.Service
	Pagamentos *pagamento.Service
	Caixas     *caixa.Service
}

func NovosServicos(db *gorm.DB, pub notificacao.Publicador, log *zap.Logger) Servicos {
	return Servicos{
		Parcelas:   parcela.NewService(parcela.NewRepository(db), pub, log),
		Pagamentos: pagamento.NewService(db, pub, log),
		Caixas:     caixa.NewService(db, log),
	}
}

// Opcoes controla autenticação e CORS. Emissor nil deixa /api aberta.
type Opcoes struct {
	Emissor     *auth.Emissor
	CorsOrigins []string
}

// Setup registra todas as rotas e devolve o handler com os middlewares.
func Setup(db *gorm.DB, svc Servicos, op Opcoes, log *zap.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	var tokens usuario.GeradorToken
	if op.Emissor != nil {
		tokens = op.Emissor
		r.HandleFunc("/.well-known/jwks.json", op.Emissor.JWKSHandler).Methods("GET")
	}
	usuarioHandler := usuario.NewHandler(db, tokens)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", usuarioHandler.Login).Methods("POST")

	// Rotas protegidas quando a autenticação está ligada
	priv := api.NewRoute().Subrouter()
	admin := priv.NewRoute().Subrouter()
	if op.Emissor != nil {
		priv.Use(op.Emissor.MiddlewareAutenticacao)
		admin.Use(auth.RequireAdmin)
	}

	// Usuários
	admin.HandleFunc("/usuarios", usuarioHandler.Criar).Methods("POST")
	admin.HandleFunc("/usuarios", usuarioHandler.Listar).Methods("GET")
	priv.HandleFunc("/me", usuarioHandler.Me).Methods("GET")

	// Clientes
	clienteHandler := cliente.NewHandler(db)
	priv.HandleFunc("/clientes", clienteHandler.Criar).Methods("POST")
	priv.HandleFunc("/clientes", clienteHandler.Listar).Methods("GET")
	priv.HandleFunc("/clientes/{id}", clienteHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/clientes/{id}", clienteHandler.Atualizar).Methods("PUT")
	priv.HandleFunc("/clientes/{id}", clienteHandler.Remover).Methods("DELETE")

	// Ordens de serviço
	ordemHandler := ordem.NewHandler(ordem.NewRepository(db))
	priv.HandleFunc("/ordens", ordemHandler.Criar).Methods("POST")
	priv.HandleFunc("/ordens", ordemHandler.Listar).Methods("GET")
	priv.HandleFunc("/ordens/{id}", ordemHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/ordens/{id}", ordemHandler.Atualizar).Methods("PUT")
	priv.HandleFunc("/ordens/{id}/itens", ordemHandler.AdicionarItem).Methods("POST")
	priv.HandleFunc("/ordens/{id}/itens/{itemId}", ordemHandler.RemoverItem).Methods("DELETE")

	// Pagamentos e parcelas
	pagamentoHandler := pagamento.NewHandler(svc.Pagamentos)
	parcelaHandler := parcela.NewHandler(svc.Parcelas)
	priv.HandleFunc("/ordens/{id}/pagamentos", pagamentoHandler.Registrar).Methods("POST")
	priv.HandleFunc("/ordens/{id}/pagamentos", pagamentoHandler.Listar).Methods("GET")
	priv.HandleFunc("/ordens/{id}/pagamentos/finalizar", parcelaHandler.FinalizarPlano).Methods("POST")
	priv.HandleFunc("/pagamentos/simular", pagamentoHandler.Simular).Methods("POST")
	priv.HandleFunc("/parcelas", parcelaHandler.List).Methods("GET")
	priv.HandleFunc("/parcelas/{id}", parcelaHandler.Get).Methods("GET")
	priv.HandleFunc("/parcelas/{id}", parcelaHandler.UpdateStatus).Methods("PUT")
	priv.HandleFunc("/parcelas/{id}/historico", parcelaHandler.Historico).Methods("GET")

	// Caixa e despesas
	caixaHandler := caixa.NewHandler(svc.Caixas)
	despesaHandler := despesa.NewHandler(db, svc.Caixas)
	priv.HandleFunc("/caixas", caixaHandler.Abrir).Methods("POST")
	priv.HandleFunc("/caixas/atual", caixaHandler.Atual).Methods("GET")
	priv.HandleFunc("/caixas/{id}/fechar", caixaHandler.Fechar).Methods("POST")
	priv.HandleFunc("/caixas/{id}/resumo", caixaHandler.Resumo).Methods("GET")
	priv.HandleFunc("/despesas", despesaHandler.Criar).Methods("POST")
	priv.HandleFunc("/despesas", despesaHandler.Listar).Methods("GET")
	priv.HandleFunc("/despesas/{id}", despesaHandler.Remover).Methods("DELETE")

	c := cors.New(cors.Options{
		AllowedOrigins:   op.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Caixa-ID", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true,
	})

	var h http.Handler = c.Handler(r)
	h = middleware.Recuperar(log)(h)
	return middleware.Logger(log)(h)
}
