// Package middleware reúne os middlewares HTTP comuns a todas as rotas.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const CtxRequestID ctxKey = "requestID"

const HeaderRequestID = "X-Request-ID"

// RequestIDDe devolve o id da requisição colocado por Logger.
func RequestIDDe(ctx context.Context) string {
	id, _ := ctx.Value(CtxRequestID).(string)
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Logger registra cada requisição e propaga X-Request-ID (gera um quando ausente).
func Logger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			sw := &statusWriter{ResponseWriter: w}
			inicio := time.Now()
			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), CtxRequestID, id)))

			if sw.status == 0 {
				sw.status = http.StatusOK
			}
			campos := []zap.Field{
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Int("bytes", sw.bytes),
				zap.Duration("duracao", time.Since(inicio)),
			}
			if sw.status >= http.StatusInternalServerError {
				log.Error("requisição", campos...)
				return
			}
			log.Info("requisição", campos...)
		})
	}
}

// Recuperar transforma panics em 500 e registra a pilha.
func Recuperar(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic na requisição",
						zap.Any("panic", rec),
						zap.String("request_id", RequestIDDe(r.Context())),
						zap.Stack("stack"))
					http.Error(w, "Erro interno", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
