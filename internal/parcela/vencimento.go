package parcela

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IniciarJobVencimento roda AtualizarVencidas agora e depois conforme a
// expressão cron (ex.: "@every 1h", "5 0 * * *"). Chame Stop() no retorno
// ao encerrar o servidor.
func IniciarJobVencimento(svc *Service, expr string, log *zap.Logger) (*cron.Cron, error) {
	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := svc.AtualizarVencidas(ctx)
		if err != nil {
			log.Error("job de vencimento falhou", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("parcelas marcadas como vencidas", zap.Int("quantidade", n))
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(expr, job); err != nil {
		return nil, err
	}
	job()
	c.Start()
	return c, nil
}
