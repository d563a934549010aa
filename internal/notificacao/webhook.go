package notificacao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Webhook encaminha eventos de parcela para uma URL externa.
type Webhook struct {
	URL    string
	Client *http.Client
	Log    *zap.Logger
}

func NewWebhook(url string, log *zap.Logger) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 5 * time.Second}, Log: log}
}

func (w *Webhook) Enviar(ctx context.Context, ev Evento) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook respondeu %d", resp.StatusCode)
	}
	return nil
}

// Consumir envia cada evento do canal; falhas só são logadas, sem reenvio.
func (w *Webhook) Consumir(ch <-chan Evento) {
	for ev := range ch {
		if err := w.Enviar(context.Background(), ev); err != nil {
			w.Log.Error("erro ao enviar webhook", zap.Error(err), zap.Uint("parcela_id", ev.ParcelaID))
		}
	}
}
