// Package notificacao distribui eventos de parcelas para quem estiver inscrito
// (listas do front, webhook externo, log).
package notificacao

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type TipoEvento string

const (
	ParcelaCriada     TipoEvento = "parcela.criada"
	ParcelaAtualizada TipoEvento = "parcela.atualizada"
)

type Evento struct {
	Tipo      TipoEvento `json:"tipo"`
	ParcelaID uint       `json:"parcela_id"`
	OrdemID   uint       `json:"ordem_id"`
	Status    string     `json:"status"`
	CaixaID   *uint      `json:"caixa_id,omitempty"`
	Em        time.Time  `json:"em"`
}

// Publicador é o que o núcleo de pagamentos conhece.
type Publicador interface {
	Publicar(ev Evento)
}

// Nop descarta os eventos.
type Nop struct{}

func (Nop) Publicar(Evento) {}

// Broker entrega cada evento a todos os inscritos sem bloquear quem publica.
type Broker struct {
	mu        sync.RWMutex
	inscritos map[int]chan Evento
	proximo   int
	buffer    int
	log       *zap.Logger
}

func NewBroker(buffer int, log *zap.Logger) *Broker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broker{inscritos: map[int]chan Evento{}, buffer: buffer, log: log}
}

// Inscrever devolve o canal de eventos e a função que cancela a inscrição.
func (b *Broker) Inscrever() (<-chan Evento, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.proximo
	b.proximo++
	ch := make(chan Evento, b.buffer)
	b.inscritos[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.inscritos[id]; ok {
				delete(b.inscritos, id)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
}

func (b *Broker) Publicar(ev Evento) {
	if ev.Em.IsZero() {
		ev.Em = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.inscritos {
		select {
		case ch <- ev:
		default:
			b.log.Warn("inscrito lento, evento descartado",
				zap.Int("inscrito", id), zap.String("tipo", string(ev.Tipo)), zap.Uint("parcela_id", ev.ParcelaID))
		}
	}
}

// Encerrar fecha todos os canais.
func (b *Broker) Encerrar() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.inscritos {
		close(ch)
		delete(b.inscritos, id)
	}
}

// Registrar consome os eventos e os escreve no log.
func Registrar(ch <-chan Evento, log *zap.Logger) {
	for ev := range ch {
		log.Info("evento de parcela",
			zap.String("tipo", string(ev.Tipo)),
			zap.Uint("parcela_id", ev.ParcelaID),
			zap.Uint("ordem_id", ev.OrdemID),
			zap.String("status", ev.Status))
	}
}
