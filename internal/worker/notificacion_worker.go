package worker

// notificacion_worker.go
// Consumes stock domain events from QueueNotificaciones and delivers them to
// the configured webhook through the circuit breaker.

import (
	"context"
	"encoding/json"
	"fmt"

	"blendwms/internal/infra"
	"blendwms/internal/model"

	"github.com/rs/zerolog/log"
)

// NotificacionWorker delivers domain events to the external webhook.
type NotificacionWorker struct {
	webhook *infra.WebhookClient
	cb      *infra.CircuitBreaker
}

func NewNotificacionWorker(webhook *infra.WebhookClient, cb *infra.CircuitBreaker) *NotificacionWorker {
	return &NotificacionWorker{webhook: webhook, cb: cb}
}

func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var evento model.EventoStock
	if err := json.Unmarshal(raw, &evento); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		// Malformed payloads never succeed on retry — drop without error.
		return nil
	}
	if !w.webhook.Enabled() {
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.webhook.Notify(ctx, evento)
	})
	if err != nil {
		return fmt.Errorf("notificacion_worker: %w", err)
	}
	log.Info().Str("tipo", evento.Tipo).Str("articulo_id", evento.ArticuloID.String()).
		Msg("notificacion_worker: event delivered")
	return nil
}
