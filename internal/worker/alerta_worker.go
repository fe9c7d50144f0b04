package worker

// alerta_worker.go
// Consumes alert jobs from QueueAlertas and mails them to the operations
// inbox via SMTP.

import (
	"context"
	"encoding/json"
	"fmt"

	"blendwms/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertaPayload is the job envelope sent to QueueAlertas.
type AlertaPayload struct {
	Asunto string `json:"asunto"`
	Cuerpo string `json:"cuerpo"`
}

// AlertaWorker mails alerts (expiring lots, reconciliation drift).
type AlertaWorker struct {
	mailer       *infra.Mailer
	destinatario string
}

func NewAlertaWorker(mailer *infra.Mailer, destinatario string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, destinatario: destinatario}
}

func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertaPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return nil
	}
	if !w.mailer.Enabled() || w.destinatario == "" {
		log.Debug().Msg("alerta_worker: SMTP not configured, skipping")
		return nil
	}

	if err := w.mailer.SendAlerta(w.destinatario, payload.Asunto, payload.Cuerpo); err != nil {
		return fmt.Errorf("alerta_worker: %w", err)
	}
	log.Info().Str("asunto", payload.Asunto).Msg("alerta_worker: alert sent")
	return nil
}
