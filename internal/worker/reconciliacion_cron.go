package worker

// reconciliacion_cron.go
// Background goroutine with two duties on each tick:
//   1. Recompute every artículo's derived total from its lots (drift heals
//      here even if an operation skipped its closing reconciliation).
//   2. Scan for lots expiring inside the alert window and enqueue alert
//      mails / webhook events for them.

import (
	"context"
	"fmt"
	"time"

	"blendwms/internal/model"
	"blendwms/internal/repository"
	"blendwms/internal/service"

	"github.com/rs/zerolog/log"
)

// ReconCronConfig holds all dependencies for the reconciliation goroutine.
type ReconCronConfig struct {
	Reconciliador service.ReconciliacionService
	LoteRepo      repository.LoteRepository
	Dispatcher    *Dispatcher

	Interval      time.Duration
	AlertaVentana time.Duration // lots expiring within this window trigger alerts
}

// StartReconCron launches the periodic reconciliation + expiry sweep.
// It respects the context for graceful shutdown.
func StartReconCron(ctx context.Context, cfg ReconCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("recon_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("recon_cron: shutting down")
				return
			case <-ticker.C:
				runSweep(ctx, cfg)
			}
		}
	}()
}

func runSweep(ctx context.Context, cfg ReconCronConfig) {
	n, err := cfg.Reconciliador.RecalcularTodos(ctx)
	if err != nil {
		log.Error().Err(err).Msg("recon_cron: reconciliation sweep failed")
	} else {
		log.Debug().Int("articulos", n).Msg("recon_cron: totals recomputed")
	}

	alertarVencimientos(ctx, cfg)
}

func alertarVencimientos(ctx context.Context, cfg ReconCronConfig) {
	limite := time.Now().Add(cfg.AlertaVentana)
	lotes, err := cfg.LoteRepo.FindPorVencer(ctx, limite)
	if err != nil {
		log.Error().Err(err).Msg("recon_cron: expiry scan failed")
		return
	}
	if len(lotes) == 0 {
		return
	}

	// One alert mail per sweep holds the whole list; webhooks get one event
	// per lot. Deduplication across sweeps is the receiver's job — an
	// about-to-expire lot stays alertable until consumed or adjusted out.
	cuerpo := "Lotes por vencer:\n"
	for i := range lotes {
		l := &lotes[i]
		cuerpo += fmt.Sprintf("- %s (articulo %s): %s unidades, vence %s\n",
			l.NumeroLote, l.ArticuloID, l.Cantidad, l.FechaVencimiento.Format("2006-01-02"))

		loteID := l.ID
		depositoID := l.DepositoID
		cfg.Dispatcher.EnqueueEventos(ctx, []model.EventoStock{{
			Tipo:       model.EventoPorVencer,
			ArticuloID: l.ArticuloID,
			LoteID:     &loteID,
			DepositoID: &depositoID,
			Cantidad:   l.Cantidad,
			Detalle:    fmt.Sprintf("vence %s", l.FechaVencimiento.Format("2006-01-02")),
		}})
	}

	if err := cfg.Dispatcher.EnqueueAlerta(ctx, AlertaPayload{
		Asunto: fmt.Sprintf("Stock: %d lotes por vencer", len(lotes)),
		Cuerpo: cuerpo,
	}); err != nil {
		log.Error().Err(err).Msg("recon_cron: failed to enqueue expiry alert")
	}

	log.Warn().Int("lotes", len(lotes)).Msg("recon_cron: expiring lots detected")
}
