// Package scheduler tareas programadas (cron) de la API.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

const jobTimeout = 2 * time.Minute

// LowStockSource lo implementa *inventory.StockUseCase.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]dto.InventoryResponse, error)
}

// Scheduler ejecuta la alerta periódica de stock bajo.
type Scheduler struct {
	cron   *cron.Cron
	source LowStockSource
	spec   string
	log    *logger.Logger
}

// New construye el scheduler. spec es una expresión cron de 5 campos; vacía desactiva la alerta.
func New(spec string, source LowStockSource, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		source: source,
		spec:   spec,
		log:    log,
	}
}

// Start registra los jobs y arranca el cron.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.log.Info().Msg("alerta de stock bajo desactivada")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.runLowStockAlert); err != nil {
		return fmt.Errorf("programar alerta de stock bajo %q: %w", s.spec, err)
	}
	s.log.Info().Str("cron", s.spec).Msg("iniciando scheduler")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que terminen los jobs en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler detenido")
}

func (s *Scheduler) runLowStockAlert() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.LowStockAlert(ctx); err != nil {
		s.log.Error().Err(err).Msg("alerta de stock bajo")
	}
}

// LowStockAlert registra un warn por cada producto en o por debajo de su umbral.
// Devuelve cuántos productos se reportaron.
func (s *Scheduler) LowStockAlert(ctx context.Context) (int, error) {
	items, err := s.source.LowStock(ctx)
	if err != nil {
		return 0, err
	}
	for _, inv := range items {
		ev := s.log.Warn().
			Str("product_id", inv.ProductID).
			Str("stock", inv.CurrentStock.String()).
			Str("status", string(inv.Status))
		if inv.Product != nil {
			ev = ev.Str("product", inv.Product.Name).
				Str("cas", inv.Product.CASNumber).
				Str("unit", inv.Product.Unit).
				Int("threshold", inv.Product.LowStockThreshold)
		}
		ev.Msg("stock bajo")
	}
	s.log.Info().Int("count", len(items)).Msg("alerta de stock bajo ejecutada")
	return len(items), nil
}
