// Package analytics contiene el caso de uso del panel de control: contadores
// agregados del almacén para la pantalla principal.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/application/dto"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
	"github.com/tu-usuario/almacen-escolar/pkg/logger"
)

const summaryCacheKey = "dashboard:summary"

// StatsCache caché opcional del resumen (Redis en producción, nil = sin caché).
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}) error
}

// DashboardUseCase calcula los contadores del panel principal.
//
// Cuatro consultas read-only en paralelo; el resultado se cachea unos
// segundos si hay caché configurado. Un fallo del caché nunca tumba el
// dashboard: se registra y se sigue contra la base de datos.
type DashboardUseCase struct {
	materials    repository.MaterialRepository
	movements    repository.MovementRepository
	requisitions repository.RequisitionRepository
	cache        StatsCache
	log          *logger.Logger
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(
	materials repository.MaterialRepository,
	movements repository.MovementRepository,
	requisitions repository.RequisitionRepository,
	cache StatsCache,
	log *logger.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		materials:    materials,
		movements:    movements,
		requisitions: requisitions,
		cache:        cache,
		log:          log,
	}
}

// GetSummary construye el DashboardSummaryDTO.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	if uc.cache != nil {
		var cached dto.DashboardSummaryDTO
		ok, err := uc.cache.Get(ctx, summaryCacheKey, &cached)
		if err != nil {
			uc.log.Warn().Err(err).Msg("caché del dashboard no disponible")
		} else if ok {
			return &cached, nil
		}
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las 4 consultas DB ────────────────────────
	type countResult struct {
		n   int64
		err error
	}

	materialsCh := make(chan countResult, 1)
	lowStockCh := make(chan countResult, 1)
	pendingCh := make(chan countResult, 1)
	todayCh := make(chan countResult, 1)

	go func() {
		active := true
		_, total, err := uc.materials.List(ctx, repository.MaterialFilter{Active: &active}, 1, 0)
		materialsCh <- countResult{total, err}
	}()
	go func() {
		ms, err := uc.materials.ListLowStock(ctx)
		lowStockCh <- countResult{int64(len(ms)), err}
	}()
	go func() {
		n, err := uc.requisitions.CountPending(ctx)
		pendingCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.movements.CountSince(ctx, todayStart)
		todayCh <- countResult{n, err}
	}()

	materials := <-materialsCh
	lowStock := <-lowStockCh
	pending := <-pendingCh
	today := <-todayCh

	if materials.err != nil {
		return nil, fmt.Errorf("dashboard: total de materiales: %w", materials.err)
	}
	if lowStock.err != nil {
		return nil, fmt.Errorf("dashboard: materiales bajo mínimo: %w", lowStock.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: requisiciones pendientes: %w", pending.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de hoy: %w", today.err)
	}

	summary := &dto.DashboardSummaryDTO{
		TotalMaterials:      materials.n,
		LowStockMaterials:   lowStock.n,
		PendingRequisitions: pending.n,
		MovementsToday:      today.n,
		DateLabel:           monthLabel(now),
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, summaryCacheKey, summary); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo cachear el resumen del dashboard")
		}
	}
	return summary, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Septiembre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
