package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// MovementFilter filtros del listado global de movimientos.
type MovementFilter struct {
	MaterialID string
	Type       string
	Reason     string
	From       *time.Time
	To         *time.Time
}

// TypeStat conteo y suma de cantidades por tipo de movimiento.
type TypeStat struct {
	Type          string
	Count         int64
	TotalQuantity int64
}

// ReasonStat conteo por motivo.
type ReasonStat struct {
	Reason string
	Count  int64
}

// TopMaterial material con más movimientos en el periodo.
type TopMaterial struct {
	MaterialID    string
	MaterialName  string
	Count         int64
	TotalQuantity int64
}

// MovementStats agregados del libro de movimientos.
type MovementStats struct {
	Total        int64
	ByType       []TypeStat
	ByReason     []ReasonStat
	TopMaterials []TopMaterial
}

// MovementRepository persistencia del libro de existencias. Solo inserción y
// lectura: el libro es append-only por diseño del esquema (sin Update/Delete).
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	List(ctx context.Context, f MovementFilter, limit, offset int) ([]entity.Movement, int64, error)
	// ListByMaterial historial de un material, del más reciente al más antiguo.
	ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]entity.Movement, int64, error)
	Stats(ctx context.Context, from, to *time.Time) (*MovementStats, error)
	// CountSince movimientos registrados desde el instante dado (dashboard).
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
