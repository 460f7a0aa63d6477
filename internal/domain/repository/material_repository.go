package repository

import (
	"context"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// MaterialFilter filtros del listado de materiales.
type MaterialFilter struct {
	Search   string // búsqueda por nombre, insensible a mayúsculas y acentos
	Category string
	Active   *bool
	LowStock bool
}

// MaterialRepository persistencia del catálogo de materiales.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetByIDForUpdate bloquea la fila (SELECT ... FOR UPDATE). Solo tiene
	// sentido dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Material, error)
	// GetByName busca por nombre normalizado (sin acentos, minúsculas).
	GetByName(ctx context.Context, name string) (*entity.Material, error)
	List(ctx context.Context, f MaterialFilter, limit, offset int) ([]entity.Material, int64, error)
	ListLowStock(ctx context.Context) ([]entity.Material, error)
	ListCategories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, m *entity.Material) error
	// UpdateQuantity escribe la existencia resultante de un movimiento.
	// Nunca se llama fuera de una transacción que tenga la fila bloqueada.
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
}
