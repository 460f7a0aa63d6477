package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// RequisitionFilter filtros del listado de requisiciones.
type RequisitionFilter struct {
	RequesterID string
	MaterialID  string
	Status      string
	Priority    string
	From        *time.Time
	To          *time.Time
}

// RequisitionStats conteos por estado y por prioridad.
type RequisitionStats struct {
	Total      int64
	ByStatus   map[string]int64
	ByPriority map[string]int64
}

// RequisitionRepository persistencia de requisiciones.
type RequisitionRepository interface {
	Create(ctx context.Context, r *entity.Requisition) error
	GetByID(ctx context.Context, id string) (*entity.Requisition, error)
	// GetByIDForUpdate bloquea la fila para la decisión aprobar/rechazar.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Requisition, error)
	Update(ctx context.Context, r *entity.Requisition) error
	List(ctx context.Context, f RequisitionFilter, limit, offset int) ([]entity.Requisition, int64, error)
	// ListPending cola de aprobación: prioridad descendente, luego antigüedad.
	ListPending(ctx context.Context, limit, offset int) ([]entity.Requisition, int64, error)
	CountPending(ctx context.Context) (int64, error)
	// CountPendingByMaterial requisiciones pendientes que referencian el material.
	CountPendingByMaterial(ctx context.Context, materialID string) (int64, error)
	// Stats agregados; con requesterID no vacío se limita a ese solicitante.
	Stats(ctx context.Context, requesterID string) (*RequisitionStats, error)
}
