package repository

import (
	"context"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// DepartmentRepository persistencia de departamentos (dato de referencia).
type DepartmentRepository interface {
	Create(ctx context.Context, d *entity.Department) error
	GetByID(ctx context.Context, id string) (*entity.Department, error)
	GetByName(ctx context.Context, name string) (*entity.Department, error)
	List(ctx context.Context, includeInactive bool) ([]entity.Department, error)
	Update(ctx context.Context, d *entity.Department) error
}
