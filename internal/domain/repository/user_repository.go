package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// UserRepository persistencia de usuarios.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
	Update(ctx context.Context, u *entity.User) error
	UpdateLastAccess(ctx context.Context, id string, at time.Time) error
}
