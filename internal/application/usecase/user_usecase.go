package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/application/dto"
	"github.com/tu-usuario/almacen-escolar/internal/application/validate"
	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
	"github.com/tu-usuario/almacen-escolar/pkg/logger"
	"github.com/tu-usuario/almacen-escolar/pkg/textutil"
)

// UserUsecase consultas y gestión de usuarios (solo administrador, salvo el
// perfil propio).
type UserUsecase struct {
	users repository.UserRepository
	log   *logger.Logger
}

// NewUserUsecase construye el caso de uso.
func NewUserUsecase(users repository.UserRepository, log *logger.Logger) *UserUsecase {
	return &UserUsecase{users: users, log: log}
}

// Get devuelve un usuario. Cada usuario puede ver su propio perfil; el resto
// requiere administrador.
func (uc *UserUsecase) Get(ctx context.Context, callerID, callerRole, id string) (*dto.UserResponse, error) {
	if id != callerID && callerRole != entity.RoleAdministrador {
		return nil, domain.ErrForbidden
	}
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}

// List listado paginado de usuarios (solo administrador).
func (uc *UserUsecase) List(ctx context.Context, callerRole string, page dto.PageRequest) (*dto.PageResponse, error) {
	if callerRole != entity.RoleAdministrador {
		return nil, domain.ErrForbidden
	}
	page.Normalize()
	us, total, err := uc.users.List(ctx, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	resp := dto.NewPageResponse(dto.NewUserResponses(us), total, page)
	return &resp, nil
}

// Update modifica nombre, rol, departamento o estado (solo administrador).
func (uc *UserUsecase) Update(ctx context.Context, callerRole, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if callerRole != entity.RoleAdministrador {
		return nil, fmt.Errorf("%w: solo el administrador gestiona usuarios", domain.ErrForbidden)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		u.Name = textutil.Capitalize(*req.Name)
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.DepartmentID != nil {
		u.DepartmentID = req.DepartmentID
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	u.UpdatedAt = time.Now()

	if err := uc.users.Update(ctx, u); err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}
