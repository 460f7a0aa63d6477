package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-escolar/internal/application/dto"
	"github.com/tu-usuario/almacen-escolar/internal/application/validate"
	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
	"github.com/tu-usuario/almacen-escolar/pkg/logger"
	"github.com/tu-usuario/almacen-escolar/pkg/textutil"
)

// DepartmentUsecase gestión de departamentos (dato de referencia, solo administrador).
type DepartmentUsecase struct {
	departments repository.DepartmentRepository
	log         *logger.Logger
}

// NewDepartmentUsecase construye el caso de uso.
func NewDepartmentUsecase(departments repository.DepartmentRepository, log *logger.Logger) *DepartmentUsecase {
	return &DepartmentUsecase{departments: departments, log: log}
}

// Create da de alta un departamento.
func (uc *DepartmentUsecase) Create(ctx context.Context, callerRole string, req dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if callerRole != entity.RoleAdministrador {
		return nil, fmt.Errorf("%w: solo el administrador gestiona departamentos", domain.ErrForbidden)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	name := textutil.Capitalize(req.Name)
	if existing, err := uc.departments.GetByName(ctx, name); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: ya existe el departamento %q", domain.ErrDuplicate, existing.Name)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	d := &entity.Department{
		ID:          uuid.New().String(),
		Name:        name,
		Description: req.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.departments.Create(ctx, d); err != nil {
		return nil, err
	}
	resp := dto.NewDepartmentResponse(d)
	return &resp, nil
}

// Get devuelve un departamento por id.
func (uc *DepartmentUsecase) Get(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	d, err := uc.departments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDepartmentResponse(d)
	return &resp, nil
}

// List departamentos; por defecto solo activos.
func (uc *DepartmentUsecase) List(ctx context.Context, includeInactive bool) ([]dto.DepartmentResponse, error) {
	ds, err := uc.departments.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	return dto.NewDepartmentResponses(ds), nil
}

// Update modifica un departamento.
func (uc *DepartmentUsecase) Update(ctx context.Context, callerRole, id string, req dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if callerRole != entity.RoleAdministrador {
		return nil, fmt.Errorf("%w: solo el administrador gestiona departamentos", domain.ErrForbidden)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	d, err := uc.departments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := textutil.Capitalize(*req.Name)
		if name != d.Name {
			if existing, err := uc.departments.GetByName(ctx, name); err == nil && existing != nil && existing.ID != d.ID {
				return nil, fmt.Errorf("%w: ya existe el departamento %q", domain.ErrDuplicate, existing.Name)
			} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			d.Name = name
		}
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Active != nil {
		d.Active = *req.Active
	}
	d.UpdatedAt = time.Now()

	if err := uc.departments.Update(ctx, d); err != nil {
		return nil, err
	}
	resp := dto.NewDepartmentResponse(d)
	return &resp, nil
}
