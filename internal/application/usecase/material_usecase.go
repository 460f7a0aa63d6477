// Package usecase contiene los casos de uso CRUD de catálogo y referencia
// (materiales, departamentos, usuarios).
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-escolar/internal/application/dto"
	"github.com/tu-usuario/almacen-escolar/internal/application/stock"
	"github.com/tu-usuario/almacen-escolar/internal/application/validate"
	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
	"github.com/tu-usuario/almacen-escolar/pkg/logger"
	"github.com/tu-usuario/almacen-escolar/pkg/textutil"
)

// MaterialUsecase gestión del catálogo de materiales.
type MaterialUsecase struct {
	txRunner     stock.TxRunner
	materials    repository.MaterialRepository
	requisitions repository.RequisitionRepository
	log          *logger.Logger
}

// NewMaterialUsecase construye el caso de uso.
func NewMaterialUsecase(txRunner stock.TxRunner, materials repository.MaterialRepository, requisitions repository.RequisitionRepository, log *logger.Logger) *MaterialUsecase {
	return &MaterialUsecase{txRunner: txRunner, materials: materials, requisitions: requisitions, log: log}
}

// Create da de alta un material (solo almacenista). El nombre se capitaliza de
// forma explícita y se rechaza el duplicado por nombre normalizado. Si trae
// existencia inicial, se asienta en el libro como ajuste de inventario dentro
// de la misma transacción: el stock nunca aparece de la nada.
func (uc *MaterialUsecase) Create(ctx context.Context, callerID, callerRole string, req dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if !entity.CanManageStock(callerRole) {
		return nil, fmt.Errorf("%w: solo el almacenista gestiona el catálogo", domain.ErrForbidden)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if !entity.ValidUnit(req.Unit) {
		return nil, fmt.Errorf("%w: unidad %q no reconocida", domain.ErrInvalidInput, req.Unit)
	}

	name := textutil.Capitalize(req.Name)
	if existing, err := uc.materials.GetByName(ctx, name); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: ya existe un material llamado %q", domain.ErrDuplicate, existing.Name)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	m := &entity.Material{
		ID:              uuid.New().String(),
		Name:            name,
		Unit:            req.Unit,
		Quantity:        req.Quantity,
		MinimumQuantity: req.MinimumQuantity,
		Description:     req.Description,
		Category:        textutil.Capitalize(req.Category),
		Active:          true,
		CreatedBy:       callerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		movements repository.MovementRepository,
		_ repository.RequisitionRepository,
	) error {
		if err := materials.Create(ctx, m); err != nil {
			return err
		}
		if m.Quantity > 0 {
			mov := &entity.Movement{
				ID:             uuid.New().String(),
				MaterialID:     m.ID,
				Type:           entity.MovementADJUSTMENT,
				Quantity:       m.Quantity,
				QuantityBefore: 0,
				QuantityAfter:  m.Quantity,
				Reason:         entity.ReasonInventoryCount,
				Notes:          "Inventario inicial",
				PerformedBy:    callerID,
				PerformedAt:    now,
			}
			if err := mov.Validate(); err != nil {
				return err
			}
			return movements.Create(ctx, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("material_id", m.ID).Str("name", m.Name).Msg("material creado")

	resp := dto.NewMaterialResponse(m)
	return &resp, nil
}

// Get devuelve un material por id.
func (uc *MaterialUsecase) Get(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	m, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewMaterialResponse(m)
	return &resp, nil
}

// List listado paginado con filtros (búsqueda insensible a acentos, categoría,
// activo, bajo stock).
func (uc *MaterialUsecase) List(ctx context.Context, f dto.MaterialListFilter) (*dto.PageResponse, error) {
	f.Normalize()
	filter := repository.MaterialFilter{
		Search:   f.Search,
		Category: f.Category,
		Active:   f.Active,
		LowStock: f.LowStock,
	}
	ms, total, err := uc.materials.List(ctx, filter, f.PageSize, f.Offset())
	if err != nil {
		return nil, err
	}
	resp := dto.NewPageResponse(dto.NewMaterialResponses(ms), total, f.PageRequest)
	return &resp, nil
}

// ListLowStock materiales activos en o por debajo de su mínimo.
func (uc *MaterialUsecase) ListLowStock(ctx context.Context) ([]dto.MaterialResponse, error) {
	ms, err := uc.materials.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewMaterialResponses(ms), nil
}

// ListCategories categorías distintas en uso.
func (uc *MaterialUsecase) ListCategories(ctx context.Context) ([]string, error) {
	return uc.materials.ListCategories(ctx)
}

// Update modifica datos del catálogo (solo almacenista). La existencia no se
// toca por aquí: solo cambia vía movimientos.
func (uc *MaterialUsecase) Update(ctx context.Context, callerRole, id string, req dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	if !entity.CanManageStock(callerRole) {
		return nil, fmt.Errorf("%w: solo el almacenista gestiona el catálogo", domain.ErrForbidden)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	m, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := textutil.Capitalize(*req.Name)
		if name != m.Name {
			if existing, err := uc.materials.GetByName(ctx, name); err == nil && existing != nil && existing.ID != m.ID {
				return nil, fmt.Errorf("%w: ya existe un material llamado %q", domain.ErrDuplicate, existing.Name)
			} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			m.Name = name
		}
	}
	if req.Unit != nil {
		if !entity.ValidUnit(*req.Unit) {
			return nil, fmt.Errorf("%w: unidad %q no reconocida", domain.ErrInvalidInput, *req.Unit)
		}
		m.Unit = *req.Unit
	}
	if req.MinimumQuantity != nil {
		m.MinimumQuantity = *req.MinimumQuantity
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Category != nil {
		m.Category = textutil.Capitalize(*req.Category)
	}
	m.UpdatedAt = time.Now()

	if err := uc.materials.Update(ctx, m); err != nil {
		return nil, err
	}
	resp := dto.NewMaterialResponse(m)
	return &resp, nil
}

// Deactivate baja lógica del material (solo almacenista). Se bloquea mientras
// existan requisiciones pendientes que lo referencien; el historial del libro
// se conserva intacto.
//
// El conteo de pendientes y la baja corren en una sola transacción con la fila
// del material bloqueada, para no cruzarse con una creación de requisición
// concurrente.
func (uc *MaterialUsecase) Deactivate(ctx context.Context, callerRole, id string) error {
	if !entity.CanManageStock(callerRole) {
		return fmt.Errorf("%w: solo el almacenista gestiona el catálogo", domain.ErrForbidden)
	}
	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		_ repository.MovementRepository,
		requisitions repository.RequisitionRepository,
	) error {
		m, err := materials.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		pending, err := requisitions.CountPendingByMaterial(ctx, id)
		if err != nil {
			return err
		}
		if pending > 0 {
			return fmt.Errorf("%w (%d pendientes)", domain.ErrPendingRequisitions, pending)
		}
		m.Active = false
		m.UpdatedAt = time.Now()
		return materials.Update(ctx, m)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("material_id", id).Msg("material desactivado")
	return nil
}
