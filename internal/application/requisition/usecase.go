// Package requisition implementa el ciclo de vida de las requisiciones de
// material: creación por profesores, cola de aprobación y decisión
// (aprobar/rechazar) por coordinadores y almacenistas.
//
// La aprobación es todo-o-nada: transición de estado, descuento de stock y
// asiento en el libro ocurren en una sola transacción con ambas filas
// bloqueadas. Dos aprobaciones concurrentes sobre el mismo material no pueden
// sobregirar la existencia.
package requisition

import (
	"context"
	"fmt"
	"strings"
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

// Usecase casos de uso de requisiciones.
type Usecase struct {
	txRunner     stock.TxRunner
	requisitions repository.RequisitionRepository
	materials    repository.MaterialRepository
	log          *logger.Logger
}

// New construye el caso de uso.
func New(txRunner stock.TxRunner, requisitions repository.RequisitionRepository, materials repository.MaterialRepository, log *logger.Logger) *Usecase {
	return &Usecase{txRunner: txRunner, requisitions: requisitions, materials: materials, log: log}
}

// Create registra una requisición nueva (solo profesores).
//
// El stock se comprueba de forma orientativa contra la existencia actual; la
// reserva real ocurre únicamente al aprobar. Un material inactivo no es
// solicitable y se reporta como inexistente.
func (uc *Usecase) Create(ctx context.Context, callerID, callerRole string, req dto.CreateRequisitionRequest) (*dto.RequisitionResponse, error) {
	if callerRole != entity.RoleProfesor {
		return nil, fmt.Errorf("%w: solo los profesores crean requisiciones", domain.ErrForbidden)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Priority == "" {
		req.Priority = entity.PriorityMedium
	}

	mat, err := uc.materials.GetByID(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}
	if !mat.Active {
		return nil, domain.ErrNotFound
	}
	if mat.Quantity < req.Quantity {
		return nil, &domain.InsufficientStockError{MaterialID: mat.ID, Available: mat.Quantity, Requested: req.Quantity}
	}

	now := time.Now()
	r := &entity.Requisition{
		ID:            uuid.New().String(),
		RequesterID:   callerID,
		MaterialID:    req.MaterialID,
		Quantity:      req.Quantity,
		Status:        entity.StatusPending,
		Priority:      req.Priority,
		Justification: strings.TrimSpace(req.Justification),
		Notes:         strings.TrimSpace(req.Notes),
		NeededBy:      req.NeededBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.requisitions.Create(ctx, r); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("requisition_id", r.ID).
		Str("material_id", r.MaterialID).
		Int64("quantity", r.Quantity).
		Str("priority", r.Priority).
		Msg("requisición creada")

	resp := dto.NewRequisitionResponse(r)
	return &resp, nil
}

// Approve aprueba una requisición pendiente y entrega el material.
//
// En una sola transacción: bloquea la requisición y el material, valida la
// transición, re-comprueba el stock bajo el lock, inserta el asiento OUT con
// motivo requisition, escribe la nueva existencia y persiste el estado
// aprobado. Cualquier fallo revierte todo.
func (uc *Usecase) Approve(ctx context.Context, callerID, callerRole, id string) (*dto.RequisitionResponse, error) {
	if !entity.IsApprover(callerRole) {
		return nil, fmt.Errorf("%w: el rol %s no puede aprobar requisiciones", domain.ErrForbidden, callerRole)
	}

	var approved *entity.Requisition
	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		movements repository.MovementRepository,
		requisitions repository.RequisitionRepository,
	) error {
		r, err := requisitions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		mat, err := materials.GetByIDForUpdate(ctx, r.MaterialID)
		if err != nil {
			return err
		}
		// Un material dado de baja después de crear la requisición ya no se entrega.
		if !mat.Active {
			return domain.ErrNotFound
		}

		now := time.Now()
		if err := r.Approve(callerID, now); err != nil {
			return err
		}

		after := mat.Quantity - r.Quantity
		if after < 0 {
			return &domain.InsufficientStockError{MaterialID: mat.ID, Available: mat.Quantity, Requested: r.Quantity}
		}

		mov := &entity.Movement{
			ID:             uuid.New().String(),
			MaterialID:     mat.ID,
			Type:           entity.MovementOUT,
			Quantity:       r.Quantity,
			QuantityBefore: mat.Quantity,
			QuantityAfter:  after,
			Reason:         entity.ReasonRequisition,
			Notes:          "Entrega de requisición " + r.ID,
			PerformedBy:    callerID,
			PerformedAt:    now,
		}
		if err := mov.Validate(); err != nil {
			return err
		}
		if err := movements.Create(ctx, mov); err != nil {
			return fmt.Errorf("insertar movimiento: %w", err)
		}
		if err := materials.UpdateQuantity(ctx, mat.ID, after); err != nil {
			return fmt.Errorf("actualizar existencia: %w", err)
		}
		if err := requisitions.Update(ctx, r); err != nil {
			return fmt.Errorf("persistir requisición: %w", err)
		}
		approved = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("requisition_id", approved.ID).
		Str("approved_by", callerID).
		Msg("requisición aprobada")

	resp := dto.NewRequisitionResponse(approved)
	return &resp, nil
}

// Reject rechaza una requisición pendiente. No toca stock, pero bloquea la
// fila para no competir con una aprobación concurrente.
func (uc *Usecase) Reject(ctx context.Context, callerID, callerRole, id string, req dto.RejectRequisitionRequest) (*dto.RequisitionResponse, error) {
	if !entity.IsApprover(callerRole) {
		return nil, fmt.Errorf("%w: el rol %s no puede rechazar requisiciones", domain.ErrForbidden, callerRole)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var rejected *entity.Requisition
	err := uc.txRunner.Run(ctx, func(
		_ repository.MaterialRepository,
		_ repository.MovementRepository,
		requisitions repository.RequisitionRepository,
	) error {
		r, err := requisitions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Reject(callerID, req.Reason, time.Now()); err != nil {
			return err
		}
		if err := requisitions.Update(ctx, r); err != nil {
			return fmt.Errorf("persistir requisición: %w", err)
		}
		rejected = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("requisition_id", rejected.ID).
		Str("rejected_by", callerID).
		Msg("requisición rechazada")

	resp := dto.NewRequisitionResponse(rejected)
	return &resp, nil
}

// Update permite al solicitante ajustar su requisición mientras siga
// pendiente. Una requisición decidida es inmutable.
func (uc *Usecase) Update(ctx context.Context, callerID, id string, req dto.UpdateRequisitionRequest) (*dto.RequisitionResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	r, err := uc.requisitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.RequesterID != callerID {
		return nil, fmt.Errorf("%w: la requisición pertenece a otro solicitante", domain.ErrForbidden)
	}
	if !r.Pending() {
		return nil, fmt.Errorf("%w: no se puede editar una requisición %s", domain.ErrInvalidTransition, r.Status)
	}

	if req.Quantity != nil {
		mat, err := uc.materials.GetByID(ctx, r.MaterialID)
		if err != nil {
			return nil, err
		}
		if mat.Quantity < *req.Quantity {
			return nil, &domain.InsufficientStockError{MaterialID: mat.ID, Available: mat.Quantity, Requested: *req.Quantity}
		}
		r.Quantity = *req.Quantity
	}
	if req.Priority != nil {
		r.Priority = *req.Priority
	}
	if req.Justification != nil {
		r.Justification = strings.TrimSpace(*req.Justification)
	}
	if req.Notes != nil {
		r.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.NeededBy != nil {
		r.NeededBy = req.NeededBy
	}
	r.UpdatedAt = time.Now()

	if err := uc.requisitions.Update(ctx, r); err != nil {
		return nil, err
	}
	resp := dto.NewRequisitionResponse(r)
	return &resp, nil
}

// Get devuelve una requisición. Un profesor solo ve las suyas.
func (uc *Usecase) Get(ctx context.Context, callerID, callerRole, id string) (*dto.RequisitionResponse, error) {
	r, err := uc.requisitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == entity.RoleProfesor && r.RequesterID != callerID {
		return nil, domain.ErrForbidden
	}
	resp := dto.NewRequisitionResponse(r)
	return &resp, nil
}

// List listado paginado con filtros. Un profesor solo ve las suyas.
func (uc *Usecase) List(ctx context.Context, callerID, callerRole string, f dto.RequisitionListFilter) (*dto.PageResponse, error) {
	f.Normalize()
	filter := repository.RequisitionFilter{
		MaterialID: f.MaterialID,
		Status:     f.Status,
		Priority:   f.Priority,
		From:       f.From,
		To:         f.To,
	}
	if callerRole == entity.RoleProfesor {
		filter.RequesterID = callerID
	}
	rs, total, err := uc.requisitions.List(ctx, filter, f.PageSize, f.Offset())
	if err != nil {
		return nil, err
	}
	resp := dto.NewPageResponse(dto.NewRequisitionResponses(rs), total, f.PageRequest)
	return &resp, nil
}

// ListPending cola de aprobación (solo aprobadores): prioridad descendente y,
// a igual prioridad, la más antigua primero.
func (uc *Usecase) ListPending(ctx context.Context, callerRole string, page dto.PageRequest) (*dto.PageResponse, error) {
	if !entity.IsApprover(callerRole) {
		return nil, domain.ErrForbidden
	}
	page.Normalize()
	rs, total, err := uc.requisitions.ListPending(ctx, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	resp := dto.NewPageResponse(dto.NewRequisitionResponses(rs), total, page)
	return &resp, nil
}

// Stats conteos por estado y prioridad. Para un profesor, solo sus requisiciones.
func (uc *Usecase) Stats(ctx context.Context, callerID, callerRole string) (*dto.RequisitionStatsResponse, error) {
	requesterID := ""
	if callerRole == entity.RoleProfesor {
		requesterID = callerID
	}
	stats, err := uc.requisitions.Stats(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewRequisitionStatsResponse(stats)
	return &resp, nil
}

// VoucherData datos planos para el comprobante imprimible de una requisición.
type VoucherData struct {
	Requisition  entity.Requisition
	MaterialName string
	MaterialUnit string
}

// Voucher reúne los datos del comprobante PDF. Mismo control de visibilidad
// que Get.
func (uc *Usecase) Voucher(ctx context.Context, callerID, callerRole, id string) (*VoucherData, error) {
	r, err := uc.requisitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == entity.RoleProfesor && r.RequesterID != callerID {
		return nil, domain.ErrForbidden
	}
	mat, err := uc.materials.GetByID(ctx, r.MaterialID)
	if err != nil {
		return nil, err
	}
	return &VoucherData{
		Requisition:  *r,
		MaterialName: textutil.Capitalize(mat.Name),
		MaterialUnit: mat.Unit,
	}, nil
}
