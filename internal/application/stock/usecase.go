// Package stock implementa el control de existencias y el libro de
// movimientos. Toda variación de stock (entrada, salida, ajuste) se registra
// como un asiento append-only y se aplica en la misma transacción que lo
// inserta, con la fila del material bloqueada.
package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-escolar/internal/application/dto"
	"github.com/tu-usuario/almacen-escolar/internal/application/validate"
	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
	"github.com/tu-usuario/almacen-escolar/pkg/logger"
)

// Usecase casos de uso de existencias y libro de movimientos.
type Usecase struct {
	txRunner  TxRunner
	materials repository.MaterialRepository
	movements repository.MovementRepository
	log       *logger.Logger
}

// New construye el caso de uso.
func New(txRunner TxRunner, materials repository.MaterialRepository, movements repository.MovementRepository, log *logger.Logger) *Usecase {
	return &Usecase{txRunner: txRunner, materials: materials, movements: movements, log: log}
}

// RegisterMovement registra un movimiento manual de stock (rol almacenista).
//
// Dentro de una única transacción: bloquea la fila del material, calcula el
// nuevo stock según el tipo, valida el asiento y lo inserta, y escribe la
// existencia resultante. Si cualquier paso falla no queda ni asiento ni
// cambio de stock.
func (uc *Usecase) RegisterMovement(ctx context.Context, callerID, callerRole string, req dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if !entity.CanManageStock(callerRole) {
		return nil, fmt.Errorf("%w: solo el almacenista registra movimientos", domain.ErrForbidden)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var created *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		movements repository.MovementRepository,
		_ repository.RequisitionRepository,
	) error {
		mat, err := materials.GetByIDForUpdate(ctx, req.MaterialID)
		if err != nil {
			return err
		}

		mov, err := buildMovement(mat, req.Type, req.Quantity, req.Reason, req.Notes, callerID)
		if err != nil {
			return err
		}
		if err := movements.Create(ctx, mov); err != nil {
			return fmt.Errorf("insertar movimiento: %w", err)
		}
		if err := materials.UpdateQuantity(ctx, mat.ID, mov.QuantityAfter); err != nil {
			return fmt.Errorf("actualizar existencia: %w", err)
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("material_id", created.MaterialID).
		Str("type", created.Type).
		Int64("quantity", created.Quantity).
		Int64("after", created.QuantityAfter).
		Msg("movimiento registrado")

	resp := dto.NewMovementResponse(created)
	return &resp, nil
}

// buildMovement calcula el asiento para un material ya bloqueado.
// OUT que dejaría stock negativo falla con InsufficientStockError.
func buildMovement(mat *entity.Material, movType string, quantity int64, reason, notes, performedBy string) (*entity.Movement, error) {
	before := mat.Quantity
	var after int64
	switch movType {
	case entity.MovementIN:
		after = before + quantity
	case entity.MovementOUT:
		after = before - quantity
		if quantity >= 1 && after < 0 {
			return nil, &domain.InsufficientStockError{MaterialID: mat.ID, Available: before, Requested: quantity}
		}
	case entity.MovementADJUSTMENT:
		after = quantity
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, movType)
	}

	mov := &entity.Movement{
		ID:             uuid.New().String(),
		MaterialID:     mat.ID,
		Type:           movType,
		Quantity:       quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         reason,
		Notes:          notes,
		PerformedBy:    performedBy,
		PerformedAt:    time.Now(),
	}
	if err := mov.Validate(); err != nil {
		return nil, err
	}
	return mov, nil
}

// History devuelve el historial de movimientos de un material, del más
// reciente al más antiguo.
func (uc *Usecase) History(ctx context.Context, materialID string, page dto.PageRequest) (*dto.PageResponse, error) {
	page.Normalize()
	if _, err := uc.materials.GetByID(ctx, materialID); err != nil {
		return nil, err
	}
	movs, total, err := uc.movements.ListByMaterial(ctx, materialID, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	resp := dto.NewPageResponse(dto.NewMovementResponses(movs), total, page)
	return &resp, nil
}

// List listado global de movimientos con filtros (solo aprobadores y almacenista).
func (uc *Usecase) List(ctx context.Context, callerRole string, f dto.MovementListFilter) (*dto.PageResponse, error) {
	if !entity.IsApprover(callerRole) && !entity.CanManageStock(callerRole) {
		return nil, domain.ErrForbidden
	}
	f.Normalize()
	filter := repository.MovementFilter{
		MaterialID: f.MaterialID,
		Type:       f.Type,
		Reason:     f.Reason,
		From:       f.From,
		To:         f.To,
	}
	movs, total, err := uc.movements.List(ctx, filter, f.PageSize, f.Offset())
	if err != nil {
		return nil, err
	}
	resp := dto.NewPageResponse(dto.NewMovementResponses(movs), total, f.PageRequest)
	return &resp, nil
}

// Stats agregados del libro en el rango dado (solo aprobadores y almacenista).
func (uc *Usecase) Stats(ctx context.Context, callerRole string, from, to *time.Time) (*dto.MovementStatsResponse, error) {
	if !entity.IsApprover(callerRole) && !entity.CanManageStock(callerRole) {
		return nil, domain.ErrForbidden
	}
	stats, err := uc.movements.Stats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := dto.NewMovementStatsResponse(stats)
	return &resp, nil
}
