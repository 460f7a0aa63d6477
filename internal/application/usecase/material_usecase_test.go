package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-escolar/internal/application/usecase"
	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
	"github.com/tu-usuario/almacen-escolar/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// catTxRunner imita la semántica todo-o-nada de la transacción real y cuenta
// sus invocaciones, para poder afirmar que la baja de un material corre dentro
// de la transacción (conteo de pendientes y update juntos).
// ──────────────────────────────────────────────────────────────────────────────

type catStore struct {
	materials      map[string]entity.Material
	requisitions   map[string]entity.Requisition
	txCalls        int
	forUpdateCalls int
}

func newCatStore() *catStore {
	return &catStore{
		materials:    map[string]entity.Material{},
		requisitions: map[string]entity.Requisition{},
	}
}

type catMaterialRepo struct{ s *catStore }

func (f catMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	f.s.materials[m.ID] = *m
	return nil
}

func (f catMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	m, ok := f.s.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (f catMaterialRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	f.s.forUpdateCalls++
	return f.GetByID(ctx, id)
}

func (f catMaterialRepo) GetByName(_ context.Context, _ string) (*entity.Material, error) {
	return nil, domain.ErrNotFound
}

func (f catMaterialRepo) List(_ context.Context, _ repository.MaterialFilter, _, _ int) ([]entity.Material, int64, error) {
	return nil, 0, nil
}

func (f catMaterialRepo) ListLowStock(_ context.Context) ([]entity.Material, error) { return nil, nil }
func (f catMaterialRepo) ListCategories(_ context.Context) ([]string, error)       { return nil, nil }

func (f catMaterialRepo) Update(_ context.Context, m *entity.Material) error {
	if _, ok := f.s.materials[m.ID]; !ok {
		return domain.ErrNotFound
	}
	f.s.materials[m.ID] = *m
	return nil
}

func (f catMaterialRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	m, ok := f.s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Quantity = quantity
	f.s.materials[id] = m
	return nil
}

type catMovementRepo struct{ s *catStore }

func (f catMovementRepo) Create(_ context.Context, _ *entity.Movement) error { return nil }

func (f catMovementRepo) List(_ context.Context, _ repository.MovementFilter, _, _ int) ([]entity.Movement, int64, error) {
	return nil, 0, nil
}

func (f catMovementRepo) ListByMaterial(_ context.Context, _ string, _, _ int) ([]entity.Movement, int64, error) {
	return nil, 0, nil
}

func (f catMovementRepo) Stats(_ context.Context, _, _ *time.Time) (*repository.MovementStats, error) {
	return &repository.MovementStats{}, nil
}

func (f catMovementRepo) CountSince(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

type catRequisitionRepo struct{ s *catStore }

func (f catRequisitionRepo) Create(_ context.Context, r *entity.Requisition) error {
	f.s.requisitions[r.ID] = *r
	return nil
}

func (f catRequisitionRepo) GetByID(_ context.Context, id string) (*entity.Requisition, error) {
	r, ok := f.s.requisitions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (f catRequisitionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Requisition, error) {
	return f.GetByID(ctx, id)
}

func (f catRequisitionRepo) Update(_ context.Context, r *entity.Requisition) error {
	if _, ok := f.s.requisitions[r.ID]; !ok {
		return domain.ErrNotFound
	}
	f.s.requisitions[r.ID] = *r
	return nil
}

func (f catRequisitionRepo) List(_ context.Context, _ repository.RequisitionFilter, _, _ int) ([]entity.Requisition, int64, error) {
	return nil, 0, nil
}

func (f catRequisitionRepo) ListPending(_ context.Context, _, _ int) ([]entity.Requisition, int64, error) {
	return nil, 0, nil
}

func (f catRequisitionRepo) CountPending(_ context.Context) (int64, error) { return 0, nil }

func (f catRequisitionRepo) CountPendingByMaterial(_ context.Context, materialID string) (int64, error) {
	var n int64
	for _, r := range f.s.requisitions {
		if r.Status == entity.StatusPending && r.MaterialID == materialID {
			n++
		}
	}
	return n, nil
}

func (f catRequisitionRepo) Stats(_ context.Context, _ string) (*repository.RequisitionStats, error) {
	return &repository.RequisitionStats{
		ByStatus:   map[string]int64{},
		ByPriority: map[string]int64{},
	}, nil
}

type catTxRunner struct{ s *catStore }

func (f catTxRunner) Run(_ context.Context, fn func(
	materials repository.MaterialRepository,
	movements repository.MovementRepository,
	requisitions repository.RequisitionRepository,
) error) error {
	f.s.txCalls++

	matsSnap := make(map[string]entity.Material, len(f.s.materials))
	for k, v := range f.s.materials {
		matsSnap[k] = v
	}
	reqsSnap := make(map[string]entity.Requisition, len(f.s.requisitions))
	for k, v := range f.s.requisitions {
		reqsSnap[k] = v
	}

	if err := fn(catMaterialRepo{f.s}, catMovementRepo{f.s}, catRequisitionRepo{f.s}); err != nil {
		f.s.materials = matsSnap
		f.s.requisitions = reqsSnap
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type catFixture struct {
	uc         *usecase.MaterialUsecase
	store      *catStore
	materialID string
}

func newCatFixture(t *testing.T) *catFixture {
	t.Helper()
	store := newCatStore()

	materialID := uuid.New().String()
	store.materials[materialID] = entity.Material{
		ID:              materialID,
		Name:            "Cartulina Blanca",
		Unit:            "paquete",
		Quantity:        30,
		MinimumQuantity: 5,
		Active:          true,
	}

	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := usecase.NewMaterialUsecase(catTxRunner{store}, catMaterialRepo{store}, catRequisitionRepo{store}, log)
	return &catFixture{uc: uc, store: store, materialID: materialID}
}

// addPending inserta una requisición pendiente sobre el material de la fixture.
func (fx *catFixture) addPending(t *testing.T) {
	t.Helper()
	id := uuid.New().String()
	fx.store.requisitions[id] = entity.Requisition{
		ID:          id,
		RequesterID: uuid.New().String(),
		MaterialID:  fx.materialID,
		Quantity:    3,
		Status:      entity.StatusPending,
		Priority:    entity.PriorityMedium,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Desactivar
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivate_SinPendientes(t *testing.T) {
	fx := newCatFixture(t)

	err := fx.uc.Deactivate(context.Background(), entity.RoleAlmacenista, fx.materialID)
	require.NoError(t, err)

	m := fx.store.materials[fx.materialID]
	assert.False(t, m.Active, "el material debe quedar inactivo")
	assert.Equal(t, 1, fx.store.txCalls,
		"conteo de pendientes y baja deben correr en una sola transacción")
	assert.GreaterOrEqual(t, fx.store.forUpdateCalls, 1,
		"la fila del material debe bloquearse durante la baja")
}

func TestDeactivate_ConPendientesSeBloquea(t *testing.T) {
	fx := newCatFixture(t)
	fx.addPending(t)

	err := fx.uc.Deactivate(context.Background(), entity.RoleAlmacenista, fx.materialID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPendingRequisitions))

	m := fx.store.materials[fx.materialID]
	assert.True(t, m.Active, "con pendientes el material debe seguir activo")
}

func TestDeactivate_SoloAlmacenista(t *testing.T) {
	fx := newCatFixture(t)

	err := fx.uc.Deactivate(context.Background(), entity.RoleProfesor, fx.materialID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDeactivate_Inexistente(t *testing.T) {
	fx := newCatFixture(t)

	err := fx.uc.Deactivate(context.Background(), entity.RoleAlmacenista, uuid.New().String())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
