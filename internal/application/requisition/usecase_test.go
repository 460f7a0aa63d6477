package requisition_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-escolar/internal/application/dto"
	"github.com/tu-usuario/almacen-escolar/internal/application/requisition"
	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
	"github.com/tu-usuario/almacen-escolar/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memTxRunner imita la semántica todo-o-nada de la transacción real: toma una
// instantánea del estado antes del callback y la restaura si devuelve error.
// Así los tests pueden afirmar que tras un fallo "no quedó nada a medias".
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	materials    map[string]entity.Material
	movements    []entity.Movement
	requisitions map[string]entity.Requisition
	statsCaller  string // último requesterID pedido a Stats
}

func newMemStore() *memStore {
	return &memStore{
		materials:    map[string]entity.Material{},
		requisitions: map[string]entity.Requisition{},
	}
}

type memMaterialRepo struct{ s *memStore }

func (f memMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	f.s.materials[m.ID] = *m
	return nil
}

func (f memMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	m, ok := f.s.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (f memMaterialRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return f.GetByID(ctx, id)
}

func (f memMaterialRepo) GetByName(_ context.Context, _ string) (*entity.Material, error) {
	return nil, domain.ErrNotFound
}

func (f memMaterialRepo) List(_ context.Context, _ repository.MaterialFilter, _, _ int) ([]entity.Material, int64, error) {
	return nil, 0, nil
}

func (f memMaterialRepo) ListLowStock(_ context.Context) ([]entity.Material, error) { return nil, nil }
func (f memMaterialRepo) ListCategories(_ context.Context) ([]string, error)       { return nil, nil }

func (f memMaterialRepo) Update(_ context.Context, m *entity.Material) error {
	f.s.materials[m.ID] = *m
	return nil
}

func (f memMaterialRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	m, ok := f.s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Quantity = quantity
	f.s.materials[id] = m
	return nil
}

type memMovementRepo struct{ s *memStore }

func (f memMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	f.s.movements = append(f.s.movements, *m)
	return nil
}

func (f memMovementRepo) List(_ context.Context, _ repository.MovementFilter, _, _ int) ([]entity.Movement, int64, error) {
	return f.s.movements, int64(len(f.s.movements)), nil
}

func (f memMovementRepo) ListByMaterial(_ context.Context, materialID string, _, _ int) ([]entity.Movement, int64, error) {
	var out []entity.Movement
	for _, m := range f.s.movements {
		if m.MaterialID == materialID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (f memMovementRepo) Stats(_ context.Context, _, _ *time.Time) (*repository.MovementStats, error) {
	return &repository.MovementStats{}, nil
}

func (f memMovementRepo) CountSince(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

type memRequisitionRepo struct{ s *memStore }

func (f memRequisitionRepo) Create(_ context.Context, r *entity.Requisition) error {
	f.s.requisitions[r.ID] = *r
	return nil
}

func (f memRequisitionRepo) GetByID(_ context.Context, id string) (*entity.Requisition, error) {
	r, ok := f.s.requisitions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (f memRequisitionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Requisition, error) {
	return f.GetByID(ctx, id)
}

func (f memRequisitionRepo) Update(_ context.Context, r *entity.Requisition) error {
	if _, ok := f.s.requisitions[r.ID]; !ok {
		return domain.ErrNotFound
	}
	f.s.requisitions[r.ID] = *r
	return nil
}

func (f memRequisitionRepo) List(_ context.Context, filter repository.RequisitionFilter, _, _ int) ([]entity.Requisition, int64, error) {
	var out []entity.Requisition
	for _, r := range f.s.requisitions {
		if filter.RequesterID != "" && r.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f memRequisitionRepo) ListPending(_ context.Context, _, _ int) ([]entity.Requisition, int64, error) {
	var out []entity.Requisition
	for _, r := range f.s.requisitions {
		if r.Status == entity.StatusPending {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f memRequisitionRepo) CountPending(ctx context.Context) (int64, error) {
	_, n, err := f.ListPending(ctx, 0, 0)
	return n, err
}

func (f memRequisitionRepo) CountPendingByMaterial(_ context.Context, materialID string) (int64, error) {
	var n int64
	for _, r := range f.s.requisitions {
		if r.Status == entity.StatusPending && r.MaterialID == materialID {
			n++
		}
	}
	return n, nil
}

func (f memRequisitionRepo) Stats(_ context.Context, requesterID string) (*repository.RequisitionStats, error) {
	f.s.statsCaller = requesterID
	return &repository.RequisitionStats{
		ByStatus:   map[string]int64{},
		ByPriority: map[string]int64{},
	}, nil
}

type memTxRunner struct{ s *memStore }

func (f memTxRunner) Run(_ context.Context, fn func(
	materials repository.MaterialRepository,
	movements repository.MovementRepository,
	requisitions repository.RequisitionRepository,
) error) error {
	matsSnap := make(map[string]entity.Material, len(f.s.materials))
	for k, v := range f.s.materials {
		matsSnap[k] = v
	}
	movsSnap := append([]entity.Movement(nil), f.s.movements...)
	reqsSnap := make(map[string]entity.Requisition, len(f.s.requisitions))
	for k, v := range f.s.requisitions {
		reqsSnap[k] = v
	}

	if err := fn(memMaterialRepo{f.s}, memMovementRepo{f.s}, memRequisitionRepo{f.s}); err != nil {
		f.s.materials = matsSnap
		f.s.movements = movsSnap
		f.s.requisitions = reqsSnap
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProfesor     = "00000000-0000-0000-0000-000000000001"
	testOtroProfesor = "00000000-0000-0000-0000-000000000002"
	testCoordinador  = "00000000-0000-0000-0000-000000000003"
)

type fixture struct {
	uc         *requisition.Usecase
	store      *memStore
	materialID string
}

func newFixture(t *testing.T, initialStock int64) *fixture {
	t.Helper()
	store := newMemStore()

	materialID := uuid.New().String()
	store.materials[materialID] = entity.Material{
		ID:              materialID,
		Name:            "Marcador de pizarra",
		Unit:            "caja",
		Quantity:        initialStock,
		MinimumQuantity: 2,
		Active:          true,
	}

	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := requisition.New(memTxRunner{store}, memRequisitionRepo{store}, memMaterialRepo{store}, log)
	return &fixture{uc: uc, store: store, materialID: materialID}
}

func (fx *fixture) stock(t *testing.T) int64 {
	t.Helper()
	m, ok := fx.store.materials[fx.materialID]
	require.True(t, ok)
	return m.Quantity
}

// createPending crea una requisición pendiente como profesor y devuelve su ID.
func (fx *fixture) createPending(t *testing.T, quantity int64) string {
	t.Helper()
	resp, err := fx.uc.Create(context.Background(), testProfesor, entity.RoleProfesor,
		dto.CreateRequisitionRequest{
			MaterialID:    fx.materialID,
			Quantity:      quantity,
			Justification: "Material para las aulas de primaria",
		})
	require.NoError(t, err)
	return resp.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ProfesorCreaPendiente(t *testing.T) {
	fx := newFixture(t, 20)

	resp, err := fx.uc.Create(context.Background(), testProfesor, entity.RoleProfesor,
		dto.CreateRequisitionRequest{
			MaterialID:    fx.materialID,
			Quantity:      5,
			Justification: "Marcadores para el tercer trimestre",
		})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, resp.Status)
	assert.Equal(t, entity.PriorityMedium, resp.Priority, "sin prioridad explícita se asume medium")
	assert.Equal(t, testProfesor, resp.RequesterID)
	assert.Equal(t, int64(20), fx.stock(t), "crear no reserva ni descuenta stock")
}

func TestCreate_CoordinadorNoPuede(t *testing.T) {
	fx := newFixture(t, 20)

	_, err := fx.uc.Create(context.Background(), testCoordinador, entity.RoleCoordinador,
		dto.CreateRequisitionRequest{
			MaterialID:    fx.materialID,
			Quantity:      5,
			Justification: "Los coordinadores no solicitan",
		})

	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCreate_MaterialInactivo(t *testing.T) {
	fx := newFixture(t, 20)
	m := fx.store.materials[fx.materialID]
	m.Active = false
	fx.store.materials[fx.materialID] = m

	_, err := fx.uc.Create(context.Background(), testProfesor, entity.RoleProfesor,
		dto.CreateRequisitionRequest{
			MaterialID:    fx.materialID,
			Quantity:      5,
			Justification: "Material dado de baja",
		})

	assert.True(t, errors.Is(err, domain.ErrNotFound),
		"un material inactivo no es solicitable y se reporta como inexistente")
}

func TestCreate_CantidadMayorQueStock(t *testing.T) {
	fx := newFixture(t, 3)

	_, err := fx.uc.Create(context.Background(), testProfesor, entity.RoleProfesor,
		dto.CreateRequisitionRequest{
			MaterialID:    fx.materialID,
			Quantity:      10,
			Justification: "Más de lo que hay en el almacén",
		})

	var insufficientErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, int64(3), insufficientErr.Available)
	assert.Equal(t, int64(10), insufficientErr.Requested)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobar — la entrega es todo-o-nada
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_EntregaAtomica(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 8)

	resp, err := fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, id)
	require.NoError(t, err)

	// Estado
	assert.Equal(t, entity.StatusApproved, resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, testCoordinador, *resp.ApprovedBy)
	require.NotNil(t, resp.DecidedAt)

	// Stock
	assert.Equal(t, int64(12), fx.stock(t), "la aprobación descuenta la cantidad solicitada")

	// Libro
	require.Len(t, fx.store.movements, 1, "la entrega asienta exactamente un movimiento")
	mov := fx.store.movements[0]
	assert.Equal(t, entity.MovementOUT, mov.Type)
	assert.Equal(t, entity.ReasonRequisition, mov.Reason)
	assert.Equal(t, int64(8), mov.Quantity)
	assert.Equal(t, int64(20), mov.QuantityBefore)
	assert.Equal(t, int64(12), mov.QuantityAfter)
	assert.Equal(t, testCoordinador, mov.PerformedBy)
}

func TestApprove_StockInsuficiente_NoDejaNadaAMedias(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 8)

	// El stock baja después de crearse la requisición (otra entrega se adelantó).
	m := fx.store.materials[fx.materialID]
	m.Quantity = 5
	fx.store.materials[fx.materialID] = m

	_, err := fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, id)

	var insufficientErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, int64(5), insufficientErr.Available)
	assert.Equal(t, int64(8), insufficientErr.Requested)

	// Nada debe haber cambiado
	assert.Equal(t, int64(5), fx.stock(t), "el stock no debe tocarse")
	assert.Empty(t, fx.store.movements, "no debe quedar asiento en el libro")
	r := fx.store.requisitions[id]
	assert.Equal(t, entity.StatusPending, r.Status, "la requisición debe seguir pendiente")
	assert.Nil(t, r.ApprovedBy)
}

func TestApprove_MaterialDadoDeBaja(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	// El material se desactiva después de crearse la requisición.
	m := fx.store.materials[fx.materialID]
	m.Active = false
	fx.store.materials[fx.materialID] = m

	_, err := fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound),
		"un material inactivo no se entrega")

	// Nada debe haber cambiado
	assert.Equal(t, int64(20), fx.stock(t), "el stock no debe tocarse")
	assert.Empty(t, fx.store.movements, "no debe quedar asiento en el libro")
	r := fx.store.requisitions[id]
	assert.Equal(t, entity.StatusPending, r.Status, "la requisición debe seguir pendiente")
	assert.Nil(t, r.ApprovedBy)
}

// Dos requisiciones contra la misma existencia: la primera aprobación consume
// el stock y la segunda, ya sin respaldo, debe fallar sin dejar rastro.
func TestApprove_DosRequisicionesCompitenPorElStock(t *testing.T) {
	fx := newFixture(t, 50)
	primera := fx.createPending(t, 30)
	segunda := fx.createPending(t, 30)

	_, err := fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, primera)
	require.NoError(t, err)
	assert.Equal(t, int64(20), fx.stock(t), "la primera entrega descuenta su cantidad")

	_, err = fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, segunda)
	var insufficientErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, int64(20), insufficientErr.Available)
	assert.Equal(t, int64(30), insufficientErr.Requested)

	assert.Equal(t, int64(20), fx.stock(t), "la segunda aprobación no debe descontar nada")
	assert.Len(t, fx.store.movements, 1, "solo debe existir el asiento de la primera entrega")
	r := fx.store.requisitions[segunda]
	assert.Equal(t, entity.StatusPending, r.Status, "la segunda requisición debe seguir pendiente")
}

func TestApprove_ProfesorNoPuede(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	_, err := fx.uc.Approve(context.Background(), testProfesor, entity.RoleProfesor, id)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestApprove_AlmacenistaSiPuede(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	_, err := fx.uc.Approve(context.Background(), testCoordinador, entity.RoleAlmacenista, id)
	assert.NoError(t, err)
}

func TestApprove_DosVeces(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	_, err := fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, id)
	require.NoError(t, err)

	_, err = fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	assert.Equal(t, int64(15), fx.stock(t), "la segunda aprobación no debe descontar otra vez")
	assert.Len(t, fx.store.movements, 1, "solo debe existir el asiento de la primera entrega")
}

func TestApprove_Inexistente(t *testing.T) {
	fx := newFixture(t, 20)

	_, err := fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, uuid.New().String())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazar
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_EsTerminalYNoTocaStock(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	resp, err := fx.uc.Reject(context.Background(), testCoordinador, entity.RoleCoordinador, id,
		dto.RejectRequisitionRequest{Reason: "No hay presupuesto este trimestre"})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusRejected, resp.Status)
	assert.Equal(t, "No hay presupuesto este trimestre", resp.RejectionReason)
	assert.Equal(t, int64(20), fx.stock(t), "rechazar no toca el stock")
	assert.Empty(t, fx.store.movements, "rechazar no asienta movimientos")
}

func TestReject_MotivoObligatorio(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	_, err := fx.uc.Reject(context.Background(), testCoordinador, entity.RoleCoordinador, id,
		dto.RejectRequisitionRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReject_LuegoAprobar(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	_, err := fx.uc.Reject(context.Background(), testCoordinador, entity.RoleCoordinador, id,
		dto.RejectRequisitionRequest{Reason: "Sin stock previsto"})
	require.NoError(t, err)

	_, err = fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, id)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition),
		"una requisición rechazada es inmutable")
}

// ──────────────────────────────────────────────────────────────────────────────
// Editar mientras está pendiente
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_SolicitanteAjustaCantidad(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	nueva := int64(10)
	resp, err := fx.uc.Update(context.Background(), testProfesor, id,
		dto.UpdateRequisitionRequest{Quantity: &nueva})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.Quantity)
}

func TestUpdate_OtroUsuarioNoPuede(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	nueva := int64(10)
	_, err := fx.uc.Update(context.Background(), testOtroProfesor, id,
		dto.UpdateRequisitionRequest{Quantity: &nueva})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUpdate_DecididaEsInmutable(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)
	_, err := fx.uc.Approve(context.Background(), testCoordinador, entity.RoleCoordinador, id)
	require.NoError(t, err)

	nueva := int64(10)
	_, err = fx.uc.Update(context.Background(), testProfesor, id,
		dto.UpdateRequisitionRequest{Quantity: &nueva})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

// ──────────────────────────────────────────────────────────────────────────────
// Visibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_ProfesorSoloVeLasSuyas(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	_, err := fx.uc.Get(context.Background(), testOtroProfesor, entity.RoleProfesor, id)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = fx.uc.Get(context.Background(), testCoordinador, entity.RoleCoordinador, id)
	assert.NoError(t, err, "un aprobador ve cualquier requisición")
}

func TestListPending_SoloAprobadores(t *testing.T) {
	fx := newFixture(t, 20)

	_, err := fx.uc.ListPending(context.Background(), entity.RoleProfesor, dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = fx.uc.ListPending(context.Background(), entity.RoleAlmacenista, dto.PageRequest{})
	assert.NoError(t, err)
}

func TestStats_ProfesorQuedaAcotadoASusRequisiciones(t *testing.T) {
	fx := newFixture(t, 20)

	_, err := fx.uc.Stats(context.Background(), testProfesor, entity.RoleProfesor)
	require.NoError(t, err)
	assert.Equal(t, testProfesor, fx.store.statsCaller,
		"las estadísticas de un profesor se limitan a sus propias requisiciones")

	_, err = fx.uc.Stats(context.Background(), testCoordinador, entity.RoleCoordinador)
	require.NoError(t, err)
	assert.Empty(t, fx.store.statsCaller, "un aprobador ve el agregado global")
}

// ──────────────────────────────────────────────────────────────────────────────
// Comprobante
// ──────────────────────────────────────────────────────────────────────────────

func TestVoucher_IncluyeMaterial(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	data, err := fx.uc.Voucher(context.Background(), testProfesor, entity.RoleProfesor, id)
	require.NoError(t, err)
	assert.Equal(t, id, data.Requisition.ID)
	assert.Equal(t, "Marcador De Pizarra", data.MaterialName, "el nombre va capitalizado en el comprobante")
	assert.Equal(t, "caja", data.MaterialUnit)
}

func TestVoucher_MismaVisibilidadQueGet(t *testing.T) {
	fx := newFixture(t, 20)
	id := fx.createPending(t, 5)

	_, err := fx.uc.Voucher(context.Background(), testOtroProfesor, entity.RoleProfesor, id)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}
