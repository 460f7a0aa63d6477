package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

const (
	testProfesorID  = "00000000-0000-0000-0000-000000000010"
	testAprobadorID = "00000000-0000-0000-0000-000000000020"
)

func buildRequisition() *entity.Requisition {
	return &entity.Requisition{
		ID:            "00000000-0000-0000-0000-000000000100",
		RequesterID:   testProfesorID,
		MaterialID:    testMaterialID,
		Quantity:      10,
		Status:        entity.StatusPending,
		Priority:      entity.PriorityMedium,
		Justification: "Material para el laboratorio de química",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones pending → approved | rejected
// ──────────────────────────────────────────────────────────────────────────────

func TestRequisitionApprove_DesdePendiente(t *testing.T) {
	r := buildRequisition()
	at := time.Now()

	require.NoError(t, r.Approve(testAprobadorID, at))

	assert.Equal(t, entity.StatusApproved, r.Status)
	require.NotNil(t, r.ApprovedBy)
	assert.Equal(t, testAprobadorID, *r.ApprovedBy)
	require.NotNil(t, r.DecidedAt)
	assert.Equal(t, at, *r.DecidedAt)
}

func TestRequisitionReject_DesdePendiente(t *testing.T) {
	r := buildRequisition()

	require.NoError(t, r.Reject(testAprobadorID, "No hay presupuesto este mes", time.Now()))

	assert.Equal(t, entity.StatusRejected, r.Status)
	assert.Equal(t, "No hay presupuesto este mes", r.RejectionReason)
	require.NotNil(t, r.ApprovedBy, "quien rechaza también queda registrado como decisor")
	assert.Equal(t, testAprobadorID, *r.ApprovedBy)
}

func TestRequisitionReject_MotivoObligatorio(t *testing.T) {
	r := buildRequisition()

	err := r.Reject(testAprobadorID, "   ", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput),
		"un rechazo sin motivo debe rechazarse")
	assert.Equal(t, entity.StatusPending, r.Status, "la requisición debe seguir pendiente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Los estados terminales son inmutables
// ──────────────────────────────────────────────────────────────────────────────

func TestRequisitionApprove_YaAprobada(t *testing.T) {
	r := buildRequisition()
	require.NoError(t, r.Approve(testAprobadorID, time.Now()))

	err := r.Approve(testAprobadorID, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition),
		"aprobar dos veces debe fallar con transición inválida")
}

func TestRequisitionReject_YaAprobada(t *testing.T) {
	r := buildRequisition()
	require.NoError(t, r.Approve(testAprobadorID, time.Now()))

	err := r.Reject(testAprobadorID, "cambió de opinión", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition),
		"una requisición aprobada no puede rechazarse después")
	assert.Equal(t, entity.StatusApproved, r.Status)
}

func TestRequisitionApprove_YaRechazada(t *testing.T) {
	r := buildRequisition()
	require.NoError(t, r.Reject(testAprobadorID, "sin stock previsto", time.Now()))

	err := r.Approve(testAprobadorID, time.Now())
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Equal(t, entity.StatusRejected, r.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// EditableBy: solo el solicitante y solo mientras está pendiente
// ──────────────────────────────────────────────────────────────────────────────

func TestRequisitionEditableBy(t *testing.T) {
	r := buildRequisition()

	assert.True(t, r.EditableBy(testProfesorID), "el solicitante edita su requisición pendiente")
	assert.False(t, r.EditableBy(testAprobadorID), "nadie más puede editarla")

	require.NoError(t, r.Approve(testAprobadorID, time.Now()))
	assert.False(t, r.EditableBy(testProfesorID), "una vez decidida deja de ser editable")
}

// ──────────────────────────────────────────────────────────────────────────────
// Prioridades
// ──────────────────────────────────────────────────────────────────────────────

func TestPriorityRank_OrdenCreciente(t *testing.T) {
	assert.Less(t, entity.PriorityRank[entity.PriorityLow], entity.PriorityRank[entity.PriorityMedium])
	assert.Less(t, entity.PriorityRank[entity.PriorityMedium], entity.PriorityRank[entity.PriorityHigh])
	assert.Less(t, entity.PriorityRank[entity.PriorityHigh], entity.PriorityRank[entity.PriorityUrgent])
}

func TestValidPriority(t *testing.T) {
	assert.True(t, entity.ValidPriority(entity.PriorityUrgent))
	assert.False(t, entity.ValidPriority("critical"))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, entity.ValidStatus(entity.StatusPending))
	assert.True(t, entity.ValidStatus(entity.StatusApproved))
	assert.True(t, entity.ValidStatus(entity.StatusRejected))
	assert.False(t, entity.ValidStatus("cancelled"))
}
