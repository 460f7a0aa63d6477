package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testMaterialID = "00000000-0000-0000-0000-00000000000a"
	testUsuarioID  = "00000000-0000-0000-0000-00000000000b"
)

// buildMovement devuelve una entrada (IN) coherente como base; cada test muta
// los campos que le interesan.
func buildMovement() *entity.Movement {
	return &entity.Movement{
		MaterialID:     testMaterialID,
		Type:           entity.MovementIN,
		Quantity:       10,
		QuantityBefore: 5,
		QuantityAfter:  15,
		Reason:         entity.ReasonPurchase,
		PerformedBy:    testUsuarioID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Aritmética antes/después por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementValidate_EntradaCoherente(t *testing.T) {
	m := buildMovement()
	assert.NoError(t, m.Validate(), "una entrada con before+qty=after debe ser válida")
}

func TestMovementValidate_SalidaCoherente(t *testing.T) {
	m := buildMovement()
	m.Type = entity.MovementOUT
	m.Reason = entity.ReasonRequisition
	m.Quantity = 3
	m.QuantityBefore = 5
	m.QuantityAfter = 2

	assert.NoError(t, m.Validate(), "una salida con before-qty=after debe ser válida")
}

func TestMovementValidate_AjusteFijaValorAbsoluto(t *testing.T) {
	m := buildMovement()
	m.Type = entity.MovementADJUSTMENT
	m.Reason = entity.ReasonInventoryCount
	m.Quantity = 40
	m.QuantityBefore = 7
	m.QuantityAfter = 40

	assert.NoError(t, m.Validate(), "un ajuste fija el stock en Quantity, no suma ni resta")
}

func TestMovementValidate_AjusteACeroEsValido(t *testing.T) {
	// Vaciar la existencia tras un conteo es un caso legítimo; cantidad 0 solo
	// se admite en ajustes.
	m := buildMovement()
	m.Type = entity.MovementADJUSTMENT
	m.Reason = entity.ReasonInventoryCount
	m.Quantity = 0
	m.QuantityBefore = 12
	m.QuantityAfter = 0

	assert.NoError(t, m.Validate(), "un ajuste a cero debe ser válido")
}

func TestMovementValidate_AritmeticaIncoherente(t *testing.T) {
	m := buildMovement()
	m.QuantityAfter = 99 // 5 + 10 != 99

	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInconsistentMovement),
		"la aritmética que no cuadra debe reportarse como movimiento inconsistente")
}

func TestMovementValidate_SalidaQueDejaNegativo(t *testing.T) {
	m := buildMovement()
	m.Type = entity.MovementOUT
	m.Reason = entity.ReasonLoss
	m.Quantity = 9
	m.QuantityBefore = 5
	m.QuantityAfter = -4

	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInconsistentMovement),
		"las existencias nunca pueden quedar negativas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cantidades mínimas por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementValidate_EntradaConCantidadCero(t *testing.T) {
	m := buildMovement()
	m.Quantity = 0
	m.QuantityAfter = m.QuantityBefore

	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput),
		"una entrada de cantidad 0 no aporta nada y debe rechazarse")
}

func TestMovementValidate_SalidaConCantidadCero(t *testing.T) {
	m := buildMovement()
	m.Type = entity.MovementOUT
	m.Reason = entity.ReasonLoss
	m.Quantity = 0
	m.QuantityAfter = m.QuantityBefore

	err := m.Validate()
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestMovementValidate_AjusteNegativo(t *testing.T) {
	m := buildMovement()
	m.Type = entity.MovementADJUSTMENT
	m.Reason = entity.ReasonCorrection
	m.Quantity = -1
	m.QuantityAfter = -1

	err := m.Validate()
	assert.True(t, errors.Is(err, domain.ErrInvalidInput),
		"un ajuste no puede fijar stock negativo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Matriz tipo/motivo
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementValidate_MotivoDeOtroTipo(t *testing.T) {
	// purchase es motivo de entrada; en una salida no tiene sentido.
	m := buildMovement()
	m.Type = entity.MovementOUT
	m.Reason = entity.ReasonPurchase
	m.Quantity = 2
	m.QuantityBefore = 5
	m.QuantityAfter = 3

	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput),
		"un motivo fuera de la matriz de su tipo debe rechazarse")
}

func TestMovementValidate_TipoDesconocido(t *testing.T) {
	m := buildMovement()
	m.Type = "TRANSFER"

	err := m.Validate()
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestMovementValidate_OtherValidoEnTodosLosTipos(t *testing.T) {
	for _, tc := range []struct {
		tipo        string
		qty, before int64
		after       int64
	}{
		{entity.MovementIN, 1, 0, 1},
		{entity.MovementOUT, 1, 1, 0},
		{entity.MovementADJUSTMENT, 5, 9, 5},
	} {
		m := buildMovement()
		m.Type = tc.tipo
		m.Reason = entity.ReasonOther
		m.Quantity = tc.qty
		m.QuantityBefore = tc.before
		m.QuantityAfter = tc.after

		assert.NoError(t, m.Validate(), "other debe admitirse en %s", tc.tipo)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Campos obligatorios
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementValidate_SinMaterial(t *testing.T) {
	m := buildMovement()
	m.MaterialID = ""
	assert.True(t, errors.Is(m.Validate(), domain.ErrInvalidInput))
}

func TestMovementValidate_SinUsuario(t *testing.T) {
	m := buildMovement()
	m.PerformedBy = ""
	assert.True(t, errors.Is(m.Validate(), domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Matriz ReasonsByType — sanity
// ──────────────────────────────────────────────────────────────────────────────

func TestValidReason_MatrizCompleta(t *testing.T) {
	assert.True(t, entity.ValidReason(entity.MovementIN, entity.ReasonDonation))
	assert.True(t, entity.ValidReason(entity.MovementOUT, entity.ReasonExpiry))
	assert.True(t, entity.ValidReason(entity.MovementADJUSTMENT, entity.ReasonAdjustment))

	assert.False(t, entity.ValidReason(entity.MovementIN, entity.ReasonRequisition),
		"requisition solo aplica a salidas")
	assert.False(t, entity.ValidReason(entity.MovementADJUSTMENT, entity.ReasonLoss),
		"loss solo aplica a salidas")
}
