// Package domain define los errores centinela y tipos de error compartidos por
// toda la aplicación. Los handlers HTTP los traducen a códigos de respuesta.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound recurso inexistente o inactivo para el solicitante.
	ErrNotFound = errors.New("recurso no encontrado")
	// ErrInvalidInput datos de entrada inválidos (validación de dominio).
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrDuplicate violación de unicidad (nombre de material, email, etc.).
	ErrDuplicate = errors.New("recurso duplicado")
	// ErrUnauthorized credenciales ausentes o inválidas.
	ErrUnauthorized = errors.New("no autorizado")
	// ErrForbidden el rol del usuario no permite la operación.
	ErrForbidden = errors.New("acceso denegado")
	// ErrEmailAlreadyExists el email ya está registrado.
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	// ErrUserNotFound usuario inexistente o inactivo.
	ErrUserNotFound = errors.New("usuario no encontrado")
	// ErrInvalidTransition la requisición no admite esa transición de estado.
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	// ErrInsufficientStock la existencia disponible no cubre lo solicitado.
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrInconsistentMovement la aritmética antes/después del movimiento no cuadra.
	// Un movimiento inconsistente jamás se inserta en el libro.
	ErrInconsistentMovement = errors.New("movimiento inconsistente")
	// ErrPendingRequisitions el material tiene requisiciones pendientes y no puede desactivarse.
	ErrPendingRequisitions = errors.New("el material tiene requisiciones pendientes")
)

// InsufficientStockError detalla un fallo de stock: cuánto hay y cuánto se pidió.
// Envuelve ErrInsufficientStock, así que errors.Is(err, ErrInsufficientStock)
// sigue funcionando para quien no necesite el detalle.
type InsufficientStockError struct {
	MaterialID string
	Available  int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
