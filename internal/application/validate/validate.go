// Package validate centraliza la validación de DTOs con go-playground/validator.
package validate

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tu-usuario/almacen-escolar/internal/domain"
)

var (
	once sync.Once
	v    *validator.Validate
)

// Struct evalúa las etiquetas `validate` del DTO. Los fallos se devuelven
// envueltos en domain.ErrInvalidInput para que el handler responda 400.
func Struct(s interface{}) error {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	return nil
}
