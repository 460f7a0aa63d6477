package entity

import "time"

// Department área académica o administrativa a la que pertenecen los usuarios.
// Dato de referencia: no participa en el flujo de aprobación.
type Department struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
