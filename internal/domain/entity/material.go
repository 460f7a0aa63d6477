package entity

import "time"

// Unidades de medida aceptadas para materiales consumibles.
var Units = []string{
	"unidad", "caja", "paquete", "resma", "litro",
	"kilo", "metro", "rollo", "hoja", "fardo",
}

// ValidUnit indica si la unidad de medida es una de las aceptadas.
func ValidUnit(unit string) bool {
	for _, u := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

// Material artículo consumible del almacén escolar.
// Quantity es la existencia actual y nunca puede ser negativa; todo cambio
// pasa por un movimiento del libro (ver Movement).
type Material struct {
	ID              string
	Name            string
	Unit            string
	Quantity        int64
	MinimumQuantity int64
	Description     string
	Category        string
	Active          bool
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LowStock indica si la existencia está en o por debajo del mínimo configurado.
func (m *Material) LowStock() bool {
	return m.Quantity <= m.MinimumQuantity
}
