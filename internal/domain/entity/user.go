package entity

import "time"

// Roles del sistema.
const (
	RoleProfesor      = "profesor"      // solicita materiales
	RoleCoordinador   = "coordinador"   // aprueba o rechaza requisiciones
	RoleAlmacenista   = "almacenista"   // gestiona catálogo y stock, también aprueba
	RoleAdministrador = "administrador" // gestión de usuarios y departamentos
)

// ValidRole indica si el rol es uno de los reconocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleProfesor, RoleCoordinador, RoleAlmacenista, RoleAdministrador:
		return true
	}
	return false
}

// IsApprover indica si el rol puede aprobar o rechazar requisiciones.
func IsApprover(role string) bool {
	return role == RoleCoordinador || role == RoleAlmacenista
}

// CanManageStock indica si el rol puede gestionar el catálogo de materiales y
// registrar movimientos de stock directos.
func CanManageStock(role string) bool {
	return role == RoleAlmacenista || role == RoleAdministrador
}

// User usuario de la aplicación.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	DepartmentID *string
	Active       bool
	LastAccess   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
