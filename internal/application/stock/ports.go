package stock

import (
	"context"

	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de base de datos, entregando
// repositorios ligados a esa transacción. Si fn devuelve error se hace
// rollback; si devuelve nil, commit. Las rutas que tocan stock y libro a la
// vez (movimientos manuales, aprobación de requisiciones) pasan por aquí.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		materials repository.MaterialRepository,
		movements repository.MovementRepository,
		requisitions repository.RequisitionRepository,
	) error) error
}
