package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, material_id, type, quantity, quantity_before, quantity_after, reason, notes, performed_by, performed_at`

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
// La tabla movements es append-only: este adaptador no expone UPDATE ni DELETE
// y el esquema tampoco los permite (REVOKE a nivel de rol).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un asiento en el libro.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, material_id, type, quantity, quantity_before,
			quantity_after, reason, notes, performed_by, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MaterialID, m.Type, m.Quantity, m.QuantityBefore,
		m.QuantityAfter, m.Reason, m.Notes, m.PerformedBy, m.PerformedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List listado global con filtros dinámicos, del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]entity.Movement, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	pos := 1

	if f.MaterialID != "" {
		where = append(where, fmt.Sprintf("material_id = $%d", pos))
		args = append(args, f.MaterialID)
		pos++
	}
	if f.Type != "" {
		where = append(where, fmt.Sprintf("type = $%d", pos))
		args = append(args, f.Type)
		pos++
	}
	if f.Reason != "" {
		where = append(where, fmt.Sprintf("reason = $%d", pos))
		args = append(args, f.Reason)
		pos++
	}
	if f.From != nil {
		where = append(where, fmt.Sprintf("performed_at >= $%d", pos))
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where = append(where, fmt.Sprintf("performed_at <= $%d", pos))
		args = append(args, *f.To)
		pos++
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM movements WHERE ` + cond
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM movements WHERE %s ORDER BY performed_at DESC LIMIT $%d OFFSET $%d`,
		movementColumns, cond, pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	out, err := scanMovements(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByMaterial historial de un material, del más reciente al más antiguo.
func (r *MovementRepo) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]entity.Movement, int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE material_id = $1`, materialID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementColumns + `
		FROM movements WHERE material_id = $1
		ORDER BY performed_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, materialID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements by material: %w", err)
	}
	defer rows.Close()

	out, err := scanMovements(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Stats agregados del libro en el rango dado: total, por tipo (conteo y suma
// de cantidades), por motivo, y los 10 materiales con más movimientos.
func (r *MovementRepo) Stats(ctx context.Context, from, to *time.Time) (*repository.MovementStats, error) {
	where := []string{"1=1"}
	args := []any{}
	pos := 1
	if from != nil {
		where = append(where, fmt.Sprintf("m.performed_at >= $%d", pos))
		args = append(args, *from)
		pos++
	}
	if to != nil {
		where = append(where, fmt.Sprintf("m.performed_at <= $%d", pos))
		args = append(args, *to)
		pos++
	}
	cond := strings.Join(where, " AND ")

	stats := &repository.MovementStats{}

	byTypeQuery := `
		SELECT m.type, COUNT(*), COALESCE(SUM(m.quantity), 0)
		FROM movements m WHERE ` + cond + `
		GROUP BY m.type ORDER BY m.type`
	rows, err := r.q.Query(ctx, byTypeQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("stats by type: %w", err)
	}
	for rows.Next() {
		var t repository.TypeStat
		if err := rows.Scan(&t.Type, &t.Count, &t.TotalQuantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan type stat: %w", err)
		}
		stats.ByType = append(stats.ByType, t)
		stats.Total += t.Count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byReasonQuery := `
		SELECT m.reason, COUNT(*)
		FROM movements m WHERE ` + cond + `
		GROUP BY m.reason ORDER BY COUNT(*) DESC`
	rows, err = r.q.Query(ctx, byReasonQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("stats by reason: %w", err)
	}
	for rows.Next() {
		var s repository.ReasonStat
		if err := rows.Scan(&s.Reason, &s.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan reason stat: %w", err)
		}
		stats.ByReason = append(stats.ByReason, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topQuery := `
		SELECT m.material_id, mat.name, COUNT(*), COALESCE(SUM(m.quantity), 0)
		FROM movements m
		JOIN materials mat ON mat.id = m.material_id
		WHERE ` + cond + `
		GROUP BY m.material_id, mat.name
		ORDER BY COUNT(*) DESC
		LIMIT 10`
	rows, err = r.q.Query(ctx, topQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("stats top materials: %w", err)
	}
	for rows.Next() {
		var t repository.TopMaterial
		if err := rows.Scan(&t.MaterialID, &t.MaterialName, &t.Count, &t.TotalQuantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan top material: %w", err)
		}
		stats.TopMaterials = append(stats.TopMaterials, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// CountSince movimientos registrados desde el instante dado.
func (r *MovementRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE performed_at >= $1`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements since: %w", err)
	}
	return n, nil
}

func scanMovements(rows pgx.Rows) ([]entity.Movement, error) {
	var out []entity.Movement
	for rows.Next() {
		var m entity.Movement
		err := rows.Scan(
			&m.ID, &m.MaterialID, &m.Type, &m.Quantity, &m.QuantityBefore,
			&m.QuantityAfter, &m.Reason, &m.Notes, &m.PerformedBy, &m.PerformedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
