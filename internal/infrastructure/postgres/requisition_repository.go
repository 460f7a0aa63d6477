package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

const requisitionColumns = `id, requester_id, material_id, quantity, status, priority,
	justification, notes, needed_by, approved_by, decided_at, rejection_reason, created_at, updated_at`

// Orden de la cola de pendientes: prioridad descendente y, a igual prioridad,
// la más antigua primero.
const priorityRankSQL = `CASE priority
	WHEN 'urgent' THEN 4
	WHEN 'high' THEN 3
	WHEN 'medium' THEN 2
	ELSE 1
END`

// RequisitionRepo implementación de RequisitionRepository sobre PostgreSQL (usable con pool o tx).
type RequisitionRepo struct {
	q Querier
}

// NewRequisitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequisitionRepository(q Querier) *RequisitionRepo {
	return &RequisitionRepo{q: q}
}

// Create inserta una requisición nueva.
func (r *RequisitionRepo) Create(ctx context.Context, req *entity.Requisition) error {
	query := `
		INSERT INTO requisitions (id, requester_id, material_id, quantity, status, priority,
			justification, notes, needed_by, approved_by, decided_at, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.RequesterID, req.MaterialID, req.Quantity, req.Status, req.Priority,
		req.Justification, req.Notes, req.NeededBy, req.ApprovedBy, req.DecidedAt,
		req.RejectionReason, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert requisition: %w", err)
	}
	return nil
}

// GetByID obtiene una requisición por id.
func (r *RequisitionRepo) GetByID(ctx context.Context, id string) (*entity.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate obtiene una requisición bloqueando la fila (SELECT FOR UPDATE).
func (r *RequisitionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// Update persiste el estado completo de la requisición.
func (r *RequisitionRepo) Update(ctx context.Context, req *entity.Requisition) error {
	query := `
		UPDATE requisitions
		SET quantity = $2, status = $3, priority = $4, justification = $5, notes = $6,
			needed_by = $7, approved_by = $8, decided_at = $9, rejection_reason = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		req.ID, req.Quantity, req.Status, req.Priority, req.Justification, req.Notes,
		req.NeededBy, req.ApprovedBy, req.DecidedAt, req.RejectionReason, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update requisition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List listado paginado con filtros dinámicos, de la más reciente a la más antigua.
func (r *RequisitionRepo) List(ctx context.Context, f repository.RequisitionFilter, limit, offset int) ([]entity.Requisition, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	pos := 1

	if f.RequesterID != "" {
		where = append(where, fmt.Sprintf("requester_id = $%d", pos))
		args = append(args, f.RequesterID)
		pos++
	}
	if f.MaterialID != "" {
		where = append(where, fmt.Sprintf("material_id = $%d", pos))
		args = append(args, f.MaterialID)
		pos++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", pos))
		args = append(args, f.Status)
		pos++
	}
	if f.Priority != "" {
		where = append(where, fmt.Sprintf("priority = $%d", pos))
		args = append(args, f.Priority)
		pos++
	}
	if f.From != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", pos))
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", pos))
		args = append(args, *f.To)
		pos++
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM requisitions WHERE ` + cond
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count requisitions: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM requisitions WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		requisitionColumns, cond, pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list requisitions: %w", err)
	}
	defer rows.Close()

	out, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListPending cola de aprobación ordenada por urgencia y antigüedad.
func (r *RequisitionRepo) ListPending(ctx context.Context, limit, offset int) ([]entity.Requisition, int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM requisitions WHERE status = 'pending'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pending: %w", err)
	}

	query := `SELECT ` + requisitionColumns + `
		FROM requisitions WHERE status = 'pending'
		ORDER BY ` + priorityRankSQL + ` DESC, created_at ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	out, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountPending requisiciones pendientes en total.
func (r *RequisitionRepo) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM requisitions WHERE status = 'pending'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return n, nil
}

// CountPendingByMaterial requisiciones pendientes que referencian el material.
func (r *RequisitionRepo) CountPendingByMaterial(ctx context.Context, materialID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM requisitions WHERE status = 'pending' AND material_id = $1`,
		materialID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending by material: %w", err)
	}
	return n, nil
}

// Stats conteos por estado y prioridad; con requesterID se limita a ese solicitante.
func (r *RequisitionRepo) Stats(ctx context.Context, requesterID string) (*repository.RequisitionStats, error) {
	cond := "1=1"
	args := []any{}
	if requesterID != "" {
		cond = "requester_id = $1"
		args = append(args, requesterID)
	}

	stats := &repository.RequisitionStats{
		ByStatus:   map[string]int64{},
		ByPriority: map[string]int64{},
	}

	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM requisitions WHERE `+cond+` GROUP BY status`, args...)
	if err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan status stat: %w", err)
		}
		stats.ByStatus[status] = n
		stats.Total += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.q.Query(ctx, `SELECT priority, COUNT(*) FROM requisitions WHERE `+cond+` GROUP BY priority`, args...)
	if err != nil {
		return nil, fmt.Errorf("stats by priority: %w", err)
	}
	for rows.Next() {
		var priority string
		var n int64
		if err := rows.Scan(&priority, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan priority stat: %w", err)
		}
		stats.ByPriority[priority] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *RequisitionRepo) scanOne(row pgx.Row) (*entity.Requisition, error) {
	var req entity.Requisition
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.MaterialID, &req.Quantity, &req.Status, &req.Priority,
		&req.Justification, &req.Notes, &req.NeededBy, &req.ApprovedBy, &req.DecidedAt,
		&req.RejectionReason, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan requisition: %w", err)
	}
	return &req, nil
}

func (r *RequisitionRepo) scanMany(rows pgx.Rows) ([]entity.Requisition, error) {
	var out []entity.Requisition
	for rows.Next() {
		var req entity.Requisition
		err := rows.Scan(
			&req.ID, &req.RequesterID, &req.MaterialID, &req.Quantity, &req.Status, &req.Priority,
			&req.Justification, &req.Notes, &req.NeededBy, &req.ApprovedBy, &req.DecidedAt,
			&req.RejectionReason, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan requisition: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
