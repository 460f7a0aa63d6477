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
	"github.com/tu-usuario/almacen-escolar/pkg/textutil"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, name, unit, quantity, minimum_quantity, description, category, active, created_by, created_at, updated_at`

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
// La columna name_search guarda el nombre plegado (minúsculas, sin acentos)
// para búsqueda y unicidad insensibles a acentos.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create inserta un material nuevo.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (id, name, name_search, unit, quantity, minimum_quantity,
			description, category, active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Name, textutil.Fold(m.Name), m.Unit, m.Quantity, m.MinimumQuantity,
		m.Description, m.Category, m.Active, m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por id.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate obtiene un material bloqueando la fila (SELECT FOR UPDATE).
func (r *MaterialRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByName busca por nombre plegado (insensible a mayúsculas y acentos).
func (r *MaterialRepo) GetByName(ctx context.Context, name string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE name_search = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, textutil.Fold(name)))
}

// List listado paginado con filtros dinámicos. Devuelve también el total sin paginar.
func (r *MaterialRepo) List(ctx context.Context, f repository.MaterialFilter, limit, offset int) ([]entity.Material, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	pos := 1

	if f.Search != "" {
		where = append(where, fmt.Sprintf("name_search LIKE $%d", pos))
		args = append(args, "%"+textutil.Fold(f.Search)+"%")
		pos++
	}
	if f.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", pos))
		args = append(args, f.Category)
		pos++
	}
	if f.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", pos))
		args = append(args, *f.Active)
		pos++
	}
	if f.LowStock {
		where = append(where, "quantity <= minimum_quantity")
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM materials WHERE ` + cond
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count materials: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM materials WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		materialColumns, cond, pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	out, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListLowStock materiales activos en o por debajo de su mínimo, los más críticos primero.
func (r *MaterialRepo) ListLowStock(ctx context.Context) ([]entity.Material, error) {
	query := `SELECT ` + materialColumns + `
		FROM materials
		WHERE active = true AND quantity <= minimum_quantity
		ORDER BY quantity - minimum_quantity ASC, name ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListCategories categorías distintas en uso por materiales activos.
func (r *MaterialRepo) ListCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM materials WHERE active = true ORDER BY category ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update escribe los datos de catálogo del material (no la existencia).
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials
		SET name = $2, name_search = $3, unit = $4, minimum_quantity = $5,
			description = $6, category = $7, active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.Name, textutil.Fold(m.Name), m.Unit, m.MinimumQuantity,
		m.Description, m.Category, m.Active, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity escribe la existencia resultante de un movimiento. Se llama
// siempre con la fila ya bloqueada por GetByIDForUpdate.
func (r *MaterialRepo) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	query := `UPDATE materials SET quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MaterialRepo) scanOne(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.Name, &m.Unit, &m.Quantity, &m.MinimumQuantity,
		&m.Description, &m.Category, &m.Active, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan material: %w", err)
	}
	return &m, nil
}

func (r *MaterialRepo) scanMany(rows pgx.Rows) ([]entity.Material, error) {
	var out []entity.Material
	for rows.Next() {
		var m entity.Material
		err := rows.Scan(
			&m.ID, &m.Name, &m.Unit, &m.Quantity, &m.MinimumQuantity,
			&m.Description, &m.Category, &m.Active, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
