// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/panelcatalog/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, enabledOnly bool) ([]Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Toggle(ctx context.Context, id string) (*Product, error)
	SoftDelete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
}

const productColumns = `id, name, type, core, thickness, facing,
		r_value, u_value, fire_class, color, profile, image, description,
		features, applications, specifications, datasheet, enabled`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Create never overwrites. An id already present, live or soft-deleted,
// reports core.ErrDuplicateKey.
func (r *repository) Create(ctx context.Context, p *Product) error {
	query := r.db.Rebind(`
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)

	result, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Type,
		p.Core,
		p.Thickness,
		p.Facing,
		p.RValue,
		p.UValue,
		p.FireClass,
		p.Color,
		p.Profile,
		p.Image,
		p.Description,
		p.Features,
		p.Applications,
		p.Specifications,
		p.Datasheet,
		p.Enabled,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("create product %q: %w", p.ID, core.ErrDuplicateKey)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := r.db.Rebind(`
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ? AND deleted_at IS NULL`)

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *repository) List(
	ctx context.Context,
	enabledOnly bool,
) ([]Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL`
	var args []any

	if enabledOnly {
		query += ` AND enabled = ?`
		args = append(args, true)
	}
	query += ` ORDER BY name, id`

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// Update replaces every column except id and deleted_at in one statement.
func (r *repository) Update(ctx context.Context, p *Product) (*Product, error) {
	query := r.db.Rebind(`
		UPDATE products
		SET name = ?, type = ?, core = ?, thickness = ?, facing = ?,
		    r_value = ?, u_value = ?, fire_class = ?, color = ?, profile = ?,
		    image = ?, description = ?, features = ?, applications = ?,
		    specifications = ?, datasheet = ?, enabled = ?
		WHERE id = ? AND deleted_at IS NULL
		RETURNING ` + productColumns)

	var updated Product
	err := r.db.GetContext(ctx, &updated, query,
		p.Name,
		p.Type,
		p.Core,
		p.Thickness,
		p.Facing,
		p.RValue,
		p.UValue,
		p.FireClass,
		p.Color,
		p.Profile,
		p.Image,
		p.Description,
		p.Features,
		p.Applications,
		p.Specifications,
		p.Datasheet,
		p.Enabled,
		p.ID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return &updated, nil
}

// Toggle flips enabled in a single statement, so concurrent toggles on the
// same id serialize in the database.
func (r *repository) Toggle(ctx context.Context, id string) (*Product, error) {
	query := r.db.Rebind(`
		UPDATE products
		SET enabled = NOT enabled
		WHERE id = ? AND deleted_at IS NULL
		RETURNING ` + productColumns)

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("toggle product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle product: %w", err)
	}

	return &p, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := r.db.Rebind(`
		UPDATE products
		SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	query := r.db.Rebind(`
		SELECT
		    COALESCE(SUM(CASE WHEN deleted_at IS NULL THEN 1 ELSE 0 END), 0) AS total,
		    COALESCE(SUM(CASE WHEN deleted_at IS NULL AND enabled = ? THEN 1 ELSE 0 END), 0) AS enabled,
		    COALESCE(SUM(CASE WHEN deleted_at IS NOT NULL THEN 1 ELSE 0 END), 0) AS deleted
		FROM products`)

	var s Stats
	if err := r.db.GetContext(ctx, &s, query, true); err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}

	return &s, nil
}
