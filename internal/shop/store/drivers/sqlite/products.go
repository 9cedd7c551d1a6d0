package sqlite

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
)

const productColumns = `id, name, category, quantity, price_cents, image, description`

type productsRepo struct {
	db dbtx
}

func scanProduct(row scanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Quantity, &p.PriceCents, &p.Image, &p.Description)
	return p, err
}

func (r *productsRepo) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, mapNotFound(err)
	}
	return p, nil
}

func (r *productsRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []any
	)

	if c := strings.TrimSpace(f.Category); c != "" {
		where = append(where, `lower(category) = lower(?)`)
		args = append(args, c)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, `(instr(lower(name), lower(?)) > 0 OR instr(lower(category), lower(?)) > 0)`)
		args = append(args, q, q)
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *productsRepo) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *productsRepo) Create(ctx context.Context, p domain.Product) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO products (name, category, quantity, price_cents, image, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Category, p.Quantity, p.PriceCents, p.Image, p.Description,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *productsRepo) Update(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, category = ?, quantity = ?, price_cents = ?, image = ?, description = ?
		WHERE id = ?`,
		p.Name, p.Category, p.Quantity, p.PriceCents, p.Image, p.Description, p.ID,
	)
	return requireAffected(res, err)
}

func (r *productsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return requireAffected(res, err)
}

func (r *productsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}
