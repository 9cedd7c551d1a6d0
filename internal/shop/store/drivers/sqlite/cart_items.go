package sqlite

import (
	"context"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
)

type cartRepo struct {
	db dbtx
}

func (r *cartRepo) AddOrIncrement(ctx context.Context, accountID, productID, qty, unitPriceCents int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (account_id, product_id, quantity, unit_price_cents)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id, product_id)
		DO UPDATE SET quantity = quantity + excluded.quantity`,
		accountID, productID, qty, unitPriceCents,
	)
	return err
}

func (r *cartRepo) Remove(ctx context.Context, accountID, productID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE account_id = ? AND product_id = ?`, accountID, productID)
	return requireAffected(res, err)
}

func (r *cartRepo) Clear(ctx context.Context, accountID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE account_id = ?`, accountID)
	return err
}

func (r *cartRepo) ListForAccount(ctx context.Context, accountID int64) ([]domain.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.account_id, c.product_id, c.quantity, c.unit_price_cents, p.name, p.image
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.account_id = ?
		ORDER BY c.id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.AccountID, &l.ProductID, &l.Quantity, &l.UnitPriceCents,
			&l.ProductName, &l.ProductImage); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
