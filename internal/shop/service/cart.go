package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
)

// CartView is a cart ready for display.
type CartView struct {
	Lines      []domain.CartLine
	TotalCents int64
}

type CartService struct {
	Store store.Store
}

// Add puts qty of a product in the account's cart at the product's current
// price, adding to any quantity already there.
func (s *CartService) Add(ctx context.Context, accountID, productID, qty int64) error {
	if qty < 1 {
		return invalid("Invalid quantity")
	}

	product, err := s.Store.Products().GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return persistence("load product", err)
	}

	if err := s.Store.Cart().AddOrIncrement(ctx, accountID, product.ID, qty, product.PriceCents); err != nil {
		return persistence("add to cart", err)
	}
	return nil
}

// Remove drops the product's line from the account's cart.
func (s *CartService) Remove(ctx context.Context, accountID, productID int64) error {
	if err := s.Store.Cart().Remove(ctx, accountID, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return persistence("remove cart item", err)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, accountID int64) error {
	if err := s.Store.Cart().Clear(ctx, accountID); err != nil {
		return persistence("clear cart", err)
	}
	return nil
}

func (s *CartService) View(ctx context.Context, accountID int64) (CartView, error) {
	lines, err := s.Store.Cart().ListForAccount(ctx, accountID)
	if err != nil {
		return CartView{}, persistence("list cart", err)
	}
	return CartView{Lines: lines, TotalCents: domain.CartTotalCents(lines)}, nil
}
