package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// ProductInput is the admin product form, as submitted.
type ProductInput struct {
	Name        string
	Category    string
	Quantity    string
	Price       string // dollars, e.g. "19.99"
	Image       string
	Description string
}

func (in ProductInput) parse() (domain.Product, error) {
	p := domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Image:       strings.TrimSpace(in.Image),
		Description: strings.TrimSpace(in.Description),
	}
	if p.Name == "" {
		return domain.Product{}, invalid("Product name is required.")
	}

	qty := strings.TrimSpace(in.Quantity)
	if qty == "" {
		qty = "0"
	}
	n, err := strconv.ParseInt(qty, 10, 64)
	if err != nil || n < 0 {
		return domain.Product{}, invalid("Quantity must be a whole number of at least 0.")
	}
	p.Quantity = n

	cents, err := ParsePriceCents(in.Price)
	if err != nil {
		return domain.Product{}, err
	}
	p.PriceCents = cents

	return p, nil
}

// ParsePriceCents reads a non-negative dollar amount with at most two
// decimal places, e.g. "19.99", "$5" or "0.5".
func ParsePriceCents(s string) (int64, error) {
	bad := invalid("Price must be a non-negative amount like 19.99.")

	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, bad
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (frac == "" || len(frac) > 2) {
		return 0, bad
	}
	for len(frac) < 2 {
		frac += "0"
	}

	dollars, err := strconv.ParseUint(whole, 10, 40)
	if err != nil {
		return 0, bad
	}
	cents, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, bad
	}

	return int64(dollars*100 + cents), nil
}

type ProductService struct {
	Store store.Store
}

func (s *ProductService) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.Store.Products().List(ctx, f)
	if err != nil {
		return nil, persistence("list products", err)
	}
	return products, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.Store.Products().ListCategories(ctx)
	if err != nil {
		return nil, persistence("list categories", err)
	}
	return categories, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.Store.Products().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, persistence("load product", err)
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	p, err := in.parse()
	if err != nil {
		return domain.Product{}, err
	}

	id, err := s.Store.Products().Create(ctx, p)
	if err != nil {
		return domain.Product{}, persistence("create product", err)
	}
	p.ID = id

	slogx.FromContext(ctx).Info("product created", "product_id", id)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) error {
	p, err := in.parse()
	if err != nil {
		return err
	}
	p.ID = id

	if err := s.Store.Products().Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return persistence("update product", err)
	}

	slogx.FromContext(ctx).Info("product updated", "product_id", id)
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Products().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return persistence("delete product", err)
	}

	slogx.FromContext(ctx).Info("product deleted", "product_id", id)
	return nil
}
