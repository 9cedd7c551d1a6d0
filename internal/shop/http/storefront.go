package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/service"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// StorefrontHandler serves the public pages.
type StorefrontHandler struct {
	Products *service.ProductService
	Views    *Views
}

type catalogPage struct {
	Filter     domain.ProductFilter
	Categories []string
	Products   []domain.Product
}

// HandleHome godoc
//
//	@Summary	Home page
//	@Tags		Storefront
//	@Produce	html
//	@Success	200	{string}	string	"HTML page"
//	@Router		/ [get]
func (h *StorefrontHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.Views.render(w, r, "home", "Welcome", nil)
}

// HandleProducts godoc
//
//	@Summary		Product catalogue
//	@Description	Lists products, optionally filtered by a search term and a category.
//	@Tags			Storefront
//	@Produce		html
//	@Param			q			query	string	false	"Name or category contains"
//	@Param			category	query	string	false	"Exact category"
//	@Success		200	{string}	string	"HTML page"
//	@Router			/products [get]
func (h *StorefrontHandler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	filter := domain.ProductFilter{
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}

	products, err := h.Products.List(ctx, filter)
	if err != nil {
		log.Error("failed to list products", "error", err)
		fail(w, r, "/", genericError)
		return
	}

	categories, err := h.Products.Categories(ctx)
	if err != nil {
		log.Warn("failed to list categories", "error", err)
	}

	h.Views.render(w, r, "products", "Products", catalogPage{
		Filter:     filter,
		Categories: categories,
		Products:   products,
	})
}

// HandleProduct godoc
//
//	@Summary	Product detail
//	@Tags		Storefront
//	@Produce	html
//	@Param		id	path	int	true	"Product id"
//	@Success	200	{string}	string	"HTML page"
//	@Success	302	"Redirect to /products when the product does not exist"
//	@Router		/viewproduct/{id} [get]
func (h *StorefrontHandler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		fail(w, r, "/products", "Product not found.")
		return
	}

	product, err := h.Products.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Error("failed to load product", "product_id", id, "error", err)
		}
		fail(w, r, "/products", "Product not found.")
		return
	}

	h.Views.render(w, r, "product", product.Name, product)
}
