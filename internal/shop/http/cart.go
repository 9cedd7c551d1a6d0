package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/service"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// CartHandler manages the signed in account's cart.
type CartHandler struct {
	Cart  *service.CartService
	Views *Views
}

// HandleView godoc
//
//	@Summary	Show the cart
//	@Tags		Cart
//	@Produce	html
//	@Success	200	{string}	string	"HTML page"
//	@Success	302	"Redirect to /login when not signed in"
//	@Router		/cart [get]
func (h *CartHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	view, err := h.Cart.View(ctx, mustAccount(r).ID)
	if err != nil {
		log.Error("failed to load cart", "error", err)
		fail(w, r, "/", genericError)
		return
	}

	h.Views.render(w, r, "cart", "Your cart", view)
}

// HandleAdd godoc
//
//	@Summary	Add a product to the cart
//	@Tags		Cart
//	@Accept		x-www-form-urlencoded
//	@Param		productId	formData	int	true	"Product id"
//	@Param		quantity	formData	int	false	"Quantity, default 1"
//	@Success	302	"Redirect to /cart, or /products on failure"
//	@Router		/cart/add [post]
func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, "/products", "Invalid product id")
		return
	}
	h.add(w, r, r.PostFormValue("productId"))
}

// HandleAddByPath godoc
//
//	@Summary	Add a product to the cart by path
//	@Tags		Cart
//	@Accept		x-www-form-urlencoded
//	@Param		id			path		int	true	"Product id"
//	@Param		quantity	formData	int	false	"Quantity, default 1"
//	@Success	302	"Redirect to /cart, or /products on failure"
//	@Router		/add-to-cart/{id} [post]
func (h *CartHandler) HandleAddByPath(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, "/products", "Invalid product id")
		return
	}
	h.add(w, r, r.PathValue("id"))
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request, rawProductID string) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	productID, ok := parseID(rawProductID)
	if !ok {
		fail(w, r, "/products", "Invalid product id")
		return
	}

	qty := int64(1)
	if raw := strings.TrimSpace(r.PostFormValue("quantity")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fail(w, r, "/products", "Invalid quantity")
			return
		}
		qty = n
	}

	err := h.Cart.Add(ctx, mustAccount(r).ID, productID, qty)
	switch {
	case err == nil:
		succeed(w, r, "/cart", "Item added to cart")
	case errors.Is(err, service.ErrNotFound):
		fail(w, r, "/products", "Product not found")
	default:
		if _, ok := service.ValidationMessage(err); !ok {
			log.Error("failed to add to cart", "product_id", productID, "error", err)
		}
		fail(w, r, "/products", messageOr(err, genericError))
	}
}

// HandleRemove godoc
//
//	@Summary	Remove a cart line
//	@Tags		Cart
//	@Accept		x-www-form-urlencoded
//	@Param		productId	formData	int	true	"Product id"
//	@Success	302	"Redirect to /cart"
//	@Router		/cart/remove [post]
func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		fail(w, r, "/cart", "Invalid product id")
		return
	}

	productID, ok := parseID(r.PostFormValue("productId"))
	if !ok {
		fail(w, r, "/cart", "Invalid product id")
		return
	}

	err := h.Cart.Remove(ctx, mustAccount(r).ID, productID)
	switch {
	case err == nil:
		succeed(w, r, "/cart", "Item removed")
	case errors.Is(err, service.ErrNotFound):
		fail(w, r, "/cart", "Item not found")
	default:
		log.Error("failed to remove cart item", "product_id", productID, "error", err)
		fail(w, r, "/cart", genericError)
	}
}

// HandleClear godoc
//
//	@Summary	Empty the cart
//	@Tags		Cart
//	@Success	302	"Redirect to /cart"
//	@Router		/cart/clear [post]
func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.Cart.Clear(ctx, mustAccount(r).ID); err != nil {
		log.Error("failed to clear cart", "error", err)
		fail(w, r, "/cart", genericError)
		return
	}
	succeed(w, r, "/cart", "Cart cleared")
}
