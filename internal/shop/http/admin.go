package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/service"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// AdminHandler serves the admin panel: dashboard, users and products.
type AdminHandler struct {
	Accounts *service.AccountService
	Products *service.ProductService
	Views    *Views
}

// formPage is a create or edit form. Values re-fill the inputs.
type formPage struct {
	Action string
	Edit   bool
	Values map[string]string
	Roles  []domain.Role
}

func (p formPage) Value(name string) string { return p.Values[name] }

// formValues prefers values saved from a failed submission over fallback.
func formValues(r *http.Request, fallback map[string]string) map[string]string {
	if saved := sessionFrom(r.Context()).TakeFormData(); saved != nil {
		return saved
	}
	return fallback
}

func accountValues(a domain.Account) map[string]string {
	return map[string]string{
		"username": a.Username,
		"email":    a.Email,
		"address":  a.Address,
		"contact":  a.Contact,
		"role":     string(a.Role),
	}
}

func productValues(p domain.Product) map[string]string {
	return map[string]string{
		"name":        p.Name,
		"category":    p.Category,
		"quantity":    strconv.FormatInt(p.Quantity, 10),
		"price":       domain.FormatCents(p.PriceCents),
		"image":       p.Image,
		"description": p.Description,
	}
}

// HandleDashboard godoc
//
//	@Summary	Admin dashboard
//	@Tags		Admin
//	@Produce	html
//	@Success	200	{string}	string	"HTML page"
//	@Success	302	"Redirect to /login or / without admin rights"
//	@Router		/admin [get]
func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	stats, err := h.Accounts.Stats(ctx)
	if err != nil {
		log.Error("failed to load dashboard stats", "error", err)
		fail(w, r, "/", genericError)
		return
	}
	h.Views.render(w, r, "admin_dashboard", "Admin", stats)
}

// HandleUsers godoc
//
//	@Summary	List accounts
//	@Tags		Admin
//	@Produce	html
//	@Success	200	{string}	string	"HTML page"
//	@Router		/admin/users [get]
func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accounts, err := h.Accounts.List(ctx)
	if err != nil {
		log.Error("failed to list accounts", "error", err)
		fail(w, r, "/admin", genericError)
		return
	}
	h.Views.render(w, r, "admin_users", "Users", accounts)
}

// HandleNewUser godoc
//
//	@Summary	New account form
//	@Tags		Admin
//	@Produce	html
//	@Success	200	{string}	string	"HTML page"
//	@Router		/admin/users/new [get]
func (h *AdminHandler) HandleNewUser(w http.ResponseWriter, r *http.Request) {
	h.Views.render(w, r, "admin_user_form", "New user", formPage{
		Action: "/admin/users",
		Values: formValues(r, map[string]string{"role": string(domain.RoleUser)}),
		Roles:  domain.Roles,
	})
}

func userInput(r *http.Request) service.AccountInput {
	return service.AccountInput{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Address:  r.PostFormValue("address"),
		Contact:  r.PostFormValue("contact"),
		Role:     r.PostFormValue("role"),
	}
}

// inputValues is a submitted form minus secrets.
type inputValues map[string]string

// keep saves the values so the form can be re-filled after the redirect.
func (in inputValues) keep(r *http.Request) {
	sessionFrom(r.Context()).SetFormData(in)
}

func userFormValues(in service.AccountInput) inputValues {
	return inputValues{
		"username": in.Username,
		"email":    in.Email,
		"address":  in.Address,
		"contact":  in.Contact,
		"role":     in.Role,
	}
}

// HandleCreateUser godoc
//
//	@Summary	Create an account
//	@Tags		Admin
//	@Accept		x-www-form-urlencoded
//	@Param		username	formData	string	true	"Username"
//	@Param		email		formData	string	true	"Email"
//	@Param		password	formData	string	true	"Password"
//	@Param		address		formData	string	true	"Address"
//	@Param		contact		formData	string	true	"Contact"
//	@Param		role		formData	string	true	"user or admin"
//	@Success	302	"Redirect to /admin/users, or the form on failure"
//	@Router		/admin/users [post]
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		fail(w, r, "/admin/users/new", "All fields are required.")
		return
	}
	in := userInput(r)

	if _, err := h.Accounts.Create(ctx, in); err != nil {
		userFormValues(in).keep(r)
		if _, ok := service.ValidationMessage(err); !ok {
			log.Error("failed to create account", "error", err)
		}
		fail(w, r, "/admin/users/new", messageOr(err, "Create user failed. Email may exist."))
		return
	}
	succeed(w, r, "/admin/users", "User created.")
}

// HandleEditUser godoc
//
//	@Summary	Edit account form
//	@Tags		Admin
//	@Produce	html
//	@Param		id	path	int	true	"Account id"
//	@Success	200	{string}	string	"HTML page"
//	@Router		/admin/users/{id}/edit [get]
func (h *AdminHandler) HandleEditUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		fail(w, r, "/admin/users", "User not found")
		return
	}

	account, err := h.Accounts.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Error("failed to load account", "account_id", id, "error", err)
		}
		fail(w, r, "/admin/users", "User not found")
		return
	}

	h.Views.render(w, r, "admin_user_form", "Edit user", formPage{
		Action: "/admin/users/" + strconv.FormatInt(id, 10) + "/edit",
		Edit:   true,
		Values: formValues(r, accountValues(account)),
		Roles:  domain.Roles,
	})
}

// HandleUpdateUser godoc
//
//	@Summary		Update an account
//	@Description	Password is optional; an empty password keeps the current one.
//	@Tags			Admin
//	@Accept			x-www-form-urlencoded
//	@Param			id	path	int	true	"Account id"
//	@Success		302	"Redirect to /admin/users, or the form on failure"
//	@Router			/admin/users/{id}/edit [post]
func (h *AdminHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		fail(w, r, "/admin/users", "User not found")
		return
	}
	back := "/admin/users/" + strconv.FormatInt(id, 10) + "/edit"

	if err := r.ParseForm(); err != nil {
		fail(w, r, back, "Missing required fields.")
		return
	}
	in := userInput(r)

	passwordChanged, err := h.Accounts.Update(ctx, id, in)
	switch {
	case err == nil:
		if passwordChanged {
			succeed(w, r, "/admin/users", "User updated (password changed).")
			return
		}
		succeed(w, r, "/admin/users", "User updated.")
	case errors.Is(err, service.ErrNotFound):
		fail(w, r, "/admin/users", "User not found")
	default:
		userFormValues(in).keep(r)
		if _, ok := service.ValidationMessage(err); !ok {
			log.Error("failed to update account", "account_id", id, "error", err)
		}
		fail(w, r, back, messageOr(err, "Update failed."))
	}
}

// HandleDeleteUser godoc
//
//	@Summary	Delete an account
//	@Tags		Admin
//	@Param		id	path	int	true	"Account id"
//	@Success	302	"Redirect to /admin/users"
//	@Router		/admin/users/{id}/delete [post]
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		fail(w, r, "/admin/users", "Delete failed.")
		return
	}

	if err := h.Accounts.Delete(ctx, mustAccount(r).ID, id); err != nil {
		if _, ok := service.ValidationMessage(err); !ok && !errors.Is(err, service.ErrNotFound) {
			log.Error("failed to delete account", "account_id", id, "error", err)
		}
		fail(w, r, "/admin/users", messageOr(err, "Delete failed."))
		return
	}
	succeed(w, r, "/admin/users", "User deleted.")
}

// HandleProducts godoc
//
//	@Summary	List products for management
//	@Tags		Admin
//	@Produce	html
//	@Success	200	{string}	string	"HTML page"
//	@Router		/admin/products [get]
func (h *AdminHandler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	products, err := h.Products.List(ctx, domain.ProductFilter{})
	if err != nil {
		log.Error("failed to list products", "error", err)
		fail(w, r, "/admin", genericError)
		return
	}
	h.Views.render(w, r, "admin_products", "Products", products)
}

// HandleNewProduct godoc
//
//	@Summary	New product form
//	@Tags		Admin
//	@Produce	html
//	@Success	200	{string}	string	"HTML page"
//	@Router		/admin/products/new [get]
func (h *AdminHandler) HandleNewProduct(w http.ResponseWriter, r *http.Request) {
	h.Views.render(w, r, "admin_product_form", "New product", formPage{
		Action: "/admin/products",
		Values: formValues(r, map[string]string{"quantity": "0"}),
	})
}

func productInput(r *http.Request) service.ProductInput {
	return service.ProductInput{
		Name:        r.PostFormValue("name"),
		Category:    r.PostFormValue("category"),
		Quantity:    r.PostFormValue("quantity"),
		Price:       r.PostFormValue("price"),
		Image:       r.PostFormValue("image"),
		Description: r.PostFormValue("description"),
	}
}

func productFormValues(in service.ProductInput) inputValues {
	return inputValues{
		"name":        in.Name,
		"category":    in.Category,
		"quantity":    in.Quantity,
		"price":       in.Price,
		"image":       in.Image,
		"description": in.Description,
	}
}

// HandleCreateProduct godoc
//
//	@Summary	Create a product
//	@Tags		Admin
//	@Accept		x-www-form-urlencoded
//	@Param		name		formData	string	true	"Name"
//	@Param		category	formData	string	false	"Category"
//	@Param		quantity	formData	int		false	"Stock"
//	@Param		price		formData	string	true	"Price in dollars, e.g. 19.99"
//	@Param		image		formData	string	false	"Image file name"
//	@Param		description	formData	string	false	"Description"
//	@Success	302	"Redirect to /admin/products, or the form on failure"
//	@Router		/admin/products [post]
func (h *AdminHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		fail(w, r, "/admin/products/new", "Failed to add product.")
		return
	}
	in := productInput(r)

	if _, err := h.Products.Create(ctx, in); err != nil {
		productFormValues(in).keep(r)
		if _, ok := service.ValidationMessage(err); !ok {
			log.Error("failed to create product", "error", err)
		}
		fail(w, r, "/admin/products/new", messageOr(err, "Failed to add product."))
		return
	}
	succeed(w, r, "/admin/products", "Product added successfully.")
}

// HandleEditProduct godoc
//
//	@Summary	Edit product form
//	@Tags		Admin
//	@Produce	html
//	@Param		id	path	int	true	"Product id"
//	@Success	200	{string}	string	"HTML page"
//	@Router		/admin/products/{id}/edit [get]
func (h *AdminHandler) HandleEditProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		fail(w, r, "/admin/products", "Product not found.")
		return
	}

	product, err := h.Products.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Error("failed to load product", "product_id", id, "error", err)
		}
		fail(w, r, "/admin/products", "Product not found.")
		return
	}

	h.Views.render(w, r, "admin_product_form", "Edit product", formPage{
		Action: "/admin/products/" + strconv.FormatInt(id, 10) + "/edit",
		Edit:   true,
		Values: formValues(r, productValues(product)),
	})
}

// HandleUpdateProduct godoc
//
//	@Summary	Update a product
//	@Tags		Admin
//	@Accept		x-www-form-urlencoded
//	@Param		id	path	int	true	"Product id"
//	@Success	302	"Redirect to /admin/products, or the form on failure"
//	@Router		/admin/products/{id}/edit [post]
func (h *AdminHandler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		fail(w, r, "/admin/products", "Product not found.")
		return
	}
	back := "/admin/products/" + strconv.FormatInt(id, 10) + "/edit"

	if err := r.ParseForm(); err != nil {
		fail(w, r, back, "Failed to update product.")
		return
	}
	in := productInput(r)

	err := h.Products.Update(ctx, id, in)
	switch {
	case err == nil:
		succeed(w, r, "/admin/products", "Product updated successfully.")
	case errors.Is(err, service.ErrNotFound):
		fail(w, r, "/admin/products", "Product not found.")
	default:
		productFormValues(in).keep(r)
		if _, ok := service.ValidationMessage(err); !ok {
			log.Error("failed to update product", "product_id", id, "error", err)
		}
		fail(w, r, back, messageOr(err, "Failed to update product."))
	}
}

// HandleDeleteProduct godoc
//
//	@Summary	Delete a product
//	@Tags		Admin
//	@Param		id	path	int	true	"Product id"
//	@Success	302	"Redirect to /admin/products"
//	@Router		/admin/products/{id}/delete [post]
func (h *AdminHandler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		fail(w, r, "/admin/products", "Product not found.")
		return
	}

	err := h.Products.Delete(ctx, id)
	switch {
	case err == nil:
		succeed(w, r, "/admin/products", "Product deleted.")
	case errors.Is(err, service.ErrNotFound):
		fail(w, r, "/admin/products", "Product not found.")
	default:
		log.Error("failed to delete product", "product_id", id, "error", err)
		fail(w, r, "/admin/products", "Failed to delete product.")
	}
}
