package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/service"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/httpx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/jwtx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"

	_ "github.com/aussiebroadwan/fluffyfriend/api/shop" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limits are the rate limit profiles applied per route.
type Limits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
}

func DefaultLimits() Limits {
	return Limits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	cookies      *jwtx.CookieCodec
	views        *Views
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// SecureCookies sets the Secure attribute on the session cookie.
	SecureCookies bool
	// TrustProxy keys rate limits on X-Forwarded-For / X-Real-IP. Only set
	// it when a reverse proxy in front of the server rewrites those headers.
	TrustProxy bool
	Limits     Limits

	SessionService *service.SessionService
	AuthService    *service.AuthService
	AccountService *service.AccountService
	ProductService *service.ProductService
	CartService    *service.CartService
}

func NewRouter(
	cookies *jwtx.CookieCodec,
	views *Views,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		cookies:      cookies,
		views:        views,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		Limits:       DefaultLimits(),
	}
}

// ApplyRoutes registers every route and builds the global middleware chain.
// Services must be set before it is called.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTwoFA()
	r.registerStorefront()
	r.registerCart()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	sessions := &SessionMiddleware{
		Sessions: r.SessionService,
		Auth:     r.AuthService,
		Cookies:  r.cookies,
		Secure:   r.SecureCookies,
	}

	// Request logging wraps session loading so the logger is in place first.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		sessions.Handler,
	}
	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			FluffyFriend Shop
//	@version		0.1.0
//	@description	Server rendered pet shop with optional TOTP two-factor login, an admin panel, a storefront and a cart.
//	@description
//	@description	Every page route takes and returns HTML forms. Errors are reported as a flash message followed by a 302 redirect.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/fluffyfriend
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// signedIn gates a route on an authenticated session.
func (r *Router) signedIn(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.RequireAuthenticated(denyAnonymous()),
		httpx.RateLimitByAccount(limit, r.clientIP()),
	)
}

// adminOnly gates a route on an admin session.
func (r *Router) adminOnly(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.RequireAuthenticated(denyAnonymous()),
		httpx.RequireAnyRole(denyNonAdmin(), string(domain.RoleAdmin)),
		httpx.RateLimitByAccount(limit, r.clientIP()),
	)
}

func (r *Router) public(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h, httpx.RateLimitByIP(limit, r.clientIP()))
}

func (r *Router) clientIP() httpx.KeyExtractor {
	return httpx.ClientIPKeyExtractor(r.TrustProxy)
}

// sessionKeyExtractor buckets requests by session, so a pending login
// gets a fixed number of code guesses whatever address they come from.
func sessionKeyExtractor(req *http.Request) string {
	sess := sessionFrom(req.Context())
	if sess == nil || sess.ID == "" {
		return ""
	}
	return "session:" + sess.ID
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Auth: r.AuthService, Views: r.views}

	r.Mux.Handle("GET /login", r.public(h.HandleLoginForm, r.Limits.Lenient))

	// Rate limited by IP + email to slow password guessing
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(r.Limits.Strict, r.clientIP(), "email"),
		),
	)

	r.Mux.Handle("GET /2fa/verify", r.public(h.HandleVerifyForm, r.Limits.Lenient))
	r.Mux.Handle("POST /2fa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(r.Limits.Strict, r.clientIP()),
			httpx.RateLimitMiddleware(r.Limits.Strict, sessionKeyExtractor),
		),
	)

	r.Mux.Handle("GET /register", r.public(h.HandleRegisterForm, r.Limits.Lenient))
	r.Mux.Handle("POST /register", r.public(h.HandleRegister, r.Limits.Moderate))

	r.Mux.Handle("GET /logout", r.public(h.HandleLogout, r.Limits.Lenient))
}

func (r *Router) registerTwoFA() {
	h := &TwoFAHandler{Auth: r.AuthService, Views: r.views}

	r.Mux.Handle("GET /2fa/setup", r.signedIn(h.HandleSetupForm, r.Limits.Moderate))
	r.Mux.Handle("POST /2fa/setup", r.signedIn(h.HandleSetup, r.Limits.Strict))
	r.Mux.Handle("POST /2fa/disable", r.signedIn(h.HandleDisable, r.Limits.Strict))
}

func (r *Router) registerStorefront() {
	h := &StorefrontHandler{Products: r.ProductService, Views: r.views}

	r.Mux.Handle("GET /{$}", r.public(h.HandleHome, r.Limits.Lenient))
	r.Mux.Handle("GET /products", r.public(h.HandleProducts, r.Limits.Lenient))
	r.Mux.Handle("GET /viewproduct/{id}", r.public(h.HandleProduct, r.Limits.Lenient))
}

func (r *Router) registerCart() {
	h := &CartHandler{Cart: r.CartService, Views: r.views}

	r.Mux.Handle("GET /cart", r.signedIn(h.HandleView, r.Limits.Lenient))
	r.Mux.Handle("POST /cart/add", r.signedIn(h.HandleAdd, r.Limits.Moderate))
	r.Mux.Handle("POST /cart/remove", r.signedIn(h.HandleRemove, r.Limits.Moderate))
	r.Mux.Handle("POST /cart/clear", r.signedIn(h.HandleClear, r.Limits.Moderate))
	r.Mux.Handle("POST /add-to-cart/{id}", r.signedIn(h.HandleAddByPath, r.Limits.Moderate))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Accounts: r.AccountService, Products: r.ProductService, Views: r.views}

	r.Mux.Handle("GET /admin", r.adminOnly(h.HandleDashboard, r.Limits.Lenient))

	r.Mux.Handle("GET /admin/users", r.adminOnly(h.HandleUsers, r.Limits.Lenient))
	r.Mux.Handle("GET /admin/users/new", r.adminOnly(h.HandleNewUser, r.Limits.Lenient))
	r.Mux.Handle("POST /admin/users", r.adminOnly(h.HandleCreateUser, r.Limits.Moderate))
	r.Mux.Handle("GET /admin/users/{id}/edit", r.adminOnly(h.HandleEditUser, r.Limits.Lenient))
	r.Mux.Handle("POST /admin/users/{id}/edit", r.adminOnly(h.HandleUpdateUser, r.Limits.Moderate))
	r.Mux.Handle("POST /admin/users/{id}/delete", r.adminOnly(h.HandleDeleteUser, r.Limits.Moderate))

	r.Mux.Handle("GET /admin/products", r.adminOnly(h.HandleProducts, r.Limits.Lenient))
	r.Mux.Handle("GET /admin/products/new", r.adminOnly(h.HandleNewProduct, r.Limits.Lenient))
	r.Mux.Handle("POST /admin/products", r.adminOnly(h.HandleCreateProduct, r.Limits.Moderate))
	r.Mux.Handle("GET /admin/products/{id}/edit", r.adminOnly(h.HandleEditProduct, r.Limits.Lenient))
	r.Mux.Handle("POST /admin/products/{id}/edit", r.adminOnly(h.HandleUpdateProduct, r.Limits.Moderate))
	r.Mux.Handle("POST /admin/products/{id}/delete", r.adminOnly(h.HandleDeleteProduct, r.Limits.Moderate))
}

func (r *Router) registerSystem() {
	// Probes are not rate limited
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.views))
}
