// Package api serves the restaurant REST API over gorilla/mux.
//
// Every table gets the same five routes (see resource). Success bodies are
// {"message": "<Tabela> criado!"}, failures {"error": "..."}.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/restaurante/backend/internal/auth"
	"github.com/restaurante/backend/internal/metrics"
	"github.com/restaurante/backend/internal/middleware"
	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/service"
	"github.com/restaurante/backend/internal/storage"
)

// Config carries the dependencies of the API.
type Config struct {
	Store     storage.Store
	Customers *service.CustomerService
	Catalog   *service.CatalogService
	Orders    *service.OrderService
	Payments  *service.PaymentService
	Auth      *service.AuthService

	// JWT guards the mutating routes. Nil disables authentication.
	JWT *auth.JWTManager
	// Metrics enables /metrics and request instrumentation when set.
	Metrics *metrics.Metrics
	// Limiter enables per-client rate limiting when set.
	Limiter *middleware.RateLimiter
	// AllowedOrigins for CORS. Empty allows every origin.
	AllowedOrigins []string
}

// Server holds the handlers of the API.
type Server struct {
	cfg Config
}

// NewHandler builds the router with its middleware chain.
func NewHandler(cfg Config) http.Handler {
	s := &Server{cfg: cfg}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.JWT != nil {
		r.Use(middleware.OptionalAuth(cfg.JWT))
	}
	r.Use(middleware.Logging())
	if cfg.Limiter != nil {
		r.Use(cfg.Limiter.Handler)
	}

	s.routes(r)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         600,
	})
	return c.Handler(r)
}

// protect requires a bearer token on h when authentication is enabled.
func (s *Server) protect(h http.Handler) http.Handler {
	if s.cfg.JWT == nil {
		return h
	}
	return middleware.RequireAuth(s.cfg.JWT, h)
}

func (s *Server) routes(r *mux.Router) {
	customers, catalog, orders, payments := s.cfg.Customers, s.cfg.Catalog, s.cfg.Orders, s.cfg.Payments

	resource[models.Address, models.Address]{
		label: "Endereço", single: "endereco", plural: "enderecos",
		create: customers.CreateAddress, list: customers.ListAddresses,
		get: byID(customers.GetAddress), update: customers.UpdateAddress,
		remove: deleteByID(customers.DeleteAddress),
		setKey: func(a *models.Address, v map[string]string) { a.ID = v["id"] },
		idOf:   func(a *models.Address) string { return a.ID },
	}.register(s, r)

	resource[models.Client, models.Client]{
		label: "Cliente", single: "cliente", plural: "clientes",
		create: customers.CreateClient, list: customers.ListClients,
		get: byID(customers.GetClient), update: customers.UpdateClient,
		remove: deleteByID(customers.DeleteClient),
		setKey: func(c *models.Client, v map[string]string) { c.ID = v["id"] },
		idOf:   func(c *models.Client) string { return c.ID },
	}.register(s, r)

	resource[models.Ingredient, models.Ingredient]{
		label: "Ingrediente", single: "ingrediente", plural: "ingredientes",
		create: catalog.CreateIngredient, list: catalog.ListIngredients,
		get: byID(catalog.GetIngredient), update: catalog.UpdateIngredient,
		remove: deleteByID(catalog.DeleteIngredient),
		setKey: func(i *models.Ingredient, v map[string]string) { i.ID = v["id"] },
		idOf:   func(i *models.Ingredient) string { return i.ID },
	}.register(s, r)

	r.HandleFunc("/estoques/baixo", s.handleLowStock).Methods(http.MethodGet)
	resource[models.Stock, models.Stock]{
		label: "Estoque", single: "estoque", plural: "estoques",
		create: catalog.CreateStock, list: catalog.ListStock,
		get: byID(catalog.GetStock), update: catalog.UpdateStock,
		remove: deleteByID(catalog.DeleteStock),
		setKey: func(st *models.Stock, v map[string]string) { st.ID = v["id"] },
		idOf:   func(st *models.Stock) string { return st.ID },
	}.register(s, r)

	dishes := resource[models.Dish, models.Dish]{
		label: "Prato", single: "prato", plural: "pratos",
		create: catalog.CreateDish, list: catalog.ListDishes,
		get: byID(catalog.GetDish), update: catalog.UpdateDish,
		remove: deleteByID(catalog.DeleteDish),
		setKey: func(d *models.Dish, v map[string]string) { d.ID = v["id"] },
		idOf:   func(d *models.Dish) string { return d.ID },
	}
	dishes.register(s, r)
	// The dish form posts to the plural path.
	r.Handle("/pratos", s.protect(http.HandlerFunc(dishes.handleCreate))).Methods(http.MethodPost)
	r.Handle("/pratos/{id}", s.protect(http.HandlerFunc(dishes.handleUpdate))).Methods(http.MethodPut)
	r.HandleFunc("/prato/{id}/ingredientes", s.handleRecipe).Methods(http.MethodGet)

	resource[models.DishIngredient, models.DishIngredient]{
		label: "Prato_Ingrediente", single: "prato_ingrediente", plural: "pratos_ingredientes",
		keys:   []string{"prato", "ingrediente"},
		create: catalog.CreateDishIngredient, list: catalog.ListDishIngredients,
		get: func(ctx context.Context, v map[string]string) (*models.DishIngredient, error) {
			return catalog.GetDishIngredient(ctx, v["prato"], v["ingrediente"])
		},
		update: catalog.UpdateDishIngredient,
		remove: func(ctx context.Context, v map[string]string) error {
			return catalog.DeleteDishIngredient(ctx, v["prato"], v["ingrediente"])
		},
		setKey: func(di *models.DishIngredient, v map[string]string) {
			di.DishID, di.IngredientID = v["prato"], v["ingrediente"]
		},
		idOf: func(di *models.DishIngredient) string { return di.DishID + "/" + di.IngredientID },
	}.register(s, r)

	resource[models.Order, models.OrderChanges]{
		label: "Pedido", single: "pedido", plural: "pedidos",
		create: orders.CreateOrder, list: orders.ListOrders,
		get: byID(orders.GetOrder), update: orders.UpdateOrder,
		remove: deleteByID(orders.DeleteOrder),
		setKey: func(o *models.OrderChanges, v map[string]string) { o.ID = v["id"] },
		idOf:   func(o *models.Order) string { return o.ID },
	}.register(s, r)
	r.HandleFunc("/pedido/{id}/itens", s.handleOrderItems).Methods(http.MethodGet)
	r.HandleFunc("/pedido/{id}/resumo", s.handleOrderSummary).Methods(http.MethodGet)

	resource[models.OrderItem, models.OrderItem]{
		label: "ItemPedido", single: "itempedido", plural: "itempedidos",
		create: orders.AddItem, list: orders.ListItems,
		get: byID(orders.GetItem), update: orders.UpdateItem,
		remove: deleteByID(orders.RemoveItem),
		setKey: func(it *models.OrderItem, v map[string]string) { it.ID = v["id"] },
		idOf:   func(it *models.OrderItem) string { return it.ID },
	}.register(s, r)

	resource[models.Payment, models.PaymentChanges]{
		label: "Pagamento", single: "pagamento", plural: "pagamentos",
		create: payments.CreatePayment, list: payments.ListPayments,
		get: byID(payments.GetPayment), update: payments.UpdatePayment,
		remove: deleteByID(payments.DeletePayment),
		setKey: func(p *models.PaymentChanges, v map[string]string) { p.ID = v["id"] },
		idOf:   func(p *models.Payment) string { return p.ID },
	}.register(s, r)
	r.HandleFunc("/pagamento/{id}/detalhes", s.handlePaymentDetails).Methods(http.MethodGet)

	resource[models.CardPayment, models.CardPayment]{
		label: "Pagamento cartão", single: "pagamento_cartao", plural: "pagamentos_cartao",
		create: payments.CreateCardPayment, list: payments.ListCardPayments,
		get: byID(payments.GetCardPayment), update: payments.UpdateCardPayment,
		remove: deleteByID(payments.DeleteCardPayment),
		setKey: func(c *models.CardPayment, v map[string]string) { c.PaymentID = v["id"] },
		idOf:   func(c *models.CardPayment) string { return c.PaymentID },
	}.register(s, r)

	resource[models.PixPayment, models.PixPayment]{
		label: "Pagamento PIX", single: "pagamento_pix", plural: "pagamentos_pix",
		create: payments.CreatePixPayment, list: payments.ListPixPayments,
		get: byID(payments.GetPixPayment), update: payments.UpdatePixPayment,
		remove: deleteByID(payments.DeletePixPayment),
		setKey: func(p *models.PixPayment, v map[string]string) { p.PaymentID = v["id"] },
		idOf:   func(p *models.PixPayment) string { return p.PaymentID },
	}.register(s, r)

	resource[models.CashPayment, models.CashPayment]{
		label: "Pagamento Dinheiro", single: "pagamento_dinheiro", plural: "pagamentos_dinheiro",
		create: payments.CreateCashPayment, list: payments.ListCashPayments,
		get: byID(payments.GetCashPayment), update: payments.UpdateCashPayment,
		remove: deleteByID(payments.DeleteCashPayment),
		setKey: func(c *models.CashPayment, v map[string]string) { c.PaymentID = v["id"] },
		idOf:   func(c *models.CashPayment) string { return c.PaymentID },
	}.register(s, r)

	if s.cfg.Auth != nil {
		r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	}
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics.Handler()).Methods(http.MethodGet)
	}
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	rows, err := s.cfg.Catalog.LowStock(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	rows, err := s.cfg.Catalog.Recipe(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleOrderItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.cfg.Orders.ItemsOf(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleOrderSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.cfg.Orders.Summary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handlePaymentDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.cfg.Payments.Details(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	res, err := s.cfg.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.cfg.Store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
