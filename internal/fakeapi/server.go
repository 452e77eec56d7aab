// Package fakeapi serves an in-memory version of the remote storefront API
// for tests and local examples.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry as served on the wire. Image is relative to the
// CDN root.
type Product struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Image       string           `json:"image"`
	Description string           `json:"description"`
}

// Server implements the product and order endpoints.
type Server struct {
	products []Product
	orders   OrderStore
	now      func() time.Time
	newID    func() string
}

// Option configures a Server.
type Option func(*Server)

// WithOrderStore records accepted orders in store.
func WithOrderStore(store OrderStore) Option {
	return func(s *Server) {
		if store != nil {
			s.orders = store
		}
	}
}

// WithClock overrides the time source used for AcceptedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides order id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Server) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// New constructs a Server over products.
func New(products []Product, opts ...Option) *Server {
	s := &Server{
		products: append([]Product{}, products...),
		orders:   NewMemoryOrders(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Orders exposes the store accepted orders are written to.
func (s *Server) Orders() OrderStore {
	return s.orders
}

// Handler returns the routed http.Handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/product/", s.listProducts)
	r.Get("/product/{id}", s.getProduct)
	r.Post("/order", s.createOrder)
}

// productWire sends prices as JSON numbers, the way the real service does.
type productWire struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Category    string       `json:"category"`
	Price       *json.Number `json:"price"`
	Image       string       `json:"image"`
	Description string       `json:"description"`
}

func toWire(p Product) productWire {
	out := productWire{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
	}
	if p.Price != nil {
		n := json.Number(p.Price.String())
		out.Price = &n
	}
	return out
}

type listResponse struct {
	Total int           `json:"total"`
	Items []productWire `json:"items"`
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	items := make([]productWire, 0, len(s.products))
	for _, product := range s.products {
		items = append(items, toWire(product))
	}
	writeJSON(w, http.StatusOK, listResponse{Total: len(items), Items: items})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := s.product(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "NotFound")
		return
	}
	writeJSON(w, http.StatusOK, toWire(product))
}

type orderRequest struct {
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Address string          `json:"address"`
	Payment string          `json:"payment"`
	Items   []string        `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

type orderResponse struct {
	ID    string      `json:"id"`
	Total json.Number `json:"total"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	if req.Email == "" || req.Phone == "" || req.Address == "" {
		writeError(w, http.StatusBadRequest, "Не указаны контактные данные")
		return
	}
	if req.Payment != "card" && req.Payment != "cash" {
		writeError(w, http.StatusBadRequest, "Неверный способ оплаты")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Не выбраны товары")
		return
	}
	total := decimal.Zero
	for _, id := range req.Items {
		product, ok := s.product(id)
		if !ok {
			writeError(w, http.StatusBadRequest, "Товар с id "+id+" не найден")
			return
		}
		if product.Price == nil {
			writeError(w, http.StatusBadRequest, "Товар с id "+id+" не продается")
			return
		}
		total = total.Add(*product.Price)
	}
	if !total.Equal(req.Total) {
		writeError(w, http.StatusBadRequest, "Неверная сумма заказа")
		return
	}

	order := Order{
		ID:         s.newID(),
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		Payment:    req.Payment,
		Items:      req.Items,
		Total:      total,
		AcceptedAt: s.now(),
	}
	if err := s.orders.Save(r.Context(), order); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{ID: order.ID, Total: json.Number(order.Total.String())})
}

func (s *Server) product(id string) (Product, bool) {
	for _, product := range s.products {
		if product.ID == id {
			return product, true
		}
	}
	return Product{}, false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
