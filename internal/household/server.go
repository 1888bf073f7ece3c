package household

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
)

// Server handles HTTP requests for the household API
type Server struct {
	service   *Service
	hub       *Hub
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// NewServer creates a new Server with default mux
func NewServer(service *Service, hub *Hub, basicAuth BasicAuth) *Server {
	return NewServerWithMux(service, hub, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, hub *Hub, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		service:   service,
		hub:       hub,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// corsMiddleware adds CORS headers and answers preflight requests
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="WG Tracker"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux.
// Routes must be registered from most specific to least specific.
func (s *Server) registerRoutes() {
	// Receipt pipeline
	s.mux.HandleFunc("POST /api/receipts/scan", s.requireAuth(s.handleScanReceipt))
	s.mux.HandleFunc("POST /api/receipts/expenses", s.requireAuth(s.handleCreateExpenses))

	// Users
	s.mux.HandleFunc("GET /api/users", s.requireAuth(s.handleListUsers))

	// Shopping
	s.mux.HandleFunc("GET /api/shopping-lists/{id}/items", s.requireAuth(s.handleListShoppingItems))
	s.mux.HandleFunc("POST /api/shopping-lists/{id}/items", s.requireAuth(s.handleAddShoppingItem))
	s.mux.HandleFunc("GET /api/shopping-lists", s.requireAuth(s.handleListShoppingLists))
	s.mux.HandleFunc("POST /api/shopping-lists", s.requireAuth(s.handleCreateShoppingList))
	s.mux.HandleFunc("POST /api/shopping-items/{id}/toggle", s.requireAuth(s.handleToggleShoppingItem))
	s.mux.HandleFunc("DELETE /api/shopping-items/{id}", s.requireAuth(s.handleDeleteShoppingItem))

	// Finances
	s.mux.HandleFunc("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	s.mux.HandleFunc("POST /api/transactions", s.requireAuth(s.handleCreateTransaction))
	s.mux.HandleFunc("DELETE /api/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))
	s.mux.HandleFunc("GET /api/balances", s.requireAuth(s.handleBalances))

	// Cleaning
	s.mux.HandleFunc("POST /api/rooms/{id}/clean", s.requireAuth(s.handleCleanRoom))
	s.mux.HandleFunc("GET /api/rooms", s.requireAuth(s.handleListRooms))
	s.mux.HandleFunc("POST /api/rooms", s.requireAuth(s.handleCreateRoom))

	// Plants
	s.mux.HandleFunc("POST /api/plants/{id}/water", s.requireAuth(s.handleWaterPlant))
	s.mux.HandleFunc("DELETE /api/plants/{id}", s.requireAuth(s.handleDeletePlant))
	s.mux.HandleFunc("GET /api/plants", s.requireAuth(s.handleListPlants))
	s.mux.HandleFunc("POST /api/plants", s.requireAuth(s.handleCreatePlant))

	// Inventory
	s.mux.HandleFunc("POST /api/inventory/{id}/restock", s.requireAuth(s.handleRestockItem))
	s.mux.HandleFunc("POST /api/inventory/{id}/consume", s.requireAuth(s.handleConsumeItem))
	s.mux.HandleFunc("GET /api/inventory", s.requireAuth(s.handleListInventory))
	s.mux.HandleFunc("POST /api/inventory", s.requireAuth(s.handleCreateInventoryItem))

	// Dashboard and live updates
	s.mux.HandleFunc("GET /api/dashboard", s.requireAuth(s.handleDashboard))
	if s.hub != nil {
		s.mux.HandleFunc("GET /ws", s.requireAuth(s.hub.HandleWS))
	}
}

// notify broadcasts a refetch hint; safe with a nil hub for tests
func (s *Server) notify(event string, paths ...string) {
	if s.hub != nil {
		s.hub.Broadcast(event, paths...)
	}
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
