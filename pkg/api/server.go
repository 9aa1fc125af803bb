package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/uhyunpark/orderdesk/params"
	"github.com/uhyunpark/orderdesk/pkg/app/core"
	"github.com/uhyunpark/orderdesk/pkg/app/core/service"
)

const defaultFillLimit = 50

// Server handles REST API and WebSocket connections
type Server struct {
	svc    *service.Service
	router *mux.Router
	hub    *Hub // WebSocket hub
	cfg    params.API
	log    *zap.SugaredLogger
}

// NewServer creates a new API server and subscribes it to service updates
func NewServer(svc *service.Service, cfg params.API, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{
		svc:    svc,
		router: mux.NewRouter(),
		hub:    NewHub(logger),
		cfg:    cfg,
		log:    logger,
	}

	s.setupRoutes()
	svc.OnUpdate(s.BroadcastUpdate)
	return s
}

func (s *Server) setupRoutes() {
	// API v1 routes
	api := s.router.PathPrefix("/api/v1").Subrouter()
	if s.cfg.Latency > 0 {
		api.Use(s.latencyMiddleware)
	}

	// Instrument endpoints
	api.HandleFunc("/instruments", s.handleGetInstruments).Methods("GET")
	api.HandleFunc("/instruments/{symbol}/fills", s.handleGetFills).Methods("GET")

	// Order endpoints
	api.HandleFunc("/orders", s.handleListOrders).Methods("GET")
	api.HandleFunc("/orders", s.handleCreateOrder).Methods("POST")
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/cancel", s.handleCancelOrder).Methods("POST")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the router wrapped with CORS
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("api_server_listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// latencyMiddleware holds each API response for the configured delay
func (s *Server) latencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.NewTimer(s.cfg.Latency)
		defer t.Stop()
		select {
		case <-t.C:
		case <-r.Context().Done():
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleGetInstruments(w http.ResponseWriter, r *http.Request) {
	syms := s.svc.Instruments()
	if syms == nil {
		syms = []string{}
	}
	respondJSON(w, InstrumentList{Instruments: syms})
}

func (s *Server) handleGetFills(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	limit := defaultFillLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	fills, err := s.svc.Fills(symbol, limit)
	if err != nil {
		s.log.Errorw("fills_load_failed", "instrument", symbol, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load fills", err.Error())
		return
	}

	response := make([]FillInfo, len(fills))
	for i, f := range fills {
		response[i] = toFillInfo(f)
	}
	respondJSON(w, response)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	orders, err := s.svc.ListOrders(filter)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	response := make([]OrderInfo, len(orders))
	for i, o := range orders {
		response[i] = toOrderInfo(o)
	}
	respondJSON(w, response)
}

func parseOrderFilter(r *http.Request) (core.OrderFilter, error) {
	q := r.URL.Query()
	f := core.OrderFilter{
		ID:         q.Get("id"),
		Instrument: q.Get("instrument"),
		Date:       q.Get("date"),
	}
	if v := q.Get("side"); v != "" {
		side, err := core.ParseSide(v)
		if err != nil {
			return f, err
		}
		f.Side = &side
	}
	if v := q.Get("status"); v != "" {
		status, err := core.ParseStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = &status
	}
	return f, nil
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.svc.GetOrder(mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, toOrderDetail(order))
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	side, err := core.ParseSide(req.Side)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	order, err := s.svc.CreateOrder(core.OrderRequest{
		Instrument: req.Instrument,
		Side:       side,
		Price:      req.Price,
		Quantity:   req.Quantity,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondStatus(w, http.StatusCreated, toOrderDetail(order))
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.svc.CancelOrder(mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, toOrderDetail(order))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// ==============================
// Broadcast Methods (called from the order service)
// ==============================

// BroadcastUpdate pushes a committed order update to "orders" and to the
// per-instrument channel of the order that triggered it
func (s *Server) BroadcastUpdate(u service.Update) {
	if len(u.Orders) == 0 {
		return
	}

	msg := OrderUpdate{
		Type:      "order_update",
		Kind:      u.Kind.String(),
		Orders:    make([]OrderInfo, len(u.Orders)),
		Fills:     make([]FillInfo, len(u.Fills)),
		Timestamp: time.Now().UnixMilli(),
	}
	for i, o := range u.Orders {
		msg.Orders[i] = toOrderInfo(o)
	}
	for i, f := range u.Fills {
		msg.Fills[i] = toFillInfo(f)
	}

	s.hub.BroadcastToChannel("orders", msg)
	s.hub.BroadcastToChannel("orders:"+u.Orders[0].Instrument, msg)
}

// ==============================
// Helper Functions
// ==============================

func respondJSON(w http.ResponseWriter, data interface{}) {
	respondStatus(w, http.StatusOK, data)
}

func respondStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	respondStatus(w, status, ErrorResponse{
		Error:   error,
		Message: message,
	})
}

// respondServiceError maps the core error taxonomy onto HTTP statuses
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	var (
		verr *core.ValidationError
		nerr *core.NotFoundError
		cerr *core.NotCancellableError
	)
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, "invalid order", err.Error())
	case errors.As(err, &nerr):
		respondError(w, http.StatusNotFound, "order not found", err.Error())
	case errors.As(err, &cerr):
		respondError(w, http.StatusConflict, "order not cancellable", err.Error())
	default:
		s.log.Errorw("request_failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
