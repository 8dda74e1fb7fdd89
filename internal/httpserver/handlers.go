package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	productdomain "inventory/backend/internal/domain/product"
	productusecase "inventory/backend/internal/usecase/product"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func (s *Server) registerRoutes() {
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMethodNotAllowed(w, s.allowedMethods(r)...)
	})

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	items := s.router.PathPrefix("/api/items").Subrouter()
	items.HandleFunc("", s.handleList).Methods(http.MethodGet)
	items.HandleFunc("", s.handleCreate).Methods(http.MethodPost)
	items.HandleFunc("/low-stock", s.handleLowStock).Methods(http.MethodGet)
	items.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	items.HandleFunc("/stats/total-value", s.handleTotalValue).Methods(http.MethodGet)
	items.HandleFunc("/{id}", s.handleGet).Methods(http.MethodGet)
	items.HandleFunc("/{id}", s.handleReplace).Methods(http.MethodPut)
	items.HandleFunc("/{id}", s.handleDelete).Methods(http.MethodDelete)
	items.HandleFunc("/{id}/adjust-stock", s.handleAdjustStock).Methods(http.MethodPatch)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := s.productService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	var threshold *int
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			s.respondError(w, r, productdomain.NewValidationError("threshold", "must be an integer"))
			return
		}
		threshold = &value
	}

	items, err := s.productService.LowStock(r.Context(), threshold)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	item, err := s.productService.GetBySKU(r.Context(), r.URL.Query().Get("sku"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleTotalValue(w http.ResponseWriter, r *http.Request) {
	stats, err := s.productService.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	item, err := s.productService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload productusecase.CreateInput
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	item, err := s.productService.Create(r.Context(), payload)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/items/"+item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	var payload productusecase.ReplaceInput
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	item, err := s.productService.Replace(r.Context(), mux.Vars(r)["id"], payload)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.productService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("amount"))
	if raw == "" {
		s.respondError(w, r, productdomain.NewValidationError("amount", "is required"))
		return
	}
	amount, err := strconv.Atoi(raw)
	if err != nil {
		s.respondError(w, r, productdomain.NewValidationError("amount", "must be an integer"))
		return
	}

	item, err := s.productService.AdjustStock(r.Context(), mux.Vars(r)["id"], amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// allowedMethods lists the methods of every route whose path matches r.
func (s *Server) allowedMethods(r *http.Request) []string {
	seen := map[string]bool{}
	_ = s.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		for _, method := range methods {
			candidate := r.Clone(r.Context())
			candidate.Method = method
			var match mux.RouteMatch
			if route.Match(candidate, &match) {
				seen[method] = true
			}
		}
		return nil
	})

	allowed := make([]string, 0, len(seen))
	for method := range seen {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	return allowed
}

// decodeJSON reads a size-limited JSON body into dst. It writes the error
// response itself and reports whether decoding succeeded.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := io.Reader(r.Body)
	if s.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	}
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body required")
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
		}
		return false
	}
	return true
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"request_id": requestIDFromContext(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error("product operation failed")
	}
	writeJSON(w, status, body)
}
