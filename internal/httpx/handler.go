// Package httpx is the HTTP transport over the catalog and the order
// service. Handlers decode, validate the request shape, call the service and
// map domain errors to status codes; they hold no business logic of their
// own.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lhardev/storefront/internal/catalog"
	"github.com/lhardev/storefront/internal/orders"
	"github.com/lhardev/storefront/internal/pkg/requestmeta"
)

// SiteConfig is the static client bootstrap data served at /api/config.
type SiteConfig struct {
	SiteName      string
	UPIID         string
	AdvanceAmount int64
}

type Handler struct {
	catalog *catalog.Catalog
	orders  *orders.Service
	site    SiteConfig
}

func NewHandler(c *catalog.Catalog, svc *orders.Service, site SiteConfig) *Handler {
	return &Handler{catalog: c, orders: svc, site: site}
}

// ListProducts serves the read-only catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.All())
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	p, ok := h.catalog.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) GetSiteConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SiteConfigResponse{
		AdvanceAmount: h.site.AdvanceAmount,
		UPIID:         h.site.UPIID,
		SiteName:      h.site.SiteName,
	})
}

// CreateOrder builds and persists an order from the declared cart and
// payment intent. Item prices arrive already variant-adjusted and are
// trusted as given.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if len(req.Cart) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "cart is required")
		return
	}

	res, err := h.orders.Create(r.Context(), orders.Draft{
		Cart:              req.Cart,
		Amount:            req.Amount,
		PaymentType:       orders.PaymentType(req.PaymentType),
		Customer:          req.CustomerDetails,
		PaymentScreenshot: req.PaymentScreenshot,
		TransactionID:     req.TransactionID,
	})
	if err != nil {
		h.serverError(w, r, "create order", err)
		return
	}

	msg := "Order Placed Successfully"
	if res.Advance {
		msg = "Advance Payment Received"
	}
	writeJSON(w, http.StatusCreated, CreateOrderResponse{
		Success:       true,
		OrderID:       res.OrderID,
		TransactionID: res.TransactionID,
		Message:       msg,
		Details: AmountDetails{
			Total: res.Total,
			Paid:  res.Paid,
			Due:   res.Due,
			Date:  res.Date.Format(time.RFC3339),
		},
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	o, err := h.orders.Get(r.Context(), orderID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		h.serverError(w, r, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// ListAdminOrders returns every order, newest first.
func (h *Handler) ListAdminOrders(w http.ResponseWriter, r *http.Request) {
	all, err := h.orders.List(r.Context())
	if err != nil {
		h.serverError(w, r, "list orders", err)
		return
	}
	if all == nil {
		all = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, all)
}

// PayDeferred applies a follow-up payment. Retries can be made safe with an
// X-Idempotency-Key header; without one the endpoint is at-least-once.
func (h *Handler) PayDeferred(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req PayDeferredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, dup, err := h.orders.PayDeferred(r.Context(), orderID, req.Amount, requestmeta.IdempotencyKey(r.Context()))
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		h.serverError(w, r, "pay deferred", err)
		return
	}

	msg := "Payment recorded"
	if dup {
		msg = "Payment already recorded"
	}
	writeJSON(w, http.StatusOK, PayDeferredResponse{Success: true, Message: msg, Duplicate: dup, Order: o})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	err := h.orders.SetStatus(r.Context(), orderID, req.Status)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		h.serverError(w, r, "update status", err)
		return
	}
	writeJSON(w, http.StatusOK, UpdateStatusResponse{Success: true, Message: "Status updated", Status: req.Status})
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	err := h.orders.Delete(r.Context(), orderID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		h.serverError(w, r, "delete order", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteOrderResponse{Success: true, Message: "Order deleted"})
}

// serverError logs the cause and answers with a generic failure; storage
// details never leak to the client.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.ErrorContext(r.Context(), op+" failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
