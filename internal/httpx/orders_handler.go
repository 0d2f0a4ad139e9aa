package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/sistertele/phonestore/internal/cart"
	kafkax "github.com/sistertele/phonestore/internal/kafka"
	"github.com/sistertele/phonestore/internal/orders"
	"github.com/sistertele/phonestore/internal/redisx"
)

type OrdersHandler struct {
	Repo     *orders.Repo
	Carts    *cart.Store
	Producer *kafkax.Producer
	Redis    *redis.Client
	Service  string
}

type CheckoutReq struct {
	ExternalID string          `json:"external_id,omitempty"`
	Customer   orders.Customer `json:"customer"`
}

type CheckoutResp struct {
	OrderID    string `json:"order_id"`
	TotalMinor int64  `json:"total_minor"`
	Idempotent bool   `json:"idempotent"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/checkout", h.checkout)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getOrderStatus)
}

// checkout snapshots the session cart into an immutable order. The cart is
// cleared only after placement succeeds; a failed call leaves it untouched
// so the user can retry without re-entering line items.
func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	c := req.Customer
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" ||
		strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Address) == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "customer name, phone, email and address are required")
		return
	}
	id := cartID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, "CART_ID_REQUIRED", "missing "+HeaderCartID+" header")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	crt, err := h.Carts.Load(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "CART_LOAD_FAILED", err.Error())
		return
	}
	if len(crt.Items) == 0 {
		writeError(w, http.StatusBadRequest, "CART_EMPTY", "cart has no items")
		return
	}

	externalID := req.ExternalID
	if externalID == "" {
		externalID = uuid.NewString()
	}

	items := cart.ToOrderItems(crt.Items)
	orderID, total, existed, err := h.Repo.Place(ctx, externalID, c, items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "PLACE_FAILED", err.Error())
		return
	}

	// status cache so GET is hot right away
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = h.Redis.Set(ctx, statusKey, `{"status":"PLACED"}`, redisx.TTLStatusCache).Err()

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
	}
	ev.Payload = kafkax.MustMarshal(orders.OrderPlacedPayload{
		OrderID:       orderID,
		ExternalID:    externalID,
		CustomerName:  c.Name,
		CustomerEmail: c.Email,
		Items:         items,
		TotalMinor:    total,
	})
	h.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	// placement succeeded: now the cart may be emptied
	crt.Clear()
	if err := h.Carts.Save(ctx, id, crt); err != nil {
		logrus.WithError(err).WithField("cart_id", id).Warn("cart clear after checkout failed")
	}

	writeJSON(w, http.StatusCreated, CheckoutResp{OrderID: orderID, TotalMinor: total, Idempotent: existed})
}

type orderView struct {
	orders.Order
	Items []orders.Item `json:"items"`
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, items, err := h.Repo.Get(ctx, orderID)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	if items == nil {
		items = []orders.Item{}
	}
	writeJSON(w, http.StatusOK, orderView{Order: o, Items: items})
}

func (h *OrdersHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) cache
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	// 2) fallback DB
	status, err := h.Repo.GetStatus(ctx, orderID)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	b, _ := json.Marshal(map[string]any{"status": status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
