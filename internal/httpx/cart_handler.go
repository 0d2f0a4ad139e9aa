package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sistertele/phonestore/internal/cart"
)

// HeaderCartID identifies the browsing session's cart. The server never
// invents cart ids; the client owns the session key.
const HeaderCartID = "X-Cart-ID"

type CartHandler struct {
	Store *cart.Store
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{productID}", h.updateQuantity)
	r.Delete("/cart/items/{productID}", h.removeItem)
	r.Delete("/cart", h.clearCart)
}

type cartView struct {
	Items      []cart.LineItem `json:"items"`
	ItemCount  int64           `json:"item_count"`
	TotalMinor int64           `json:"total_minor"`
}

func viewOf(c *cart.Cart) cartView {
	items := c.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	return cartView{Items: items, ItemCount: c.ItemCount(), TotalMinor: c.Total()}
}

func cartID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderCartID))
}

func (h *CartHandler) load(w http.ResponseWriter, r *http.Request) (context.Context, context.CancelFunc, string, *cart.Cart, bool) {
	id := cartID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, "CART_ID_REQUIRED", "missing "+HeaderCartID+" header")
		return nil, nil, "", nil, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	c, err := h.Store.Load(ctx, id)
	if err != nil {
		cancel()
		writeError(w, http.StatusInternalServerError, "CART_LOAD_FAILED", err.Error())
		return nil, nil, "", nil, false
	}
	return ctx, cancel, id, c, true
}

// save persists the mutated cart; the mutation is only acknowledged once the
// write succeeded, so a read after a 200 never observes a stale cart.
func (h *CartHandler) save(ctx context.Context, w http.ResponseWriter, id string, c *cart.Cart) {
	if err := h.Store.Save(ctx, id, c); err != nil {
		writeError(w, http.StatusInternalServerError, "CART_SAVE_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	_, cancel, _, c, ok := h.load(w, r)
	if !ok {
		return
	}
	defer cancel()
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var item cart.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if item.ProductID == 0 || item.Quantity <= 0 || item.UnitPrice < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ITEM", "product_id, positive quantity and non-negative unit_price are required")
		return
	}

	ctx, cancel, id, c, ok := h.load(w, r)
	if !ok {
		return
	}
	defer cancel()

	c.Add(item)
	h.save(ctx, w, id, c)
}

type updateQuantityReq struct {
	Quantity int64 `json:"quantity"`
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "product id must be numeric")
		return
	}
	var req updateQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}

	ctx, cancel, id, c, ok := h.load(w, r)
	if !ok {
		return
	}
	defer cancel()

	c.UpdateQuantity(productID, req.Quantity)
	h.save(ctx, w, id, c)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "product id must be numeric")
		return
	}

	ctx, cancel, id, c, ok := h.load(w, r)
	if !ok {
		return
	}
	defer cancel()

	c.Remove(productID)
	h.save(ctx, w, id, c)
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, id, c, ok := h.load(w, r)
	if !ok {
		return
	}
	defer cancel()

	c.Clear()
	h.save(ctx, w, id, c)
}
