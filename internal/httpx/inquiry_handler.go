package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/sistertele/phonestore/internal/inquiry"
	kafkax "github.com/sistertele/phonestore/internal/kafka"
	"github.com/sistertele/phonestore/internal/orders"
)

type InquiryHandler struct {
	Repo     *inquiry.Repo
	Producer *kafkax.Producer
	Service  string
}

type submitInquiryReq struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Message string `json:"message"`
}

func (h *InquiryHandler) Register(r *chi.Mux) {
	r.Post("/inquiries", h.submit)
}

func (h *InquiryHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitInquiryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Contact) == "" || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "name, contact and message are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := h.Repo.Submit(ctx, req.Name, req.Contact, req.Message)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	if h.Producer != nil {
		ev := orders.Envelope{
			EventID:      uuid.NewString(),
			EventType:    orders.EventInquiryReceived,
			EventVersion: 1,
			OccurredAt:   time.Now().UTC(),
			Producer:     h.Service,
			TraceID:      r.Header.Get("X-Request-Id"),
		}
		ev.Payload = kafkax.MustMarshal(orders.InquiryReceivedPayload{InquiryID: id, Name: req.Name, Contact: req.Contact})
		h.Producer.Publish([]byte(req.Contact), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventInquiryReceived)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"inquiry_id": id})
}
