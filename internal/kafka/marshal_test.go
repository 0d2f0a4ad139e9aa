package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnvelope struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

type testPayload struct {
	OrderID string `json:"order_id"`
	Total   int64  `json:"total"`
}

func TestEnvelopeRoundTripAndUnwrap(t *testing.T) {
	in := testEnvelope{
		EventType: "OrderPlaced",
		Payload:   MustMarshal(testPayload{OrderID: "o-1", Total: 2500}),
	}

	var out testEnvelope
	require.NoError(t, UnmarshalEnvelope(MustMarshal(in), &out))
	assert.Equal(t, "OrderPlaced", out.EventType)

	p, err := UnwrapPayload[testPayload](out.Payload)
	require.NoError(t, err)
	assert.Equal(t, "o-1", p.OrderID)
	assert.Equal(t, int64(2500), p.Total)
}

func TestUnwrapPayloadRejectsMalformed(t *testing.T) {
	_, err := UnwrapPayload[testPayload](json.RawMessage(`{"order_id":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode payload")
}
