package orders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryPayloadRoundTrip(t *testing.T) {
	payload := deliveryQRPayload("ORD123456001", "u-buyer")

	orderID, ok := VerifyDeliveryPayload(payload)
	require.True(t, ok)
	assert.Equal(t, "ORD123456001", orderID)
}

func TestDeliveryPayloadTamperRejected(t *testing.T) {
	payload := deliveryQRPayload("ORD123456001", "u-buyer")
	tampered := strings.Replace(payload, "ORD123456001", "ORD999999001", 1)

	_, ok := VerifyDeliveryPayload(tampered)
	assert.False(t, ok)
}

func TestDeliveryPayloadMalformed(t *testing.T) {
	for _, p := range []string{"", "a|b", "a|b|c", "not-a-payload"} {
		_, ok := VerifyDeliveryPayload(p)
		assert.False(t, ok, "payload %q should not verify", p)
	}
}

func TestStatusRankOrdering(t *testing.T) {
	order := []string{"pending", "confirmed", "processing", "shipped", "delivered"}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, statusRank[order[i]], statusRank[order[i-1]])
	}
	_, ok := statusRank["cancelled"]
	assert.False(t, ok, "cancelled is not a forward state")
}
