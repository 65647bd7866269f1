package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDollarsToCents(t *testing.T) {
	assert.Equal(t, int64(36000), dollarsToCents(360))
	assert.Equal(t, int64(50), dollarsToCents(0.50))
	assert.Equal(t, int64(5225), dollarsToCents(52.25))
	// Float representation noise must round, not truncate.
	assert.Equal(t, int64(1010), dollarsToCents(10.10))
	assert.Equal(t, int64(2999), dollarsToCents(29.99))
}

func TestVerifyWebhook_RejectsBadSignature(t *testing.T) {
	g := NewStripeGateway("sk_test_x", "whsec_x", "usd")

	_, err := g.VerifyWebhook([]byte(`{}`), "t=1,v1=bogus")
	assert.Error(t, err)
}
