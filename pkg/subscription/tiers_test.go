package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"petphoto_backend/internal/model"
)

func TestQuotaForTier(t *testing.T) {
	assert.Equal(t, 5, QuotaForTier(model.TierFree))
	assert.Equal(t, 50, QuotaForTier(model.TierBasic))
	assert.Equal(t, 1000, QuotaForTier(model.TierPro))

	// Bilinmeyen tier free limitine düşer.
	assert.Equal(t, 5, QuotaForTier(model.Tier("enterprise")))
}

func TestTierForPrice(t *testing.T) {
	t.Setenv("STRIPE_PRICE_BASIC", "price_basic_123")
	t.Setenv("STRIPE_PRICE_PRO", "price_pro_456")

	assert.Equal(t, model.TierBasic, TierForPrice("price_basic_123"))
	assert.Equal(t, model.TierPro, TierForPrice("price_pro_456"))
	assert.Equal(t, model.TierFree, TierForPrice("price_unknown"))
	assert.Equal(t, model.TierFree, TierForPrice(""))
}

func TestTierForPriceEmptyEnvDoesNotMatchEmptyPrice(t *testing.T) {
	t.Setenv("STRIPE_PRICE_BASIC", "")
	t.Setenv("STRIPE_PRICE_PRO", "")

	// Env boşken boş price ID yanlışlıkla bir tier'a eşleşmemeli.
	assert.Equal(t, model.TierFree, TierForPrice(""))
	assert.Equal(t, model.TierFree, TierForPrice("price_any"))
}
