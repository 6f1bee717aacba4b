package subscription

import (
	"os"

	"petphoto_backend/internal/model"
)

// Aylık üretim limitleri tier'a göre sabittir. Stripe tarafından gelen
// hiçbir payload bu değerleri değiştiremez.
var TierQuotas = map[model.Tier]int{
	model.TierFree:  5,
	model.TierBasic: 50,
	model.TierPro:   1000,
}

// QuotaForTier bilinmeyen tier için free limitini döndürür, asla hata vermez.
func QuotaForTier(tier model.Tier) int {
	if quota, ok := TierQuotas[tier]; ok {
		return quota
	}
	return TierQuotas[model.TierFree]
}

// TierForPrice Stripe price ID'sini tier'a çevirir. Eşleşmeyen her price ID
// free'ye düşer; böylece beklenmedik bir price senkronizasyonu bloklamaz.
func TierForPrice(priceID string) model.Tier {
	if priceID == "" {
		return model.TierFree
	}
	switch priceID {
	case os.Getenv("STRIPE_PRICE_BASIC"):
		return model.TierBasic
	case os.Getenv("STRIPE_PRICE_PRO"):
		return model.TierPro
	default:
		return model.TierFree
	}
}
