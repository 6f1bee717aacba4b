package generation

import (
	"context"
	"errors"
	"fmt"
)

const (
	ProviderStandard = "standard" // Replicate SDXL
	ProviderNano     = "nano"     // gateway nano-banana, tier'dan bağımsız 2 ücretsiz kullanım
	ProviderPro      = "pro"      // gateway gemini-3-pro, sadece ücretli tier'lar
)

// NanoMarker nano üretimlerinin sonuç URL'inde geçer; ücretsiz kullanım
// sayacı bu marker üzerinden sayar.
const NanoMarker = "nano-banana"

// NanoFreeUses tier'dan bağımsız toplam ücretsiz nano kullanım hakkı.
const NanoFreeUses = 2

var (
	ErrUpgradeRequired   = errors.New("this provider requires a paid subscription")
	ErrFreeUsesExhausted = errors.New("free uses for this provider are exhausted")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrUnknownProvider   = errors.New("unknown provider")
)

// ErrGenerationFailed sağlayıcı hatasını diagnostik için taşır; mesaj
// kullanıcıya olduğu gibi gösterilmemelidir.
type ErrGenerationFailed struct {
	Reason error
}

func (e *ErrGenerationFailed) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Reason)
}

func (e *ErrGenerationFailed) Unwrap() error {
	return e.Reason
}

type Input struct {
	ImageURL string
	Prompt   string
	Options  Options
}

type Result struct {
	ImageURL string
	Prompt   string
}

type Generator interface {
	Generate(ctx context.Context, input Input) (*Result, error)
}
