package generation

import "time"

const (
	nanoModelName = "nano-banana"
	proModelName  = "gemini-3-pro-image-preview"
)

// ForProvider istekte seçilen sağlayıcının client'ını kurar.
func ForProvider(provider string, timeout time.Duration, uploader Uploader) (Generator, error) {
	switch provider {
	case "", ProviderStandard:
		return NewReplicateClient(timeout), nil
	case ProviderNano:
		return NewGatewayClient(nanoModelName, "generations/"+nanoModelName, timeout, uploader), nil
	case ProviderPro:
		return NewGatewayClient(proModelName, "generations/gemini-pro", timeout, uploader), nil
	default:
		return nil, ErrUnknownProvider
	}
}
