package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := NormalizeOptions("", "")
	assert.Equal(t, "2K", opts.ImageSize)
	assert.Equal(t, "1:1", opts.AspectRatio)
}

func TestNormalizeOptionsKeepsValidValues(t *testing.T) {
	opts := NormalizeOptions("4K", "16:9")
	assert.Equal(t, "4K", opts.ImageSize)
	assert.Equal(t, "16:9", opts.AspectRatio)
}

func TestNormalizeOptionsRejectsUnknownValues(t *testing.T) {
	// Allow-list dışı değerler sessizce default'a düşer, hata yok.
	opts := NormalizeOptions("8K", "21:9")
	assert.Equal(t, DefaultImageSize, opts.ImageSize)
	assert.Equal(t, DefaultAspectRatio, opts.AspectRatio)

	opts = NormalizeOptions("2k", "1:1")
	assert.Equal(t, DefaultImageSize, opts.ImageSize, "boyut eşleşmesi case-sensitive")
	assert.Equal(t, "1:1", opts.AspectRatio)
}

func TestNormalizeOptionsIndependentFields(t *testing.T) {
	opts := NormalizeOptions("1K", "bogus")
	assert.Equal(t, "1K", opts.ImageSize)
	assert.Equal(t, DefaultAspectRatio, opts.AspectRatio)
}
