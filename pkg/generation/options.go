package generation

const (
	DefaultImageSize   = "2K"
	DefaultAspectRatio = "1:1"
)

var validImageSizes = map[string]bool{
	"1K": true,
	"2K": true,
	"4K": true,
}

var validAspectRatios = map[string]bool{
	"1:1":  true,
	"4:3":  true,
	"3:4":  true,
	"16:9": true,
	"9:16": true,
}

type Options struct {
	ImageSize   string `json:"image_size"`
	AspectRatio string `json:"aspect_ratio"`
}

// NormalizeOptions geçersiz değerleri dışarı sızdırmaz; allow-list dışındaki
// her şey default'a düşer.
func NormalizeOptions(imageSize, aspectRatio string) Options {
	if !validImageSizes[imageSize] {
		imageSize = DefaultImageSize
	}
	if !validAspectRatios[aspectRatio] {
		aspectRatio = DefaultAspectRatio
	}
	return Options{ImageSize: imageSize, AspectRatio: aspectRatio}
}
