package utils

import (
	"bytes"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

// MaxImageWidth caps uploaded media; wider images are downscaled.
const MaxImageWidth = 2000

// ProcessImage resizes an image to at most maxWidth and re-encodes it as WebP,
// falling back to JPEG when WebP encoding fails.
func ProcessImage(r io.Reader, maxWidth int, log *zerolog.Logger) ([]byte, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	bounds := img.Bounds()
	log.Debug().Str("format", format).Int("width", bounds.Dx()).Int("height", bounds.Dy()).Msg("processing image")

	if maxWidth > 0 && bounds.Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	err = webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: 85})
	if err != nil {
		log.Warn().Err(err).Msg("webp encoding failed, falling back to jpeg")
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}

	return buf.Bytes(), "image/webp", nil
}
