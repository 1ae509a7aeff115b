// Package images measures asset images without decoding pixel data.
package images

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnknownFormat is returned by Size for data it cannot measure.
var ErrUnknownFormat = errors.New("unknown image format")

// Size returns image dimensions and format name. Raster formats are read
// with registered decoders, SVG is recognized by mime type.
func Size(r io.Reader, mimeType string) (w, h int, format string, err error) {
	if strings.HasPrefix(mimeType, "image/svg") {
		w, h, err = SVGSize(r)
		return w, h, "svg", err
	}
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return 0, 0, "", ErrUnknownFormat
		}
		return 0, 0, "", err
	}
	return cfg.Width, cfg.Height, format, nil
}
