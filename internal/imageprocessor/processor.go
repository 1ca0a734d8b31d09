package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result - обработанная картинка
type Result struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

type Processor struct {
	quality      int // JPEG quality (1-100)
	maxDimension int
}

func NewProcessor(quality, maxDimension int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxDimension <= 0 {
		maxDimension = 1600
	}
	return &Processor{quality: quality, maxDimension: maxDimension}
}

// Process декодирует картинку, уменьшает до maxDimension по большей стороне
// и кодирует обратно. PNG остается PNG, остальное уходит в JPEG.
func (p *Processor) Process(reader io.Reader) (*Result, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	resized := p.resize(img, p.maxDimension)
	bounds := resized.Bounds()

	var buf bytes.Buffer
	res := &Result{Width: bounds.Dx(), Height: bounds.Dy()}
	switch format {
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		res.ContentType, res.Ext = "image/png", "png"
	case "jpeg", "webp":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		res.ContentType, res.Ext = "image/jpeg", "jpg"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	res.Data = buf.Bytes()
	return res, nil
}

// resize сохраняет пропорции и не увеличивает маленькие картинки
func (p *Processor) resize(img image.Image, maxSide int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxSide && height <= maxSide {
		return img
	}

	newWidth, newHeight := maxSide, maxSide
	if width > height {
		newHeight = max(1, height*maxSide/width)
	} else {
		newWidth = max(1, width*maxSide/height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
