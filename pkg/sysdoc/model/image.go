package model

import (
	"bytes"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
)

// Format identifies the encoding of image bytes.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatSVG  Format = "svg"
)

// Extension returns the media file extension for the format (without dot)
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case "":
		return ""
	default:
		return "image/" + string(f)
	}
}

// IsRaster reports whether the format is a bitmap format
func (f Format) IsRaster() bool {
	switch f {
	case FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF:
		return true
	}
	return false
}

// ImageSource is the payload of an image: Raster or Vector.
type ImageSource interface {
	isImageSource()
	Bytes() []byte
	ImageFormat() Format
}

// Raster is a bitmap image payload.
type Raster struct {
	Data   []byte
	Format Format
}

func (Raster) isImageSource()        {}
func (r Raster) Bytes() []byte       { return r.Data }
func (r Raster) ImageFormat() Format { return r.Format }

// Vector is a vector image payload. A raster fallback is generated for it
// when the package is built.
type Vector struct {
	Data   []byte
	Format Format
}

func (Vector) isImageSource()        {}
func (v Vector) Bytes() []byte       { return v.Data }
func (v Vector) ImageFormat() Format { return v.Format }

// Image is an inline picture with intrinsic dimensions in pixels (96 DPI).
type Image struct {
	Source  ImageSource
	Width   int
	Height  int
	Name    string
	AltText string
}

func (*Image) isInline() {}

// NewRasterImage creates an image from PNG, JPEG, GIF, BMP or TIFF bytes.
// Format and intrinsic dimensions are read from the data.
func NewRasterImage(name string, data []byte) (*Image, error) {
	format, width, height, err := DecodeRasterConfig(data)
	if err != nil {
		return nil, derrors.NewAssetError(name, "", "unreadable raster image", err)
	}
	return &Image{
		Source: Raster{Data: data, Format: format},
		Width:  width,
		Height: height,
		Name:   name,
	}, nil
}

// NewVectorImage creates an SVG image with the given intrinsic dimensions.
func NewVectorImage(name string, data []byte, width, height int) (*Image, error) {
	if len(data) == 0 {
		return nil, derrors.NewAssetError(name, "", "empty vector image", nil)
	}
	if !LooksLikeSVG(data) {
		return nil, derrors.NewAssetError(name, "", "vector image is not SVG", nil)
	}
	if width <= 0 || height <= 0 {
		return nil, derrors.Structuref(name, "vector image needs positive dimensions, got %dx%d", width, height)
	}
	return &Image{
		Source: Vector{Data: data, Format: FormatSVG},
		Width:  width,
		Height: height,
		Name:   name,
	}, nil
}

// DecodeRasterConfig detects the raster format of data and returns its dimensions.
func DecodeRasterConfig(data []byte) (Format, int, int, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, err
	}
	return Format(name), cfg.Width, cfg.Height, nil
}

// LooksLikeSVG reports whether data starts like an SVG document.
func LooksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	s := strings.TrimSpace(strings.TrimPrefix(string(head), "\ufeff"))
	return strings.HasPrefix(s, "<svg") ||
		(strings.HasPrefix(s, "<?xml") || strings.HasPrefix(s, "<!--") || strings.HasPrefix(s, "<!DOCTYPE")) && strings.Contains(s, "<svg")
}

func (img *Image) validate(node string) error {
	if img.Width <= 0 || img.Height <= 0 {
		return derrors.Structuref(node, "image needs positive dimensions, got %dx%d", img.Width, img.Height)
	}
	if err := CheckText(node, img.AltText); err != nil {
		return err
	}
	switch src := img.Source.(type) {
	case Raster:
		if len(src.Data) == 0 {
			return derrors.Structuref(node, "raster image has no data")
		}
	case Vector:
		if len(src.Data) == 0 {
			return derrors.Structuref(node, "vector image has no data")
		}
	default:
		return derrors.Structuref(node, "image has no source")
	}
	return nil
}
