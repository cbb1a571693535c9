// Package raster generates PNG fallbacks for vector images.
//
// Word processors that do not understand the SVG blip extension render the
// fallback instead, so every vector image in a package needs one.
package raster

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultDPI is the resolution at which an image's intrinsic pixel size is
// rendered one to one.
const DefaultDPI = 96

// maxSide bounds the fallback bitmap in each dimension.
const maxSide = 8192

// Rasterizer renders SVG bytes to PNG bytes. width and height are the
// intrinsic size of the image in 96 DPI pixels.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error)
}

// RasterizerFunc adapts a function to the Rasterizer interface.
type RasterizerFunc func(ctx context.Context, svg []byte, width, height int) ([]byte, error)

// Rasterize calls f
func (f RasterizerFunc) Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	return f(ctx, svg, width, height)
}

// OKSVG renders with the pure Go oksvg/rasterx stack.
type OKSVG struct {
	// DPI scales the output bitmap relative to 96 DPI.
	DPI int
}

// NewOKSVG returns an OKSVG rasterizer. A non-positive dpi selects DefaultDPI.
func NewOKSVG(dpi int) *OKSVG {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &OKSVG{DPI: dpi}
}

// Rasterize implements Rasterizer
func (o *OKSVG) Rasterize(ctx context.Context, svg []byte, width, height int) (out []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	dpi := o.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	w, h := fallbackSize(width, height, dpi)

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}

	// rasterx panics on some degenerate paths
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("svg rendering failed: %v", r)
		}
	}()

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// fallbackSize scales width x height by dpi/96 and shrinks the result,
// keeping the aspect ratio, so that neither side exceeds maxSide.
func fallbackSize(width, height, dpi int) (int, int) {
	f := float64(dpi) / DefaultDPI
	if longest := float64(max(width, height)) * f; longest > maxSide {
		f *= maxSide / longest
	}
	return scale(width, f), scale(height, f)
}

func scale(px int, f float64) int {
	v := int(math.Floor(float64(px)*f + 0.5))
	return min(max(v, 1), maxSide)
}

// SVGSize returns the intrinsic size of an SVG document in pixels. The
// width and height attributes of the root element win; the viewBox is used
// when they are missing or relative.
func SVGSize(svg []byte) (int, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("no svg root element: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return 0, 0, fmt.Errorf("root element is %q, not svg", se.Name.Local)
		}
		var ws, hs string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "width":
				ws = a.Value
			case "height":
				hs = a.Value
			}
		}
		w, wok := parseLength(ws)
		h, hok := parseLength(hs)
		if wok && hok {
			return w, h, nil
		}
		break
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse svg: %w", err)
	}
	w := int(math.Round(icon.ViewBox.W))
	h := int(math.Round(icon.ViewBox.H))
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("svg has neither absolute size nor viewBox")
	}
	return w, h, nil
}

// parseLength converts an absolute SVG length to 96 DPI pixels.
func parseLength(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	factor := 1.0
	for _, u := range []struct {
		suffix string
		factor float64
	}{
		{"px", 1},
		{"pt", 96.0 / 72},
		{"pc", 16},
		{"mm", 96 / 25.4},
		{"cm", 96 / 2.54},
		{"in", 96},
	} {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			factor = u.factor
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return int(math.Round(v * factor)), true
}
