package render

import (
	"fmt"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/internal/logfields"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/opc"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/xml"
)

// Image registers the media parts of img and returns a run holding its
// drawing. width bounds the rendered width in twips; larger images are
// scaled down with their aspect ratio kept.
func (s *Serializer) Image(img *model.Image, node string, width int) (*xml.Run, error) {
	if img == nil {
		return nil, derrors.Structuref(node, "image is nil")
	}
	if err := model.CheckText(node, img.AltText); err != nil {
		return nil, err
	}
	index := s.images
	s.images++
	n := index + 1

	d := &xml.Drawing{
		Name:        fmt.Sprintf("Picture %d", n),
		Description: img.AltText,
	}
	d.CX, d.CY = fitExtent(img.Width, img.Height, width)

	switch src := img.Source.(type) {
	case model.Raster:
		format, _, _, err := model.DecodeRasterConfig(src.Data)
		if err != nil {
			return nil, derrors.NewAssetError(img.Name, node, "unreadable raster image", err)
		}
		if src.Format != "" && src.Format != format {
			return nil, derrors.NewAssetError(img.Name, node,
				fmt.Sprintf("image data is %s, declared as %s", format, src.Format), nil)
		}
		rel, name, err := s.registerMedia(n, format, src.Data)
		if err != nil {
			return nil, err
		}
		d.EmbedID, d.FileName = string(rel), name

	case model.Vector:
		if src.Format != "" && src.Format != model.FormatSVG {
			return nil, derrors.NewAssetError(img.Name, node,
				fmt.Sprintf("unsupported vector format %q", src.Format), nil)
		}
		fallback, ok := s.opts.Fallbacks.Fallback(index)
		if !ok {
			return nil, derrors.NewAssetError(img.Name, node, "no raster fallback for vector image", nil)
		}
		if format, _, _, err := model.DecodeRasterConfig(fallback); err != nil || format != model.FormatPNG {
			return nil, derrors.NewAssetError(img.Name, node, "raster fallback is not a PNG", err)
		}
		// The fallback relationship comes first: it is the primary blip.
		pngRel, name, err := s.registerMedia(n, model.FormatPNG, fallback)
		if err != nil {
			return nil, err
		}
		svgRel, _, err := s.registerMedia(n, model.FormatSVG, src.Data)
		if err != nil {
			return nil, err
		}
		d.EmbedID, d.SVGEmbedID, d.FileName = string(pngRel), string(svgRel), name

	default:
		return nil, derrors.Structuref(node, "image has no source")
	}

	s.drawings++
	d.ID = s.drawings
	return &xml.Run{Content: []xml.RunContent{d}}, nil
}

// registerMedia stores data as word/media/image<n>.<ext> and relates it to
// the serializer's part.
func (s *Serializer) registerMedia(n int, format model.Format, data []byte) (opc.RelationshipID, string, error) {
	name := fmt.Sprintf("image%d.%s", n, format.Extension())
	path := opc.MediaDir + "/" + name
	id, err := s.reg.RegisterPart(path, format.ContentType(), data)
	if err != nil {
		return "", "", err
	}
	rel, err := s.reg.AddRelationship(s.part, opc.RelTypeImage, id)
	if err != nil {
		return "", "", err
	}
	s.logger.Debug("Registered media part",
		logfields.Path(path),
		logfields.ContentType(format.ContentType()),
		logfields.RelID(string(rel)),
		logfields.Bytes(len(data)))
	return rel, name, nil
}

// fitExtent converts pixel dimensions to EMU, scaling down to maxTwips wide.
func fitExtent(widthPx, heightPx, maxTwips int) (int64, int64) {
	cx := xml.PixelsToEMU(widthPx)
	cy := xml.PixelsToEMU(heightPx)
	limit := int64(maxTwips) * xml.EMUPerTwip
	if maxTwips > 0 && cx > limit {
		cy = cy * limit / cx
		cx = limit
		if cy < 1 {
			cy = 1
		}
	}
	return cx, cy
}
