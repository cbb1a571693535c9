package raster

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/internal/logfields"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
)

// Results holds the generated fallbacks of a document, indexed by the
// position of the image in document walk order (raster images included).
type Results struct {
	fallbacks [][]byte
	vectors   int
}

// Fallback returns the PNG fallback of the image at walk index i.
func (r *Results) Fallback(i int) ([]byte, bool) {
	if r == nil || i < 0 || i >= len(r.fallbacks) || r.fallbacks[i] == nil {
		return nil, false
	}
	return r.fallbacks[i], true
}

// Len returns the number of images walked.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fallbacks)
}

// Vectors returns the number of vector images that received a fallback.
func (r *Results) Vectors() int {
	if r == nil {
		return 0
	}
	return r.vectors
}

type job struct {
	index int
	loc   string
	img   *model.Image
	data  []byte
}

// Batch rasterizes every vector image of doc with at most workers concurrent
// renders. Results are stored by walk index so that consumers see them in
// document order regardless of completion order.
//
// A vector image with no rasterizer configured fails with an AssetError
// naming its location.
func Batch(ctx context.Context, doc *model.Document, r Rasterizer, workers int, logger *slog.Logger) (*Results, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if workers <= 0 {
		workers = 1
	}

	var jobs []job
	n := 0
	err := doc.WalkImages(func(loc string, img *model.Image) error {
		defer func() { n++ }()
		v, ok := img.Source.(model.Vector)
		if !ok {
			return nil
		}
		if r == nil {
			return derrors.NewAssetError(img.Name, loc, "no rasterizer configured for vector fallback", nil)
		}
		jobs = append(jobs, job{index: n, loc: loc, img: img, data: v.Data})
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &Results{fallbacks: make([][]byte, n), vectors: len(jobs)}
	if len(jobs) == 0 {
		return res, nil
	}

	// A failure does not cancel the other jobs; the first one in walk
	// order is reported.
	errs := make([]error, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for k, j := range jobs {
		g.Go(func() error {
			start := time.Now()
			png, err := r.Rasterize(ctx, j.data, j.img.Width, j.img.Height)
			if err != nil {
				errs[k] = derrors.NewAssetError(j.img.Name, j.loc, "failed to rasterize vector image", err)
				return nil
			}
			// each goroutine owns its own slot
			res.fallbacks[j.index] = png
			logger.Debug("Rasterized vector image",
				logfields.Image(j.img.Name),
				logfields.Bytes(len(png)),
				logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
