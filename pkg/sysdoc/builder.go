package sysdoc

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/internal/logfields"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/metrics"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/opc"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/raster"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/render"
)

// Builder compiles document models into .docx packages.
// Use New() to create a builder with the global configuration.
//
// A Builder holds no per-build state and may be used from several
// goroutines; each build owns its own part registry.
type Builder struct {
	config     *Config
	rasterizer raster.Rasterizer
	recorder   metrics.Recorder
	logger     *Logger
}

// New creates a builder with the global configuration, the pure Go SVG
// rasterizer and the global logger.
func New() *Builder {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates a builder with a custom configuration.
func NewWithConfig(config *Config) *Builder {
	config = NewConfigWithDefaults(config)
	return &Builder{
		config:     config,
		rasterizer: raster.NewOKSVG(config.RasterDPI),
		recorder:   metrics.NoopRecorder{},
		logger:     GetLogger(),
	}
}

// Option represents a configuration option for the builder.
type Option func(*Builder)

// WithConfig returns an option that sets the builder configuration.
// The rasterizer is recreated at the configured resolution.
func WithConfig(config *Config) Option {
	return func(b *Builder) {
		b.config = NewConfigWithDefaults(config)
		if _, ok := b.rasterizer.(*raster.OKSVG); ok {
			b.rasterizer = raster.NewOKSVG(b.config.RasterDPI)
		}
	}
}

// WithRasterizer returns an option that sets the vector fallback renderer.
// A nil rasterizer makes every document with a vector image fail.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(b *Builder) {
		b.rasterizer = r
	}
}

// WithRecorder returns an option that sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r == nil {
			r = metrics.NoopRecorder{}
		}
		b.recorder = r
	}
}

// WithLogger returns an option that sets the logger.
func WithLogger(l *Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewWithOptions creates a new builder with the specified options.
func NewWithOptions(opts ...Option) *Builder {
	b := New()
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the builder's configuration.
func (b *Builder) Config() *Config {
	return b.config
}

// Build writes doc to dest. The file appears only when the whole build
// succeeds; on failure nothing is left at dest.
func (b *Builder) Build(doc *model.Document, dest string) error {
	return b.run(doc, dest, func(a *opc.Assembler) (int, error) {
		if err := a.WriteFile(dest); err != nil {
			return 0, err
		}
		if fi, err := os.Stat(dest); err == nil {
			return int(fi.Size()), nil
		}
		return 0, nil
	})
}

// Encode writes the package bytes of doc to w. Nothing is written unless
// serialization and verification succeed.
func (b *Builder) Encode(doc *model.Document, w io.Writer) error {
	return b.run(doc, "", func(a *opc.Assembler) (int, error) {
		cw := &countingWriter{w: w}
		err := a.Write(cw)
		return cw.n, err
	})
}

// Validate checks doc and serializes it into an in-memory registry
// without producing a package.
func (b *Builder) Validate(doc *model.Document) error {
	return b.run(doc, "", func(a *opc.Assembler) (int, error) {
		_, err := a.Entries()
		return 0, err
	})
}

func (b *Builder) run(doc *model.Document, dest string, write func(*opc.Assembler) (int, error)) (err error) {
	log := b.logger.Slog()
	if dest != "" {
		log = log.With(logfields.Path(dest))
	}
	start := time.Now()
	defer func() {
		b.recorder.ObserveBuildDuration(time.Since(start))
		if err != nil {
			b.recorder.IncBuildOutcome(string(GetErrorCategory(err)))
			log.Error("Build failed", logfields.Error(err))
			return
		}
		b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	}()

	log.Info("Build started")

	if err := b.stage(metrics.StageValidate, func() error {
		if err := b.config.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return doc.Validate()
	}); err != nil {
		return err
	}

	var fallbacks *raster.Results
	if err := b.stage(metrics.StageRasterize, func() error {
		var err error
		fallbacks, err = raster.Batch(context.Background(), doc, b.rasterizer, b.config.RasterWorkers, log)
		return err
	}); err != nil {
		return err
	}
	b.recorder.AddImages("vector", fallbacks.Vectors())
	b.recorder.AddImages("raster", fallbacks.Len()-fallbacks.Vectors())

	reg := opc.NewRegistry(log)
	if err := b.stage(metrics.StageSerialize, func() error {
		_, err := render.Package(reg, doc, render.Options{
			PageWidth:  b.config.PageWidth,
			PageHeight: b.config.PageHeight,
			PageMargin: b.config.PageMargin,
			Font:       b.config.DefaultFont,
			FontSize:   b.config.DefaultFontSize,
			Fallbacks:  fallbacks,
			Logger:     log,
		})
		return err
	}); err != nil {
		return err
	}

	method := zip.Deflate
	if b.config.Compression == CompressionStore {
		method = zip.Store
	}
	asm := opc.NewAssembler(reg, opc.WithCompression(method), opc.WithLogger(log))

	var size int
	if err := b.stage(metrics.StageAssemble, func() error {
		var err error
		size, err = write(asm)
		return err
	}); err != nil {
		return err
	}
	if size > 0 {
		b.recorder.ObservePackageSize(size)
	}

	st := doc.Stats()
	log.Info("Build finished",
		logfields.Count(reg.Len()),
		logfields.Bytes(size),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000),
		"sections", st.Sections,
		"paragraphs", st.Paragraphs,
		"tables", st.Tables,
		"images", st.Images,
		"words", st.Words)
	return nil
}

func (b *Builder) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	b.recorder.ObserveStageDuration(name, time.Since(start))
	return err
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// Module-level convenience functions that use a builder with the global configuration.

// Build writes doc to dest using New()
func Build(doc *model.Document, dest string) error {
	return New().Build(doc, dest)
}

// Encode writes the package bytes of doc to w using New()
func Encode(doc *model.Document, w io.Writer) error {
	return New().Encode(doc, w)
}

// Validate checks that doc can be built using New()
func Validate(doc *model.Document) error {
	return New().Validate(doc)
}
