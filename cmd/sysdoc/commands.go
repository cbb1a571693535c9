package main

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/metrics"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/revision"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/source"
)

// Global carries state shared by all commands.
type Global struct{}

// CLI is the command line of sysdoc.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (YAML). Defaults come from SYSDOC_* environment variables." type:"path"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build a .docx package from a document description"`
	Validate ValidateCmd `cmd:"" help:"Check a document description without writing a package"`
}

// configure loads the configuration and applies it globally.
func (c *CLI) configure() (*sysdoc.Config, error) {
	cfg := sysdoc.ConfigFromEnvironment()
	if c.Config != "" {
		loaded, err := sysdoc.LoadConfig(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.Verbose {
		cfg.LogLevel = "debug"
	}
	sysdoc.SetGlobalConfig(cfg)
	return cfg, nil
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source       string `arg:"" help:"Document description (YAML)" type:"existingfile"`
	Output       string `short:"o" help:"Output .docx path" default:"document.docx" type:"path"`
	GitRevisions string `name:"git-revisions" help:"Take the revision history from the tags of the git repository at this path" placeholder:"PATH"`
	MetricsFile  string `name:"metrics-file" help:"Write build metrics in Prometheus text format to this file" type:"path"`
}

// Run builds the package
func (b *BuildCmd) Run(_ *Global, cli *CLI) error {
	cfg, err := cli.configure()
	if err != nil {
		return err
	}
	doc, err := load(b.Source, b.GitRevisions)
	if err != nil {
		return err
	}

	opts := []sysdoc.Option{sysdoc.WithConfig(cfg), sysdoc.WithLogger(sysdoc.GetLogger())}
	var reg *prometheus.Registry
	if b.MetricsFile != "" {
		reg = prometheus.NewRegistry()
		opts = append(opts, sysdoc.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	}

	buildErr := sysdoc.NewWithOptions(opts...).Build(doc, b.Output)
	if reg != nil {
		if err := prometheus.WriteToTextfile(b.MetricsFile, reg); err != nil {
			sysdoc.Warn("Failed to write metrics file %s: %v", b.MetricsFile, err)
		}
	}
	if buildErr != nil {
		return buildErr
	}
	fmt.Printf("Wrote %s\n", b.Output)
	return nil
}

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Source string `arg:"" help:"Document description (YAML)" type:"existingfile"`
}

// Run checks the description
func (v *ValidateCmd) Run(_ *Global, cli *CLI) error {
	cfg, err := cli.configure()
	if err != nil {
		return err
	}
	doc, err := load(v.Source, "")
	if err != nil {
		return err
	}
	b := sysdoc.NewWithOptions(sysdoc.WithConfig(cfg), sysdoc.WithLogger(sysdoc.GetLogger()))
	if err := b.Validate(doc); err != nil {
		return err
	}
	st := doc.Stats()
	fmt.Printf("%s: ok (%d sections, %d paragraphs, %d tables, %d images)\n",
		v.Source, st.Sections, st.Paragraphs, st.Tables, st.Images)
	return nil
}

func load(path, gitRepo string) (*model.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	loader := source.NewLoader(osfs.New(filepath.Dir(abs)), sysdoc.GetLogger().Slog())
	doc, err := loader.Load(filepath.Base(abs))
	if err != nil {
		return nil, err
	}
	if gitRepo != "" {
		revs, err := revision.Open(gitRepo)
		if err != nil {
			return nil, err
		}
		if len(revs) > 0 {
			doc.Metadata.Revisions = revs
		}
		sysdoc.Info("Read %d revisions from %s", len(revs), gitRepo)
	}
	return doc, nil
}
