package opc

import (
	"archive/zip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/internal/logfields"
)

// zipEpoch is the modification time of every entry, the earliest time the
// MS-DOS date format can represent.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entry is one file of the container.
type Entry struct {
	Path string
	Data []byte
}

// Assembler turns a populated Registry into a ZIP container.
type Assembler struct {
	reg    *Registry
	method uint16
	logger *slog.Logger
}

// Option configures an Assembler
type Option func(*Assembler)

// WithCompression sets the ZIP method for every entry (zip.Deflate or zip.Store)
func WithCompression(method uint16) Option {
	return func(a *Assembler) { a.method = method }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAssembler creates an assembler over reg
func NewAssembler(reg *Registry, opts ...Option) *Assembler {
	a := &Assembler{
		reg:    reg,
		method: zip.Deflate,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Entries verifies the registry and returns every container entry in
// write order: the main document, the manifest, relationship parts, other
// parts, then media. Each group after the first two is sorted by path.
func (a *Assembler) Entries() ([]Entry, error) {
	if err := a.reg.Verify(); err != nil {
		return nil, err
	}
	manifest := BuildManifest(a.reg)
	if err := manifest.Verify(a.reg); err != nil {
		return nil, err
	}
	manifestData, err := manifest.Marshal()
	if err != nil {
		return nil, &derrors.PackagingError{Op: "marshal", Path: ContentTypesPath, Cause: err}
	}

	mainID, _ := a.reg.MainDocument()
	mainPart, _ := a.reg.Part(mainID)
	entries := []Entry{
		{Path: mainPart.Path, Data: mainPart.Data},
		{Path: ContentTypesPath, Data: manifestData},
	}

	var rels []Entry
	for _, from := range a.reg.Sources() {
		relsPath := a.reg.RelationshipsPath(from)
		data, err := RelationshipsFor(a.reg, from).Marshal()
		if err != nil {
			return nil, &derrors.PackagingError{Op: "marshal", Path: relsPath, Cause: err}
		}
		rels = append(rels, Entry{Path: relsPath, Data: data})
	}
	sortEntries(rels)

	var other, media []Entry
	for _, id := range a.reg.Parts() {
		if id == mainID {
			continue
		}
		part, _ := a.reg.Part(id)
		e := Entry{Path: part.Path, Data: part.Data}
		if strings.HasPrefix(part.Path, MediaDir+"/") {
			media = append(media, e)
		} else {
			other = append(other, e)
		}
	}
	sortEntries(other)
	sortEntries(media)

	entries = append(entries, rels...)
	entries = append(entries, other...)
	return append(entries, media...), nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
}

// Write writes the container to w. Output is byte-identical for identical
// registry contents.
func (a *Assembler) Write(w io.Writer) error {
	entries, err := a.Entries()
	if err != nil {
		return err
	}
	return a.writeEntries(w, entries, "")
}

func (a *Assembler) writeEntries(w io.Writer, entries []Entry, dest string) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		fh := &zip.FileHeader{
			Name:     e.Path,
			Method:   a.method,
			Modified: zipEpoch,
		}
		fw, err := zw.CreateHeader(fh)
		if err != nil {
			return derrors.NewPackagingError("write", dest, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return derrors.NewPackagingError("write", dest, err)
		}
		a.logger.Debug("Wrote entry", logfields.Path(e.Path), logfields.Bytes(len(e.Data)))
	}
	if err := zw.Close(); err != nil {
		return derrors.NewPackagingError("write", dest, err)
	}
	return nil
}

// WriteFile writes the container to dest atomically: the archive is written
// to a temporary file in the same directory and renamed on success. On any
// failure the temporary file is removed and dest is left untouched.
func (a *Assembler) WriteFile(dest string) (err error) {
	entries, err := a.Entries()
	if err != nil {
		return err
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return derrors.NewPackagingError("create", dest, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = a.writeEntries(tmp, entries, dest); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return derrors.NewPackagingError("chmod", dest, err)
	}
	if err = tmp.Sync(); err != nil {
		return derrors.NewPackagingError("sync", dest, err)
	}
	if err = tmp.Close(); err != nil {
		return derrors.NewPackagingError("close", dest, err)
	}
	if err = os.Rename(tmpPath, dest); err != nil {
		return derrors.NewPackagingError("rename", dest, err)
	}
	a.logger.Debug("Wrote package", logfields.Path(dest), logfields.Count(len(entries)))
	return nil
}
