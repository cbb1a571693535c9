package opc

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/internal/logfields"
)

// PartID identifies a part within one Registry.
type PartID int

// PackageRoot is the pseudo part that owns package-level relationships
// (_rels/.rels). It has no content of its own.
const PackageRoot PartID = 0

// RelationshipID is the identifier of a relationship within its source part, e.g. "rId3".
type RelationshipID string

// Part is one named entry of the package.
type Part struct {
	Path        string
	ContentType string
	Data        []byte

	pending bool // declared, content not yet supplied
}

// Relationship is a typed reference from a source part to another part or
// to an external URI.
type Relationship struct {
	ID       RelationshipID
	Type     string
	Target   PartID // unused for external relationships
	External string
}

// IsExternal reports whether the relationship points outside the package
func (r Relationship) IsExternal() bool {
	return r.External != ""
}

// Registry is the single source of truth for parts and relationships.
// It is not safe for concurrent use.
type Registry struct {
	parts  []Part // index is PartID-1
	byPath map[string]PartID
	rels   map[PartID][]Relationship
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		byPath: make(map[string]PartID),
		rels:   make(map[PartID][]Relationship),
		logger: logger,
	}
}

// RegisterPart adds a part. Registering the same path again with identical
// bytes and content type returns the existing id; anything else is an
// internal packaging error.
func (r *Registry) RegisterPart(partPath, contentType string, data []byte) (PartID, error) {
	p, err := normalizePartPath(partPath)
	if err != nil {
		return 0, err
	}
	if contentType == "" {
		return 0, derrors.NewInternalPackagingError("register", p, "empty content type")
	}
	if id, ok := r.byPath[p]; ok {
		existing := r.parts[id-1]
		if !existing.pending && existing.ContentType == contentType && bytes.Equal(existing.Data, data) {
			return id, nil
		}
		return 0, derrors.NewInternalPackagingError("register", p, "path already registered with different content")
	}

	// parts are immutable once registered
	r.parts = append(r.parts, Part{Path: p, ContentType: contentType, Data: bytes.Clone(data)})
	id := PartID(len(r.parts))
	r.byPath[p] = id
	r.logger.Debug("Registered part",
		logfields.Part(int(id)), logfields.Path(p), logfields.ContentType(contentType), logfields.Bytes(len(data)))
	return id, nil
}

// DeclarePart reserves a path whose content is supplied later with
// SetContent. This lets a part own relationships before its bytes exist,
// as the main document does while it is being serialized.
func (r *Registry) DeclarePart(partPath, contentType string) (PartID, error) {
	p, err := normalizePartPath(partPath)
	if err != nil {
		return 0, err
	}
	if contentType == "" {
		return 0, derrors.NewInternalPackagingError("declare", p, "empty content type")
	}
	if _, ok := r.byPath[p]; ok {
		return 0, derrors.NewInternalPackagingError("declare", p, "path already registered")
	}
	r.parts = append(r.parts, Part{Path: p, ContentType: contentType, pending: true})
	id := PartID(len(r.parts))
	r.byPath[p] = id
	r.logger.Debug("Declared part", logfields.Part(int(id)), logfields.Path(p), logfields.ContentType(contentType))
	return id, nil
}

// SetContent supplies the bytes of a declared part. It can be called once.
func (r *Registry) SetContent(id PartID, data []byte) error {
	if !r.valid(id) {
		return derrors.NewInternalPackagingError("set content", "", fmt.Sprintf("unknown part %d", id))
	}
	part := &r.parts[id-1]
	if !part.pending {
		return derrors.NewInternalPackagingError("set content", part.Path, "content already set")
	}
	part.Data = bytes.Clone(data)
	part.pending = false
	r.logger.Debug("Set part content", logfields.Part(int(id)), logfields.Path(part.Path), logfields.Bytes(len(data)))
	return nil
}

// AddRelationship creates a relationship from one part to another registered part.
// Ids are allocated per source part as rId1, rId2, ... in call order.
func (r *Registry) AddRelationship(from PartID, relType string, target PartID) (RelationshipID, error) {
	if err := r.checkSource(from); err != nil {
		return "", err
	}
	if target == PackageRoot || !r.valid(target) {
		return "", derrors.NewInternalPackagingError("relate", r.pathOf(from), fmt.Sprintf("unknown target part %d", target))
	}
	return r.appendRel(from, Relationship{Type: relType, Target: target}), nil
}

// AddExternalRelationship creates a relationship to an absolute URI.
func (r *Registry) AddExternalRelationship(from PartID, relType, uri string) (RelationshipID, error) {
	if err := r.checkSource(from); err != nil {
		return "", err
	}
	u, err := url.Parse(uri)
	if err != nil || !u.IsAbs() {
		return "", derrors.NewInternalPackagingError("relate", r.pathOf(from), fmt.Sprintf("malformed external target %q", uri))
	}
	return r.appendRel(from, Relationship{Type: relType, External: uri}), nil
}

func (r *Registry) appendRel(from PartID, rel Relationship) RelationshipID {
	rel.ID = RelationshipID(fmt.Sprintf("rId%d", len(r.rels[from])+1))
	r.rels[from] = append(r.rels[from], rel)
	r.logger.Debug("Added relationship",
		logfields.Path(r.pathOf(from)), logfields.RelID(string(rel.ID)), logfields.RelType(rel.Type))
	return rel.ID
}

func (r *Registry) checkSource(from PartID) error {
	if from != PackageRoot && !r.valid(from) {
		return derrors.NewInternalPackagingError("relate", "", fmt.Sprintf("unknown source part %d", from))
	}
	return nil
}

func (r *Registry) valid(id PartID) bool {
	return id > 0 && int(id) <= len(r.parts)
}

func (r *Registry) pathOf(id PartID) string {
	if r.valid(id) {
		return r.parts[id-1].Path
	}
	return ""
}

// Part returns the part with the given id
func (r *Registry) Part(id PartID) (Part, bool) {
	if !r.valid(id) {
		return Part{}, false
	}
	return r.parts[id-1], true
}

// Lookup returns the id of the part registered at path
func (r *Registry) Lookup(partPath string) (PartID, bool) {
	id, ok := r.byPath[strings.TrimPrefix(partPath, "/")]
	return id, ok
}

// Parts returns every part id in registration order
func (r *Registry) Parts() []PartID {
	ids := make([]PartID, len(r.parts))
	for i := range r.parts {
		ids[i] = PartID(i + 1)
	}
	return ids
}

// Len returns the number of registered parts
func (r *Registry) Len() int {
	return len(r.parts)
}

// Relationships returns the relationships of a source part in creation order
func (r *Registry) Relationships(from PartID) []Relationship {
	return append([]Relationship(nil), r.rels[from]...)
}

// Relationship returns the relationship with the given id owned by from
func (r *Registry) Relationship(from PartID, id RelationshipID) (Relationship, bool) {
	for _, rel := range r.rels[from] {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Sources returns every part owning at least one relationship, package root first.
func (r *Registry) Sources() []PartID {
	var ids []PartID
	if len(r.rels[PackageRoot]) > 0 {
		ids = append(ids, PackageRoot)
	}
	for _, id := range r.Parts() {
		if len(r.rels[id]) > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// RelationshipsPath returns the path of the .rels part for a source part,
// e.g. word/_rels/document.xml.rels.
func (r *Registry) RelationshipsPath(from PartID) string {
	if from == PackageRoot {
		return "_rels/.rels"
	}
	p := r.pathOf(from)
	dir, file := path.Split(p)
	return dir + "_rels/" + file + ".rels"
}

// TargetPath returns the Target attribute for a relationship: the external
// URI, or the target part path relative to the source part's directory.
func (r *Registry) TargetPath(from PartID, rel Relationship) string {
	if rel.IsExternal() {
		return rel.External
	}
	baseDir := ""
	if from != PackageRoot {
		baseDir = path.Dir(r.pathOf(from))
		if baseDir == "." {
			baseDir = ""
		}
	}
	return relativePath(baseDir, r.pathOf(rel.Target))
}

// MainDocument returns the target of the package-level officeDocument relationship.
func (r *Registry) MainDocument() (PartID, bool) {
	for _, rel := range r.rels[PackageRoot] {
		if rel.Type == RelTypeOfficeDocument && !rel.IsExternal() {
			return rel.Target, true
		}
	}
	return 0, false
}

// Verify checks the closure properties of the package: every declared part
// has content, every relationship target is registered, every part is
// reachable from the package root and the package has a main document.
func (r *Registry) Verify() error {
	if _, ok := r.MainDocument(); !ok {
		return derrors.NewInternalPackagingError("verify", "_rels/.rels", "no officeDocument relationship")
	}
	for _, part := range r.parts {
		if part.pending {
			return derrors.NewInternalPackagingError("verify", part.Path, "declared part has no content")
		}
	}
	for _, from := range r.Sources() {
		for _, rel := range r.rels[from] {
			if !rel.IsExternal() && !r.valid(rel.Target) {
				return derrors.NewInternalPackagingError("verify", r.RelationshipsPath(from),
					fmt.Sprintf("relationship %s targets unknown part %d", rel.ID, rel.Target))
			}
		}
	}

	reached := map[PartID]bool{PackageRoot: true}
	queue := []PartID{PackageRoot}
	for len(queue) > 0 {
		from := queue[0]
		queue = queue[1:]
		for _, rel := range r.rels[from] {
			if rel.IsExternal() || reached[rel.Target] {
				continue
			}
			reached[rel.Target] = true
			queue = append(queue, rel.Target)
		}
	}
	for _, id := range r.Parts() {
		if !reached[id] {
			return derrors.NewInternalPackagingError("verify", r.pathOf(id), "part is not reachable from the package root")
		}
	}
	return nil
}

func normalizePartPath(p string) (string, error) {
	p = strings.TrimPrefix(p, "/")
	switch {
	case p == "":
		return "", derrors.NewInternalPackagingError("register", p, "empty part path")
	case p == ContentTypesPath:
		return "", derrors.NewInternalPackagingError("register", p, "the manifest is derived, not registered")
	case strings.HasSuffix(p, ".rels"):
		return "", derrors.NewInternalPackagingError("register", p, "relationship parts are derived, not registered")
	case strings.HasSuffix(p, "/") || strings.Contains(p, "\\"):
		return "", derrors.NewInternalPackagingError("register", p, "invalid part path")
	}
	if path.Clean(p) != p || p == ".." || strings.HasPrefix(p, "../") {
		return "", derrors.NewInternalPackagingError("register", p, "part path is not canonical")
	}
	return p, nil
}

// relativePath expresses target relative to the directory baseDir. Both are
// package paths without a leading slash.
func relativePath(baseDir, target string) string {
	if baseDir == "" {
		return target
	}
	base := strings.Split(baseDir, "/")
	tgt := strings.Split(target, "/")
	common := 0
	for common < len(base) && common < len(tgt)-1 && base[common] == tgt[common] {
		common++
	}
	var b strings.Builder
	for i := common; i < len(base); i++ {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(tgt[common:], "/"))
	return b.String()
}
