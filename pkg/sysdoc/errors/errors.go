// Package errors provides the error types reported while building a package.
//
// Every failure of a build falls in one of three categories:
//
//   - StructureError: the document model is invalid (reported at construction time)
//   - AssetError: an embedded asset cannot be used (reported while serializing the node)
//   - PackagingError: the container cannot be assembled or written
//
// Anything else is classified as internal.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Category is the broad classification of a build error.
type Category string

const (
	CategoryStructure Category = "structure"
	CategoryAsset     Category = "asset"
	CategoryPackaging Category = "packaging"
	CategoryInternal  Category = "internal"
)

// StructureError represents an invalid document model.
type StructureError struct {
	Node    string
	Message string
}

func (e *StructureError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("structure error in %s: %s", e.Node, e.Message)
	}
	return fmt.Sprintf("structure error: %s", e.Message)
}

// NewStructureError creates a new structure error for the given node
func NewStructureError(node, message string) error {
	return &StructureError{
		Node:    node,
		Message: message,
	}
}

// Structuref creates a structure error with a formatted message
func Structuref(node, format string, args ...any) error {
	return NewStructureError(node, fmt.Sprintf(format, args...))
}

// AssetError represents an embedded asset that cannot be serialized.
type AssetError struct {
	Image   string // image name or source, when known
	Node    string // location of the owning node, e.g. "section 2 > paragraph 3"
	Message string
	Cause   error
}

func (e *AssetError) Error() string {
	var b strings.Builder
	b.WriteString("asset error")
	if e.Image != "" {
		fmt.Fprintf(&b, " for image '%s'", e.Image)
	}
	if e.Node != "" {
		fmt.Fprintf(&b, " at %s", e.Node)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *AssetError) Unwrap() error {
	return e.Cause
}

// NewAssetError creates a new asset error
func NewAssetError(image, node, message string, cause error) error {
	return &AssetError{
		Image:   image,
		Node:    node,
		Message: message,
		Cause:   cause,
	}
}

// PackagingError represents a failure to assemble or write the container.
type PackagingError struct {
	Op       string
	Path     string
	Message  string
	Cause    error
	Internal bool // programming error, e.g. a part registered twice with different bytes
}

func (e *PackagingError) Error() string {
	var b strings.Builder
	b.WriteString("packaging error")
	if e.Op != "" {
		fmt.Fprintf(&b, " during %s", e.Op)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " of '%s'", e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *PackagingError) Unwrap() error {
	return e.Cause
}

// NewPackagingError creates a new packaging error
func NewPackagingError(op, path string, cause error) error {
	return &PackagingError{
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}

// NewInternalPackagingError creates a packaging error that signals a programming error
func NewInternalPackagingError(op, path, message string) error {
	return &PackagingError{
		Op:       op,
		Path:     path,
		Message:  message,
		Internal: true,
	}
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Errors returns the collected errors
func (m *MultiError) Errors() []error {
	return m.errors
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	parts := []string{fmt.Sprintf("%d errors occurred:", len(m.errors))}
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// IsStructureError checks if an error is or wraps a structure error
func IsStructureError(err error) bool {
	var target *StructureError
	return stderrors.As(err, &target)
}

// IsAssetError checks if an error is or wraps an asset error
func IsAssetError(err error) bool {
	var target *AssetError
	return stderrors.As(err, &target)
}

// IsPackagingError checks if an error is or wraps a packaging error
func IsPackagingError(err error) bool {
	var target *PackagingError
	return stderrors.As(err, &target)
}

// GetCategory classifies an error. Unknown errors are internal.
func GetCategory(err error) Category {
	switch {
	case err == nil:
		return ""
	case IsStructureError(err):
		return CategoryStructure
	case IsAssetError(err):
		return CategoryAsset
	case IsPackagingError(err):
		return CategoryPackaging
	default:
		return CategoryInternal
	}
}
