package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "structure with node",
			err:     NewStructureError("table row 2", "has 3 cells, table declares 2 columns"),
			wantMsg: "structure error in table row 2: has 3 cells, table declares 2 columns",
		},
		{
			name:    "structure without node",
			err:     NewStructureError("", "document is nil"),
			wantMsg: "structure error: document is nil",
		},
		{
			name:    "asset with cause",
			err:     NewAssetError("logo.svg", "section 1 > paragraph 2 > image 1", "rasterization failed", stderrors.New("bad path")),
			wantMsg: "asset error for image 'logo.svg' at section 1 > paragraph 2 > image 1: rasterization failed: bad path",
		},
		{
			name:    "asset without image",
			err:     NewAssetError("", "", "empty vector image", nil),
			wantMsg: "asset error: empty vector image",
		},
		{
			name:    "packaging",
			err:     NewPackagingError("write", "out.docx", stderrors.New("permission denied")),
			wantMsg: "packaging error during write of 'out.docx': permission denied",
		},
		{
			name:    "internal packaging",
			err:     NewInternalPackagingError("register", "word/document.xml", "registered twice with different content"),
			wantMsg: "packaging error during register of 'word/document.xml': registered twice with different content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, ""},
		{"structure", NewStructureError("x", "y"), CategoryStructure},
		{"wrapped asset", fmt.Errorf("build: %w", NewAssetError("a.png", "", "bad", nil)), CategoryAsset},
		{"packaging", NewPackagingError("rename", "a", nil), CategoryPackaging},
		{"plain", stderrors.New("boom"), CategoryInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCategory(tt.err))
		})
	}
}

func TestPackagingErrorUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := fmt.Errorf("assemble: %w", NewPackagingError("write", "out.docx", cause))

	assert.True(t, IsPackagingError(err))
	assert.ErrorIs(t, err, cause)

	var pe *PackagingError
	require.ErrorAs(t, err, &pe)
	assert.False(t, pe.Internal)
}

func TestMultiError(t *testing.T) {
	m := NewMultiError()
	m.Add(nil)
	assert.NoError(t, m.Err())

	first := NewStructureError("section 1", "block 1 is nil")
	m.Add(first)
	assert.Same(t, first, m.Err())

	m.Add(NewAssetError("x.png", "", "unreadable", nil))
	require.Equal(t, 2, m.Len())
	err := m.Err()
	assert.Contains(t, err.Error(), "2 errors occurred:")
	assert.Contains(t, err.Error(), "[2] asset error for image 'x.png'")
	assert.True(t, IsStructureError(err))
	assert.True(t, IsAssetError(err))
}
