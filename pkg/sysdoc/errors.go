package sysdoc

import (
	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
)

// Error types reported by builds.
type (
	StructureError = derrors.StructureError
	AssetError     = derrors.AssetError
	PackagingError = derrors.PackagingError
	MultiError     = derrors.MultiError
	ErrorCategory  = derrors.Category
)

// Error categories.
const (
	CategoryStructure = derrors.CategoryStructure
	CategoryAsset     = derrors.CategoryAsset
	CategoryPackaging = derrors.CategoryPackaging
	CategoryInternal  = derrors.CategoryInternal
)

// IsStructureError checks if an error is or wraps a structure error
func IsStructureError(err error) bool { return derrors.IsStructureError(err) }

// IsAssetError checks if an error is or wraps an asset error
func IsAssetError(err error) bool { return derrors.IsAssetError(err) }

// IsPackagingError checks if an error is or wraps a packaging error
func IsPackagingError(err error) bool { return derrors.IsPackagingError(err) }

// GetErrorCategory classifies an error. Unknown errors are internal.
func GetErrorCategory(err error) ErrorCategory { return derrors.GetCategory(err) }
