package region

import "errors"

var (
	// ErrOutOfBoundsSeed is returned when a seed lies outside the raster.
	ErrOutOfBoundsSeed = errors.New("seed outside raster bounds")

	// ErrEmptyMaskList is returned when labeling is requested with no masks.
	ErrEmptyMaskList = errors.New("empty mask list")

	// ErrNoRegions is returned by Session.Finalize when no seed was added.
	// It is informational; the session is left untouched.
	ErrNoRegions = errors.New("no regions to show")

	// ErrInvalidConfiguration is returned for a negative threshold or an
	// unknown mode.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrSessionFinalized is returned by mutating operations on a finalized session.
	ErrSessionFinalized = errors.New("session already finalized")

	// ErrShapeMismatch is returned when rasters or masks disagree on dimensions.
	ErrShapeMismatch = errors.New("dimension mismatch")
)
