package kms

import "errors"

var (
	// ErrNoDevice is returned when no DRM card node with dumb-buffer
	// support could be opened.
	ErrNoDevice = errors.New("no KMS/DRM device found")

	// ErrCapabilityUnavailable is returned when a required client
	// capability (atomic, universal planes) cannot be enabled.
	ErrCapabilityUnavailable = errors.New("client capability unavailable")

	// ErrPlaneQuery is returned when the state of a single plane cannot
	// be read. Callers skip the plane and continue.
	ErrPlaneQuery = errors.New("plane query failed")

	// ErrBufferResolution is returned when the extended framebuffer
	// query fails for a plane that is actively scanned out. A bound but
	// unresolvable buffer indicates a device inconsistency, so callers
	// treat this as fatal.
	ErrBufferResolution = errors.New("framebuffer resolution failed")

	// ErrExport is returned when a buffer handle cannot be exported to
	// a prime file descriptor. Callers skip the memory plane.
	ErrExport = errors.New("prime export failed")

	// ErrMap is returned when an exported buffer cannot be mapped. The
	// exported descriptor is closed before this is returned.
	ErrMap = errors.New("mmap failed")
)
