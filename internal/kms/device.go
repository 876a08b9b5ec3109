// Package kms talks to the kernel modesetting layer: locating a capable
// card node, enumerating scanout planes, resolving framebuffers and
// mapping their memory planes through prime export.
package kms

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NeowayLabs/drm"
	"github.com/NeowayLabs/drm/mode"
)

// Device is an open, capability-negotiated connection to a display
// controller. It is the root of validity for every plane, framebuffer and
// mapping derived from it; Close invalidates them all.
type Device struct {
	file   *os.File
	path   string
	logger *slog.Logger
}

// Open probes card0, card1, … under dir and returns the first node that
// reports dumb-buffer support. Nodes without the capability are closed
// before moving on. The accepted node is opened exactly once, so there is
// no window for the device list to shift between probe and use.
func Open(dir string, logger *slog.Logger) (*Device, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for card := 0; ; card++ {
		path := filepath.Join(dir, fmt.Sprintf("card%d", card))
		file, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: probed %d node(s) under %s: %v",
				ErrNoDevice, card, dir, err)
		}
		if drm.HasDumbBuffer(file) {
			logger.Debug("opened KMS/DRM device", "path", path)
			return &Device{file: file, path: path, logger: logger}, nil
		}
		logger.Debug("device lacks dumb buffers, skipping", "path", path)
		file.Close()
	}
}

// Negotiate enables the atomic and universal-planes client capabilities.
// Both are required: without universal planes, cursor and overlay planes
// are invisible to enumeration and the capture is silently incomplete.
func (d *Device) Negotiate() error {
	if err := mode.SetClientCap(d.file, mode.ClientCapAtomic, 1); err != nil {
		return fmt.Errorf("%w: atomic: %v", ErrCapabilityUnavailable, err)
	}
	if err := mode.SetClientCap(d.file, mode.ClientCapUniversalPlanes, 1); err != nil {
		return fmt.Errorf("%w: universal planes: %v", ErrCapabilityUnavailable, err)
	}
	return nil
}

// Path returns the device node this connection is bound to.
func (d *Device) Path() string {
	return d.path
}

// Close releases the device node.
func (d *Device) Close() error {
	return d.file.Close()
}
