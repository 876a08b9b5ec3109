package kms

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PlaneSize is the byte length to map for one memory plane. Plane 0 is
// full-resolution; planes 1–3 are assumed to be chroma subsampled by 2x
// vertically, as userspace has no call to read the real subsampling from
// the format. Wrong for 4:4:4 multi-plane layouts.
func PlaneSize(pitch, height uint32, index int) int {
	if index == 0 {
		return int(pitch) * int(height)
	}
	return int(pitch) * int(height) / 2
}

// Mapping is a read-only view of one memory plane, valid until Close.
type Mapping struct {
	data []byte
	fd   int
}

// Bytes returns the mapped plane contents.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Close unmaps the region and then closes the prime descriptor backing it.
// The mapping must not be used afterwards.
func (m *Mapping) Close() error {
	err := unix.Munmap(m.data)
	m.data = nil
	if cerr := unix.Close(m.fd); err == nil {
		err = cerr
	}
	m.fd = -1
	return err
}

// ExportPlane turns a buffer handle into a prime file descriptor. The
// descriptor is close-on-exec and only ever mapped read-only.
func (d *Device) ExportPlane(handle uint32) (int, error) {
	fd, err := primeHandleToFD(d.file, handle, unix.O_CLOEXEC)
	if err != nil {
		return -1, fmt.Errorf("%w: handle %d: %v", ErrExport, handle, err)
	}
	return fd, nil
}

// MapPlane exports a memory plane and maps it read-only and private. On
// mapping failure the exported descriptor is closed before returning, so
// the caller never owns a half-acquired plane.
func (d *Device) MapPlane(mp MemoryPlane, height uint32) (*Mapping, error) {
	fd, err := d.ExportPlane(mp.Handle)
	if err != nil {
		return nil, err
	}

	size := PlaneSize(mp.Pitch, height, mp.Index)
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: memory plane %d (%d bytes): %v",
			ErrMap, mp.Index, size, err)
	}
	return &Mapping{data: data, fd: fd}, nil
}
