package kms

import (
	"os"
	"unsafe"

	"github.com/NeowayLabs/drm"
	"github.com/NeowayLabs/drm/ioctl"
)

// The drm/mode package stops at the legacy single-plane framebuffer query
// and has no prime support, so the two ioctls this tool needs beyond it are
// declared here, mirroring the kernel structs the same way mode.go does.

type (
	// struct drm_mode_fb_cmd2
	sysFBCmd2 struct {
		fbID          uint32
		width, height uint32
		pixelFormat   uint32
		flags         uint32
		handles       [4]uint32
		pitches       [4]uint32
		offsets       [4]uint32
		modifier      [4]uint64
	}

	// struct drm_prime_handle
	sysPrimeHandle struct {
		handle uint32
		flags  uint32
		fd     int32
	}
)

var (
	// DRM_IOWR(0xCE, struct drm_mode_fb_cmd2)
	ioctlModeGetFB2 = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysFBCmd2{})), drm.IOCTLBase, 0xCE)

	// DRM_IOWR(0x2D, struct drm_prime_handle)
	ioctlPrimeHandleToFD = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysPrimeHandle{})), drm.IOCTLBase, 0x2D)
)

func getFB2(file *os.File, id uint32) (*sysFBCmd2, error) {
	fb := &sysFBCmd2{fbID: id}
	err := ioctl.Do(uintptr(file.Fd()), uintptr(ioctlModeGetFB2),
		uintptr(unsafe.Pointer(fb)))
	if err != nil {
		return nil, err
	}
	return fb, nil
}

func primeHandleToFD(file *os.File, handle, flags uint32) (int, error) {
	prime := &sysPrimeHandle{handle: handle, flags: flags}
	err := ioctl.Do(uintptr(file.Fd()), uintptr(ioctlPrimeHandleToFD),
		uintptr(unsafe.Pointer(prime)))
	if err != nil {
		return -1, err
	}
	return int(prime.fd), nil
}
