package kms

import (
	"fmt"

	"github.com/NeowayLabs/drm/mode"
)

// PlaneState is the transient per-plane snapshot read during enumeration:
// the plane id plus the framebuffer and CRTC it is currently bound to.
type PlaneState struct {
	ID            uint32
	CrtcID        uint32
	FramebufferID uint32
}

// ActivePlane is a plane that is currently scanned out. Index is the
// position in the device's plane list and names the output file.
type ActivePlane struct {
	Index         int
	ID            uint32
	CrtcID        uint32
	FramebufferID uint32
}

// FilterActive keeps the planes that are bound to both a framebuffer and a
// CRTC. A plane missing either is idle and produces no capture.
func FilterActive(states []PlaneState) []ActivePlane {
	var active []ActivePlane
	for i, st := range states {
		if st.FramebufferID == 0 || st.CrtcID == 0 {
			continue
		}
		active = append(active, ActivePlane{
			Index:         i,
			ID:            st.ID,
			CrtcID:        st.CrtcID,
			FramebufferID: st.FramebufferID,
		})
	}
	return active
}

// ActivePlanes walks every plane the device exposes and returns the ones
// currently bound to a framebuffer and a CRTC. A plane whose state cannot
// be read is logged and skipped; only the resource walk itself is fatal.
func (d *Device) ActivePlanes() ([]ActivePlane, error) {
	res, err := mode.GetPlaneResources(d.file)
	if err != nil {
		return nil, fmt.Errorf("get plane resources: %w", err)
	}

	states := make([]PlaneState, 0, len(res.Planes))
	for _, id := range res.Planes {
		plane, err := mode.GetPlane(d.file, id)
		if err != nil {
			d.logger.Warn("skipping plane",
				"plane", id, "err", fmt.Errorf("%w: %v", ErrPlaneQuery, err))
			states = append(states, PlaneState{ID: id})
			continue
		}
		states = append(states, PlaneState{
			ID:            id,
			CrtcID:        plane.CrtcID,
			FramebufferID: plane.FbID,
		})
	}
	return FilterActive(states), nil
}

// Framebuffer resolves a framebuffer id through the extended query that
// reports per-memory-plane handles, pitches and format. The legacy query
// would hide everything past plane 0.
func (d *Device) Framebuffer(id uint32) (*Framebuffer, error) {
	fb, err := getFB2(d.file, id)
	if err != nil {
		return nil, fmt.Errorf("%w: framebuffer %d: %v", ErrBufferResolution, id, err)
	}
	return newFramebuffer(fb.fbID, fb.width, fb.height, fb.pixelFormat,
		fb.handles, fb.pitches, fb.offsets), nil
}
