package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/1broseidon/kmsgrab/internal/capture"
	"github.com/1broseidon/kmsgrab/internal/kms"
)

// fakeDevice satisfies the device interface without hardware and counts
// enumeration attempts.
type fakeDevice struct {
	negotiateErr     error
	activePlaneCalls int
	closed           bool
}

func (d *fakeDevice) Negotiate() error { return d.negotiateErr }
func (d *fakeDevice) Path() string     { return "/dev/dri/card0" }
func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func (d *fakeDevice) ActivePlanes() ([]kms.ActivePlane, error) {
	d.activePlaneCalls++
	return nil, nil
}

func (d *fakeDevice) Framebuffer(uint32) (*kms.Framebuffer, error) {
	return nil, errors.New("unexpected framebuffer lookup")
}

func (d *fakeDevice) MapPlane(kms.MemoryPlane, uint32) (capture.Region, error) {
	return nil, errors.New("unexpected mapping")
}

func withFakeDevice(t *testing.T, dev *fakeDevice) {
	t.Helper()
	restore := openDevice
	openDevice = func(string, *slog.Logger) (device, error) { return dev, nil }
	t.Cleanup(func() { openDevice = restore })
}

func TestRun_MissingPrefixFails(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRun_ExtraArgumentsFail(t *testing.T) {
	if code := run([]string{"shot", "extra"}); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRun_BadFormatFlagFails(t *testing.T) {
	args := []string{"--format", "bmp", filepath.Join(t.TempDir(), "shot")}
	if code := run(args); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRun_CapabilityFailureStopsBeforeEnumeration(t *testing.T) {
	dev := &fakeDevice{
		negotiateErr: fmt.Errorf("%w: atomic: EINVAL", kms.ErrCapabilityUnavailable),
	}
	withFakeDevice(t, dev)

	args := []string{filepath.Join(t.TempDir(), "shot")}
	if code := run(args); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if dev.activePlaneCalls != 0 {
		t.Fatalf("planes enumerated %d time(s) after failed negotiation", dev.activePlaneCalls)
	}
	if !dev.closed {
		t.Fatal("device left open")
	}
}

func TestRun_NoActivePlanesSucceeds(t *testing.T) {
	dev := &fakeDevice{}
	withFakeDevice(t, dev)

	args := []string{filepath.Join(t.TempDir(), "shot")}
	if code := run(args); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if dev.activePlaneCalls != 1 {
		t.Fatalf("expected one enumeration, got %d", dev.activePlaneCalls)
	}
}

func TestRun_NoDeviceFails(t *testing.T) {
	// An empty directory has no card0, so the probe exhausts immediately
	// and nothing past the locator runs.
	args := []string{
		"--device-dir", t.TempDir(),
		filepath.Join(t.TempDir(), "shot"),
	}
	if code := run(args); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}
