package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/kmsgrab/internal/capture"
	"github.com/1broseidon/kmsgrab/internal/config"
	"github.com/1broseidon/kmsgrab/internal/kms"
	"github.com/1broseidon/kmsgrab/internal/output"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// device is everything run needs from an open card node.
type device interface {
	capture.Device
	Negotiate() error
	Path() string
	Close() error
}

// hwDevice narrows *kms.Device's MapPlane return type to the capture
// loop's Region interface.
type hwDevice struct {
	*kms.Device
}

func (d hwDevice) MapPlane(mp kms.MemoryPlane, height uint32) (capture.Region, error) {
	return d.Device.MapPlane(mp, height)
}

// openDevice is a variable so tests can substitute a device that needs
// no hardware.
var openDevice = func(dir string, logger *slog.Logger) (device, error) {
	dev, err := kms.Open(dir, logger)
	if err != nil {
		return nil, err
	}
	return hwDevice{Device: dev}, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kmsgrab [flags] <output-prefix>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Capture the currently scanned-out contents of every active display")
	fmt.Fprintln(w, "plane to <output-prefix>-<plane>.raw (or .png with --format png).")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --config PATH      Config file path (default: ~/.config/kmsgrab/config.yaml)")
	fmt.Fprintln(w, "  --device-dir DIR   Directory probed for card<N> nodes (default: /dev/dri)")
	fmt.Fprintln(w, "  --format FORMAT    Output format: raw or png (default: raw)")
	fmt.Fprintln(w, "  --log-level LEVEL  Log verbosity: debug, info, warn, error (default: info)")
}

func run(args []string) int {
	fs := flag.NewFlagSet("kmsgrab", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printUsage(os.Stderr) }
	configPath := fs.String("config", "", "Config file path")
	deviceDir := fs.String("device-dir", "", "Directory probed for card<N> nodes")
	format := fs.String("format", "", "Output format: raw or png")
	logLevel := fs.String("log-level", "", "Log verbosity")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "kmsgrab requires exactly one <output-prefix> argument")
		fmt.Fprintln(os.Stderr, "")
		printUsage(os.Stderr)
		return 1
	}
	prefix := fs.Arg(0)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *deviceDir != "" {
		cfg.DeviceDir = *deviceDir
	}
	if *format != "" {
		cfg.Format = config.Format(*format)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	dev, err := openDevice(cfg.DeviceDir, logger)
	if err != nil {
		logger.Error("could not open KMS/DRM device", "err", err)
		return 1
	}
	defer dev.Close()
	logger.Info("using device", "path", dev.Path())

	if err := dev.Negotiate(); err != nil {
		logger.Error("capability negotiation failed", "err", err)
		return 1
	}

	var writer output.Writer
	switch cfg.Format {
	case config.FormatPNG:
		writer = output.NewPNGWriter(prefix, logger)
	default:
		writer = output.NewRawWriter(prefix)
	}

	if err := capture.Run(dev, writer, logger); err != nil {
		logger.Error("capture failed", "err", err)
		return 1
	}
	return 0
}
