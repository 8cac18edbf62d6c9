// ABOUTME: Entry point for the VoiceCart shopping assistant client
// ABOUTME: Parses CLI flags, resolves the server and starts the application
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/voicecart/internal/app"
	"github.com/harperreed/voicecart/internal/catalog"
	"github.com/harperreed/voicecart/internal/config"
	"github.com/harperreed/voicecart/internal/discovery"
	"github.com/harperreed/voicecart/internal/ui"
	"github.com/harperreed/voicecart/internal/version"
	"github.com/harperreed/voicecart/pkg/audio"
	audiocapture "github.com/harperreed/voicecart/pkg/audio/capture"
	"github.com/harperreed/voicecart/pkg/audio/output"
	"github.com/harperreed/voicecart/pkg/capture"
)

var (
	configPath  = flag.String("config", "", "Config file path (YAML)")
	serverURL   = flag.String("server", "", "Assistant WebSocket URL (skip mDNS)")
	catalogPath = flag.String("catalog", "", "Product inventory file (JSON or YAML)")
	visionDir   = flag.String("vision-dir", "", "Directory of JPEG frames to use as the camera")
	backend     = flag.String("backend", "", "Audio output backend (malgo or oto)")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus listen address (empty disables)")
	logFile     = flag.String("log-file", "voicecart.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	micOn       = flag.Bool("mic", false, "Stream the microphone whenever connected")
	cameraOn    = flag.Bool("camera", false, "Send camera frames whenever connected (needs -vision-dir)")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s", version.UserAgent())

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Loaded %d products from %s", cat.Len(), cfg.Catalog.Path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.URL == "" {
		if !cfg.Discovery.Enabled {
			log.Fatalf("No server URL configured and discovery is disabled")
		}
		log.Printf("Looking up %s via mDNS...", cfg.Discovery.Service)
		info, err := discovery.Lookup(ctx, discovery.Config{
			Service: cfg.Discovery.Service,
			Timeout: cfg.Discovery.Timeout,
		})
		if err != nil {
			log.Fatalf("Server discovery failed: %v", err)
		}
		cfg.Server.URL = info.URL()
		log.Printf("Discovered %s at %s", info.Name, cfg.Server.URL)
	}

	out, err := output.New(cfg.Audio.Backend)
	if err != nil {
		log.Fatalf("Failed to create audio output: %v", err)
	}

	deps := app.Deps{
		Output:     out,
		Microphone: audiocapture.NewMalgo(audio.CaptureSampleRate, cfg.Audio.BlockFrames),
	}

	if cfg.Vision.Dir != "" {
		frames, err := capture.NewDirSource(cfg.Vision.Dir)
		if err != nil {
			log.Fatalf("Failed to open camera frames: %v", err)
		}
		deps.Frames = frames
	}

	var controls *ui.Controls
	if useTUI {
		controls = ui.NewControls()
		tuiProg, err := ui.Run(controls)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
			stop()
		}()
		defer tuiProg.Quit()
		deps.View = tuiProg
		deps.Controls = controls
	}

	application, err := app.New(cfg, cat, deps)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if controls != nil {
		go func() {
			select {
			case <-controls.Quit:
				log.Printf("Received quit signal from TUI")
				stop()
			case <-ctx.Done():
			}
		}()
	}

	if err := application.Run(ctx); err != nil {
		log.Printf("Application error: %v", err)
	}

	log.Printf("Client stopped")
}

// applyFlags lets command line flags override the loaded configuration
func applyFlags(cfg *config.Config) {
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}
	if *visionDir != "" {
		cfg.Vision.Dir = *visionDir
	}
	if *backend != "" {
		cfg.Audio.Backend = *backend
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *micOn {
		cfg.Audio.CaptureOnConnect = true
	}
	if *cameraOn {
		cfg.Vision.CaptureOnConnect = true
	}
}
