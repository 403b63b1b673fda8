package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/neuroarcade/spikestream/api"
	"github.com/neuroarcade/spikestream/db"
	"github.com/neuroarcade/spikestream/internal/classify"
	"github.com/neuroarcade/spikestream/internal/config"
	"github.com/neuroarcade/spikestream/internal/pipeline"
	"github.com/neuroarcade/spikestream/internal/stream"
	"github.com/neuroarcade/spikestream/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to a JSON config file")
	streamType = flag.String("stream", "", "Stream type: SpikerStream, ArrayStream, WAVStream, or None")
	streamFile = flag.String("file", "", "File to stream from (replay sources)")
	devicePort = flag.String("port", "", "Serial port of the acquisition device")
	modelType  = flag.String("model", "", "Pretrained model type")
	listen     = flag.String("listen", "", "HTTP listen address")
	devMode    = flag.Bool("dev", false, "Run the device stream against a synthetic serial port")
)

// applyFlags overlays non-empty command line flags onto the configuration.
func applyFlags(cfg config.Config) config.Config {
	if *streamType != "" {
		cfg.StreamType = *streamType
	}
	if *streamFile != "" {
		cfg.StreamFile = *streamFile
	}
	if *devicePort != "" {
		cfg.DevicePort = *devicePort
	}
	if *modelType != "" {
		cfg.ModelType = *modelType
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	return cfg
}

// buildPipeline constructs the source, classifier, and pipeline from the
// configuration. A nil pipeline with a nil error means degraded mode: the
// control state stays externally driven. With dev set, the device stream is
// backed by a synthetic serial port instead of real hardware.
func buildPipeline(cfg config.Config, recorder pipeline.Recorder, dev bool) (*pipeline.Pipeline, error) {
	if cfg.StreamType == stream.TypeNone {
		log.Print("no stream configured; controls are externally driven")
		return nil, nil
	}

	classifier, err := classify.Load(cfg.ModelType, cfg.ModelDir)
	if err != nil {
		return nil, err
	}

	var src stream.Source
	if dev {
		log.Print("dev mode: streaming from a synthetic serial port")
		src = stream.NewMockDeviceStream()
	} else {
		src, err = stream.New(stream.Config{
			Type: cfg.StreamType,
			File: cfg.StreamFile,
			Port: cfg.DevicePort,
		})
		if err != nil {
			var unavailable *stream.PortUnavailableError
			if errors.As(err, &unavailable) {
				log.Printf("serial device unavailable: %v", unavailable.Err)
				log.Print("the list of serial ports is...")
				for i, port := range unavailable.Available {
					log.Printf("\t%d: %s", i+1, port)
				}
				log.Print("falling back to externally driven controls")
				return nil, nil
			}
			return nil, err
		}
	}

	return pipeline.New(src, classifier, cfg.BufferTime, stream.Smoothed(cfg.StreamType), pipeline.Options{
		Recorder: recorder,
	}), nil
}

// Main
func main() {
	flag.Parse()
	log.Printf("spikestream %s (%s)", version.Version, version.GitSHA)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg = applyFlags(cfg)
	if *devMode {
		cfg.StreamType = stream.TypeDevice
	}

	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Printf("recording session %s", database.SessionID())

	p, err := buildPipeline(cfg, database, *devMode)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}
	if p != nil {
		defer func() {
			if err := p.Close(); err != nil {
				log.Printf("failed to close stream: %v", err)
			}
		}()
	}

	controls := pipeline.NewControlState()
	if p != nil {
		controls = p.Controls()
	}

	status := func() api.Status {
		s := api.Status{
			Version:    version.Version,
			StreamType: cfg.StreamType,
			ModelType:  cfg.ModelType,
			SessionID:  database.SessionID(),
			Degraded:   p == nil,
		}
		if p != nil {
			s.WindowLen, s.BufferSize = p.WindowFill()
		}
		return s
	}

	// Create a wait group for the HTTP server and poll driver routines
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Poll driver: stands in for the external control loop, feeding the
	// pipeline its elapsed frame time once per tick.
	if p != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(time.Duration(cfg.TickMs) * time.Millisecond)
			defer ticker.Stop()
			last := time.Now()
			for {
				select {
				case now := <-ticker.C:
					elapsed := float64(now.Sub(last).Milliseconds())
					last = now
					p.Poll(elapsed)
				case <-ctx.Done():
					log.Print("poll routine terminated")
					return
				}
			}
		}()
	}

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes (accessible only over localhost)
		database.AttachAdminRoutes(mux)

		// mount the API handlers
		apiMux := api.NewServer(controls, database, status).ServeMux()
		mux.Handle("/api/", http.StripPrefix("/api", apiMux))

		server := &http.Server{
			Addr:    cfg.Listen,
			Handler: mux,
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("listening on %s", cfg.Listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		// Create a shutdown context with a timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish
	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
