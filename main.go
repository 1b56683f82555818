package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/camera.capture/internal/api"
	"github.com/banshee-data/camera.capture/internal/capture"
	"github.com/banshee-data/camera.capture/internal/config"
	"github.com/banshee-data/camera.capture/internal/db"
	"github.com/banshee-data/camera.capture/internal/gesture"
	"github.com/banshee-data/camera.capture/internal/monitoring"
	"github.com/banshee-data/camera.capture/internal/motion"
	"github.com/banshee-data/camera.capture/internal/version"
)

var (
	devMode     = flag.Bool("dev", false, "Run in dev mode with a fixture motion source")
	listen      = flag.String("listen", ":8080", "Listen address")
	serialPath  = flag.String("serial", "/dev/ttyACM0", "Motion sensor serial device")
	fixturePath = flag.String("fixtures", "fixtures.txt", "Fixture file for dev mode")
	configPath  = flag.String("config", "", "Tuning config file (JSON)")
	dbFile      = flag.String("db", "capture_journal.db", "Journal database path")
	verbose     = flag.Bool("verbose", false, "Log per-sample diagnostics")
	migrateCmd  = flag.String("migrate", "", "Run a migration command (up, down, version) and exit")
	migrateDir  = flag.String("migrations", "internal/db/migrations", "Migrations directory")
)

func runMigration(database *db.DB, cmd string) error {
	switch cmd {
	case "up":
		return database.MigrateUp(*migrateDir)
	case "down":
		return database.MigrateDown(*migrateDir)
	case "version":
		v, dirty, err := database.MigrateVersion(*migrateDir)
		if err != nil {
			return err
		}
		log.Printf("migration version %d (dirty=%v)", v, dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate command %q", cmd)
	}
}

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	monitoring.SetDebug(*verbose)
	log.Printf("camera.capture %s", version.Get())

	if *migrateCmd != "" {
		database, err := db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()
		if err := runMigration(database, *migrateCmd); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	var source motion.Sourcer
	if *devMode {
		data, err := os.ReadFile(*fixturePath)
		if err != nil {
			log.Fatalf("failed to open fixtures file: %v", err)
		}
		source = motion.NewFixtureSource(data, cfg.GetSampleInterval())
	} else {
		var err error
		source, err = motion.NewSerialSource(*serialPath, cfg.GetPortOptions())
		if err != nil {
			log.Fatalf("failed to open motion sensor: %v", err)
		}
	}

	m := motion.NewSampleMux(source)
	defer m.Close()

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	coordinator := capture.NewCoordinator(capture.Options{
		Capabilities: capture.CapabilitiesFromConfig(cfg),
		Mapper: gesture.NewMapper(gesture.MapperOptions{
			ClampToDeviceMin: cfg.GetZoomClampToDeviceMin(),
			PanFullScale:     cfg.GetPanFullScale(),
		}),
		Journal:           database,
		CalibrationWindow: cfg.GetCalibrationWindow(),
	})
	log.Printf("capture session %s", coordinator.SessionID())

	// Wait group for the motion monitor, coordinator, and HTTP server routines
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the motion source
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := m.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor motion source: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	// run the coordinator to consume samples and journal transitions
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := coordinator.Run(ctx, m); err != nil && err != context.Canceled {
			log.Printf("coordinator stopped: %v", err)
		}
		log.Print("coordinator routine terminated")
	}()

	// log a bias/noise estimate once the calibration window has had time to fill
	wg.Add(1)
	go func() {
		defer wg.Done()
		wait := cfg.GetSampleInterval() * time.Duration(cfg.GetCalibrationWindow()+5)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		cal := coordinator.Calibration()
		log.Printf("sensor calibration: %d samples, mean=(%.3f, %.3f, %.3f) g, stddev=(%.4f, %.4f, %.4f), |a|=%.3f g",
			cal.Samples, cal.MeanX, cal.MeanY, cal.MeanZ,
			cal.StdDevX, cal.StdDevY, cal.StdDevZ, cal.MeanMagnitude)
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(coordinator, m, database).ServeMux()

		// mount the admin debugging routes (accessible only in dev mode or over Tailscale)
		database.AttachAdminRoutes(mux)

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
