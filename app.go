package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kwv/roomplanner/planner"
	"github.com/tdewolff/canvas"
)

// App encapsulates the application state and dependencies
type App struct {
	Config     *planner.Config
	Catalog    *planner.Catalog
	Session    *planner.Session
	Store      *planner.SQLiteStore
	MQTTClient *planner.MQTTClient
	Publisher  *planner.Publisher

	// CLI flags
	ConfigFile  string
	CatalogFile string
	AssetsBase  string
	DesignFile  string
	OutputFile  string
	Format      string
	StorePath   string
	HttpPort    int
	MqttMode    bool
	HttpMode    bool
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{}
}

// ApplyOptions applies CLI options to the App instance
func (a *App) ApplyOptions(opts AppOptions) {
	a.ConfigFile = opts.ConfigFile
	a.CatalogFile = opts.CatalogFile
	a.AssetsBase = opts.AssetsBase
	a.DesignFile = opts.DesignFile
	a.OutputFile = opts.OutputFile
	a.Format = opts.Format
	a.StorePath = opts.StorePath
	a.HttpPort = opts.HttpPort
	a.MqttMode = opts.MqttMode
	a.HttpMode = opts.HttpMode
}

// loadConfig reads the config file, falling back to defaults when the default
// path does not exist, then applies env and flag overrides.
func (a *App) loadConfig() error {
	cfg, err := planner.LoadConfig(a.ConfigFile)
	if err != nil {
		if _, statErr := os.Stat(a.ConfigFile); !os.IsNotExist(statErr) || a.ConfigFile != "config.yaml" {
			return err
		}
		log.Printf("No %s found, using default configuration", a.ConfigFile)
		cfg = planner.DefaultConfig()
	} else {
		log.Printf("Loaded config from %s", a.ConfigFile)
	}

	cfg.ApplyEnv()
	if a.AssetsBase != "" {
		cfg.Assets.BaseURL = a.AssetsBase
	}
	if a.StorePath != "" {
		cfg.Store.Path = a.StorePath
	}
	if a.HttpPort != 0 {
		cfg.HTTP.Port = a.HttpPort
	}
	if a.CatalogFile != "" {
		cfg.Catalog = a.CatalogFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.Config = cfg
	return nil
}

func (a *App) loadCatalog() error {
	if a.Config.Catalog == "" {
		a.Catalog = planner.DefaultCatalog()
		return nil
	}
	c, err := planner.LoadCatalog(a.Config.Catalog)
	if err != nil {
		return err
	}
	log.Printf("Loaded catalog from %s (%d items)", a.Config.Catalog, len(c.Items))
	a.Catalog = c
	return nil
}

func (a *App) newLoader() planner.AssetLoader {
	return planner.NewAssetLoader(a.Config.Assets.BaseURL,
		planner.WithTimeout(a.Config.Assets.LoadTimeout),
		planner.WithMaxRetries(a.Config.Assets.MaxRetries),
	)
}

// setup loads config and catalog and creates the session
func (a *App) setup() error {
	if err := a.loadConfig(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := a.loadCatalog(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	a.Session = planner.NewSession(a.Config, a.Catalog, a.newLoader())
	return nil
}

// loadDesignFile applies --design to the session and waits for its entities to load
func (a *App) loadDesignFile() error {
	if a.DesignFile == "" {
		return nil
	}
	d, err := planner.LoadDesign(a.DesignFile)
	if err != nil {
		return err
	}
	if err := a.Session.ApplyDesign(d); err != nil {
		return fmt.Errorf("apply design %s: %w", a.DesignFile, err)
	}
	a.Session.Wait()
	log.Printf("Loaded design %s: %d walls, %d entities",
		a.DesignFile, len(a.Session.Floorplan.Walls()), a.Session.Registry.Len())
	return nil
}

// RunValidate checks the config, catalog and optional design
func (a *App) RunValidate() {
	if err := a.setup(); err != nil {
		log.Fatalf("Validation failed: %v", err)
	}
	defer a.Session.Close()

	fmt.Printf("Config OK (assets: %q, store: %s)\n", a.Config.Assets.BaseURL, a.Config.Store.Path)
	fmt.Printf("Catalog OK: %d items, %d wall textures, %d floor textures\n",
		len(a.Catalog.Items), len(a.Catalog.WallTextures), len(a.Catalog.FloorTextures))

	if a.DesignFile != "" {
		d, err := planner.LoadDesign(a.DesignFile)
		if err != nil {
			log.Fatalf("Validation failed: %v", err)
		}
		fmt.Printf("Design OK: %d corners, %d walls, %d entities\n", len(d.Corners), len(d.Walls), len(d.Entities))
	}
}

// renderFormat picks the output format from --format or the output extension
func (a *App) renderFormat() planner.RenderFormat {
	switch strings.ToLower(a.Format) {
	case "png":
		return planner.FormatPNG
	case "svg":
		return planner.FormatSVG
	}
	if strings.EqualFold(filepath.Ext(a.OutputFile), ".png") {
		return planner.FormatPNG
	}
	return planner.FormatSVG
}

func (a *App) newRenderer() *planner.Renderer2D {
	r := planner.NewRenderer2D(a.Config.Render.Width, a.Config.Render.Height)
	if a.Config.Render.GridSpacing > 0 {
		r.GridSpacing = a.Config.Render.GridSpacing
	}
	if a.Config.Render.Resolution > 0 {
		r.Resolution = canvas.DPI(a.Config.Render.Resolution)
	}
	return r
}

// RunRender renders --design to --output
func (a *App) RunRender() {
	if err := a.setup(); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	defer a.Session.Close()
	if err := a.loadDesignFile(); err != nil {
		log.Fatalf("Render failed: %v", err)
	}

	f, err := os.Create(a.OutputFile)
	if err != nil {
		log.Fatalf("Error creating output file: %v", err)
	}
	defer f.Close()

	format := a.renderFormat()
	renderer := a.newRenderer()
	err = a.Session.Do(func() error {
		a.Session.Viewer2D.Viewport().Fit(a.Session.Floorplan.Bounds(), renderer.Width, renderer.Height)
		return renderer.Render(f, format, a.Session.Viewer2D, a.Session.Registry.Entities())
	})
	if err != nil {
		log.Fatalf("Error rendering floorplan: %v", err)
	}
	fmt.Printf("Rendered %s floorplan to %s\n", format, a.OutputFile)
}

// RunExport writes --design as GeoJSON to --output
func (a *App) RunExport() {
	if err := a.setup(); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	defer a.Session.Close()
	if err := a.loadDesignFile(); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	var data []byte
	err := a.Session.Do(func() error {
		var err error
		data, err = planner.MarshalFloorplanGeoJSON(a.Session.Floorplan, a.Session.Registry.Entities())
		return err
	})
	if err != nil {
		log.Fatalf("Error exporting GeoJSON: %v", err)
	}
	if err := os.WriteFile(a.OutputFile, data, 0644); err != nil {
		log.Fatalf("Error writing %s: %v", a.OutputFile, err)
	}
	fmt.Printf("Exported GeoJSON to %s\n", a.OutputFile)
}

// RunService serves the HTTP API and/or the MQTT feed until interrupted
func (a *App) RunService() {
	fmt.Println("Starting roomplanner service...")

	if err := a.setup(); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	if err := a.loadDesignFile(); err != nil {
		log.Printf("Warning: %v", err)
	}

	store, err := planner.OpenStore(context.Background(), a.Config.Store.Path)
	if err != nil {
		log.Printf("Warning: design store unavailable: %v", err)
	} else {
		a.Store = store
		log.Printf("Design store at %s", a.Config.Store.Path)
	}

	if a.MqttMode {
		mqttClient, err := planner.InitMQTT(a.Config, a.Session.HandleCommandPayload)
		if err != nil {
			log.Fatalf("Failed to initialize MQTT: %v", err)
		}
		if mqttClient == nil {
			log.Fatal("MQTT broker not configured (set mqtt.broker or MQTT_BROKER)")
		}
		a.MQTTClient = mqttClient
		a.Publisher = planner.NewPublisher(mqttClient.GetClient(), a.Config.MQTT.PublishPrefix)
		a.Session.AttachPublisher(a.Publisher)
		fmt.Println("MQTT publisher initialized")
	}

	var server *http.Server
	if a.HttpMode {
		server = &http.Server{
			Addr:              fmt.Sprintf("0.0.0.0:%d", a.Config.HTTP.Port),
			Handler:           newHTTPServer(a.Session, a.storeOrNil(), a.newRenderer(), a.newLoader()),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("[HTTP] Starting server on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("[HTTP] Server error: %v", err)
			}
		}()
	}

	fmt.Println("\nService Running")
	fmt.Println("===============")
	if a.MqttMode {
		prefix := a.Config.MQTT.PublishPrefix
		fmt.Println("\nMQTT:")
		fmt.Printf("  Commands: %s\n", a.Config.CommandTopic())
		fmt.Printf("  Publishing: %s/floorplan, %s/selection, %s/loading\n", prefix, prefix, prefix)
		fmt.Printf("  Availability: %s\n", a.Config.StatusTopic())
	}
	if a.HttpMode {
		fmt.Printf("\nHTTP endpoints (port %d):\n", a.Config.HTTP.Port)
		fmt.Println("  GET  /health             - Health check")
		fmt.Println("  GET  /floorplan.svg|png  - 2D floorplan")
		fmt.Println("  *    /api/...            - Walls, entities, picking, textures, designs")
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down service...")
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = server.Shutdown(ctx)
		cancel()
	}
	if a.MQTTClient != nil {
		a.MQTTClient.Disconnect()
	}
	a.Session.Close()
	if a.Store != nil {
		a.Store.Close()
	}
	fmt.Println("Service stopped")
}

// storeOrNil avoids handing a typed nil pointer to the handler's interface
func (a *App) storeOrNil() designStore {
	if a.Store == nil {
		return nil
	}
	return a.Store
}
