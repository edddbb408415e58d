package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

// AppOptions holds the parsed command line
type AppOptions struct {
	ConfigFile   string
	CatalogFile  string
	AssetsBase   string
	DesignFile   string
	OutputFile   string
	Format       string
	StorePath    string
	HttpPort     int
	RenderOnly   bool
	ExportOnly   bool
	ValidateOnly bool
	MqttMode     bool
	HttpMode     bool
}

// Runner is what run dispatches to; App is the real implementation
type Runner interface {
	ApplyOptions(opts AppOptions)
	RunValidate()
	RunRender()
	RunExport()
	RunService()
}

func main() {
	if err := run(os.Args[1:], os.Stdout, NewApp()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(args []string, out io.Writer, app Runner) error {
	fs := flag.NewFlagSet("roomplanner", flag.ContinueOnError)
	fs.SetOutput(out)

	var opts AppOptions
	fs.StringVar(&opts.ConfigFile, "config", "config.yaml", "Path to configuration file")
	fs.StringVar(&opts.CatalogFile, "catalog", "", "Path to catalog YAML (default: config catalog or built-in)")
	fs.StringVar(&opts.AssetsBase, "assets", "", "Asset base URL or directory (overrides assets.baseURL)")
	fs.StringVar(&opts.DesignFile, "design", "", "Design JSON to load")
	fs.StringVar(&opts.OutputFile, "output", "floorplan.svg", "Output file for --render and --geojson")
	fs.StringVar(&opts.Format, "format", "", "Render format: svg or png (default: from --output extension)")
	fs.StringVar(&opts.StorePath, "store", "", "SQLite design store path (overrides store.path)")
	fs.IntVar(&opts.HttpPort, "http-port", 0, "HTTP server port (overrides http.port)")
	fs.BoolVar(&opts.RenderOnly, "render", false, "Render --design to --output and exit")
	fs.BoolVar(&opts.ExportOnly, "geojson", false, "Export --design as GeoJSON to --output and exit")
	fs.BoolVar(&opts.ValidateOnly, "validate", false, "Validate config, catalog and design, then exit")
	fs.BoolVar(&opts.MqttMode, "mqtt", false, "Publish state and accept commands over MQTT")
	fs.BoolVar(&opts.HttpMode, "http", false, "Serve the planner HTTP API")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(out, "roomplanner version: %s\n", Version)
	app.ApplyOptions(opts)

	switch {
	case opts.ValidateOnly:
		app.RunValidate()
	case opts.RenderOnly:
		app.RunRender()
	case opts.ExportOnly:
		app.RunExport()
	case opts.MqttMode || opts.HttpMode:
		app.RunService()
	default:
		fmt.Fprintln(out, "roomplanner service starting...")
		fmt.Fprintln(out, "Use --http to serve the planner API")
		fmt.Fprintln(out, "Use --mqtt to publish state and accept commands over MQTT")
		fmt.Fprintln(out, "Use --render --design FILE --output OUT.svg|png to render a design")
		fmt.Fprintln(out, "Use --geojson --design FILE --output OUT.geojson to export a design")
		fmt.Fprintln(out, "Use --validate to check config, catalog and design files")
	}
	return nil
}
