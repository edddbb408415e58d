package planner

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration
type Config struct {
	MQTT    MQTTConfig   `yaml:"mqtt" json:"mqtt"`
	HTTP    HTTPConfig   `yaml:"http" json:"http"`
	Assets  AssetsConfig `yaml:"assets" json:"assets"`
	Editor  EditorConfig `yaml:"editor" json:"editor"`
	Walls   WallsConfig  `yaml:"walls" json:"walls"`
	Store   StoreConfig  `yaml:"store" json:"store"`
	Catalog string       `yaml:"catalog,omitempty" json:"catalog,omitempty"` // path to a catalog YAML, built-in catalog when empty
	Render  RenderConfig `yaml:"render" json:"render"`
}

// MQTTConfig holds MQTT connection settings
type MQTTConfig struct {
	Broker        string `yaml:"broker" json:"broker"`
	PublishPrefix string `yaml:"publishPrefix" json:"publishPrefix"`
	ClientID      string `yaml:"clientId" json:"clientId"`
	Username      string `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string `yaml:"password,omitempty" json:"password,omitempty"`
}

// HTTPConfig holds the listener settings
type HTTPConfig struct {
	Port int `yaml:"port" json:"port"`
}

// AssetsConfig controls where models and textures are loaded from
type AssetsConfig struct {
	BaseURL     string        `yaml:"baseURL" json:"baseURL"` // http(s) URL or local directory
	LoadTimeout time.Duration `yaml:"loadTimeout" json:"loadTimeout"`
	MaxRetries  int           `yaml:"maxRetries" json:"maxRetries"`
}

// EditorConfig tunes the 2D interaction tolerances
type EditorConfig struct {
	HitTolerance  float64 `yaml:"hitTolerance" json:"hitTolerance"`   // cm
	SnapTolerance float64 `yaml:"snapTolerance" json:"snapTolerance"` // px
	AxisSnap      float64 `yaml:"axisSnap" json:"axisSnap"`           // px
	PixelsPerCm   float64 `yaml:"pixelsPerCm" json:"pixelsPerCm"`
}

// WallsConfig sets the defaults for newly drawn walls (cm)
type WallsConfig struct {
	Thickness float64 `yaml:"thickness" json:"thickness"`
	Height    float64 `yaml:"height" json:"height"`
}

// StoreConfig locates the SQLite design store
type StoreConfig struct {
	Path string `yaml:"path" json:"path"`
}

// RenderConfig sizes the 2D exports
type RenderConfig struct {
	Width       float64 `yaml:"width" json:"width"`   // mm
	Height      float64 `yaml:"height" json:"height"` // mm
	GridSpacing float64 `yaml:"gridSpacing,omitempty" json:"gridSpacing,omitempty"`
	Resolution  float64 `yaml:"resolution,omitempty" json:"resolution,omitempty"` // PNG DPI
}

// DefaultConfig returns a configuration usable without a config file
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.MQTT.PublishPrefix == "" {
		c.MQTT.PublishPrefix = "roomplanner"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "roomplanner"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 4040
	}
	if c.Assets.LoadTimeout == 0 {
		c.Assets.LoadTimeout = DefaultLoadTimeout
	}
	if c.Assets.MaxRetries == 0 {
		c.Assets.MaxRetries = DefaultMaxRetries
	}
	if c.Editor.HitTolerance == 0 {
		c.Editor.HitTolerance = DefaultHitTolerance
	}
	if c.Editor.SnapTolerance == 0 {
		c.Editor.SnapTolerance = DefaultSnapTolerance
	}
	if c.Editor.AxisSnap == 0 {
		c.Editor.AxisSnap = DefaultAxisSnap
	}
	if c.Editor.PixelsPerCm == 0 {
		c.Editor.PixelsPerCm = 1
	}
	if c.Walls.Thickness == 0 {
		c.Walls.Thickness = DefaultWallThickness
	}
	if c.Walls.Height == 0 {
		c.Walls.Height = DefaultWallHeight
	}
	if c.Store.Path == "" {
		c.Store.Path = "roomplanner.db"
	}
	if c.Render.Width == 0 {
		c.Render.Width = 800
	}
	if c.Render.Height == 0 {
		c.Render.Height = 600
	}
}

// Validate rejects settings no component can work with
func (c *Config) Validate() error {
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.Assets.LoadTimeout < 0 {
		return fmt.Errorf("assets.loadTimeout must not be negative")
	}
	if c.Assets.MaxRetries < 0 {
		return fmt.Errorf("assets.maxRetries must not be negative")
	}
	if c.Editor.HitTolerance < 0 || c.Editor.SnapTolerance < 0 || c.Editor.AxisSnap < 0 {
		return fmt.Errorf("editor tolerances must not be negative")
	}
	if c.Editor.PixelsPerCm < 0 {
		return fmt.Errorf("editor.pixelsPerCm must be positive")
	}
	if c.Walls.Thickness < 0 || c.Walls.Height < 0 {
		return fmt.Errorf("walls.thickness and walls.height must be positive")
	}
	return nil
}

// Viewer2DOptions converts the editor settings into controller options
func (c *Config) Viewer2DOptions() Viewer2DOptions {
	return Viewer2DOptions{
		HitTolerance:  c.Editor.HitTolerance,
		SnapTolerance: c.Editor.SnapTolerance,
		AxisSnap:      c.Editor.AxisSnap,
		PixelsPerCm:   c.Editor.PixelsPerCm,
	}
}

// ApplyEnv overrides MQTT settings from MQTT_* environment variables
func (c *Config) ApplyEnv() {
	for env, field := range map[string]*string{
		"MQTT_BROKER":         &c.MQTT.Broker,
		"MQTT_CLIENT_ID":      &c.MQTT.ClientID,
		"MQTT_USERNAME":       &c.MQTT.Username,
		"MQTT_PASSWORD":       &c.MQTT.Password,
		"MQTT_PUBLISH_PREFIX": &c.MQTT.PublishPrefix,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// LoadConfig loads the configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
