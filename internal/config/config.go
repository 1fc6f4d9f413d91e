package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ironsheep/pooltable-mcp/internal/colorspace"
	"github.com/ironsheep/pooltable-mcp/internal/detection"
	"github.com/ironsheep/pooltable-mcp/internal/logger"
	"github.com/ironsheep/pooltable-mcp/internal/table"
)

// PathEnv names the environment variable holding the config file path.
const PathEnv = "POOLTABLE_MCP_CONFIG"

// AnalyzerConfig holds the analyzer tuning. Every field is optional; the
// Get* methods fall back to defaults for fields left out of the file.
type AnalyzerConfig struct {
	// Segmentation
	Threshold     *float64 `json:"threshold,omitempty"`
	Profile       *string  `json:"profile,omitempty"` // "graphic-arts" or "textiles"
	Metric        *string  `json:"metric,omitempty"`  // "cie94", "cie76" or "ciede2000"
	MinBlobPixels *int     `json:"min_blob_pixels,omitempty"`
	MorphRadius   *float64 `json:"morph_radius,omitempty"`
	BlurRadius    *float64 `json:"blur_radius,omitempty"`
	Workers       *int     `json:"workers,omitempty"` // 0 means one per CPU

	// Decoding
	MaxDimension *int `json:"max_dimension,omitempty"`

	// Defaults for tool calls
	TableSize *string `json:"table_size,omitempty"`
	LogLevel  *string `json:"log_level,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultAnalyzerConfig returns a config with every field set to its default.
func DefaultAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		Threshold:     ptrFloat64(detection.DefaultThreshold),
		Profile:       ptrString(colorspace.GraphicArts.String()),
		Metric:        ptrString(string(colorspace.MetricCIE94)),
		MinBlobPixels: ptrInt(20),
		MorphRadius:   ptrFloat64(0),
		BlurRadius:    ptrFloat64(0),
		Workers:       ptrInt(0),
		MaxDimension:  ptrInt(0),
		TableSize:     ptrString(table.NineFoot.String()),
		LogLevel:      ptrString("info"),
	}
}

// Load reads an AnalyzerConfig from a JSON file. The file must have a .json
// extension and be under 1MB. Fields omitted from the file keep their
// defaults.
func Load(path string) (*AnalyzerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &AnalyzerConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// FromEnv loads the file named by PathEnv, or returns the defaults when the
// variable is unset.
func FromEnv() (*AnalyzerConfig, error) {
	path := os.Getenv(PathEnv)
	if path == "" {
		return DefaultAnalyzerConfig(), nil
	}
	return Load(path)
}

// Validate checks that the configuration values are valid.
func (c *AnalyzerConfig) Validate() error {
	if c.Threshold != nil {
		if math.IsNaN(*c.Threshold) || math.IsInf(*c.Threshold, 0) || *c.Threshold < 0 {
			return fmt.Errorf("threshold must be a non-negative number, got %v", *c.Threshold)
		}
	}

	if c.Profile != nil {
		if _, err := colorspace.ParseApplication(*c.Profile); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}
	}

	if c.Metric != nil {
		if _, err := colorspace.ParseMetric(*c.Metric); err != nil {
			return fmt.Errorf("invalid metric: %w", err)
		}
	}

	for name, v := range map[string]*int{
		"min_blob_pixels": c.MinBlobPixels,
		"workers":         c.Workers,
		"max_dimension":   c.MaxDimension,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}

	for name, v := range map[string]*float64{
		"morph_radius": c.MorphRadius,
		"blur_radius":  c.BlurRadius,
	} {
		if v != nil && (math.IsNaN(*v) || *v < 0) {
			return fmt.Errorf("%s must be non-negative, got %v", name, *v)
		}
	}

	if c.TableSize != nil {
		if _, err := table.ParseTableSize(*c.TableSize); err != nil {
			return fmt.Errorf("invalid table_size: %w", err)
		}
	}

	if c.LogLevel != nil {
		if _, err := logger.ParseLevel(*c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}

	return nil
}

// GetThreshold returns the threshold value or the default.
func (c *AnalyzerConfig) GetThreshold() float64 {
	if c.Threshold == nil {
		return detection.DefaultThreshold
	}
	return *c.Threshold
}

// GetProfile returns the Delta-E94 profile or the default. Unknown names
// fall back to GraphicArts.
func (c *AnalyzerConfig) GetProfile() colorspace.Application {
	if c.Profile == nil {
		return colorspace.GraphicArts
	}
	app, err := colorspace.ParseApplication(*c.Profile)
	if err != nil {
		return colorspace.GraphicArts
	}
	return app
}

// GetMetric returns the distance metric or the default.
func (c *AnalyzerConfig) GetMetric() colorspace.Metric {
	if c.Metric == nil {
		return colorspace.MetricCIE94
	}
	m, err := colorspace.ParseMetric(*c.Metric)
	if err != nil {
		return colorspace.MetricCIE94
	}
	return m
}

// GetMinBlobPixels returns the min_blob_pixels value or the default.
func (c *AnalyzerConfig) GetMinBlobPixels() int {
	if c.MinBlobPixels == nil {
		return 20
	}
	return *c.MinBlobPixels
}

// GetMorphRadius returns the morph_radius value or the default.
func (c *AnalyzerConfig) GetMorphRadius() float64 {
	if c.MorphRadius == nil {
		return 0
	}
	return *c.MorphRadius
}

// GetBlurRadius returns the blur_radius value or the default.
func (c *AnalyzerConfig) GetBlurRadius() float64 {
	if c.BlurRadius == nil {
		return 0
	}
	return *c.BlurRadius
}

// GetWorkers returns the workers value or the default.
func (c *AnalyzerConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetMaxDimension returns the max_dimension value or the default.
func (c *AnalyzerConfig) GetMaxDimension() int {
	if c.MaxDimension == nil {
		return 0
	}
	return *c.MaxDimension
}

// GetTableSize returns the default table size for tool calls.
func (c *AnalyzerConfig) GetTableSize() table.TableSize {
	if c.TableSize == nil {
		return table.NineFoot
	}
	size, err := table.ParseTableSize(*c.TableSize)
	if err != nil {
		return table.NineFoot
	}
	return size
}

// GetLogLevel returns the log level name or the default.
func (c *AnalyzerConfig) GetLogLevel() string {
	if c.LogLevel == nil || *c.LogLevel == "" {
		return "info"
	}
	return *c.LogLevel
}

// AnalyzerOptions converts the config to analyzer options.
func (c *AnalyzerConfig) AnalyzerOptions() table.Options {
	return table.Options{
		Segment: detection.Options{
			Threshold:     c.GetThreshold(),
			Metric:        c.GetMetric(),
			Application:   c.GetProfile(),
			MinBlobPixels: c.GetMinBlobPixels(),
			MorphRadius:   c.GetMorphRadius(),
			BlurRadius:    c.GetBlurRadius(),
			Workers:       c.GetWorkers(),
		},
		MaxDimension: c.GetMaxDimension(),
	}
}
