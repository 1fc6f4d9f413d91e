package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/pooltable-mcp/internal/colorspace"
	"github.com/ironsheep/pooltable-mcp/internal/table"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestDefaultAnalyzerConfig(t *testing.T) {
	cfg := DefaultAnalyzerConfig()

	if cfg.Threshold == nil || *cfg.Threshold != 10 {
		t.Errorf("Expected Threshold 10, got %v", cfg.Threshold)
	}
	if cfg.Profile == nil || *cfg.Profile != "graphic-arts" {
		t.Errorf("Expected Profile graphic-arts, got %v", cfg.Profile)
	}
	if cfg.TableSize == nil || *cfg.TableSize != "9ft" {
		t.Errorf("Expected TableSize 9ft, got %v", cfg.TableSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}

	// Getters on an empty config agree with the defaults.
	empty := &AnalyzerConfig{}
	if empty.GetThreshold() != cfg.GetThreshold() {
		t.Errorf("GetThreshold() = %f, want %f", empty.GetThreshold(), cfg.GetThreshold())
	}
	if empty.GetMinBlobPixels() != cfg.GetMinBlobPixels() {
		t.Errorf("GetMinBlobPixels() = %d, want %d", empty.GetMinBlobPixels(), cfg.GetMinBlobPixels())
	}
	if empty.GetMetric() != colorspace.MetricCIE94 {
		t.Errorf("GetMetric() = %q, want cie94", empty.GetMetric())
	}
	if empty.GetProfile() != colorspace.GraphicArts {
		t.Errorf("GetProfile() = %v, want graphic-arts", empty.GetProfile())
	}
	if empty.GetTableSize() != table.NineFoot {
		t.Errorf("GetTableSize() = %v, want 9ft", empty.GetTableSize())
	}
	if empty.GetLogLevel() != "info" {
		t.Errorf("GetLogLevel() = %q, want info", empty.GetLogLevel())
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{
  "threshold": 12.5,
  "profile": "textiles",
  "metric": "ciede2000",
  "min_blob_pixels": 50,
  "blur_radius": 1.5,
  "max_dimension": 1024,
  "table_size": "8ft-pro"
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetThreshold() != 12.5 {
		t.Errorf("GetThreshold() = %f, want 12.5", cfg.GetThreshold())
	}
	if cfg.GetProfile() != colorspace.Textiles {
		t.Errorf("GetProfile() = %v, want textiles", cfg.GetProfile())
	}
	if cfg.GetTableSize() != table.EightFootPro {
		t.Errorf("GetTableSize() = %v, want 8ft-pro", cfg.GetTableSize())
	}

	// Fields left out of the file keep defaults.
	if cfg.MorphRadius != nil {
		t.Errorf("Expected MorphRadius nil, got %v", *cfg.MorphRadius)
	}
	if cfg.GetWorkers() != 0 {
		t.Errorf("GetWorkers() = %d, want 0", cfg.GetWorkers())
	}

	opts := cfg.AnalyzerOptions()
	if opts.MaxDimension != 1024 {
		t.Errorf("MaxDimension = %d, want 1024", opts.MaxDimension)
	}
	if opts.Segment.Threshold != 12.5 || opts.Segment.MinBlobPixels != 50 || opts.Segment.BlurRadius != 1.5 {
		t.Errorf("unexpected segment options: %+v", opts.Segment)
	}
	if opts.Segment.Metric != colorspace.MetricCIEDE2000 || opts.Segment.Application != colorspace.Textiles {
		t.Errorf("unexpected metric/profile: %q %v", opts.Segment.Metric, opts.Segment.Application)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "tuning.yaml", `{}`, ".json extension"},
		{"bad json", "tuning.json", `{"threshold":`, "failed to parse"},
		{"negative threshold", "tuning.json", `{"threshold": -1}`, "threshold"},
		{"unknown profile", "tuning.json", `{"profile": "paint"}`, "invalid profile"},
		{"unknown metric", "tuning.json", `{"metric": "cmc"}`, "invalid metric"},
		{"negative workers", "tuning.json", `{"workers": -2}`, "workers"},
		{"negative blur", "tuning.json", `{"blur_radius": -0.5}`, "blur_radius"},
		{"unknown table", "tuning.json", `{"table_size": "6ft"}`, "invalid table_size"},
		{"unknown log level", "tuning.json", `{"log_level": "loud"}`, "invalid log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "failed to stat") {
		t.Errorf("expected stat error, got %v", err)
	}
}

func TestLoad_TooLarge(t *testing.T) {
	body := `{"threshold": 10, "pad": "` + strings.Repeat("x", 1024*1024) + `"}`
	_, err := Load(writeConfig(t, "big.json", body))
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(PathEnv, "")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() with no path: %v", err)
	}
	if cfg.GetTableSize() != table.NineFoot {
		t.Errorf("GetTableSize() = %v, want 9ft", cfg.GetTableSize())
	}

	t.Setenv(PathEnv, writeConfig(t, "env.json", `{"table_size": "7ft"}`))
	cfg, err = FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() with path: %v", err)
	}
	if cfg.GetTableSize() != table.SevenFoot {
		t.Errorf("GetTableSize() = %v, want 7ft", cfg.GetTableSize())
	}
}
