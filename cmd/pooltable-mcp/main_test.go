package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTable(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 80, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 80; x++ {
			c := color.NRGBA{R: 30, G: 110, B: 60, A: 255}
			if dx, dy := x-20, y-20; dx*dx+dy*dy <= 16 {
				c = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "table.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"--version"}, &out, &out); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.HasPrefix(out.String(), "pooltable-mcp dev") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"-h"}, &out, &out); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out.String(), "POOLTABLE_MCP_CONFIG") {
		t.Errorf("help does not mention the config variable: %q", out.String())
	}
}

func TestRun_Analyze(t *testing.T) {
	t.Setenv("POOLTABLE_MCP_CONFIG", "")
	t.Setenv("POOLTABLE_MCP_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	code := run([]string{"analyze", writeTable(t), "8ft"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}

	var report struct {
		TableSize string `json:"table_size"`
		Width     int    `json:"width"`
		Balls     []struct {
			Pixels int `json:"pixels"`
		} `json:"balls"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if report.TableSize != "8ft" || report.Width != 80 {
		t.Errorf("got size %q width %d", report.TableSize, report.Width)
	}
	if len(report.Balls) != 1 || report.Balls[0].Pixels != 49 {
		t.Errorf("balls: got %+v, want one of 49 pixels", report.Balls)
	}
}

func TestRun_AnalyzeErrors(t *testing.T) {
	t.Setenv("POOLTABLE_MCP_CONFIG", "")
	t.Setenv("POOLTABLE_MCP_LOG_LEVEL", "error")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no path", []string{"analyze"}, 2},
		{"bad size", []string{"analyze", "x.png", "6ft"}, 2},
		{"missing file", []string{"analyze", filepath.Join(t.TempDir(), "none.png")}, 1},
		{"unknown command", []string{"frobnicate"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if code := run(tt.args, &out, &out); code != tt.want {
				t.Errorf("exit code %d, want %d (%s)", code, tt.want, out.String())
			}
		})
	}
}

func TestRun_BadConfig(t *testing.T) {
	t.Setenv("POOLTABLE_MCP_CONFIG", filepath.Join(t.TempDir(), "tuning.yaml"))

	var out bytes.Buffer
	if code := run([]string{"analyze", "x.png"}, &out, &out); code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
	if !strings.Contains(out.String(), ".json") {
		t.Errorf("unexpected message: %q", out.String())
	}
}
