package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"

	"github.com/phanxgames/shadowgen"
	"github.com/phanxgames/shadowgen/preset"
)

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRenderWritesFiles(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := runCmd(t, "render", "-layer", "5,5,50,10", "-qml", "-json", "-o", filepath.Join(dir, "card"))
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	for _, name := range []string{"card.png", "card.qml", "card.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestInfoJSON(t *testing.T) {
	code, stdout, stderr := runCmd(t, "info", "-layer", "5,5,50,10")
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	var in info
	if err := json.Unmarshal([]byte(stdout), &in); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if in.Canvas.OriginX != -24 || in.Canvas.Width != 98 {
		t.Errorf("canvas = %s", spew.Sdump(in.Canvas))
	}
	if len(in.Layers) != 1 || in.Layers[0].Alpha != 180 || in.Layers[0].OffsetX != 5 {
		t.Errorf("layers = %s", spew.Sdump(in.Layers))
	}
	if in.Insets.Left < 0 || in.Insets.Right <= in.Insets.Left {
		t.Errorf("insets = %s", spew.Sdump(in.Insets))
	}
}

func TestInfoTable(t *testing.T) {
	var buf bytes.Buffer
	in := info{Layers: []layerInfo{{ShadowParams: shadowgen.ShadowParams{OffsetX: 1, Opacity: 50, Blur: 2}, Alpha: 180}}}
	in.Crop.Width, in.Crop.Height = 10, 12
	if err := writeInfoTable(&buf, in); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"crop", "10x12", "layer 0", "opacity 50% (alpha 180)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q:\n%s", want, buf.String())
		}
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, exitInvalid},
		{"help", []string{"help"}, exitOK},
		{"unknown command", []string{"paint"}, exitInvalid},
		{"command help", []string{"info", "-h"}, exitOK},
		{"bad flag", []string{"info", "-nope"}, exitInvalid},
		{"stray argument", []string{"info", "extra"}, exitInvalid},
		{"bad layer", []string{"info", "-layer", "1,2,3"}, exitInvalid},
		{"zero width", []string{"info", "-w", "0"}, exitInvalid},
		{"oversized canvas", []string{"info", "-w", "1000", "-h", "1000", "-scale", "1000"}, exitInvalid},
		{"opacity out of range", []string{"info", "-layer", "0,0,150,1"}, exitInvalid},
		{"unknown preset", []string{"info", "-preset", "nope"}, exitInvalid},
		{"preset and layer", []string{"info", "-preset", "soft", "-layer", "0,0,1,1"}, exitInvalid},
		{"unknown blur", []string{"info", "-blur", "motion"}, exitInvalid},
		{"bad fill", []string{"info", "-fill", "#12"}, exitInvalid},
		{"negative gain", []string{"info", "-alpha-gain", "-1"}, exitInvalid},
		{"all gains zero", []string{"info", "-alpha-gain", "0", "-blur-gain", "0", "-blur-mult", "0"}, exitInvalid},
		{"one gain zero", []string{"info", "-blur-gain", "0"}, exitOK},
		{"empty result", []string{"info", "-no-source", "-layer", "0,0,0,4"}, exitEmpty},
		{"preset", []string{"info", "-preset", "material-2", "-blur", "box"}, exitOK},
		{"watch without file", []string{"watch"}, exitInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCmd(t, tt.args...)
			if code != tt.want {
				t.Errorf("exit %d, want %d\n%s", code, tt.want, stderr)
			}
		})
	}
}

func TestPresetsCommand(t *testing.T) {
	code, stdout, _ := runCmd(t, "presets")
	if code != exitOK || !strings.Contains(stdout, "material-2") {
		t.Fatalf("exit %d:\n%s", code, stdout)
	}

	code, stdout, _ = runCmd(t, "presets", "-dump")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	set, err := preset.Parse([]byte(stdout))
	if err != nil || len(set.Presets) != len(preset.Builtin()) {
		t.Errorf("dump does not parse back: %v\n%s", err, stdout)
	}
}

func TestWatchOnce(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "shadows.yaml")
	data := `presets:
  - name: card shadow
    layers:
      - {x: 0, y: 2, opacity: 30, blur: 4}
  - name: bad
    layers:
      - {x: 0, y: 2, opacity: 300, blur: 4}
`
	if err := os.WriteFile(file, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	code, _, stderr := runCmd(t, "watch", "-once", "-presets", file, "-o", out)
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	for _, name := range []string{"card_shadow.png", "card_shadow.qml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "bad.png")); err == nil {
		t.Error("rejected preset was rendered")
	}
	if !strings.Contains(stderr, "preset rejected") {
		t.Errorf("rejected entry not logged:\n%s", stderr)
	}
}

func TestParseLayer(t *testing.T) {
	tests := []struct {
		in      string
		want    shadowgen.ShadowParams
		wantErr bool
	}{
		{"5,5,50,10", shadowgen.ShadowParams{OffsetX: 5, OffsetY: 5, Opacity: 50, Blur: 10}, false},
		{" -1.5, 2 ,30,0.5", shadowgen.ShadowParams{OffsetX: -1.5, OffsetY: 2, Opacity: 30, Blur: 0.5}, false},
		{"1,2,3", shadowgen.ShadowParams{}, true},
		{"1,2,x,4", shadowgen.ShadowParams{}, true},
		{"1,2,33.5,4", shadowgen.ShadowParams{}, true},
	}
	for _, tt := range tests {
		got, err := parseLayer(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLayer(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLayer(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRelevant(t *testing.T) {
	file := "/tmp/x/shadows.yaml"
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: file, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: file, Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/tmp/x/other.yaml", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := relevant(file, tt.ev); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}
