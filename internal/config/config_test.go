package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/writingpad/internal/document"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/pads

[canvas]
width = 800
height: 600
grid = true
grid_spacing = 20
background = white

[pen]
color = #FF000080
width = 4.5
opacity = 0.5

[export]
scale = 2

[history]
limit = 50

[notify]
save = false
copy = true

[theme.My_Custom_Theme]
Paper = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/pads" {
		t.Errorf("Expected save_dir '/tmp/pads', got '%s'", cfg.SaveDir)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 600 || !cfg.Canvas.Grid || cfg.Canvas.GridSpacing != 20 {
		t.Errorf("Unexpected canvas: %+v", cfg.Canvas)
	}
	if cfg.Canvas.Background != document.White {
		t.Errorf("Unexpected background: %v", cfg.Canvas.Background)
	}
	if cfg.Pen.Color != (document.Color{R: 255, A: 0x80}) || cfg.Pen.Width != 4.5 || cfg.Pen.Opacity != 0.5 {
		t.Errorf("Unexpected pen: %+v", cfg.Pen)
	}
	if cfg.Export.Scale != 2 || cfg.History.Limit != 50 {
		t.Errorf("Unexpected export/history: %+v %+v", cfg.Export, cfg.History)
	}
	if cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("Unexpected notify: %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["My_Custom_Theme"]
	if !ok {
		t.Fatal("Expected theme 'My_Custom_Theme' to be loaded")
	}
	if th.Paper.R != 0x11 || th.Paper.G != 0x11 || th.Paper.B != 0x11 {
		t.Errorf("Unexpected Paper color: %+v", th.Paper)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"[canvas]\nwidth = -4\n",
		"[pen]\nopacity = 2\n",
		"[pen]\ncolor = nope\n",
		"[history]\nlimit = x\n",
		"[notify]\nsave = maybe\n",
		"[theme.x]\nPaper = #1\n",
	} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("expected an error for %q", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/pads

[canvas]
width = 640
grid = true

[pen]
color = #00FF00
opacity = 0.25

[history]
limit = 7

[notify]
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Canvas != cfg2.Canvas || cfg.Pen != cfg2.Pen || cfg.Export != cfg2.Export || cfg.History != cfg2.History {
		t.Errorf("Section mismatch:\n%+v\n%+v", cfg, cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderPaths(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	l := NewLoader("v1.0.0", "")
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("unexpected config path %q", p)
	}
	cfg, err := l.Load()
	if err != nil || cfg.Canvas.Width != 1024 {
		t.Fatalf("defaults not returned: %+v %v", cfg, err)
	}

	saved := New()
	saved.Pen.Width = 9
	if err := Save(saved, UserPath()); err != nil {
		t.Fatal(err)
	}
	if got := l.GetConfigPath(); got != filepath.Join(xdg, "writingpad", "config.rc") {
		t.Fatalf("path = %q", got)
	}
	cfg, err = l.Load()
	if err != nil || cfg.Pen.Width != 9 {
		t.Fatalf("saved config not loaded: %+v %v", cfg, err)
	}

	override := filepath.Join(t.TempDir(), "other.rc")
	if err := os.WriteFile(override, []byte("[pen]\nwidth = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = NewLoader("v1.0.0", override).Load()
	if err != nil || cfg.Pen.Width != 2 {
		t.Fatalf("override not used: %+v %v", cfg, err)
	}
}
