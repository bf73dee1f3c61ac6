package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/writingpad/internal/appstate"
	"github.com/example/writingpad/internal/clipboard"
	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/portable"
	"github.com/example/writingpad/internal/render"
)

// renderCmd rasterizes a document to PNG.
type renderCmd struct {
	file        string
	output      string
	scale       float64
	grid        bool
	background  string
	shadow      bool
	toClipboard bool
	hold        bool
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	cfg := r.settings()
	bg := ""
	if cfg.Canvas.Background.A > 0 {
		bg = cfg.Canvas.Background.Hex()
	}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "input document")
	fs.StringVar(&c.output, "output", "", "output PNG (defaults to the input with a .png extension)")
	fs.Float64Var(&c.scale, "scale", cfg.Export.Scale, "pixels per logical unit")
	fs.BoolVar(&c.grid, "grid", cfg.Canvas.Grid, "draw the background grid")
	fs.StringVar(&c.background, "background", bg, "background color (transparent when empty)")
	fs.BoolVar(&c.shadow, "shadow", false, "add a drop shadow around the drawing")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the PNG to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the PNG to the clipboard (alias)")
	fs.BoolVar(&c.hold, "hold", false, "keep serving the clipboard until another application takes it")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && fs.NArg() > 0 {
		c.file = fs.Arg(0)
	}
	if c.file == "" {
		return nil, &UsageError{of: c}
	}
	if c.output == "" && !c.toClipboard {
		c.output = appstate.PNGPath(c.file)
	}
	if !(c.scale > 0) {
		return nil, fmt.Errorf("scale must be positive")
	}
	return c, nil
}

func (c *renderCmd) options() (render.RasterOptions, error) {
	opts := render.RasterOptions{Scale: c.scale}
	if c.background != "" {
		bg, err := document.ParseColor(c.background)
		if err != nil {
			return opts, err
		}
		opts.Background = bg
	}
	if c.shadow {
		opts.Shadow = &render.DefaultShadow
	}
	if c.grid {
		g := c.root.grid()
		opts.Grid = &g
	}
	return opts, nil
}

func (c *renderCmd) Run() error {
	doc, err := readDocument(c.file)
	if err != nil {
		return err
	}
	snap, _, err := portable.Deserialize(*doc)
	if err != nil {
		return fmt.Errorf("%s: %w", c.file, err)
	}
	opts, err := c.options()
	if err != nil {
		return err
	}
	data, err := render.Rasterize(snap, opts)
	if err != nil {
		return err
	}
	if c.output != "" {
		if err := os.WriteFile(c.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.output, err)
		}
		c.root.reportSaved(c.output)
	}
	if !c.toClipboard {
		return nil
	}
	done, err := clipboard.WritePNG(data)
	if err != nil {
		return fmt.Errorf("copy PNG to clipboard: %w", err)
	}
	detail := filepath.Base(c.file)
	fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
	c.root.notifyCopy(detail)
	if c.hold && done != nil {
		<-done
	}
	return nil
}
