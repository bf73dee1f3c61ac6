package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/engine"
)

const defaultFontSize = 16

// drawCmd applies one scripted operation to a portable document.
type drawCmd struct {
	file      string
	output    string
	create    bool
	toolSpec  string
	colorSpec string
	pen       penSettings
	op        []string
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	pen := r.settings().Pen
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input document")
	fs.StringVar(&d.output, "output", "", "output document (defaults to the input file)")
	fs.BoolVar(&d.create, "create", false, "start from an empty canvas when the input does not exist")
	fs.StringVar(&d.toolSpec, "tool", "pen", "stroke tool: pen, highlighter or eraser")
	fs.StringVar(&d.colorSpec, "color", pen.Color.Hex(), "stroke or text color name or hex value")
	fs.Float64Var(&d.pen.width, "width", pen.Width, "stroke width in logical pixels")
	fs.Float64Var(&d.pen.opacity, "opacity", -1, "stroke opacity between 0 and 1 (tool default when negative)")
	fs.StringVar(&d.pen.layer, "layer", "", "layer ID to draw on (defaults to the active layer)")
	fs.Float64Var(&d.pen.fontSize, "font-size", defaultFontSize, "text size in logical pixels")
	fs.StringVar(&d.pen.font, "font", "", "text font family")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.op = positionals
	if d.pen.tool, err = document.ParseToolKind(d.toolSpec); err != nil {
		return nil, err
	}
	if d.pen.color, err = document.ParseColor(d.colorSpec); err != nil {
		return nil, err
	}
	if d.file == "" {
		return nil, fmt.Errorf("input file is required")
	}
	if d.output == "" {
		d.output = d.file
	}
	if d.pen.opacity > 1 {
		return nil, fmt.Errorf("opacity must be between 0 and 1")
	}
	if d.pen.fontSize <= 0 {
		d.pen.fontSize = defaultFontSize
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	eng, err := d.open()
	if err != nil {
		return err
	}
	defer eng.Close()
	msg, err := applyOp(eng, d.pen, d.op)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, msg)
	return d.root.saveEngine(eng, d.output)
}

func (d *drawCmd) open() (*engine.Engine, error) {
	eng, err := d.root.openEngine(d.file)
	if err == nil || !d.create || !errors.Is(err, fs.ErrNotExist) {
		return eng, err
	}
	return engine.Open(nil, d.root.engineOptions()...)
}

var drawFlagNames = map[string]struct{}{
	"file":      {},
	"output":    {},
	"create":    {},
	"tool":      {},
	"color":     {},
	"width":     {},
	"opacity":   {},
	"layer":     {},
	"font-size": {},
	"font":      {},
}

var drawBoolFlags = map[string]struct{}{
	"create": {},
}

// splitDrawArgs separates known flags from the operation. Unknown dash
// arguments such as negative coordinates stay positional.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
