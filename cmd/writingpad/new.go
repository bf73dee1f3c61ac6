package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/example/writingpad/internal/engine"
)

// newCmd writes an empty document with one layer.
type newCmd struct {
	output string
	width  float64
	height float64
	force  bool
	*root
	fs *flag.FlagSet
}

func (n *newCmd) FlagSet() *flag.FlagSet {
	return n.fs
}

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	n := &newCmd{root: r, fs: fs}
	canvas := r.settings().Canvas
	fs.Usage = usageFunc(n)
	fs.StringVar(&n.output, "output", "", "document path to create")
	fs.Float64Var(&n.width, "width", canvas.Width, "canvas width in logical pixels")
	fs.Float64Var(&n.height, "height", canvas.Height, "canvas height in logical pixels")
	fs.BoolVar(&n.force, "force", false, "overwrite an existing document")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if n.output == "" && fs.NArg() > 0 {
		n.output = fs.Arg(0)
	}
	if n.output == "" {
		return nil, &UsageError{of: n}
	}
	if !(n.width > 0 && n.height > 0) {
		return nil, fmt.Errorf("canvas size must be positive, got %gx%g", n.width, n.height)
	}
	return n, nil
}

func (n *newCmd) Run() error {
	if !n.force {
		if _, err := os.Stat(n.output); err == nil {
			return fmt.Errorf("%s already exists, use -force to overwrite", n.output)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	opts := append(n.root.engineOptions(), engine.WithCanvasSize(n.width, n.height))
	eng, err := engine.Open(nil, opts...)
	if err != nil {
		return err
	}
	defer eng.Close()
	return n.root.saveEngine(eng, n.output)
}
