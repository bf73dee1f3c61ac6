package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/example/writingpad/internal/appstate"
	"github.com/example/writingpad/internal/portable"
)

// padCmd opens the interactive drawing window.
type padCmd struct {
	file   string
	output string
	scale  float64
	font   string
	now    func() time.Time
	*root
	fs *flag.FlagSet
}

func (p *padCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func parsePadCmd(args []string, r *root) (*padCmd, error) {
	fs := flag.NewFlagSet("pad", flag.ExitOnError)
	p := &padCmd{root: r, fs: fs, now: time.Now}
	fs.Usage = usageFunc(p)
	fs.StringVar(&p.file, "file", "", "document to open (a fresh canvas when missing)")
	fs.StringVar(&p.output, "output", "", "where ^S saves (defaults to -file or a timestamped name in save_dir)")
	fs.Float64Var(&p.scale, "scale", r.settings().Export.Scale, "raster scale used when saving and copying")
	fs.StringVar(&p.font, "font", "", "font family for new text")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if p.file == "" && fs.NArg() > 0 {
		p.file = fs.Arg(0)
	}
	if !(p.scale > 0) {
		return nil, fmt.Errorf("scale must be positive")
	}
	return p, nil
}

// outputPath resolves where the window saves.
func (p *padCmd) outputPath() string {
	switch {
	case p.output != "":
		return p.output
	case p.file != "":
		return p.file
	}
	dir := p.root.settings().SaveDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("pad-%s.json", p.now().Format("20060102-150405")))
}

func (p *padCmd) initial() (*portable.PortableDocument, error) {
	if p.file == "" {
		return nil, nil
	}
	doc, err := readDocument(p.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	var pe *portable.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintf(os.Stderr, "warning: %v, starting fresh\n", err)
		return nil, nil
	}
	return doc, err
}

func (p *padCmd) Run() error {
	doc, err := p.initial()
	if err != nil {
		return err
	}
	out := p.outputPath()
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	opts := []appstate.Option{
		appstate.WithEngineOptions(p.root.engineOptions()...),
		appstate.WithTheme(p.root.theme()),
		appstate.WithOutput(out),
		appstate.WithExportScale(p.scale),
		appstate.WithFontFamily(p.font),
		appstate.WithNotifier(p.root.notifier),
	}
	if doc != nil {
		opts = append(opts, appstate.WithDocument(doc))
	}
	a, err := appstate.New(opts...)
	if err != nil {
		return err
	}
	if err := a.OpenError(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s: %v, starting fresh\n", p.file, err)
	}
	return a.Run()
}
