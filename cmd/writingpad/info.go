package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/example/writingpad/internal/engine"
)

// infoCmd describes a document's canvas, layers and text.
type infoCmd struct {
	file string
	out  io.Writer
	*root
	fs *flag.FlagSet
}

func (c *infoCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseInfoCmd(args []string, r *root) (*infoCmd, error) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	c := &infoCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "input document")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && fs.NArg() > 0 {
		c.file = fs.Arg(0)
	}
	if c.file == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *infoCmd) Run() error {
	eng, err := c.root.openEngine(c.file)
	if err != nil {
		return err
	}
	defer eng.Close()
	return describe(c.out, eng)
}

// describe prints the canvas summary followed by the layers, top first.
func describe(w io.Writer, eng *engine.Engine) error {
	snap := eng.Snapshot()
	view := eng.Viewport()
	fmt.Fprintf(w, "canvas %gx%g, zoom %d%%, %d strokes, %d texts\n",
		snap.Width, snap.Height, int(view.Zoom*100+0.5), snap.StrokeCount(), len(snap.Texts))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tVISIBLE\tLOCKED\tOPACITY\tSTROKES")
	layers := eng.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		mark := ""
		if l.Active {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%t\t%s\t%d\n",
			mark, l.ID, l.Name, l.Visible, l.Locked, strconv.FormatFloat(l.Opacity, 'f', -1, 64), l.Strokes)
	}
	for _, t := range eng.Texts() {
		fmt.Fprintf(tw, "\t%s\ttext %q\tat %g,%g\t\t\t\n", t.ID, t.Text, t.Position.X, t.Position.Y)
	}
	return tw.Flush()
}
