package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/writingpad/internal/pdfexport"
)

// pdfCmd writes a document as a vector PDF.
type pdfCmd struct {
	file   string
	output string
	title  string
	*root
	fs *flag.FlagSet
}

func (c *pdfCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parsePDFCmd(args []string, r *root) (*pdfCmd, error) {
	fs := flag.NewFlagSet("pdf", flag.ExitOnError)
	c := &pdfCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "input document")
	fs.StringVar(&c.output, "output", "", "output PDF (defaults to the input with a .pdf extension)")
	fs.StringVar(&c.title, "title", "", "document title (defaults to the file name)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && fs.NArg() > 0 {
		c.file = fs.Arg(0)
	}
	if c.file == "" {
		return nil, &UsageError{of: c}
	}
	base := strings.TrimSuffix(c.file, filepath.Ext(c.file))
	if c.output == "" {
		c.output = base + ".pdf"
	}
	if c.title == "" {
		c.title = filepath.Base(base)
	}
	return c, nil
}

func (c *pdfCmd) Run() error {
	eng, err := c.root.openEngine(c.file)
	if err != nil {
		return err
	}
	defer eng.Close()
	out, err := os.Create(c.output)
	if err != nil {
		return err
	}
	if err := eng.ExportPDF(out, pdfexport.Options{Title: c.title}); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("error closing %q: %v", out.Name(), cerr)
		}
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	c.root.reportSaved(c.output)
	return nil
}
