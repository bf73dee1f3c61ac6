package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/writingpad/internal/engine"
	"github.com/example/writingpad/internal/portable"
)

func readDocument(path string) (*portable.PortableDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := portable.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &doc, nil
}

func writeDocument(path string, doc portable.PortableDocument) error {
	data, err := portable.Marshal(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// openEngine loads path into a fresh engine configured from r.
func (r *root) openEngine(path string, extra ...engine.Option) (*engine.Engine, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	eng, err := engine.Open(doc, append(r.engineOptions(), extra...)...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return eng, nil
}

// saveEngine writes the engine's document to path and reports it.
func (r *root) saveEngine(eng *engine.Engine, path string) error {
	doc, err := eng.Serialize()
	if err != nil {
		return err
	}
	if err := writeDocument(path, doc); err != nil {
		return err
	}
	r.reportSaved(path)
	return nil
}

func (r *root) reportSaved(path string) {
	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	r.notifySave(saved)
}
