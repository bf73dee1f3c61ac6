//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// WritePNG publishes already encoded PNG data.
func WritePNG(data []byte) (<-chan struct{}, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return clipboard.Write(clipboard.FmtImage, data), nil
}

// WriteText publishes UTF-8 text, such as a portable document.
func WriteText(text string) (<-chan struct{}, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return clipboard.Write(clipboard.FmtText, []byte(text)), nil
}
