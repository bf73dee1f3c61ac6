package appstate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/writingpad/internal/clipboard"
	"github.com/example/writingpad/internal/compositor"
	"github.com/example/writingpad/internal/engine"
	"github.com/example/writingpad/internal/notify"
	"github.com/example/writingpad/internal/portable"
	"github.com/example/writingpad/internal/theme"
)

const (
	maxInitialWidth  = 1280
	maxInitialHeight = 860
)

// AppState is the interactive pad window around one engine.
type AppState struct {
	eng     *engine.Engine
	openErr error

	initial    *portable.PortableDocument
	engineOpts []engine.Option
	theme      *theme.Theme
	output     string
	scale      float64
	family     string
	notifier   *notify.Notifier

	updateCh chan struct{}
	err      error

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithDocument opens the pad on existing content.
func WithDocument(doc *portable.PortableDocument) Option {
	return func(a *AppState) { a.initial = doc }
}

// WithEngineOptions forwards options to engine.Open.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(a *AppState) { a.engineOpts = append(a.engineOpts, opts...) }
}

// WithOutput sets the portable document path written on save. A PNG is
// written next to it.
func WithOutput(out string) Option { return func(a *AppState) { a.output = out } }

func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.theme = th } }

// WithExportScale sets the raster scale used for saving and copying.
func WithExportScale(s float64) Option { return func(a *AppState) { a.scale = s } }

// WithFontFamily sets the family of new text elements.
func WithFontFamily(f string) Option { return func(a *AppState) { a.family = f } }

func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New opens the engine behind the window. A malformed document does not
// fail: the pad starts on a fresh canvas and OpenError reports why.
func New(opts ...Option) (*AppState, error) {
	a := &AppState{
		scale:    1,
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.theme == nil {
		a.theme = theme.Default()
	}
	if !(a.scale > 0) {
		a.scale = 1
	}
	engOpts := append([]engine.Option{}, a.engineOpts...)
	engOpts = append(engOpts, engine.WithRepaint(a.sceneChanged))
	eng, err := engine.OpenOrFresh(a.initial, engOpts...)
	if eng == nil {
		return nil, err
	}
	if err != nil {
		log.Printf("open document: %v", err)
		a.openErr = err
		a.initial = nil
	}
	a.eng = eng
	return a, nil
}

// Engine returns the engine the window drives.
func (a *AppState) Engine() *engine.Engine { return a.eng }

// OpenError returns the parse error of a rejected initial document.
func (a *AppState) OpenError() error { return a.openErr }

// sceneChanged requests a repaint of the UI when the engine state changes.
func (a *AppState) sceneChanged(compositor.Scene) {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if err := a.eng.Close(); err != nil && !errors.Is(err, engine.ErrClosed) {
			log.Printf("close: %v", err)
		}
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// PNGPath returns the raster export path that accompanies a document path.
func PNGPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".png"
}

// save writes the portable document and its PNG rendering.
func (a *AppState) save() (string, error) {
	if a.output == "" {
		return "", errors.New("no output path, start the pad with -output")
	}
	res, err := a.eng.Save(a.scale)
	if err != nil {
		return "", err
	}
	data, err := portable.Marshal(res.Portable)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(a.output, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", a.output, err)
	}
	png := PNGPath(a.output)
	if png != a.output {
		if err := os.WriteFile(png, res.PNG, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", png, err)
		}
	}
	a.notifier.Save(png)
	return a.output, nil
}

func (a *AppState) copyImage() error {
	data, err := a.eng.ExportRaster(a.scale)
	if err != nil {
		return err
	}
	if _, err := clipboard.WritePNG(data); err != nil {
		return err
	}
	a.notifier.Copy("drawing")
	return nil
}

func (a *AppState) copyDocument() error {
	doc, err := a.eng.Serialize()
	if err != nil {
		return err
	}
	data, err := portable.Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := clipboard.WriteText(string(data)); err != nil {
		return err
	}
	a.notifier.Copy("document")
	return nil
}

// Run opens the window and blocks until it is closed.
func (a *AppState) Run() error {
	driver.Main(a.Main)
	return a.err
}

// sizeToolbar widens the toolbar so no tool label is clipped.
func sizeToolbar() {
	max := measureLabel(appTitle) + 8
	for _, tl := range toolLabels {
		if w := measureLabel(tl.label) + 8; w > max {
			max = w
		}
	}
	if max > toolbarWidth {
		toolbarWidth = max
	}
}

func initialWindow(width, height float64) (int, int) {
	w := int(width)
	if w > maxInitialWidth {
		w = maxInitialWidth
	}
	h := int(height)
	if h > maxInitialHeight {
		h = maxInitialHeight
	}
	return w + toolbarWidth + layerPanelWidth, h + statusHeight
}

func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()

	sizeToolbar()
	p := newPad(a.eng, a.theme)
	p.family = a.family
	p.save = a.save
	p.copyImage = a.copyImage
	p.copyDocument = a.copyDocument
	if a.openErr != nil {
		p.flash("document rejected, started fresh")
	}

	snap := a.eng.Snapshot()
	width, height := initialWindow(snap.Width, snap.Height)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: appTitle})
	if err != nil {
		a.err = fmt.Errorf("new window: %w", err)
		return
	}
	defer w.Release()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		pt := newPainter()
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, pt, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	fitted := a.initial != nil
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			p.resize(e.WidthPx, e.HeightPx)
			if !fitted {
				fitted = true
				p.fit()
			}
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := p.paintState()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if p.pointer(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if p.keyPress(e) {
				w.Send(paint.Event{})
			}
			if p.quit {
				stopPaint()
				return
			}
		case error:
			log.Print(e)
		}
	}
}
