//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce sync.Once
	initErr  error
	owner    *selectionOwner
)

// ensureInit connects to the X server. Without cgo there is no Wayland
// path, so a Wayland-only session is reported as having no display.
func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		o, err := newSelectionOwner()
		if err != nil {
			initErr = fmt.Errorf("connect to X server: %w", err)
			return
		}
		owner = o
	})
	return initErr
}

// WritePNG publishes already encoded PNG data.
func WritePNG(data []byte) (<-chan struct{}, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return owner.publish(map[xproto.Atom][]byte{owner.atoms.png: data})
}

// WriteText publishes UTF-8 text, such as a portable document.
func WriteText(text string) (<-chan struct{}, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	b := []byte(text)
	return owner.publish(map[xproto.Atom][]byte{
		owner.atoms.utf8:      b,
		xproto.AtomString:     b,
		owner.atoms.textPlain: b,
		owner.atoms.json:      b,
	})
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	json      xproto.Atom
}

// selectionOwner holds the CLIPBOARD selection for a hidden window and
// answers conversion requests from other clients.
type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu       sync.Mutex
	payloads map[xproto.Atom][]byte
	lost     chan struct{}
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	o := &selectionOwner{conn: conn, window: window, atoms: atoms}
	go o.serve()
	return o, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", MIMEPortable}
	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, n := range names {
		cookies[i] = xproto.InternAtom(conn, false, uint16(len(n)), n)
	}
	got := make([]xproto.Atom, len(names))
	for i, c := range cookies {
		reply, err := c.Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", names[i], err)
		}
		got[i] = reply.Atom
	}
	return atomSet{
		clipboard: got[0],
		targets:   got[1],
		utf8:      got[2],
		textPlain: got[3],
		png:       got[4],
		json:      got[5],
	}, nil
}

// publish replaces the served data and claims the selection. The returned
// channel closes when the data is replaced or another client takes over.
func (o *selectionOwner) publish(payloads map[xproto.Atom][]byte) (<-chan struct{}, error) {
	lost := make(chan struct{})
	o.mu.Lock()
	if o.lost != nil {
		close(o.lost)
	}
	o.payloads = payloads
	o.lost = lost
	o.mu.Unlock()
	if err := xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms.clipboard, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	return lost, nil
}

func (o *selectionOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.payloads = nil
			if o.lost != nil {
				close(o.lost)
				o.lost = nil
			}
			o.mu.Unlock()
		}
	}
}

func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	o.mu.Lock()
	payloads := o.payloads
	o.mu.Unlock()

	if e.Target == o.atoms.targets {
		targets := []xproto.Atom{o.atoms.targets}
		for atom := range payloads {
			targets = append(targets, atom)
		}
		buf := make([]byte, len(targets)*4)
		for i, a := range targets {
			xgb.Put32(buf[i*4:], uint32(a))
		}
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, xproto.AtomAtom, 32, uint32(len(targets)), buf)
	} else if data, ok := payloads[e.Target]; ok {
		typ := e.Target
		if typ == xproto.AtomString || typ == o.atoms.textPlain {
			typ = o.atoms.utf8
		}
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, typ, 8, uint32(len(data)), data)
	} else {
		property = xproto.AtomNone
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(o.conn, false, e.Requestor, 0, string(notify.Bytes()))
}
