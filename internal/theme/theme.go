package theme

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/example/writingpad/internal/document"
)

// Theme defines the colours of the pad window and the default paper.
type Theme struct {
	Name string

	// Window
	Background document.Color // behind the page
	Foreground document.Color

	// Page
	Paper        document.Color // canvas fill, also the default export background
	Grid         document.Color
	PageShadow   document.Color
	CheckerLight document.Color // shown through transparent paper
	CheckerDark  document.Color

	// Toolbar
	ToolbarBackground     document.Color
	ButtonBackground      document.Color
	ButtonBackgroundHover document.Color
	ButtonActive          document.Color
	ButtonText            document.Color
	ButtonBorder          document.Color

	// Status bar
	StatusBackground document.Color
	StatusText       document.Color
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            document.Color{R: 200, G: 200, B: 200, A: 255},
		Foreground:            document.Color{A: 255},
		Paper:                 document.Color{R: 255, G: 255, B: 255, A: 255},
		Grid:                  document.Color{R: 210, G: 220, B: 235, A: 255},
		PageShadow:            document.Color{A: 80},
		CheckerLight:          document.Color{R: 220, G: 220, B: 220, A: 255},
		CheckerDark:           document.Color{R: 192, G: 192, B: 192, A: 255},
		ToolbarBackground:     document.Color{R: 220, G: 220, B: 220, A: 255},
		ButtonBackground:      document.Color{R: 200, G: 200, B: 200, A: 255},
		ButtonBackgroundHover: document.Color{R: 180, G: 180, B: 180, A: 255},
		ButtonActive:          document.Color{R: 150, G: 170, B: 210, A: 255},
		ButtonText:            document.Color{A: 255},
		ButtonBorder:          document.Color{A: 255},
		StatusBackground:      document.Color{R: 235, G: 235, B: 235, A: 255},
		StatusText:            document.Color{R: 40, G: 40, B: 40, A: 255},
	}
}

var colorType = reflect.TypeOf(document.Color{})

// Set assigns a colour field by case-insensitive name, or Name itself.
// Unknown keys are ignored.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type != colorType || !strings.EqualFold(f.Name, key) {
			continue
		}
		col, err := document.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		val.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}

// Write emits the theme in the "Key: #RRGGBBAA" format Parse reads.
func (t *Theme) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Name: %s\n", t.Name); err != nil {
		return err
	}
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type != colorType {
			continue
		}
		c := val.Field(i).Interface().(document.Color)
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Name, c.Hex()); err != nil {
			return err
		}
	}
	return nil
}
