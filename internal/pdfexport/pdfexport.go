// Package pdfexport writes a writing pad snapshot as a single-page vector PDF.
//
// PDF has no layer-local erase, so eraser strokes are left out; everything
// they covered is exported as drawn.
package pdfexport

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/writingpad/internal/document"
)

// Options tweaks the generated file.
type Options struct {
	Title string
	// Created is stamped into the document info; zero means now.
	Created time.Time
}

// Write renders snap onto one page sized to the canvas, one point per
// logical unit, and writes the PDF to w.
func Write(w io.Writer, snap document.Snapshot, opts Options) error {
	if !(snap.Width > 0 && snap.Height > 0) {
		return document.ErrInvalidSize
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: snap.Width, Ht: snap.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("writingpad", false)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if !opts.Created.IsZero() {
		pdf.SetCreationDate(opts.Created)
	}
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	for _, l := range snap.Layers {
		if !l.Visible || l.Opacity <= 0 {
			continue
		}
		for _, s := range l.Strokes {
			if s.Tool == document.ToolEraser {
				continue
			}
			drawStroke(pdf, s, l.Opacity)
		}
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range snap.Texts {
		family, style := fontFor(t.FontFamily)
		pdf.SetAlpha(1, "Normal")
		pdf.SetFont(family, style, t.FontSize)
		pdf.SetTextColor(int(t.Color.R), int(t.Color.G), int(t.Color.B))
		pdf.Text(t.Position.X, t.Position.Y, tr(t.Text))
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

func drawStroke(pdf *gofpdf.Fpdf, s document.Stroke, layerOpacity float64) {
	if len(s.Points) == 0 || s.Width <= 0 {
		return
	}
	alpha := float64(s.Color.A) / 255 * s.Opacity * layerOpacity
	if alpha <= 0 {
		return
	}
	pdf.SetAlpha(alpha, "Normal")
	r, g, b := int(s.Color.R), int(s.Color.G), int(s.Color.B)
	if len(s.Points) == 1 {
		pdf.SetFillColor(r, g, b)
		pdf.Circle(s.Points[0].X, s.Points[0].Y, s.Width/2, "F")
		return
	}
	pdf.SetDrawColor(r, g, b)
	pdf.SetLineWidth(s.Width)
	pdf.MoveTo(s.Points[0].X, s.Points[0].Y)
	for _, p := range s.Points[1:] {
		pdf.LineTo(p.X, p.Y)
	}
	pdf.DrawPath("D")
}

// fontFor picks the closest of the PDF core fonts.
func fontFor(family string) (string, string) {
	f := strings.ToLower(family)
	style := ""
	if strings.Contains(f, "bold") {
		style = "B"
	}
	if strings.Contains(f, "mono") || strings.Contains(f, "courier") || strings.Contains(f, "code") {
		return "Courier", style
	}
	return "Helvetica", style
}
