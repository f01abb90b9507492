// Package pdf lays out an itinerary as a printable A4 document.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"travel-assistant/internal/domain"
)

const (
	ContentType = "application/pdf"

	utf8Family = "itinerary"
	coreFamily = "Helvetica"

	pageMargin = 15.0
	lineHeight = 6.0
)

var (
	bannerColor = [3]int{36, 92, 140}
	accentColor = [3]int{230, 240, 248}
	mutedColor  = [3]int{110, 110, 110}
)

// Section headings printed in the document.
const (
	HeadingStyle          = "旅遊風格"
	HeadingTransportation = "交通建議"
	HeadingBudget         = "預算資訊"
	HeadingReminders      = "注意事項"
)

// Renderer lays out itineraries as A4 PDFs.
type Renderer struct {
	font []byte
	now  func() time.Time
}

type Option func(*Renderer) error

// WithFontFile loads a TTF font with CJK coverage. Without one, text is
// rendered with a Latin core font and unsupported characters are replaced.
func WithFontFile(path string) Option {
	return func(r *Renderer) error {
		if strings.TrimSpace(path) == "" {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("pdf: read font %s: %w", path, err)
		}
		r.font = b
		return nil
	}
}

func WithFontBytes(b []byte) Option {
	return func(r *Renderer) error {
		r.font = b
		return nil
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Renderer) error {
		if now != nil {
			r.now = now
		}
		return nil
	}
}

// New creates a Renderer. See WithFontFile for CJK output.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{now: time.Now}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// HasUnicodeFont reports whether a CJK-capable font was configured.
func (r *Renderer) HasUnicodeFont() bool {
	return len(r.font) > 0
}

// Render returns the encoded PDF for it.
func (r *Renderer) Render(it domain.Itinerary, defaultTitle string) ([]byte, error) {
	if r == nil {
		return nil, errors.New("pdf: renderer not initialized")
	}
	title := strings.TrimSpace(it.Title)
	if title == "" {
		title = defaultTitle
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetCreationDate(r.now())

	w := &writer{doc: doc, text: func(s string) string { return s }, family: coreFamily}
	if r.HasUnicodeFont() {
		doc.AddUTF8FontFromBytes(utf8Family, "", r.font)
		doc.AddUTF8FontFromBytes(utf8Family, "B", r.font)
		w.family = utf8Family
		doc.SetTitle(title, true)
	} else {
		w.text = doc.UnicodeTranslatorFromDescriptor("")
		doc.SetTitle(w.text(title), false)
	}

	doc.SetFooterFunc(func() {
		doc.SetY(-pageMargin + 3)
		w.font("", 8)
		doc.SetTextColor(mutedColor[0], mutedColor[1], mutedColor[2])
		doc.CellFormat(0, 5, fmt.Sprintf("%d", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	w.banner(title, it.Style.String())
	for _, day := range it.Days {
		w.day(day)
	}
	w.section(HeadingTransportation, it.Transportation.String())
	w.section(HeadingBudget, it.BudgetInfo.String())
	w.section(HeadingReminders, it.Reminders.String())

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	doc    *fpdf.Fpdf
	text   func(string) string
	family string
}

func (w *writer) font(style string, size float64) {
	w.doc.SetFont(w.family, style, size)
}

func (w *writer) banner(title, style string) {
	d := w.doc
	d.SetFillColor(bannerColor[0], bannerColor[1], bannerColor[2])
	d.SetTextColor(255, 255, 255)
	w.font("B", 20)
	d.CellFormat(0, 16, w.text(title), "", 1, "C", true, 0, "")
	if style != "" {
		w.font("", 11)
		d.CellFormat(0, 8, w.text(HeadingStyle+": "+style), "", 1, "C", true, 0, "")
	}
	d.SetTextColor(0, 0, 0)
	d.Ln(4)
}

func (w *writer) day(day domain.Day) {
	d := w.doc
	d.SetFillColor(accentColor[0], accentColor[1], accentColor[2])
	w.font("B", 13)
	d.CellFormat(0, 9, w.text(dayHeading(day)), "", 1, "L", true, 0, "")
	d.Ln(1)

	for _, a := range day.Activities {
		head := strings.TrimSpace(strings.Join(nonEmpty(a.Time.String(), a.Place.String()), "  "))
		if head != "" {
			w.font("B", 11)
			d.MultiCell(0, lineHeight, w.text(head), "", "L", false)
		}
		if desc := a.Description.String(); desc != "" {
			w.font("", 10)
			d.MultiCell(0, lineHeight, w.text(desc), "", "L", false)
		}
		if note := a.Note.String(); note != "" {
			w.font("", 9)
			d.SetTextColor(mutedColor[0], mutedColor[1], mutedColor[2])
			d.MultiCell(0, lineHeight-1, w.text("※ "+note), "", "L", false)
			d.SetTextColor(0, 0, 0)
		}
		d.Ln(1.5)
	}
	d.Ln(3)
}

func (w *writer) section(heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	d := w.doc
	w.font("B", 12)
	d.CellFormat(0, 8, w.text(heading), "B", 1, "L", false, 0, "")
	d.Ln(1)
	w.font("", 10)
	d.MultiCell(0, lineHeight, w.text(body), "", "L", false)
	d.Ln(4)
}

// dayHeading renders "第 N 天" for bare numbers and keeps any other label as is.
func dayHeading(day domain.Day) string {
	label := strings.TrimSpace(day.Day.String())
	if label != "" && strings.Trim(label, "0123456789") == "" {
		label = "第 " + label + " 天"
	}
	return strings.Join(nonEmpty(label, day.Date.String(), day.Theme.String()), " | ")
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
