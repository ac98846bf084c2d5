package certificate

import (
	"strings"

	"github.com/go-pdf/fpdf"
)

// Cursor ведёт текущую позицию y на странице и переносит вывод на новую
// страницу, когда места не хватает.
type Cursor struct {
	pdf       *fpdf.Fpdf
	margin    float64
	threshold float64
	pageW     float64
	pageH     float64
	Y         float64
}

func NewCursor(pdf *fpdf.Fpdf, margin, threshold float64) *Cursor {
	w, h := pdf.GetPageSize()
	return &Cursor{
		pdf:       pdf,
		margin:    margin,
		threshold: threshold,
		pageW:     w,
		pageH:     h,
		Y:         margin,
	}
}

// Width is the printable width between the side margins.
func (c *Cursor) Width() float64 { return c.pageW - 2*c.margin }

// NewPageIfNeeded starts a new page when a block of height h would cross the
// bottom threshold. It reports whether a page was added.
func (c *Cursor) NewPageIfNeeded(h float64) bool {
	if c.Y+h <= c.pageH-c.threshold {
		return false
	}
	c.pdf.AddPage()
	c.Y = c.margin
	return true
}

func (c *Cursor) Gap(h float64) { c.Y += h }

func (c *Cursor) Text(s string, size float64, style string) {
	lh := lineHeight(size)
	c.NewPageIfNeeded(lh)
	c.pdf.SetFont(fontFamily, style, size)
	c.pdf.SetXY(c.margin, c.Y)
	c.pdf.CellFormat(c.Width(), lh, s, "", 0, "L", false, 0, "")
	c.Y += lh
}

// WrappedText prints s word-wrapped to the printable width; line breaks in s start new paragraphs.
func (c *Cursor) WrappedText(s string, size float64, style string) {
	c.pdf.SetFont(fontFamily, style, size)
	lh := lineHeight(size)
	for _, line := range c.wrap(s, c.Width()) {
		c.NewPageIfNeeded(lh)
		c.pdf.SetFont(fontFamily, style, size)
		c.pdf.SetXY(c.margin, c.Y)
		c.pdf.CellFormat(c.Width(), lh, line, "", 0, "L", false, 0, "")
		c.Y += lh
	}
}

type Column struct {
	Title string
	// Share of the printable width.
	Share float64
	Align string
}

// Table prints a header row and rows with alternating shading. The header is
// repeated at the top of every continuation page.
func (c *Cursor) Table(cols []Column, rows [][]string) {
	const rowH = 8.0
	widths := make([]float64, len(cols))
	for i, col := range cols {
		widths[i] = c.Width() * col.Share
	}

	header := func() {
		c.pdf.SetFont(fontFamily, "B", 11)
		c.pdf.SetFillColor(30, 58, 138)
		c.pdf.SetTextColor(255, 255, 255)
		c.pdf.SetXY(c.margin, c.Y)
		for i, col := range cols {
			c.pdf.CellFormat(widths[i], rowH, col.Title, "", 0, col.Align, true, 0, "")
		}
		c.pdf.SetTextColor(0, 0, 0)
		c.Y += rowH
	}

	c.NewPageIfNeeded(2 * rowH)
	header()
	c.pdf.SetFont(fontFamily, "", 10)
	for n, row := range rows {
		if c.NewPageIfNeeded(rowH) {
			header()
			c.pdf.SetFont(fontFamily, "", 10)
		}
		if n%2 == 0 {
			c.pdf.SetFillColor(238, 242, 247)
		} else {
			c.pdf.SetFillColor(255, 255, 255)
		}
		c.pdf.SetXY(c.margin, c.Y)
		for i := range cols {
			cell := ""
			if i < len(row) {
				cell = c.fit(row[i], widths[i]-2)
			}
			c.pdf.CellFormat(widths[i], rowH, cell, "", 0, cols[i].Align, true, 0, "")
		}
		c.Y += rowH
	}
}

// wrap splits s into lines no wider than w in the current font.
func (c *Cursor) wrap(s string, w float64) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if line != "" && c.pdf.GetStringWidth(candidate) > w {
				out = append(out, line)
				line = word
				continue
			}
			line = candidate
		}
		out = append(out, c.fit(line, w))
	}
	return out
}

// fit cuts s with an ellipsis when it is wider than w.
func (c *Cursor) fit(s string, w float64) string {
	if c.pdf.GetStringWidth(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		t := string(r) + "..."
		if c.pdf.GetStringWidth(t) <= w {
			return t
		}
	}
	return ""
}

func lineHeight(size float64) float64 { return size * 0.5 }
