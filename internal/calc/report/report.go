// Package report renders fastener load distribution results as PDF.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"Strut/internal/calc/hsb21030"

	"github.com/phpdave11/gofpdf"
)

type Meta struct {
	Project string    `json:"project"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Notes   string    `json:"notes"`
	Date    time.Time `json:"date"`
}

var columns = []struct {
	title string
	width float64
}{
	{"Fastener", 30}, {"Y", 16}, {"Z", 16}, {"Fsy", 20}, {"Fsz", 20},
	{"Fs", 20}, {"Ft", 20}, {"RFs", 16}, {"RFt", 16}, {"Tension", 16},
}

// Render writes a one-result report: header, loads, centroids, the per
// fastener table and the compression note.
func Render(w io.Writer, meta Meta, res hsb21030.Response) error {
	if meta.Title == "" {
		meta.Title = "Fastener Load Distribution HSB 21030-01"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, false)
	pdf.SetAuthor(meta.Author, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(format string, args ...any) {
		pdf.Cell(0, 6, fmt.Sprintf(format, args...))
		pdf.Ln(6)
	}
	line("Project: %s", meta.Project)
	line("Author: %s", meta.Author)
	line("Date: %s", meta.Date.Format("2006-01-02"))
	if res.RunID != "" {
		line("Run: %s", res.RunID)
	}
	line("Calculation: %s  Group: %s  Case: %s", res.Name, res.Group, res.Case)
	pdf.Ln(4)

	heading(pdf, "Loads")
	line("Moments at reference point: Mx = %.1f  My = %.1f  Mz = %.1f", res.MomentsU.X, res.MomentsU.Y, res.MomentsU.Z)
	line("Moments at centroids: MxS = %.1f  MyS = %.1f  MzS = %.1f", res.MomentXS, res.MomentYS, res.MomentZS)
	line("Principal axes: alpha = %.4f rad  MyA = %.1f  MzA = %.1f", res.Alpha, res.MomentYA, res.MomentZA)
	pdf.Ln(4)

	heading(pdf, "Centroids")
	line("Shear: yS = %.2f  zS = %.2f", res.Cogs.YS, res.Cogs.ZS)
	line("Tension: yT = %.2f  zT = %.2f", res.Cogs.YT, res.Cogs.ZT)
	pdf.Ln(4)

	heading(pdf, "Fasteners")
	table(pdf, res.Fasteners)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	line("Minimum RF shear: %s  tension: %s", rf(res.MinRFShear), rf(res.MinRFTension))
	if res.Iterations > 0 {
		line("Compression iterations: %d", res.Iterations)
	}
	pdf.MultiCell(0, 6, res.Notes, "", "L", false)
	if meta.Notes != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 6, meta.Notes, "", "L", false)
	}
	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, s)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func table(pdf *gofpdf.Fpdf, rows []hsb21030.FastenerResult) {
	pdf.SetFont("Helvetica", "B", 9)
	for _, c := range columns {
		pdf.CellFormat(c.width, 6, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		name := r.Name
		if r.Dummy {
			name += " *"
		}
		state := "yes"
		if !r.InTension {
			state = "no"
		}
		cells := []string{
			name,
			num(r.Y, 1), num(r.Z, 1),
			num(r.Fsy, 1), num(r.Fsz, 1), num(r.ShearForce, 1), num(r.TensionForce, 1),
			rf(r.RFShear), rf(r.RFTension), state,
		}
		for i, c := range columns {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func num(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.*f", prec, v)
}

func rf(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
