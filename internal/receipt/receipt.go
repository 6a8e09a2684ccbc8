// Package receipt renders the pre-registration receipt PDF.
package receipt

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/go-pdf/fpdf"
)

// Data is everything printed on a receipt.
type Data struct {
	EventTitle  string
	DateDisplay string
	Location    string
	Name        string
	Email       string
	Phone       string
	Company     string
	GeneratedAt time.Time
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename returns Comprovativo-<name with whitespace runs as dashes>.pdf.
func Filename(name string) string {
	return "Comprovativo-" + whitespace.ReplaceAllString(name, "-") + ".pdf"
}

// Render writes the receipt for d to w.
func Render(w io.Writer, d Data) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetTitle("Comprovativo de Inscrição", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// header
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(74, 144, 217)
	pdf.Text(20, 40, tr("Comprovativo de Inscrição"))
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, 45, 190, 45)

	section := func(y float64, title string) {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(20, y, tr(title))
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(80, 80, 80)
	}

	section(60, "Detalhes do Evento")
	pdf.Text(20, 70, tr("Evento: "+d.EventTitle))
	pdf.Text(20, 80, tr("Data: "+d.DateDisplay))
	if d.Location != "" {
		pdf.Text(20, 90, tr("Local: "+d.Location))
	}

	section(110, "Dados do Participante")
	pdf.Text(20, 120, tr("Nome: "+d.Name))
	pdf.Text(20, 130, tr("Email: "+d.Email))
	if d.Phone != "" {
		pdf.Text(20, 140, tr("Telefone: "+d.Phone))
	}
	if d.Company != "" {
		pdf.Text(20, 150, tr("Empresa: "+d.Company))
	}

	generated := d.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(150, 150, 150)
	pdf.Text(20, 180, tr("Este documento serve como comprovativo de sua pré-inscrição."))
	pdf.Text(20, 185, tr("Gerado em: "+generated.Format("02/01/2006 15:04:05")))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}
