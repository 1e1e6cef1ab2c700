package label

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

// Sheet geometry in millimetres.
const (
	TileWidth   = 58.0
	TileHeight  = 35.0
	Margin      = 5.0
	TilesPerRow = 3

	pageHeight = 297.0
	pxToPt     = 0.75
)

// Placement is where one printed tile lands.
type Placement struct {
	Page int
	X, Y float64
}

// Layout places n tiles on A4 pages: rows of TilesPerRow, starting a new page
// when the next row would cross the bottom margin.
func Layout(n int) []Placement {
	out := make([]Placement, 0, n)

	page, x, y := 1, Margin, Margin

	for i := range n {
		if i > 0 && i%TilesPerRow == 0 {
			x = Margin
			y += TileHeight + Margin

			if y+TileHeight > pageHeight-Margin {
				page++
				y = Margin
			}
		}

		out = append(out, Placement{Page: page, X: x, Y: y})
		x += TileWidth + Margin
	}

	return out
}

// SheetPDF writes the tiles, each repeated by its copy count, as an A4 PDF.
func SheetPDF(w io.Writer, tiles []Tile, s settings.Settings) error {
	var expanded []Tile

	for _, t := range tiles {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("label for %q: %w", t.Product.Name, err)
		}

		for range t.copies() {
			expanded = append(expanded, t)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Etiquetas", true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	logoFormat, logo, hasLogo := s.LogoImage()
	if hasLogo {
		pdf.RegisterImageOptionsReader("logo", gofpdf.ImageOptions{ImageType: logoFormat}, bytes.NewReader(logo))
		hasLogo = !pdf.Err()

		if !hasLogo {
			pdf.ClearError()
		}
	}

	page := 0

	for i, pl := range Layout(len(expanded)) {
		if pl.Page != page {
			pdf.AddPage()
			page = pl.Page
		}

		t := expanded[i]

		if err := drawTile(pdf, tr, t, pl, hasLogo); err != nil {
			return err
		}
	}

	if page == 0 {
		pdf.AddPage()
	}

	return pdf.Output(w)
}

func drawTile(pdf *gofpdf.Fpdf, tr func(string) string, t Tile, pl Placement, hasLogo bool) error {
	x, y := pl.X, pl.Y

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, TileWidth, TileHeight, "D")

	if hasLogo {
		pdf.ImageOptions("logo", x+2, y+2, 12, 4, false, gofpdf.ImageOptions{}, 0, "")
	}

	if t.Variant == VariantPromo {
		pdf.SetFillColor(220, 38, 38)
		pdf.Rect(x+TileWidth-16, y+1.5, 14.5, 4, "F")
		pdf.SetFont("Helvetica", "B", 6)
		pdf.SetTextColor(255, 255, 255)
		pdf.Text(x+TileWidth-14.8, y+4.4, "OFERTA")
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)

	nameY := y + 4
	if hasLogo {
		nameY = y + 8
	}

	lines := pdf.SplitLines([]byte(tr(t.Product.Name)), TileWidth-4)
	for i, line := range lines[:min(len(lines), 2)] {
		pdf.Text(x+2, nameY+float64(i)*3, string(line))
	}

	if t.BarcodeValid() {
		if err := drawBarcode(pdf, t, x, y); err != nil {
			return err
		}
	} else {
		pdf.SetFont("Helvetica", "", 5)
		pdf.SetTextColor(255, 0, 0)
		pdf.Text(x+2, y+TileHeight-8, tr(InvalidCodeText))
	}

	drawPrice(pdf, tr, t, x, y)

	return nil
}

func drawBarcode(pdf *gofpdf.Fpdf, t Tile, x, y float64) error {
	code, err := Complete(t.Product.Barcode)
	if err != nil {
		return err
	}

	img, err := BarcodePNG(code[:12], 380, 80)
	if err != nil {
		return err
	}

	name := "ean-" + code
	if pdf.GetImageInfo(name) == nil {
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img))
	}

	barY := y + TileHeight - 17
	pdf.ImageOptions(name, x+3, barY, TileWidth-6, 7, false, gofpdf.ImageOptions{}, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(x+TileWidth/2-pdf.GetStringWidth(code)/2, barY+9.5, code)

	return nil
}

func drawPrice(pdf *gofpdf.Fpdf, tr func(string) string, t Tile, x, y float64) {
	price := t.Price()
	baseline := y + TileHeight - 3

	pdf.SetTextColor(0, 0, 0)

	if t.Variant != VariantPromo {
		pdf.SetFont("Helvetica", "B", PriceFontSize(price)*pxToPt)
		text := tr(price.String())
		pdf.Text(x+TileWidth/2-pdf.GetStringWidth(text)/2, baseline, text)

		return
	}

	old := tr(t.Product.Price.String())

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(110, 110, 110)
	pdf.Text(x+2, baseline, old)

	oldWidth := pdf.GetStringWidth(old)
	pdf.SetDrawColor(110, 110, 110)
	pdf.Line(x+2, baseline-1, x+2+oldWidth, baseline-1)

	text := tr(price.String())

	pdf.SetFont("Helvetica", "B", PriceFontSize(price)*pxToPt)
	pdf.SetTextColor(220, 38, 38)
	pdf.Text(x+TileWidth-2-pdf.GetStringWidth(text), baseline, text)
}
