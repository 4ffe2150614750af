// Package passpdf renders an approved visitor record into the printable
// e-pass document. The same layout drives both the email-attachment path
// (in-memory buffer) and the direct-download path (streamed to the response).
package passpdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"visitor-pass/models/visitor"

	"github.com/jung-kurt/gofpdf"
)

// instructions is the fixed policy block printed on every pass.
var instructions = []string{
	"-> You are not allowed to work inside plant with this Pass.",
	"-> Fold paper as marked in dotted line.",
	"-> Pass valid for specified date/time.",
	"-> Non-transferable and for declared purpose only.",
	"-> No persons under 18 years.",
	"-> No photography inside premises.",
	"-> You are responsible for your own safety and belongings.",
	"-> Host to provide PPE and safety briefing.",
	"-> Host must sign pass post-visit.",
	"-> Pass must be returned at gate.",
	"-> Material/documents must be declared for approval.",
}

// Config holds the static inputs of the renderer.
type Config struct {
	OrgName        string
	BackgroundPath string // optional full-page background image
	LogoPath       string // optional logo, fixed position top-right
}

// Renderer converts visitor records into PDF passes. It is stateless and
// safe for concurrent use.
type Renderer struct {
	cfg Config
}

// New creates a Renderer. Missing asset files are dropped up front so the
// layout can degrade gracefully instead of failing mid-render.
func New(cfg Config) *Renderer {
	if cfg.OrgName == "" {
		cfg.OrgName = "TRF Ltd"
	}
	if cfg.BackgroundPath != "" {
		if _, err := os.Stat(cfg.BackgroundPath); err != nil {
			cfg.BackgroundPath = ""
		}
	}
	if cfg.LogoPath != "" {
		if _, err := os.Stat(cfg.LogoPath); err != nil {
			cfg.LogoPath = ""
		}
	}
	return &Renderer{cfg: cfg}
}

// Render produces the complete pass document as an in-memory buffer,
// suitable for attaching to an email.
func (r *Renderer) Render(v *visitor.Visitor) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(v, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo streams the pass document to w.
func (r *Renderer) RenderTo(v *visitor.Visitor, w io.Writer) error {
	pdf := r.build(v)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pass %s: %w", v.PassNumber, err)
	}
	return nil
}

// build lays out the document: background, logo, title block, field table,
// photo, instructions, validity line and signature placeholders.
func (r *Renderer) build(v *visitor.Visitor) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	if r.cfg.BackgroundPath != "" {
		pdf.ImageOptions(r.cfg.BackgroundPath, 0, 0, pageW, pageH, false,
			gofpdf.ImageOptions{}, 0, "")
	}
	if r.cfg.LogoPath != "" {
		pdf.ImageOptions(r.cfg.LogoPath, 160, 8, 35, 0, false,
			gofpdf.ImageOptions{}, 0, "")
	}

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 7, tr(r.cfg.OrgName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "Visitor E-Pass", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range fieldRows(v) {
		pdf.CellFormat(0, 6, tr(row[0]+": "+row[1]), "", 1, "L", false, 0, "")
	}

	r.drawPhoto(pdf, v)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "U", 16)
	pdf.CellFormat(0, 8, "Instructions:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range instructions {
		pdf.MultiCell(0, 6, tr("• "+line), "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("* This pass is valid for %s", v.VisitDate)), "", 1, "L", false, 0, "")
	pdf.Ln(8)
	pdf.CellFormat(90, 6, "Visitor Signature", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Host Signature", "", 1, "R", false, 0, "")

	return pdf
}

// fieldRows returns the pass field table in its fixed print order. Optional
// fields absent from the record render as the literal placeholder "N/A".
func fieldRows(v *visitor.Visitor) [][2]string {
	return [][2]string{
		{"Pass No", v.PassNumber},
		{"Name", v.Name},
		{"Email", v.Email},
		{"Phone", v.Phone},
		{"Visit Date", v.VisitDate},
		{"Visit Time", valueOr(v.VisitTime)},
		{"End Time", valueOr(v.EndTime)},
		{"Host", v.Host},
		{"Person Type", valueOr(v.PersonType)},
		{"Area of Visit", valueOr(v.VisitArea)},
		{"PPE", valueOr(v.PPE)},
		{"Govt ID", fmt.Sprintf("%s - %s", valueOr(v.GovtIDType), deref(v.GovtIDNumber))},
		{"Laptop No", valueOr(v.LaptopNo)},
		{"Vehicle No", valueOr(v.VehicleNo)},
		{"Purpose", v.Purpose},
	}
}

func valueOr(p *string) string {
	if p == nil || *p == "" {
		return "N/A"
	}
	return *p
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// drawPhoto embeds the webcam capture at a fixed position. Anything that is
// not a decodable embedded-image data URI is omitted silently.
func (r *Renderer) drawPhoto(pdf *gofpdf.Fpdf, v *visitor.Visitor) {
	if v.PhotoData == nil {
		return
	}
	imgType, raw, ok := decodePhoto(*v.PhotoData)
	if !ok {
		return
	}

	name := "visitor-photo-" + v.UID
	pdf.RegisterImageOptionsReader(name,
		gofpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(raw))
	pdf.ImageOptions(name, 150, 75, 35, 0, false, gofpdf.ImageOptions{ImageType: imgType}, 0, "")
}

// decodePhoto parses a base64 data URI and verifies the payload really is an
// image the PDF engine can embed.
func decodePhoto(data string) (imgType string, raw []byte, ok bool) {
	const prefix = "data:image/"
	if !strings.HasPrefix(data, prefix) {
		return "", nil, false
	}
	rest := data[len(prefix):]
	marker := strings.Index(rest, ";base64,")
	if marker < 0 {
		return "", nil, false
	}
	imgType = rest[:marker]
	switch imgType {
	case "png", "jpeg", "jpg", "gif":
	default:
		return "", nil, false
	}

	raw, err := base64.StdEncoding.DecodeString(rest[marker+len(";base64,"):])
	if err != nil {
		return "", nil, false
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return "", nil, false
	}
	return imgType, raw, true
}
