package pdf

import (
	"bytes"
	"fmt"
	"time"

	"naspac/pkg/types"

	"github.com/jung-kurt/gofpdf"
)

// LetterConfig carries the fixed organizational content of the
// job-confirmation letter. Service dates follow convention, not law; the
// defaults give a Nov 1 – Oct 31 service year.
type LetterConfig struct {
	OrgName          string
	SignerName       string
	SignerTitle      string
	AllowanceText    string
	ServiceStartDay  int
	ServiceStart     time.Month
	ServiceEndDay    int
	ServiceEnd       time.Month
	TerminalLeaveMon time.Month
}

func DefaultLetterConfig(orgName, signerName, signerTitle string) LetterConfig {
	return LetterConfig{
		OrgName:          orgName,
		SignerName:       signerName,
		SignerTitle:      signerTitle,
		AllowanceText:    "Seven Hundred and Fifteen Ghana Cedis, Fifty-Seven Pesewas (GHc 715.57)",
		ServiceStartDay:  1,
		ServiceStart:     time.November,
		ServiceEndDay:    31,
		ServiceEnd:       time.October,
		TerminalLeaveMon: time.October,
	}
}

// LetterData is one submission's snapshot for letter composition.
type LetterData struct {
	FullName        string
	PhoneNumber     string
	Division        string
	Department      string
	ReferenceNumber string
	Date            time.Time // render date; also the PDF creation date
	Year            int       // first year of the service range
	Signature       []byte    // required
	Letterhead      []byte    // optional; letter renders without it
}

type LetterRenderer struct {
	config LetterConfig
}

func NewLetterRenderer(config LetterConfig) *LetterRenderer {
	return &LetterRenderer{config: config}
}

// Render composes the job-confirmation letter. A missing signature image
// is a hard precondition failure; a missing letterhead degrades to a
// plain background.
func (r *LetterRenderer) Render(data LetterData) ([]byte, error) {
	if len(data.Signature) == 0 {
		return nil, fmt.Errorf("no signature image for rendering admin: %w", types.ErrPrecondition)
	}

	start := time.Date(data.Year, r.config.ServiceStart, r.config.ServiceStartDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(data.Year+1, r.config.ServiceEnd, r.config.ServiceEndDay, 0, 0, 0, 0, time.UTC)
	yearRange := fmt.Sprintf("%d/%d", data.Year, data.Year+1)

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetCreationDate(data.Date)
	doc.SetMargins(40, 100, 40)
	doc.SetAutoPageBreak(true, 60)
	doc.AddPage()

	if len(data.Letterhead) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		doc.RegisterImageOptionsReader("letterhead", opts, bytes.NewReader(data.Letterhead))
		doc.ImageOptions("letterhead", 0, 0, 595, 0, false, opts, 0, "")
	}

	doc.SetFont("Helvetica", "", 11)

	if data.ReferenceNumber != "" {
		doc.CellFormat(0, 14, fmt.Sprintf("Our Ref: %s", data.ReferenceNumber), "", 1, "R", false, 0, "")
	}
	doc.CellFormat(0, 14, data.Date.Format("02/01/2006"), "", 1, "R", false, 0, "")
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 14, data.FullName, "", 1, "L", false, 0, "")
	doc.CellFormat(0, 14, "NATIONAL SERVICE PERSON", "", 1, "L", false, 0, "")
	doc.Ln(6)
	doc.CellFormat(0, 14, fmt.Sprintf("TEL: %s", data.PhoneNumber), "", 1, "L", false, 0, "")
	doc.Ln(10)

	doc.SetFont("Helvetica", "BU", 12)
	doc.CellFormat(0, 16, fmt.Sprintf("APPOINTMENT - NATIONAL SERVICE %s", yearRange), "", 1, "L", false, 0, "")
	doc.Ln(10)

	doc.SetFont("Helvetica", "", 11)
	r.paragraph(doc, fmt.Sprintf(
		"We are pleased to inform you have been accepted to undertake your National Service at the %s Department, %s with effect from %s to %s.",
		data.Department, data.Division,
		start.Format("Monday, January 2, 2006"), end.Format("Monday, January 2, 2006")))

	r.paragraph(doc, fmt.Sprintf(
		"You will be subjected to %s and National Service rules and regulations during your service year.",
		r.config.OrgName))

	r.paragraph(doc, fmt.Sprintf(
		"%s will pay your National Service Allowance of %s per month.",
		r.config.OrgName, r.config.AllowanceText))

	r.paragraph(doc,
		"You will not be covered by the Board's Insurance Scheme during the period of your Service with the Board.")

	r.paragraph(doc,
		"We hope you will work diligently and comport yourself during the period for our mutual benefit.")

	doc.SetFont("Helvetica", "B", 11)
	r.paragraph(doc,
		"Kindly report with your Bank Account Details either on a bank statement, copy of cheque leaflet or pay-in-slip.")
	doc.SetFont("Helvetica", "", 11)

	r.paragraph(doc, fmt.Sprintf(
		"You will be entitled to one (1) month terminal leave in %s %d.",
		r.config.TerminalLeaveMon, data.Year+1))

	r.paragraph(doc,
		"Please report to the undersigned for further directives.\nYou can count on our co-operation.")

	sigOpts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	doc.RegisterImageOptionsReader("signature", sigOpts, bytes.NewReader(data.Signature))
	doc.ImageOptions("signature", doc.GetX(), doc.GetY(), 120, 0, true, sigOpts, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 14, r.config.SignerName, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 14, r.config.SignerTitle, "", 1, "L", false, 0, "")
	doc.Ln(6)
	doc.MultiCell(0, 14, "FOR: DIRECTOR, HUMAN RESOURCE\ncc: Director, Human Resource\nDirector, Finance\nInfo. Systems Manager", "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize job confirmation letter: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *LetterRenderer) paragraph(doc *gofpdf.Fpdf, text string) {
	doc.MultiCell(0, 14, text, "", "L", false)
	doc.Ln(8)
}
