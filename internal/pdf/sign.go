// Package pdf implements the two document pipelines: stamping an
// endorsement (signature, stamp, date) onto an existing letter, and
// composing the job-confirmation letter from structured fields.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"naspac/pkg/types"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// MinSignaturePages is the minimum page count for the full signing flow:
// the signature block lands on page 3 and the contact overlay on page 4.
const MinSignaturePages = 4

const (
	signaturePage = "3"
	contactPage   = "4"

	dateStampDesc = "points:12, pos:c, off:-50 95, fillc:#000000, rot:0, op:1"
	signatureDesc = "pos:c, off:0 10, scale:0.17 abs, rot:0, op:1"
	stampDesc     = "pos:c, off:0 10, scale:0.17 abs, rot:0, op:0.85"
	headerDesc    = "points:12, pos:c, off:0 95, fillc:#000000, rot:0, op:1"
	contactDesc   = "points:12, pos:c, off:0 22, fillc:#000000, rot:0, op:1"
)

// OrgContact is the fixed organizational text overlaid on the page after
// the signature block.
type OrgContact struct {
	Name         string
	Email        string
	PhonePrimary string
	PhoneAlt     string
}

// SignRequest carries everything needed to endorse one letter.
type SignRequest struct {
	Source         []byte
	Signature      []byte
	Stamp          []byte
	SubmissionDate time.Time
}

type Signer struct {
	org  OrgContact
	conf *model.Configuration
}

func NewSigner(org OrgContact) *Signer {
	return &Signer{
		org:  org,
		conf: model.NewDefaultConfiguration(),
	}
}

// Sign stamps the submission date, signature and stamp images onto the
// signature page and the organizational contact block onto the following
// page, returning the serialized result. The input is never mutated.
func (s *Signer) Sign(req SignRequest) ([]byte, error) {
	pages, err := api.PageCount(bytes.NewReader(req.Source), s.conf)
	if err != nil {
		return nil, fmt.Errorf("read source pdf: %w", err)
	}
	if pages < MinSignaturePages {
		return nil, fmt.Errorf("appointment letter must have at least %d pages, got %d: %w",
			MinSignaturePages, pages, types.ErrPrecondition)
	}
	if len(req.Signature) == 0 || len(req.Stamp) == 0 {
		return nil, fmt.Errorf("signature and stamp images are required: %w", types.ErrPrecondition)
	}

	out := req.Source

	date := req.SubmissionDate.Format("01/02/06")
	out, err = s.applyText(out, signaturePage, date, dateStampDesc)
	if err != nil {
		return nil, fmt.Errorf("stamp submission date: %w", err)
	}

	out, err = s.applyImage(out, signaturePage, req.Signature, signatureDesc)
	if err != nil {
		return nil, fmt.Errorf("embed signature image: %w", err)
	}

	out, err = s.applyImage(out, signaturePage, req.Stamp, stampDesc)
	if err != nil {
		return nil, fmt.Errorf("embed stamp image: %w", err)
	}

	out, err = s.applyText(out, contactPage, s.org.Name, headerDesc)
	if err != nil {
		return nil, fmt.Errorf("overlay organization header: %w", err)
	}

	contact := fmt.Sprintf("%s\n%s\n%s", s.org.Email, s.org.PhonePrimary, s.org.PhoneAlt)
	out, err = s.applyText(out, contactPage, contact, contactDesc)
	if err != nil {
		return nil, fmt.Errorf("overlay organization contact: %w", err)
	}

	return out, nil
}

func (s *Signer) applyText(src []byte, page, text, desc string) ([]byte, error) {
	wm, err := api.TextWatermark(text, desc, true, false, pdftypes.POINTS)
	if err != nil {
		return nil, err
	}
	return s.apply(src, page, wm)
}

func (s *Signer) applyImage(src []byte, page string, image []byte, desc string) ([]byte, error) {
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(image), desc, true, false, pdftypes.POINTS)
	if err != nil {
		return nil, err
	}
	return s.apply(src, page, wm)
}

func (s *Signer) apply(src []byte, page string, wm *model.Watermark) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(src), &buf, []string{page}, wm, s.conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
