package services

import (
	"bytes"
	"fmt"
	"strings"

	"charterdesk/internal/domain"
	"charterdesk/internal/pricing"
	"charterdesk/internal/repositories"
	"charterdesk/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders quote proposals and invoices as PDFs.
type DocsService struct {
	QuoteRepo    repositories.QuoteRepository
	AircraftRepo repositories.AircraftRepository
	RequestID    string

	// Loader overrides document data assembly in tests.
	Loader func(int64) (quoteDocData, error)
}

type quoteDocData struct {
	Quote      domain.Quote
	Option     domain.QuoteOption
	TailNumber string
	ModelName  string
	Spec       domain.EffectiveAircraftSpec
	Totals     pricing.QuoteTotals
}

func (s DocsService) GenerateProposal(quoteID int64) ([]byte, string, error) {
	data, err := s.loadQuoteDocData(quoteID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_proposal", fmt.Sprintf("quote_id=%d", quoteID))
	return buildQuotePDF(data, "CHARTER PROPOSAL", fmt.Sprintf("PROPOSAL_%d.pdf", data.Quote.ID))
}

func (s DocsService) GenerateInvoice(quoteID int64) ([]byte, string, error) {
	data, err := s.loadQuoteDocData(quoteID)
	if err != nil {
		return nil, "", err
	}
	if !data.Quote.Published() {
		return nil, "", domain.ConflictError{Resource: "quote", Msg: "invoice requires a published quote"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("quote_id=%d", quoteID))
	return buildQuotePDF(data, "INVOICE", fmt.Sprintf("INVOICE_%d.pdf", data.Quote.ID))
}

func (s DocsService) loadQuoteDocData(quoteID int64) (quoteDocData, error) {
	if s.Loader != nil {
		return s.Loader(quoteID)
	}

	var out quoteDocData
	q, err := s.QuoteRepo.GetByID(quoteID)
	if err != nil {
		return out, err
	}
	out.Quote = q

	opt := q.SelectedOption()
	if opt == nil {
		return out, domain.ValidationError{Field: "selectedOptionId", Msg: "quote has no selected option"}
	}
	out.Option = *opt

	if opt.AircraftID > 0 {
		if tail, err := s.AircraftRepo.GetTailByID(opt.AircraftID); err == nil {
			out.TailNumber = tail.TailNumber
			var model *domain.AircraftModel
			if m, err := s.AircraftRepo.GetModelByID(tail.ModelID); err == nil {
				model = &m
				out.ModelName = m.Name
			}
			out.Spec = domain.ResolveEffectiveSpec(model, &tail)
		}
	} else if opt.ModelID > 0 {
		if m, err := s.AircraftRepo.GetModelByID(opt.ModelID); err == nil {
			out.ModelName = m.Name
			out.Spec = domain.ResolveEffectiveSpec(&m, nil)
		}
	}

	out.Totals = pricing.ComputeQuoteTotals(*opt, q.Services, q.Taxes, Rules(q))
	return out, nil
}

func buildQuotePDF(d quoteDocData, title, filename string) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Quote #%d", d.Quote.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Date: "+utils.FormatDate(utils.NowUTC()))
	pdf.Ln(6)
	if d.Quote.ExpiresAt != "" {
		pdf.Cell(0, 6, "Valid until: "+d.Quote.ExpiresAt)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Aircraft")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Tail: %s    Model: %s", orDash(d.TailNumber), orDash(d.ModelName)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Seats: %s    Range: %s nm    Cruise: %s kt",
		specInt(d.Spec.Capacity), specFloat(d.Spec.RangeNm), specFloat(d.Spec.SpeedKnots)))
	pdf.Ln(10)

	if len(d.Quote.Legs) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Itinerary")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, leg := range d.Quote.Legs {
			pdf.Cell(0, 6, fmt.Sprintf("%s -> %s   %s   %d pax",
				orDash(leg.Origin), orDash(leg.Destination), orDash(leg.DepartureAt), leg.PassengerCount))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Charges")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Aircraft charter: "+utils.FormatCurrency(d.Totals.AircraftSubtotal))
	pdf.Ln(6)
	for _, svc := range d.Quote.Services {
		pdf.Cell(0, 6, fmt.Sprintf("%s (%g x %s): %s",
			orDash(svc.Name), svc.Quantity, utils.FormatCurrency(svc.UnitPrice), utils.FormatCurrency(svc.Total())))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Subtotal: "+utils.FormatCurrency(d.Totals.Subtotal))
	pdf.Ln(8)

	for _, tax := range d.Quote.Taxes {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %s", orDash(tax.Name), utils.FormatCurrency(tax.Amount)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Tax total: "+utils.FormatCurrency(d.Totals.TaxTotal))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Total: "+utils.FormatCurrency(d.Totals.GrandTotal))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "All charter flights are operated by FAA-certificated air carriers. Amounts shown in USD.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), filename, nil
}

func orDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func specInt(v *int) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", *v)
}

func specFloat(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%g", *v)
}
