// Package pricing computes quote totals for charter options. Everything here
// is a pure function of its inputs: no I/O, no shared state, safe to call
// from any handler.
package pricing

import (
	"charterdesk/internal/domain"
	"charterdesk/internal/utils"
)

// DefaultFetRate is the Federal Excise Tax rate applied to the aircraft
// portion of a quote.
const DefaultFetRate = 0.075

// DefaultServiceTaxRate applies to taxable service line items.
const DefaultServiceTaxRate = 0.075

// TaxRules configures rates and mirrors the UI toggle state for the two
// system taxes. The calculator reacts to the toggles, it does not own them.
type TaxRules struct {
	FederalExciseTaxRate    float64 `json:"federalExciseTaxRate"`
	ServiceTaxRate          float64 `json:"serviceTaxRate"`
	FederalExciseTaxEnabled bool    `json:"federalExciseTaxEnabled"`
	ServiceTaxEnabled       bool    `json:"serviceTaxEnabled"`
}

func DefaultTaxRules() TaxRules {
	return TaxRules{
		FederalExciseTaxRate:    DefaultFetRate,
		ServiceTaxRate:          DefaultServiceTaxRate,
		FederalExciseTaxEnabled: true,
		ServiceTaxEnabled:       true,
	}
}

// QuoteTotals keeps every constituent part of the computation individually
// inspectable for display and for generated documents.
type QuoteTotals struct {
	AircraftSubtotal float64 `json:"aircraftSubtotal"`
	ServicesSubtotal float64 `json:"servicesSubtotal"`
	Subtotal         float64 `json:"subtotal"`
	FederalExciseTax float64 `json:"federalExciseTax"`
	ServiceTax       float64 `json:"serviceTax"`
	OtherTaxesTotal  float64 `json:"otherTaxesTotal"`
	TaxTotal         float64 `json:"taxTotal"`
	GrandTotal       float64 `json:"grandTotal"`
}

// ComputeQuoteTotals derives the monetary totals for a quote from its
// selected option, service lines, user-entered tax lines and the tax rules.
// It never errors: missing numeric inputs count as zero. System-managed
// entries accidentally passed in taxes are ignored so the two system taxes
// are never double counted.
func ComputeQuoteTotals(opt domain.QuoteOption, services []domain.ServiceLine, taxes []domain.TaxLine, rules TaxRules) QuoteTotals {
	var t QuoteTotals

	t.AircraftSubtotal = AircraftSubtotal(opt)

	taxableServices := 0.0
	for _, s := range services {
		line := utils.Round2(s.Total())
		t.ServicesSubtotal += line
		if s.IsTaxable() {
			taxableServices += line
		}
	}
	t.ServicesSubtotal = utils.Round2(t.ServicesSubtotal)

	t.Subtotal = utils.Round2(t.AircraftSubtotal + t.ServicesSubtotal)

	if rules.FederalExciseTaxEnabled && t.AircraftSubtotal > 0 {
		t.FederalExciseTax = utils.Round2(t.AircraftSubtotal * rules.FederalExciseTaxRate)
	}

	if rules.ServiceTaxEnabled {
		svcTax := utils.Round2(rules.ServiceTaxRate * taxableServices)
		if svcTax > 0 {
			t.ServiceTax = svcTax
		}
	}

	for _, line := range taxes {
		if line.SystemManaged() {
			continue
		}
		t.OtherTaxesTotal += line.Amount
	}
	t.OtherTaxesTotal = utils.Round2(t.OtherTaxesTotal)

	t.TaxTotal = utils.Round2(t.FederalExciseTax + t.ServiceTax + t.OtherTaxesTotal)
	t.GrandTotal = utils.Round2(t.Subtotal + t.TaxTotal)

	return t
}

// AircraftSubtotal returns the option's aircraft charter total. A stored
// PriceTotal wins when non-zero; otherwise the sum is derived from operator
// cost, commission and (when enabled) the fee list. Both representations
// exist in the data and must not diverge silently, so the fallback order is
// fixed here and nowhere else.
func AircraftSubtotal(opt domain.QuoteOption) float64 {
	if opt.PriceTotal > 0 {
		return utils.Round2(opt.PriceTotal)
	}

	total := opt.OperatorCost + opt.Commission
	if opt.FeesEnabled {
		for _, f := range opt.Fees {
			total += f.Amount
		}
	}
	return utils.Round2(total)
}

// SyncSystemTaxLines reconciles the system-managed tax lines against freshly
// computed totals. Callers invoke it whenever the aircraft subtotal or the
// taxable-services subtotal changes. At most one FET line and one service-tax
// line exist at any time; a disabled or zero tax removes its line entirely
// rather than zeroing it. User-managed lines pass through untouched in their
// original order.
func SyncSystemTaxLines(lines []domain.TaxLine, totals QuoteTotals, rules TaxRules) []domain.TaxLine {
	out := []domain.TaxLine{}

	if rules.FederalExciseTaxEnabled && totals.FederalExciseTax > 0 {
		out = append(out, domain.TaxLine{
			ID:     domain.FetTaxLineID,
			Name:   "Federal Excise Tax",
			Amount: totals.FederalExciseTax,
		})
	}
	if rules.ServiceTaxEnabled && totals.ServiceTax > 0 {
		out = append(out, domain.TaxLine{
			ID:     domain.ServiceTaxLineID,
			Name:   "Tax on Services",
			Amount: totals.ServiceTax,
		})
	}

	for _, line := range lines {
		if line.SystemManaged() {
			continue
		}
		out = append(out, line)
	}

	return out
}
