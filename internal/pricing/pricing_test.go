package pricing

import (
	"math"
	"testing"

	"charterdesk/internal/domain"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func boolPtr(v bool) *bool { return &v }

func TestComputeQuoteTotals_FeesDisabled(t *testing.T) {
	opt := domain.QuoteOption{
		OperatorCost: 10000,
		Commission:   500,
		FeesEnabled:  false,
		Fees:         []domain.Fee{{Name: "Landing Fee", Amount: 250}},
	}
	services := []domain.ServiceLine{
		{Name: "Catering", Quantity: 2, UnitPrice: 150, Taxable: boolPtr(true)},
	}

	totals := ComputeQuoteTotals(opt, services, nil, DefaultTaxRules())

	nearlyEqual(t, "aircraftSubtotal", totals.AircraftSubtotal, 10500)
	nearlyEqual(t, "servicesSubtotal", totals.ServicesSubtotal, 300)
	nearlyEqual(t, "subtotal", totals.Subtotal, 10800)
	nearlyEqual(t, "federalExciseTax", totals.FederalExciseTax, 787.50)
	nearlyEqual(t, "serviceTax", totals.ServiceTax, 22.50)
	nearlyEqual(t, "taxTotal", totals.TaxTotal, 810)
	nearlyEqual(t, "grandTotal", totals.GrandTotal, 11610)
}

func TestComputeQuoteTotals_FeesEnabled(t *testing.T) {
	opt := domain.QuoteOption{
		OperatorCost: 10000,
		Commission:   500,
		FeesEnabled:  true,
		Fees:         []domain.Fee{{Name: "Handling", Amount: 4.30}},
	}
	services := []domain.ServiceLine{
		{Name: "Catering", Quantity: 2, UnitPrice: 150},
	}

	totals := ComputeQuoteTotals(opt, services, nil, DefaultTaxRules())

	nearlyEqual(t, "aircraftSubtotal", totals.AircraftSubtotal, 10504.30)
	nearlyEqual(t, "federalExciseTax", totals.FederalExciseTax, 787.82)
	nearlyEqual(t, "subtotal", totals.Subtotal, 10804.30)
	nearlyEqual(t, "taxTotal", totals.TaxTotal, 810.32)
	nearlyEqual(t, "grandTotal", totals.GrandTotal, 11614.62)
}

func TestComputeQuoteTotals_StoredPriceTotalWins(t *testing.T) {
	opt := domain.QuoteOption{
		OperatorCost: 10000,
		Commission:   500,
		FeesEnabled:  true,
		Fees:         []domain.Fee{{Name: "Handling", Amount: 100}},
		PriceTotal:   9000,
	}

	totals := ComputeQuoteTotals(opt, nil, nil, DefaultTaxRules())

	nearlyEqual(t, "aircraftSubtotal", totals.AircraftSubtotal, 9000)
	nearlyEqual(t, "federalExciseTax", totals.FederalExciseTax, 675)
}

func TestComputeQuoteTotals_NonTaxableServiceLine(t *testing.T) {
	opt := domain.QuoteOption{OperatorCost: 1000}
	services := []domain.ServiceLine{
		{Name: "De-icing", Quantity: 1, UnitPrice: 400, Taxable: boolPtr(false)},
		{Name: "Catering", Quantity: 1, UnitPrice: 200},
	}

	totals := ComputeQuoteTotals(opt, services, nil, DefaultTaxRules())

	// Non-taxable lines still count toward the subtotal, only tax skips them.
	nearlyEqual(t, "servicesSubtotal", totals.ServicesSubtotal, 600)
	nearlyEqual(t, "serviceTax", totals.ServiceTax, 15)
}

func TestComputeQuoteTotals_UserTaxLinesVerbatim(t *testing.T) {
	opt := domain.QuoteOption{OperatorCost: 1000}
	taxes := []domain.TaxLine{
		{ID: "tx-1", Name: "Segment Fee", Amount: 45.60},
		{ID: domain.FetTaxLineID, Name: "Federal Excise Tax", Amount: 999},
	}

	totals := ComputeQuoteTotals(opt, nil, taxes, DefaultTaxRules())

	// The stale system line in the input must not be double counted.
	nearlyEqual(t, "otherTaxesTotal", totals.OtherTaxesTotal, 45.60)
	nearlyEqual(t, "federalExciseTax", totals.FederalExciseTax, 75)
	nearlyEqual(t, "taxTotal", totals.TaxTotal, 120.60)
}

func TestComputeQuoteTotals_DisabledTaxes(t *testing.T) {
	opt := domain.QuoteOption{OperatorCost: 1000}
	services := []domain.ServiceLine{{Name: "Catering", Quantity: 1, UnitPrice: 100}}

	rules := DefaultTaxRules()
	rules.FederalExciseTaxEnabled = false
	rules.ServiceTaxEnabled = false

	totals := ComputeQuoteTotals(opt, services, nil, rules)

	nearlyEqual(t, "federalExciseTax", totals.FederalExciseTax, 0)
	nearlyEqual(t, "serviceTax", totals.ServiceTax, 0)
	nearlyEqual(t, "grandTotal", totals.GrandTotal, 1100)
}

func TestComputeQuoteTotals_ZeroAircraftSkipsFet(t *testing.T) {
	totals := ComputeQuoteTotals(domain.QuoteOption{}, nil, nil, DefaultTaxRules())

	nearlyEqual(t, "federalExciseTax", totals.FederalExciseTax, 0)
	nearlyEqual(t, "grandTotal", totals.GrandTotal, 0)
}

func TestComputeQuoteTotals_Idempotent(t *testing.T) {
	opt := domain.QuoteOption{
		OperatorCost: 8421.13,
		Commission:   377.77,
		FeesEnabled:  true,
		Fees:         []domain.Fee{{Name: "Handling", Amount: 12.34}},
	}
	services := []domain.ServiceLine{{Name: "Catering", Quantity: 3, UnitPrice: 66.67}}
	taxes := []domain.TaxLine{{ID: "tx-1", Name: "Segment Fee", Amount: 13.37}}

	a := ComputeQuoteTotals(opt, services, taxes, DefaultTaxRules())
	b := ComputeQuoteTotals(opt, services, taxes, DefaultTaxRules())

	if a != b {
		t.Fatalf("identical inputs must yield identical totals: %+v vs %+v", a, b)
	}
}

func TestComputeQuoteTotals_GrandTotalMatchesParts(t *testing.T) {
	opts := []domain.QuoteOption{
		{OperatorCost: 10000.01, Commission: 499.99},
		{OperatorCost: 8421.13, Commission: 0.07, FeesEnabled: true, Fees: []domain.Fee{{Amount: 0.005}}},
		{PriceTotal: 12345.678},
	}
	services := []domain.ServiceLine{
		{Quantity: 3, UnitPrice: 33.333},
		{Quantity: 1, UnitPrice: 0.014, Taxable: boolPtr(false)},
	}

	for _, opt := range opts {
		totals := ComputeQuoteTotals(opt, services, nil, DefaultTaxRules())

		nearlyEqual(t, "subtotal recomposition",
			totals.Subtotal, totals.AircraftSubtotal+totals.ServicesSubtotal)
		nearlyEqual(t, "taxTotal recomposition",
			totals.TaxTotal, totals.FederalExciseTax+totals.ServiceTax+totals.OtherTaxesTotal)
		nearlyEqual(t, "grandTotal recomposition",
			totals.GrandTotal, totals.Subtotal+totals.TaxTotal)
	}
}

func TestSyncSystemTaxLines_NoDuplicates(t *testing.T) {
	opt := domain.QuoteOption{OperatorCost: 10000, Commission: 500}
	services := []domain.ServiceLine{{Quantity: 2, UnitPrice: 150}}
	rules := DefaultTaxRules()

	lines := []domain.TaxLine{
		{ID: domain.FetTaxLineID, Name: "Federal Excise Tax", Amount: 1},
		{ID: "tx-1", Name: "Segment Fee", Amount: 45.60},
	}

	totals := ComputeQuoteTotals(opt, services, lines, rules)
	synced := SyncSystemTaxLines(lines, totals, rules)
	// A second reconciliation over its own output must be stable.
	synced = SyncSystemTaxLines(synced, ComputeQuoteTotals(opt, services, synced, rules), rules)

	fetCount, svcCount := 0, 0
	for _, l := range synced {
		switch l.ID {
		case domain.FetTaxLineID:
			fetCount++
			nearlyEqual(t, "fet line amount", l.Amount, 787.50)
		case domain.ServiceTaxLineID:
			svcCount++
			nearlyEqual(t, "service tax line amount", l.Amount, 22.50)
		}
	}
	if fetCount != 1 || svcCount != 1 {
		t.Fatalf("expected exactly one line per system tax, got fet=%d svc=%d", fetCount, svcCount)
	}

	last := synced[len(synced)-1]
	if last.ID != "tx-1" || last.Amount != 45.60 {
		t.Fatalf("user tax line must pass through untouched, got %+v", last)
	}
}

func TestSyncSystemTaxLines_DisabledTogglesRemoveLines(t *testing.T) {
	opt := domain.QuoteOption{OperatorCost: 10000}
	services := []domain.ServiceLine{{Quantity: 1, UnitPrice: 100}}

	rules := DefaultTaxRules()
	totals := ComputeQuoteTotals(opt, services, nil, rules)
	lines := SyncSystemTaxLines(nil, totals, rules)
	if len(lines) != 2 {
		t.Fatalf("expected both system lines while enabled, got %d", len(lines))
	}

	rules.FederalExciseTaxEnabled = false
	rules.ServiceTaxEnabled = false
	totals = ComputeQuoteTotals(opt, services, nil, rules)
	lines = SyncSystemTaxLines(lines, totals, rules)

	// Disabled toggles remove the lines, they do not zero them.
	if len(lines) != 0 {
		t.Fatalf("expected system lines removed when disabled, got %+v", lines)
	}
}
