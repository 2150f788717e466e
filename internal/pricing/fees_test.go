package pricing

import (
	"testing"

	"charterdesk/internal/domain"
)

func TestApplyFetAutoCalc_RecomputesAutoFee(t *testing.T) {
	fees := []domain.Fee{
		{ID: "fee-1", Name: "Federal Excise Tax (FET)", Amount: 0, IsAutoCalculated: true},
		{ID: "fee-2", Name: "Landing Fee", Amount: 250},
	}

	out := ApplyFetAutoCalc(fees, 8000)

	nearlyEqual(t, "fet amount", out[0].Amount, 600)
	nearlyEqual(t, "other fee untouched", out[1].Amount, 250)
	if fees[0].Amount != 0 {
		t.Fatalf("input slice must not be mutated, got %v", fees[0].Amount)
	}
}

func TestApplyFetAutoCalc_HandEditedFeeNeverOverwritten(t *testing.T) {
	fees := []domain.Fee{
		{ID: "fee-1", Name: "Federal Excise Tax (FET)", Amount: 0, IsAutoCalculated: true},
	}

	// First enable computes the amount.
	fees = ApplyFetAutoCalc(fees, 8000)
	nearlyEqual(t, "computed fet", fees[0].Amount, 600)

	// User edits the amount; the caller flips the auto flag off.
	fees[0].Amount = 650
	fees[0].IsAutoCalculated = false

	// Toggling off and on again must leave the edited amount alone.
	fees = ApplyFetAutoCalc(fees, 8000)
	nearlyEqual(t, "edited fet preserved", fees[0].Amount, 650)
}

func TestApplyFetAutoCalc_NoMatchingFeeIsNoop(t *testing.T) {
	fees := []domain.Fee{{ID: "fee-1", Name: "Landing Fee", Amount: 250}}

	out := ApplyFetAutoCalc(fees, 8000)

	if len(out) != 1 || out[0].Amount != 250 {
		t.Fatalf("expected untouched fee list, got %+v", out)
	}

	if out := ApplyFetAutoCalc(nil, 8000); len(out) != 0 {
		t.Fatalf("nil fee list must produce empty output, got %+v", out)
	}
}

func TestApplyFetAutoCalc_NameMatchIsCaseInsensitive(t *testing.T) {
	fees := []domain.Fee{
		{ID: "fee-1", Name: "  federal excise tax (fet) ", IsAutoCalculated: true},
	}

	out := ApplyFetAutoCalc(fees, 10000)

	nearlyEqual(t, "fet amount", out[0].Amount, 750)
}
