package pricing

import (
	"charterdesk/internal/domain"
	"charterdesk/internal/utils"
)

// ApplyFetAutoCalc recomputes the "Federal Excise Tax (FET)" fee from the
// operator cost. It runs once, when the fees toggle transitions to enabled,
// not on every operator cost change. A fee the user has hand-edited
// (IsAutoCalculated false) is never touched again, even across repeated
// toggle cycles. Silently a no-op when no matching fee exists.
//
// The input slice is not mutated; a fresh list is returned.
func ApplyFetAutoCalc(fees []domain.Fee, operatorCost float64) []domain.Fee {
	out := make([]domain.Fee, len(fees))
	copy(out, fees)

	for i := range out {
		if out[i].IsFet() && out[i].IsAutoCalculated {
			out[i].Amount = utils.Round2(operatorCost * DefaultFetRate)
		}
	}

	return out
}
