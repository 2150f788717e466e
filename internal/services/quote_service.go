package services

import (
	"fmt"
	"strings"

	"charterdesk/internal/domain"
	"charterdesk/internal/pricing"
	"charterdesk/internal/repositories"
	"charterdesk/internal/utils"

	"github.com/google/uuid"
)

// QuoteService orchestrates pricing over the quote aggregate: totals,
// system tax line reconciliation, the fee toggle transition and the publish
// transition. All money math lives in the pricing package; this service only
// loads, invokes and persists.
type QuoteService struct {
	Repo      repositories.QuoteRepository
	RequestID string

	// LoadQuote overrides aggregate loading in tests.
	LoadQuote func(int64) (domain.Quote, error)
	// NewToken overrides publication token generation in tests.
	NewToken func() string
}

func (s QuoteService) loadQuote(id int64) (domain.Quote, error) {
	if s.LoadQuote != nil {
		return s.LoadQuote(id)
	}
	return s.Repo.GetByID(id)
}

func (s QuoteService) newToken() string {
	if s.NewToken != nil {
		return s.NewToken()
	}
	return uuid.NewString()
}

// Rules derives the calculator configuration from the quote's toggle state.
func Rules(q domain.Quote) pricing.TaxRules {
	rules := pricing.DefaultTaxRules()
	rules.FederalExciseTaxEnabled = q.FetEnabled
	rules.ServiceTaxEnabled = q.ServiceTaxOn
	return rules
}

// Totals computes the quote's monetary totals from its selected option.
func (s QuoteService) Totals(quoteID int64) (pricing.QuoteTotals, error) {
	q, err := s.loadQuote(quoteID)
	if err != nil {
		return pricing.QuoteTotals{}, err
	}

	opt := q.SelectedOption()
	if opt == nil {
		return pricing.QuoteTotals{}, domain.ValidationError{Field: "selectedOptionId", Msg: "quote has no selected option"}
	}

	return pricing.ComputeQuoteTotals(*opt, q.Services, q.Taxes, Rules(q)), nil
}

// Reconcile recomputes totals and rewrites the system-managed tax lines so
// they always match current inputs. Invoked after every mutation of a draft
// quote's options, services or tax toggles. Quotes without a selected option
// keep only their user tax lines.
func (s QuoteService) Reconcile(quoteID int64) (domain.Quote, error) {
	q, err := s.loadQuote(quoteID)
	if err != nil {
		return q, err
	}

	rules := Rules(q)
	synced := q.UserTaxes()
	if opt := q.SelectedOption(); opt != nil {
		totals := pricing.ComputeQuoteTotals(*opt, q.Services, q.Taxes, rules)
		synced = pricing.SyncSystemTaxLines(q.Taxes, totals, rules)
	}

	if err := s.Repo.ReplaceTaxLines(quoteID, synced); err != nil {
		return q, err
	}
	q.Taxes = synced

	utils.LogEvent(s.RequestID, "quotes", "reconcile", fmt.Sprintf("quote_id=%d tax_lines=%d", quoteID, len(synced)))
	return q, nil
}

// ToggleFees flips an option's fee list on or off. On the off-to-on
// transition the Federal Excise Tax fee is recomputed from the operator cost
// (one shot; hand-edited fees stay untouched). The aggregate is persisted and
// the system tax lines reconciled afterwards.
func (s QuoteService) ToggleFees(quoteID int64, optionID string, enabled bool) (domain.Quote, error) {
	q, err := s.loadQuote(quoteID)
	if err != nil {
		return q, err
	}
	if q.Published() {
		return q, domain.ConflictError{Resource: "quote", Msg: "published quotes are read-only"}
	}

	var opt *domain.QuoteOption
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			opt = &q.Options[i]
			break
		}
	}
	if opt == nil {
		return q, domain.NotFoundError{Resource: "quote option"}
	}

	if enabled && !opt.FeesEnabled {
		opt.Fees = pricing.ApplyFetAutoCalc(opt.Fees, opt.OperatorCost)
	}
	opt.FeesEnabled = enabled

	if err := s.Repo.Update(quoteID, q); err != nil {
		return q, err
	}

	utils.LogEvent(s.RequestID, "quotes", "toggle_fees", fmt.Sprintf("quote_id=%d option_id=%s enabled=%t", quoteID, optionID, enabled))
	return s.Reconcile(quoteID)
}

// Publish transitions a draft quote to published: a non-empty expiration is
// required, a share token is generated, and the totals from that moment
// become the invoice basis.
func (s QuoteService) Publish(quoteID int64, expiresAt string) (domain.Quote, error) {
	q, err := s.loadQuote(quoteID)
	if err != nil {
		return q, err
	}
	if q.Published() {
		return q, domain.ConflictError{Resource: "quote", Msg: "already published"}
	}
	if q.SelectedOption() == nil {
		return q, domain.ValidationError{Field: "selectedOptionId", Msg: "select an option before publishing"}
	}

	expiresAt = strings.TrimSpace(expiresAt)
	if expiresAt == "" {
		return q, domain.ValidationError{Field: "expiresAt", Msg: "expiration is required to publish"}
	}
	expiry, err := utils.ParseDateTime(expiresAt)
	if err != nil {
		if d, dErr := utils.ParseDate(expiresAt); dErr == nil {
			expiry = d
		} else {
			return q, domain.ValidationError{Field: "expiresAt", Msg: "must be YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", Err: err}
		}
	}

	// Freeze the tax lines against current inputs right before publishing.
	if _, err := s.Reconcile(quoteID); err != nil {
		return q, err
	}

	token := s.newToken()
	if err := s.Repo.Publish(quoteID, expiry, token); err != nil {
		return q, err
	}

	utils.LogEvent(s.RequestID, "quotes", "publish", fmt.Sprintf("quote_id=%d expires_at=%s", quoteID, utils.FormatDateTime(expiry)))
	return s.loadQuote(quoteID)
}
