package domain

import "strings"

// SystemTaxIDPrefix marks tax lines whose amounts are recomputed by the
// system. User-entered tax lines never carry this prefix.
const SystemTaxIDPrefix = "sys:"

const (
	FetTaxLineID     = SystemTaxIDPrefix + "fet"
	ServiceTaxLineID = SystemTaxIDPrefix + "service-tax"
)

// FetFeeName is the fee entry the auto-calculation rule looks for inside a
// quote option's fee list.
const FetFeeName = "Federal Excise Tax (FET)"

const (
	QuoteStatusDraft     = "draft"
	QuoteStatusPublished = "published"
)

// Fee is a flat currency amount attached to a quote option. IsAutoCalculated
// flips to false the moment a user edits the amount; after that the system
// must never overwrite it.
type Fee struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	IsAutoCalculated bool    `json:"isAutoCalculated"`
}

// IsFet reports whether the fee is the Federal Excise Tax entry.
func (f Fee) IsFet() bool {
	return strings.EqualFold(strings.TrimSpace(f.Name), FetFeeName)
}

// ServiceLine is an additional billed service on a quote. Taxable is a
// pointer because absence means taxable: only an explicit false exempts the
// line from service tax.
type ServiceLine struct {
	ID            string  `json:"id"`
	CatalogItemID string  `json:"catalogItemId,omitempty"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	Taxable       *bool   `json:"taxable,omitempty"`
}

// IsTaxable treats a missing flag as taxable.
func (s ServiceLine) IsTaxable() bool {
	return s.Taxable == nil || *s.Taxable
}

// Total is quantity times unit price, regardless of taxability.
func (s ServiceLine) Total() float64 {
	return s.Quantity * s.UnitPrice
}

// TaxLine is one entry in a quote's tax list. System-managed lines are
// recomputed whenever their inputs change; user-managed lines are taken
// verbatim.
type TaxLine struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// SystemManaged reports whether the line's amount is owned by the system.
func (t TaxLine) SystemManaged() bool {
	return strings.HasPrefix(t.ID, SystemTaxIDPrefix)
}

// QuoteOption is one candidate aircraft + pricing combination inside a quote.
// PriceTotal is the stored aircraft total; when non-zero it takes precedence
// over the derived operatorCost+commission+fees sum.
type QuoteOption struct {
	ID           string   `json:"id"`
	AircraftID   int64    `json:"aircraftId,omitempty"`
	ModelID      int64    `json:"modelId,omitempty"`
	FlightHours  float64  `json:"flightHours"`
	OperatorCost float64  `json:"operatorCost"`
	Commission   float64  `json:"commission"`
	PriceTotal   float64  `json:"priceTotal,omitempty"`
	Fees         []Fee    `json:"fees,omitempty"`
	FeesEnabled  bool     `json:"feesEnabled"`
	Amenities    []string `json:"amenities,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Leg is one trip segment of a quote.
type Leg struct {
	ID             string `json:"id"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	DepartureAt    string `json:"departureAt"`
	PassengerCount int    `json:"passengerCount"`
}

// Quote aggregates the full sales quote. Once published (token set,
// ExpiresAt non-empty) the totals become the contractual invoice basis and
// the quote rejects further mutation.
type Quote struct {
	ID               int64         `json:"id"`
	ContactID        int64         `json:"contactId"`
	Status           string        `json:"status"`
	Legs             []Leg         `json:"legs,omitempty"`
	Options          []QuoteOption `json:"options,omitempty"`
	Services         []ServiceLine `json:"services,omitempty"`
	Taxes            []TaxLine     `json:"taxes,omitempty"`
	SelectedOptionID string        `json:"selectedOptionId,omitempty"`
	FetEnabled       bool          `json:"fetEnabled"`
	ServiceTaxOn     bool          `json:"serviceTaxEnabled"`
	ExpiresAt        string        `json:"expiresAt,omitempty"`
	PublicationToken string        `json:"publicationToken,omitempty"`
	Notes            string        `json:"notes,omitempty"`
}

// SelectedOption returns the currently selected option, or nil when none is
// selected or the id no longer matches.
func (q Quote) SelectedOption() *QuoteOption {
	for i := range q.Options {
		if q.Options[i].ID == q.SelectedOptionID {
			return &q.Options[i]
		}
	}
	return nil
}

// UserTaxes returns only the user-managed tax lines, preserving order.
func (q Quote) UserTaxes() []TaxLine {
	out := []TaxLine{}
	for _, t := range q.Taxes {
		if !t.SystemManaged() {
			out = append(out, t)
		}
	}
	return out
}

// Published reports whether the quote has gone through the publish
// transition.
func (q Quote) Published() bool {
	return q.Status == QuoteStatusPublished
}
