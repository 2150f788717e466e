package repositories

import (
	"database/sql"
	"strings"
	"time"

	"charterdesk/internal/domain"
	"charterdesk/internal/utils"
)

// QuoteRepository wraps DB access for the quote aggregate. Child rows (legs,
// options, fees, services, taxes) are replaced wholesale on update; quotes
// are small and the draft wizard rewrites them on every step anyway.
type QuoteRepository struct {
	DB *sql.DB
}

// QuoteSummary is the list-view projection of a quote.
type QuoteSummary struct {
	ID        int64  `json:"id"`
	ContactID int64  `json:"contactId"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expiresAt,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// List returns quote headers, newest first, optionally filtered on notes.
func (r QuoteRepository) List(query string, page, limit int) ([]QuoteSummary, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := (page - 1) * limit

	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := r.DB.Query(`
		SELECT id, contact_id, status,
			COALESCE(DATE_FORMAT(expires_at, '%Y-%m-%d %H:%i:%s'), ''),
			COALESCE(notes,''),
			DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s')
		FROM quotes
		WHERE (? = '' OR COALESCE(notes,'') LIKE ?)
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []QuoteSummary{}
	for rows.Next() {
		var s QuoteSummary
		if err := rows.Scan(&s.ID, &s.ContactID, &s.Status, &s.ExpiresAt, &s.Notes, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID loads the full quote aggregate.
func (r QuoteRepository) GetByID(id int64) (domain.Quote, error) {
	var (
		q         domain.Quote
		selected  sql.NullString
		expiresAt sql.NullString
		token     sql.NullString
		notes     sql.NullString
	)

	err := r.DB.QueryRow(`
		SELECT id, contact_id, status, selected_option_id, fet_enabled, service_tax_enabled,
			DATE_FORMAT(expires_at, '%Y-%m-%d %H:%i:%s'), publication_token, notes
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &q.ContactID, &q.Status, &selected, &q.FetEnabled, &q.ServiceTaxOn, &expiresAt, &token, &notes)
	if err != nil {
		if err == sql.ErrNoRows {
			return q, domain.NotFoundError{Resource: "quote", Err: err}
		}
		return q, err
	}
	q.SelectedOptionID = selected.String
	q.ExpiresAt = expiresAt.String
	q.PublicationToken = token.String
	q.Notes = notes.String

	if err := r.loadChildren(&q); err != nil {
		return q, err
	}
	return q, nil
}

// GetByToken loads a published quote by its share token.
func (r QuoteRepository) GetByToken(token string) (domain.Quote, error) {
	var id int64
	err := r.DB.QueryRow(`
		SELECT id FROM quotes
		WHERE publication_token = ? AND status = ?
	`, token, domain.QuoteStatusPublished).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Quote{}, domain.NotFoundError{Resource: "quote", Err: err}
		}
		return domain.Quote{}, err
	}
	return r.GetByID(id)
}

func (r QuoteRepository) loadChildren(q *domain.Quote) error {
	legRows, err := r.DB.Query(`
		SELECT id, origin, destination, COALESCE(departure_at,''), passenger_count
		FROM quote_legs WHERE quote_id = ? ORDER BY position, id
	`, q.ID)
	if err != nil {
		return err
	}
	defer legRows.Close()
	for legRows.Next() {
		var l domain.Leg
		if err := legRows.Scan(&l.ID, &l.Origin, &l.Destination, &l.DepartureAt, &l.PassengerCount); err != nil {
			return err
		}
		q.Legs = append(q.Legs, l)
	}
	if err := legRows.Err(); err != nil {
		return err
	}

	optRows, err := r.DB.Query(`
		SELECT id, COALESCE(aircraft_id,0), COALESCE(model_id,0), flight_hours, operator_cost, commission, price_total, fees_enabled, COALESCE(amenities,''), COALESCE(notes,'')
		FROM quote_options WHERE quote_id = ? ORDER BY position, id
	`, q.ID)
	if err != nil {
		return err
	}
	defer optRows.Close()
	for optRows.Next() {
		var (
			o         domain.QuoteOption
			amenities string
		)
		if err := optRows.Scan(&o.ID, &o.AircraftID, &o.ModelID, &o.FlightHours, &o.OperatorCost, &o.Commission, &o.PriceTotal, &o.FeesEnabled, &amenities, &o.Notes); err != nil {
			return err
		}
		o.Amenities = utils.SplitList(amenities)
		q.Options = append(q.Options, o)
	}
	if err := optRows.Err(); err != nil {
		return err
	}

	feeRows, err := r.DB.Query(`
		SELECT option_id, id, name, amount, is_auto_calculated
		FROM quote_fees WHERE quote_id = ? ORDER BY position, id
	`, q.ID)
	if err != nil {
		return err
	}
	defer feeRows.Close()
	for feeRows.Next() {
		var (
			optID string
			f     domain.Fee
		)
		if err := feeRows.Scan(&optID, &f.ID, &f.Name, &f.Amount, &f.IsAutoCalculated); err != nil {
			return err
		}
		for i := range q.Options {
			if q.Options[i].ID == optID {
				q.Options[i].Fees = append(q.Options[i].Fees, f)
				break
			}
		}
	}
	if err := feeRows.Err(); err != nil {
		return err
	}

	svcRows, err := r.DB.Query(`
		SELECT id, COALESCE(catalog_item_id,''), name, quantity, unit_price, taxable
		FROM quote_services WHERE quote_id = ? ORDER BY position, id
	`, q.ID)
	if err != nil {
		return err
	}
	defer svcRows.Close()
	for svcRows.Next() {
		var (
			s       domain.ServiceLine
			taxable sql.NullBool
		)
		if err := svcRows.Scan(&s.ID, &s.CatalogItemID, &s.Name, &s.Quantity, &s.UnitPrice, &taxable); err != nil {
			return err
		}
		if taxable.Valid {
			v := taxable.Bool
			s.Taxable = &v
		}
		q.Services = append(q.Services, s)
	}
	if err := svcRows.Err(); err != nil {
		return err
	}

	taxRows, err := r.DB.Query(`
		SELECT id, name, amount
		FROM quote_taxes WHERE quote_id = ? ORDER BY position, id
	`, q.ID)
	if err != nil {
		return err
	}
	defer taxRows.Close()
	for taxRows.Next() {
		var t domain.TaxLine
		if err := taxRows.Scan(&t.ID, &t.Name, &t.Amount); err != nil {
			return err
		}
		q.Taxes = append(q.Taxes, t)
	}
	return taxRows.Err()
}

// Create inserts the quote aggregate and returns the new id.
func (r QuoteRepository) Create(q domain.Quote) (int64, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO quotes (contact_id, status, selected_option_id, fet_enabled, service_tax_enabled, expires_at, notes, created_at, updated_at)
		VALUES (?, ?, NULLIF(?,''), ?, ?, NULLIF(?,''), ?, NOW(), NOW())
	`, q.ContactID, domain.QuoteStatusDraft, q.SelectedOptionID, q.FetEnabled, q.ServiceTaxOn, q.ExpiresAt, q.Notes)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := insertChildren(tx, id, q); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Update replaces the quote row and all child rows.
func (r QuoteRepository) Update(id int64, q domain.Quote) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE quotes
		SET contact_id = ?, selected_option_id = NULLIF(?,''), fet_enabled = ?, service_tax_enabled = ?, expires_at = NULLIF(?,''), notes = ?, updated_at = NOW()
		WHERE id = ?
	`, q.ContactID, q.SelectedOptionID, q.FetEnabled, q.ServiceTaxOn, q.ExpiresAt, q.Notes, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// The row may exist with identical values; only report not-found when
		// it is genuinely missing.
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM quotes WHERE id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "quote"}
		}
	}

	if err := deleteChildren(tx, id); err != nil {
		return err
	}
	if err := insertChildren(tx, id, q); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceTaxLines rewrites only the tax line rows, keeping the rest of the
// aggregate alone. Used by the system tax reconciliation.
func (r QuoteRepository) ReplaceTaxLines(quoteID int64, lines []domain.TaxLine) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM quote_taxes WHERE quote_id = ?`, quoteID); err != nil {
		return err
	}
	for i, t := range lines {
		if _, err := tx.Exec(`
			INSERT INTO quote_taxes (id, quote_id, name, amount, position)
			VALUES (?, ?, ?, ?, ?)
		`, t.ID, quoteID, t.Name, t.Amount, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Publish flips the quote to published with its share token and expiry.
func (r QuoteRepository) Publish(id int64, expiresAt time.Time, token string) error {
	res, err := r.DB.Exec(`
		UPDATE quotes
		SET status = ?, expires_at = ?, publication_token = ?, updated_at = NOW()
		WHERE id = ? AND status = ?
	`, domain.QuoteStatusPublished, expiresAt, token, id, domain.QuoteStatusDraft)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ConflictError{Resource: "quote", Msg: "not in draft"}
	}
	return nil
}

// Delete removes the aggregate. Published quotes are contractual and must
// not be deleted.
func (r QuoteRepository) Delete(id int64) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	if err := tx.QueryRow(`SELECT status FROM quotes WHERE id = ?`, id).Scan(&status); err != nil {
		if err == sql.ErrNoRows {
			return domain.NotFoundError{Resource: "quote", Err: err}
		}
		return err
	}
	if status == domain.QuoteStatusPublished {
		return domain.ConflictError{Resource: "quote", Msg: "published quotes cannot be deleted"}
	}

	if err := deleteChildren(tx, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM quotes WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteChildren(tx *sql.Tx, quoteID int64) error {
	for _, table := range []string{"quote_fees", "quote_options", "quote_legs", "quote_services", "quote_taxes"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE quote_id = ?`, quoteID); err != nil {
			return err
		}
	}
	return nil
}

func insertChildren(tx *sql.Tx, quoteID int64, q domain.Quote) error {
	for i, l := range q.Legs {
		if _, err := tx.Exec(`
			INSERT INTO quote_legs (id, quote_id, origin, destination, departure_at, passenger_count, position)
			VALUES (?, ?, ?, ?, NULLIF(?,''), ?, ?)
		`, l.ID, quoteID, l.Origin, l.Destination, l.DepartureAt, l.PassengerCount, i); err != nil {
			return err
		}
	}

	for i, o := range q.Options {
		if _, err := tx.Exec(`
			INSERT INTO quote_options (id, quote_id, aircraft_id, model_id, flight_hours, operator_cost, commission, price_total, fees_enabled, amenities, notes, position)
			VALUES (?, ?, NULLIF(?,0), NULLIF(?,0), ?, ?, ?, ?, ?, ?, ?, ?)
		`, o.ID, quoteID, o.AircraftID, o.ModelID, o.FlightHours, o.OperatorCost, o.Commission, o.PriceTotal, o.FeesEnabled, utils.JoinList(o.Amenities), o.Notes, i); err != nil {
			return err
		}
		for j, f := range o.Fees {
			if _, err := tx.Exec(`
				INSERT INTO quote_fees (id, quote_id, option_id, name, amount, is_auto_calculated, position)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, f.ID, quoteID, o.ID, f.Name, f.Amount, f.IsAutoCalculated, j); err != nil {
				return err
			}
		}
	}

	for i, s := range q.Services {
		var taxable any
		if s.Taxable != nil {
			taxable = *s.Taxable
		}
		if _, err := tx.Exec(`
			INSERT INTO quote_services (id, quote_id, catalog_item_id, name, quantity, unit_price, taxable, position)
			VALUES (?, ?, NULLIF(?,''), ?, ?, ?, ?, ?)
		`, s.ID, quoteID, s.CatalogItemID, s.Name, s.Quantity, s.UnitPrice, taxable, i); err != nil {
			return err
		}
	}

	for i, t := range q.Taxes {
		if _, err := tx.Exec(`
			INSERT INTO quote_taxes (id, quote_id, name, amount, position)
			VALUES (?, ?, ?, ?, ?)
		`, t.ID, quoteID, t.Name, t.Amount, i); err != nil {
			return err
		}
	}

	return nil
}
