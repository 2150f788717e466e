package repositories

import (
	"database/sql"

	"charterdesk/internal/domain"
	"charterdesk/internal/utils"
)

// AircraftRepository wraps DB access for the aircraft catalog (models) and
// registered tails.
type AircraftRepository struct {
	DB *sql.DB
}

// GetModelByID loads one catalog entry including its nullable defaults.
func (r AircraftRepository) GetModelByID(id int64) (domain.AircraftModel, error) {
	var (
		m        domain.AircraftModel
		capacity sql.NullInt64
		rangeNm  sql.NullFloat64
		speed    sql.NullFloat64
	)

	err := r.DB.QueryRow(`
		SELECT id, name, manufacturer, COALESCE(category,''), default_capacity, default_range_nm, default_speed_knots, archived
		FROM aircraft_models
		WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.Manufacturer, &m.Category, &capacity, &rangeNm, &speed, &m.Archived)
	if err != nil {
		if err == sql.ErrNoRows {
			return m, domain.NotFoundError{Resource: "aircraft model", Err: err}
		}
		return m, err
	}

	if capacity.Valid {
		v := int(capacity.Int64)
		m.DefaultCapacity = &v
	}
	if rangeNm.Valid {
		v := rangeNm.Float64
		m.DefaultRangeNm = &v
	}
	if speed.Valid {
		v := speed.Float64
		m.DefaultSpeedKnots = &v
	}

	return m, nil
}

// GetTailByID loads one registered aircraft including its nullable overrides.
func (r AircraftRepository) GetTailByID(id int64) (domain.AircraftTail, error) {
	var (
		t         domain.AircraftTail
		capacity  sql.NullInt64
		rangeNm   sql.NullFloat64
		speed     sql.NullFloat64
		amenities string
		images    string
	)

	err := r.DB.QueryRow(`
		SELECT id, model_id, tail_number, COALESCE(operator_name,''), capacity_override, range_nm_override, speed_knots_override, status, COALESCE(amenities,''), COALESCE(images,'')
		FROM aircraft
		WHERE id = ?
	`, id).Scan(&t.ID, &t.ModelID, &t.TailNumber, &t.OperatorName, &capacity, &rangeNm, &speed, &t.Status, &amenities, &images)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.NotFoundError{Resource: "aircraft", Err: err}
		}
		return t, err
	}

	if capacity.Valid {
		v := int(capacity.Int64)
		t.CapacityOverride = &v
	}
	if rangeNm.Valid {
		v := rangeNm.Float64
		t.RangeNmOverride = &v
	}
	if speed.Valid {
		v := speed.Float64
		t.SpeedKnotsOverride = &v
	}
	t.Amenities = utils.SplitList(amenities)
	t.Images = utils.SplitList(images)

	return t, nil
}

// EffectiveSpec resolves the effective specification for one tail, loading
// its model alongside. A missing model is tolerated: the tail's overrides
// still apply and the rest stays unknown.
func (r AircraftRepository) EffectiveSpec(tailID int64) (domain.EffectiveAircraftSpec, error) {
	tail, err := r.GetTailByID(tailID)
	if err != nil {
		return domain.EffectiveAircraftSpec{}, err
	}

	var model *domain.AircraftModel
	if m, err := r.GetModelByID(tail.ModelID); err == nil {
		model = &m
	} else if !domain.IsNotFound(err) {
		return domain.EffectiveAircraftSpec{}, err
	}

	return domain.ResolveEffectiveSpec(model, &tail), nil
}

// TailCountForModel reports how many tails reference a catalog entry. Models
// with referencing tails are archived instead of deleted.
func (r AircraftRepository) TailCountForModel(modelID int64) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM aircraft WHERE model_id = ?`, modelID).Scan(&count)
	return count, err
}
