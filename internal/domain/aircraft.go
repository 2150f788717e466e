package domain

// AircraftModel is a catalog entry describing a type of aircraft. The default
// performance fields are pointers: nil means the catalog simply does not know
// the value, which is different from zero.
type AircraftModel struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Category     string `json:"category"`

	DefaultCapacity   *int     `json:"defaultCapacity,omitempty"`
	DefaultRangeNm    *float64 `json:"defaultRangeNm,omitempty"`
	DefaultSpeedKnots *float64 `json:"defaultSpeedKnots,omitempty"`

	Archived bool `json:"archived"`
}

// AircraftTail is a specific registered aircraft. Override fields are
// independently nullable; nil means "use the model default".
type AircraftTail struct {
	ID           int64  `json:"id"`
	ModelID      int64  `json:"modelId"`
	TailNumber   string `json:"tailNumber"`
	OperatorName string `json:"operatorName"`

	CapacityOverride   *int     `json:"capacityOverride,omitempty"`
	RangeNmOverride    *float64 `json:"rangeNmOverride,omitempty"`
	SpeedKnotsOverride *float64 `json:"speedKnotsOverride,omitempty"`

	Status    string   `json:"status"`
	Amenities []string `json:"amenities,omitempty"`
	Images    []string `json:"images,omitempty"`
}

const (
	TailStatusActive   = "active"
	TailStatusInactive = "inactive"
)

// EffectiveAircraftSpec holds the values actually used for a tail after
// applying tail overrides onto model defaults. A nil value is unknown and must
// be rendered as such by the caller, never coerced to zero. The flags record
// which source won for each attribute.
type EffectiveAircraftSpec struct {
	Capacity   *int     `json:"capacity,omitempty"`
	RangeNm    *float64 `json:"rangeNm,omitempty"`
	SpeedKnots *float64 `json:"speedKnots,omitempty"`

	CapacityOverridden bool `json:"isCapacityOverridden"`
	RangeOverridden    bool `json:"isRangeOverridden"`
	SpeedOverridden    bool `json:"isSpeedOverridden"`
}

// ResolveEffectiveSpec resolves capacity, range and cruise speed for a
// (model, tail) pair. Either argument may be nil when no aircraft is selected
// yet; the result is then fully unknown rather than an error.
func ResolveEffectiveSpec(model *AircraftModel, tail *AircraftTail) EffectiveAircraftSpec {
	var spec EffectiveAircraftSpec

	if tail != nil && tail.CapacityOverride != nil {
		v := *tail.CapacityOverride
		spec.Capacity = &v
		spec.CapacityOverridden = true
	} else if model != nil && model.DefaultCapacity != nil {
		v := *model.DefaultCapacity
		spec.Capacity = &v
	}

	if tail != nil && tail.RangeNmOverride != nil {
		v := *tail.RangeNmOverride
		spec.RangeNm = &v
		spec.RangeOverridden = true
	} else if model != nil && model.DefaultRangeNm != nil {
		v := *model.DefaultRangeNm
		spec.RangeNm = &v
	}

	if tail != nil && tail.SpeedKnotsOverride != nil {
		v := *tail.SpeedKnotsOverride
		spec.SpeedKnots = &v
		spec.SpeedOverridden = true
	} else if model != nil && model.DefaultSpeedKnots != nil {
		v := *model.DefaultSpeedKnots
		spec.SpeedKnots = &v
	}

	return spec
}
