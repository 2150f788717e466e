package domain

import "testing"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestResolveEffectiveSpec_OverrideWins(t *testing.T) {
	model := &AircraftModel{
		DefaultCapacity:   intPtr(8),
		DefaultRangeNm:    floatPtr(2500),
		DefaultSpeedKnots: floatPtr(440),
	}
	tail := &AircraftTail{
		CapacityOverride: intPtr(6),
	}

	spec := ResolveEffectiveSpec(model, tail)

	if spec.Capacity == nil || *spec.Capacity != 6 {
		t.Fatalf("capacity = %v, want override 6", spec.Capacity)
	}
	if !spec.CapacityOverridden {
		t.Fatalf("capacity should be flagged as overridden")
	}
	if spec.RangeNm == nil || *spec.RangeNm != 2500 {
		t.Fatalf("rangeNm = %v, want model default 2500", spec.RangeNm)
	}
	if spec.RangeOverridden {
		t.Fatalf("range should not be flagged as overridden")
	}
	if spec.SpeedKnots == nil || *spec.SpeedKnots != 440 {
		t.Fatalf("speedKnots = %v, want model default 440", spec.SpeedKnots)
	}
	if spec.SpeedOverridden {
		t.Fatalf("speed should not be flagged as overridden")
	}
}

func TestResolveEffectiveSpec_NilInputs(t *testing.T) {
	spec := ResolveEffectiveSpec(nil, nil)

	if spec.Capacity != nil || spec.RangeNm != nil || spec.SpeedKnots != nil {
		t.Fatalf("nil inputs must resolve to a fully unknown spec, got %+v", spec)
	}
	if spec.CapacityOverridden || spec.RangeOverridden || spec.SpeedOverridden {
		t.Fatalf("nil inputs must not set override flags")
	}
}

func TestResolveEffectiveSpec_TailWithoutOverrides(t *testing.T) {
	model := &AircraftModel{DefaultRangeNm: floatPtr(2500)}
	tail := &AircraftTail{TailNumber: "N123CD"}

	spec := ResolveEffectiveSpec(model, tail)

	if spec.RangeNm == nil || *spec.RangeNm != 2500 {
		t.Fatalf("rangeNm = %v, want 2500", spec.RangeNm)
	}
	if spec.RangeOverridden {
		t.Fatalf("range override flag should be false")
	}
	if spec.Capacity != nil {
		t.Fatalf("capacity should stay unknown when neither source has it, got %v", *spec.Capacity)
	}
}

func TestResolveEffectiveSpec_MissingModelDefaultStaysUnknown(t *testing.T) {
	model := &AircraftModel{Name: "Citation XLS"}
	tail := &AircraftTail{SpeedKnotsOverride: floatPtr(433)}

	spec := ResolveEffectiveSpec(model, tail)

	if spec.SpeedKnots == nil || *spec.SpeedKnots != 433 {
		t.Fatalf("speedKnots = %v, want override 433", spec.SpeedKnots)
	}
	if !spec.SpeedOverridden {
		t.Fatalf("speed should be flagged as overridden")
	}
	if spec.Capacity != nil || spec.RangeNm != nil {
		t.Fatalf("capacity/range must stay unknown, got %+v", spec)
	}
}

func TestResolveEffectiveSpec_Deterministic(t *testing.T) {
	model := &AircraftModel{DefaultCapacity: intPtr(9), DefaultRangeNm: floatPtr(3100)}
	tail := &AircraftTail{RangeNmOverride: floatPtr(2900)}

	a := ResolveEffectiveSpec(model, tail)
	b := ResolveEffectiveSpec(model, tail)

	if *a.RangeNm != *b.RangeNm || *a.Capacity != *b.Capacity ||
		a.RangeOverridden != b.RangeOverridden {
		t.Fatalf("identical inputs must yield identical output: %+v vs %+v", a, b)
	}
}
