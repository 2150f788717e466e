package repositories

import (
	"testing"

	"charterdesk/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func tailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "model_id", "tail_number", "operator_name",
		"capacity_override", "range_nm_override", "speed_knots_override",
		"status", "amenities", "images",
	})
}

func modelRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "manufacturer", "category",
		"default_capacity", "default_range_nm", "default_speed_knots", "archived",
	})
}

func TestEffectiveSpecOverrideWinsOverDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM aircraft").WithArgs(int64(7)).
		WillReturnRows(tailRows().AddRow(7, 3, "N123AB", "SkyWest Charter", 10, nil, nil, "active", "wifi,lavatory", ""))
	mock.ExpectQuery("FROM aircraft_models").WithArgs(int64(3)).
		WillReturnRows(modelRows().AddRow(3, "Citation XLS+", "Cessna", "midsize", 9, 1800.0, 441.0, false))

	repo := AircraftRepository{DB: db}
	spec, err := repo.EffectiveSpec(7)
	if err != nil {
		t.Fatalf("EffectiveSpec error: %v", err)
	}

	if spec.Capacity == nil || *spec.Capacity != 10 {
		t.Fatalf("capacity = %v, want 10 (tail override)", spec.Capacity)
	}
	if !spec.CapacityOverridden {
		t.Fatalf("capacity should be flagged overridden")
	}
	if spec.RangeNm == nil || *spec.RangeNm != 1800.0 {
		t.Fatalf("range = %v, want 1800 (model default)", spec.RangeNm)
	}
	if spec.RangeOverridden {
		t.Fatalf("range must not be flagged overridden")
	}
	if spec.SpeedKnots == nil || *spec.SpeedKnots != 441.0 {
		t.Fatalf("speed = %v, want 441 (model default)", spec.SpeedKnots)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEffectiveSpecToleratesMissingModel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM aircraft").WithArgs(int64(7)).
		WillReturnRows(tailRows().AddRow(7, 99, "N777XX", "", nil, 2100.0, nil, "active", "", ""))
	mock.ExpectQuery("FROM aircraft_models").WithArgs(int64(99)).
		WillReturnRows(modelRows())

	repo := AircraftRepository{DB: db}
	spec, err := repo.EffectiveSpec(7)
	if err != nil {
		t.Fatalf("EffectiveSpec error: %v", err)
	}

	if spec.Capacity != nil {
		t.Fatalf("capacity = %v, want unknown", spec.Capacity)
	}
	if spec.RangeNm == nil || *spec.RangeNm != 2100.0 {
		t.Fatalf("range = %v, want 2100 from override", spec.RangeNm)
	}
	if !spec.RangeOverridden {
		t.Fatalf("range should be flagged overridden")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetTailByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM aircraft").WithArgs(int64(404)).
		WillReturnRows(tailRows())

	repo := AircraftRepository{DB: db}
	_, err = repo.GetTailByID(404)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetTailByIDSplitsAmenities(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM aircraft").WithArgs(int64(5)).
		WillReturnRows(tailRows().AddRow(5, 2, "N55GV", "Prime Jet", nil, nil, nil, "active", "wifi, galley,, shower", "a.jpg,b.jpg"))

	repo := AircraftRepository{DB: db}
	tail, err := repo.GetTailByID(5)
	if err != nil {
		t.Fatalf("GetTailByID error: %v", err)
	}

	want := []string{"wifi", "galley", "shower"}
	if len(tail.Amenities) != len(want) {
		t.Fatalf("amenities = %v, want %v", tail.Amenities, want)
	}
	for i := range want {
		if tail.Amenities[i] != want[i] {
			t.Fatalf("amenities[%d] = %q, want %q", i, tail.Amenities[i], want[i])
		}
	}
	if len(tail.Images) != 2 {
		t.Fatalf("images = %v, want 2 entries", tail.Images)
	}
}
