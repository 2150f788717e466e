package repositories

import (
	"testing"
	"time"

	"charterdesk/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPublishRejectsNonDraftQuote(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE quotes").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := QuoteRepository{DB: db}
	err = repo.Publish(12, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), "tok-1")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for non-draft quote, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteRejectsPublishedQuote(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM quotes").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(domain.QuoteStatusPublished))
	mock.ExpectRollback()

	repo := QuoteRepository{DB: db}
	if err := repo.Delete(9); !domain.IsConflict(err) {
		t.Fatalf("expected conflict deleting published quote, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteMissingQuoteIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM quotes").WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	repo := QuoteRepository{DB: db}
	if err := repo.Delete(404); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestListCapsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "contact_id", "status", "expires_at", "notes", "created_at"}).
		AddRow(2, 1, "draft", "", "Aspen weekend", "2026-08-30 10:00:00").
		AddRow(1, 1, "published", "2026-09-15 00:00:00", "", "2026-08-01 09:00:00")

	mock.ExpectQuery("FROM quotes").
		WithArgs("", "%%", 200, 0).
		WillReturnRows(rows)

	repo := QuoteRepository{DB: db}
	list, err := repo.List("", 1, 5000)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d summaries, want 2", len(list))
	}
	if list[0].ID != 2 || list[0].Notes != "Aspen weekend" {
		t.Fatalf("unexpected first summary: %+v", list[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
