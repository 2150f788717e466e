package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	intconfig "charterdesk/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body != "" {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, target, nil)
	}
	return c, w
}

func TestPageParamsDefaults(t *testing.T) {
	c, _ := testContext(t, http.MethodGet, "/api/crew", "")

	page, limit := pageParams(c)
	if page != 1 || limit != 50 {
		t.Fatalf("expected defaults 1/50, got %d/%d", page, limit)
	}
}

func TestPageParamsCapsLimit(t *testing.T) {
	c, _ := testContext(t, http.MethodGet, "/api/crew?page=3&limit=5000", "")

	page, limit := pageParams(c)
	if page != 3 {
		t.Fatalf("expected page 3, got %d", page)
	}
	if limit != 200 {
		t.Fatalf("expected limit capped at 200, got %d", limit)
	}
}

func TestDeleteUserRejectsSelfDeletion(t *testing.T) {
	c, w := testContext(t, http.MethodDelete, "/api/users/5", "")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Set("user_id", int64(5))

	DeleteUser(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for self-deletion, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "your own account") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestCreateCrewNormalizesName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectExec("INSERT INTO crew").
		WithArgs("John Smith", "pilot", "", "", "active").
		WillReturnResult(sqlmock.NewResult(11, 1))

	c, w := testContext(t, http.MethodPost, "/api/crew",
		`{"name":"  John   Smith ","role":"pilot"}`)

	CreateCrew(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
