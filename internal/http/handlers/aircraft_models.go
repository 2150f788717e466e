package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	intconfig "charterdesk/internal/config"
	"charterdesk/internal/domain"
	"charterdesk/internal/repositories"

	"github.com/gin-gonic/gin"
)

type aircraftModelPayload struct {
	Name              string   `json:"name" binding:"required"`
	Manufacturer      string   `json:"manufacturer"`
	Category          string   `json:"category"`
	DefaultCapacity   *int     `json:"defaultCapacity"`
	DefaultRangeNm    *float64 `json:"defaultRangeNm"`
	DefaultSpeedKnots *float64 `json:"defaultSpeedKnots"`
	Archived          *bool    `json:"archived"`
}

// GET /api/aircraft-models?q=&page=&limit=&include_archived=
func GetAircraftModels(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	includeArchived := c.Query("include_archived") == "true"
	page, limit := pageParams(c)
	offset := (page - 1) * limit

	search := "%" + q + "%"
	rows, err := intconfig.DB.Query(`
		SELECT id, name, COALESCE(manufacturer,''), COALESCE(category,''),
			default_capacity, default_range_nm, default_speed_knots, archived
		FROM aircraft_models
		WHERE (? = '' OR name LIKE ? OR manufacturer LIKE ?)
			AND (? OR archived = 0)
		ORDER BY name ASC
		LIMIT ? OFFSET ?
	`, q, search, search, includeArchived, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load aircraft models", err)
		return
	}
	defer rows.Close()

	list := []domain.AircraftModel{}
	for rows.Next() {
		var (
			m        domain.AircraftModel
			capacity sql.NullInt64
			rng      sql.NullFloat64
			speed    sql.NullFloat64
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Manufacturer, &m.Category, &capacity, &rng, &speed, &m.Archived); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan aircraft model", err)
			return
		}
		if capacity.Valid {
			v := int(capacity.Int64)
			m.DefaultCapacity = &v
		}
		if rng.Valid {
			v := rng.Float64
			m.DefaultRangeNm = &v
		}
		if speed.Valid {
			v := speed.Float64
			m.DefaultSpeedKnots = &v
		}
		list = append(list, m)
	}
	c.JSON(http.StatusOK, gin.H{"aircraft_models": list, "pagination": domain.Pagination{Page: page, PageSize: limit, Total: len(list)}})
}

// GET /api/aircraft-models/:id
func GetAircraftModelByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	repo := repositories.AircraftRepository{DB: intconfig.DB}
	m, err := repo.GetModelByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"aircraft_model": m})
}

// POST /api/aircraft-models
func CreateAircraftModel(c *gin.Context) {
	var req aircraftModelPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO aircraft_models
			(name, manufacturer, category, default_capacity, default_range_nm, default_speed_knots, archived, created_at, updated_at)
		VALUES (?, NULLIF(?,''), NULLIF(?,''), ?, ?, ?, 0, NOW(), NOW())
	`, req.Name, req.Manufacturer, req.Category, req.DefaultCapacity, req.DefaultRangeNm, req.DefaultSpeedKnots)
	if err != nil {
		if isDuplicateEntry(err) {
			respondError(c, http.StatusConflict, "conflict", "aircraft model already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to save aircraft model", err)
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /api/aircraft-models/:id
func UpdateAircraftModel(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req aircraftModelPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	archived := false
	if req.Archived != nil {
		archived = *req.Archived
	}

	res, err := intconfig.DB.Exec(`
		UPDATE aircraft_models
		SET name = ?, manufacturer = NULLIF(?,''), category = NULLIF(?,''),
			default_capacity = ?, default_range_nm = ?, default_speed_knots = ?,
			archived = ?, updated_at = NOW()
		WHERE id = ?
	`, req.Name, req.Manufacturer, req.Category, req.DefaultCapacity, req.DefaultRangeNm, req.DefaultSpeedKnots, archived, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update aircraft model", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM aircraft_models WHERE id = ?`, id).Scan(&exists); err == nil && exists == 0 {
			respondError(c, http.StatusNotFound, "not_found", "aircraft model not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "aircraft model updated"})
}

// DELETE /api/aircraft-models/:id is refused while tails still reference the
// model; archive instead.
func DeleteAircraftModel(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	repo := repositories.AircraftRepository{DB: intconfig.DB}
	tails, err := repo.TailCountForModel(id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to check model references", err)
		return
	}
	if tails > 0 {
		respondError(c, http.StatusConflict, "conflict", "model still has registered tails; archive it instead", gin.H{"tails": tails})
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM aircraft_models WHERE id = ?`, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete aircraft model", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(c, http.StatusNotFound, "not_found", "aircraft model not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "aircraft model deleted"})
}
