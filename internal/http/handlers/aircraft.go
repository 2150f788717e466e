package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	intconfig "charterdesk/internal/config"
	"charterdesk/internal/domain"
	"charterdesk/internal/repositories"
	"charterdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

type aircraftPayload struct {
	ModelID            int64    `json:"modelId" binding:"required"`
	TailNumber         string   `json:"tailNumber" binding:"required"`
	OperatorName       string   `json:"operatorName"`
	CapacityOverride   *int     `json:"capacityOverride"`
	RangeNmOverride    *float64 `json:"rangeNmOverride"`
	SpeedKnotsOverride *float64 `json:"speedKnotsOverride"`
	Status             string   `json:"status"`
	Amenities          []string `json:"amenities"`
	Images             []string `json:"images"`
}

// GET /api/aircraft?q=&model_id=&page=&limit=
func GetAircraft(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	modelID := strings.TrimSpace(c.Query("model_id"))
	page, limit := pageParams(c)
	offset := (page - 1) * limit

	search := "%" + q + "%"
	rows, err := intconfig.DB.Query(`
		SELECT id, model_id, tail_number, COALESCE(operator_name,''),
			capacity_override, range_nm_override, speed_knots_override,
			status, COALESCE(amenities,''), COALESCE(images,'')
		FROM aircraft
		WHERE (? = '' OR tail_number LIKE ? OR operator_name LIKE ?)
			AND (? = '' OR model_id = ?)
		ORDER BY tail_number ASC
		LIMIT ? OFFSET ?
	`, q, search, search, modelID, modelID, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load aircraft", err)
		return
	}
	defer rows.Close()

	list := []domain.AircraftTail{}
	for rows.Next() {
		var (
			t         domain.AircraftTail
			capacity  sql.NullInt64
			rng       sql.NullFloat64
			speed     sql.NullFloat64
			amenities string
			images    string
		)
		if err := rows.Scan(&t.ID, &t.ModelID, &t.TailNumber, &t.OperatorName, &capacity, &rng, &speed, &t.Status, &amenities, &images); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan aircraft", err)
			return
		}
		if capacity.Valid {
			v := int(capacity.Int64)
			t.CapacityOverride = &v
		}
		if rng.Valid {
			v := rng.Float64
			t.RangeNmOverride = &v
		}
		if speed.Valid {
			v := speed.Float64
			t.SpeedKnotsOverride = &v
		}
		t.Amenities = utils.SplitList(amenities)
		t.Images = utils.SplitList(images)
		list = append(list, t)
	}
	c.JSON(http.StatusOK, gin.H{"aircraft": list, "pagination": domain.Pagination{Page: page, PageSize: limit, Total: len(list)}})
}

// GET /api/aircraft/:id
func GetAircraftByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	repo := repositories.AircraftRepository{DB: intconfig.DB}
	t, err := repo.GetTailByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"aircraft": t})
}

// GET /api/aircraft/:id/spec returns the effective spec after applying tail
// overrides onto model defaults, with per-attribute override flags.
func GetAircraftSpec(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	repo := repositories.AircraftRepository{DB: intconfig.DB}
	spec, err := repo.EffectiveSpec(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spec": spec})
}

// POST /api/aircraft
func CreateAircraft(c *gin.Context) {
	var req aircraftPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	status := req.Status
	if status == "" {
		status = domain.TailStatusActive
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO aircraft
			(model_id, tail_number, operator_name, capacity_override, range_nm_override, speed_knots_override,
			 status, amenities, images, created_at, updated_at)
		VALUES (?, ?, NULLIF(?,''), ?, ?, ?, ?, NULLIF(?,''), NULLIF(?,''), NOW(), NOW())
	`, req.ModelID, req.TailNumber, req.OperatorName,
		req.CapacityOverride, req.RangeNmOverride, req.SpeedKnotsOverride,
		status, utils.JoinList(req.Amenities), utils.JoinList(req.Images))
	if err != nil {
		if isDuplicateEntry(err) {
			respondError(c, http.StatusConflict, "conflict", "tail number already registered", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to save aircraft", err)
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /api/aircraft/:id
func UpdateAircraft(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req aircraftPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE aircraft
		SET model_id = ?, tail_number = ?, operator_name = NULLIF(?,''),
			capacity_override = ?, range_nm_override = ?, speed_knots_override = ?,
			status = COALESCE(NULLIF(?,''), status),
			amenities = NULLIF(?,''), images = NULLIF(?,''),
			updated_at = NOW()
		WHERE id = ?
	`, req.ModelID, req.TailNumber, req.OperatorName,
		req.CapacityOverride, req.RangeNmOverride, req.SpeedKnotsOverride,
		req.Status, utils.JoinList(req.Amenities), utils.JoinList(req.Images), id)
	if err != nil {
		if isDuplicateEntry(err) {
			respondError(c, http.StatusConflict, "conflict", "tail number already registered", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to update aircraft", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM aircraft WHERE id = ?`, id).Scan(&exists); err == nil && exists == 0 {
			respondError(c, http.StatusNotFound, "not_found", "aircraft not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "aircraft updated"})
}

// DELETE /api/aircraft/:id
func DeleteAircraft(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	res, err := intconfig.DB.Exec(`DELETE FROM aircraft WHERE id = ?`, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete aircraft", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(c, http.StatusNotFound, "not_found", "aircraft not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "aircraft deleted"})
}
