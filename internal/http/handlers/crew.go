package handlers

import (
	"net/http"
	"strings"

	intconfig "charterdesk/internal/config"
	"charterdesk/internal/domain"
	"charterdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

type crewMember struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Status        string `json:"status"`
}

type crewPayload struct {
	Name          string `json:"name" binding:"required"`
	Role          string `json:"role" binding:"required"`
	LicenseNumber string `json:"licenseNumber"`
	Phone         string `json:"phone"`
	Status        string `json:"status"`
}

// GET /api/crew?q=&page=&limit=
func GetCrew(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	page, limit := pageParams(c)
	offset := (page - 1) * limit

	search := "%" + q + "%"
	rows, err := intconfig.DB.Query(`
		SELECT id, name, role, COALESCE(license_number,''), COALESCE(phone,''), status
		FROM crew
		WHERE (? = '' OR name LIKE ? OR license_number LIKE ?)
		ORDER BY name ASC
		LIMIT ? OFFSET ?
	`, q, search, search, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load crew", err)
		return
	}
	defer rows.Close()

	list := []crewMember{}
	for rows.Next() {
		var m crewMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.LicenseNumber, &m.Phone, &m.Status); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan crew member", err)
			return
		}
		list = append(list, m)
	}
	c.JSON(http.StatusOK, gin.H{"crew": list, "pagination": domain.Pagination{Page: page, PageSize: limit, Total: len(list)}})
}

// POST /api/crew
func CreateCrew(c *gin.Context) {
	var req crewPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO crew (name, role, license_number, phone, status, created_at, updated_at)
		VALUES (?, ?, NULLIF(?,''), NULLIF(?,''), ?, NOW(), NOW())
	`, utils.NormalizeSpace(req.Name), req.Role, req.LicenseNumber, req.Phone, status)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to save crew member", err)
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /api/crew/:id
func UpdateCrew(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req crewPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE crew
		SET name = ?, role = ?, license_number = NULLIF(?,''), phone = NULLIF(?,''),
			status = COALESCE(NULLIF(?,''), status), updated_at = NOW()
		WHERE id = ?
	`, utils.NormalizeSpace(req.Name), req.Role, req.LicenseNumber, req.Phone, req.Status, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update crew member", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM crew WHERE id = ?`, id).Scan(&exists); err == nil && exists == 0 {
			respondError(c, http.StatusNotFound, "not_found", "crew member not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "crew member updated"})
}

// DELETE /api/crew/:id
func DeleteCrew(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	res, err := intconfig.DB.Exec(`DELETE FROM crew WHERE id = ?`, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete crew member", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(c, http.StatusNotFound, "not_found", "crew member not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "crew member deleted"})
}
