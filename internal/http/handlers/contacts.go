package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	intconfig "charterdesk/internal/config"
	"charterdesk/internal/domain"
	"charterdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

type contact struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type contactPayload struct {
	Name    string `json:"name" binding:"required"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// GET /api/contacts?q=&page=&limit=
func GetContacts(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	page, limit := pageParams(c)
	offset := (page - 1) * limit

	search := "%" + q + "%"
	rows, err := intconfig.DB.Query(`
		SELECT id, name, COALESCE(company,''), COALESCE(email,''), COALESCE(phone,'')
		FROM contacts
		WHERE (? = '' OR name LIKE ? OR company LIKE ? OR email LIKE ?)
		ORDER BY name ASC
		LIMIT ? OFFSET ?
	`, q, search, search, search, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load contacts", err)
		return
	}
	defer rows.Close()

	list := []contact{}
	for rows.Next() {
		var ct contact
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Company, &ct.Email, &ct.Phone); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan contact", err)
			return
		}
		list = append(list, ct)
	}
	c.JSON(http.StatusOK, gin.H{"contacts": list, "pagination": domain.Pagination{Page: page, PageSize: limit, Total: len(list)}})
}

// GET /api/contacts/:id
func GetContactByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	var ct contact
	err := intconfig.DB.QueryRow(`
		SELECT id, name, COALESCE(company,''), COALESCE(email,''), COALESCE(phone,'')
		FROM contacts WHERE id = ?
	`, id).Scan(&ct.ID, &ct.Name, &ct.Company, &ct.Email, &ct.Phone)
	if err == sql.ErrNoRows {
		respondError(c, http.StatusNotFound, "not_found", "contact not found", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load contact", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": ct})
}

// POST /api/contacts
func CreateContact(c *gin.Context) {
	var req contactPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO contacts (name, company, email, phone, created_at, updated_at)
		VALUES (?, NULLIF(?,''), NULLIF(?,''), NULLIF(?,''), NOW(), NOW())
	`, utils.NormalizeSpace(req.Name), req.Company, req.Email, req.Phone)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to save contact", err)
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /api/contacts/:id
func UpdateContact(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req contactPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE contacts
		SET name = ?, company = NULLIF(?,''), email = NULLIF(?,''), phone = NULLIF(?,''), updated_at = NOW()
		WHERE id = ?
	`, utils.NormalizeSpace(req.Name), req.Company, req.Email, req.Phone, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update contact", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM contacts WHERE id = ?`, id).Scan(&exists); err == nil && exists == 0 {
			respondError(c, http.StatusNotFound, "not_found", "contact not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "contact updated"})
}

// DELETE /api/contacts/:id
func DeleteContact(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	res, err := intconfig.DB.Exec(`DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete contact", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(c, http.StatusNotFound, "not_found", "contact not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contact deleted"})
}
