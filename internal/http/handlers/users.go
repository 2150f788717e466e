package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	intconfig "charterdesk/internal/config"
	"charterdesk/internal/domain"
	"charterdesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type userPayload struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// GET /api/users?q=&page=&limit=
func GetUsers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	page, limit := pageParams(c)
	offset := (page - 1) * limit

	search := "%" + q + "%"
	rows, err := intconfig.DB.Query(`
		SELECT id, name, username, email, COALESCE(phone,''), role, status
		FROM users
		WHERE (? = '' OR name LIKE ? OR username LIKE ? OR email LIKE ?)
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, q, search, search, search, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load users", err)
		return
	}
	defer rows.Close()

	list := []AuthUser{}
	for rows.Next() {
		var u AuthUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Role, &u.Status); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan user", err)
			return
		}
		list = append(list, u)
	}
	c.JSON(http.StatusOK, gin.H{"users": list, "pagination": domain.Pagination{Page: page, PageSize: limit, Total: len(list)}})
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	var u AuthUser
	err := intconfig.DB.QueryRow(`
		SELECT id, name, username, email, COALESCE(phone,''), role, status
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Role, &u.Status)
	if err == sql.ErrNoRows {
		respondError(c, http.StatusNotFound, "not_found", "user not found", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var req userPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "password is required", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to hash password", err)
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	status := req.Status
	if status == "" {
		status = "active"
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO users (name, username, email, phone, password_hash, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, req.Name, req.Username, req.Email, req.Phone, string(hash), role, status)
	if err != nil {
		if isDuplicateEntry(err) {
			respondError(c, http.StatusConflict, "conflict", "email or username already registered", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to save user", err)
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req userPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	args := []any{req.Name, req.Username, req.Email, req.Phone, req.Role, req.Status}
	set := `name = ?, username = ?, email = ?, phone = ?,
		role = COALESCE(NULLIF(?,''), role),
		status = COALESCE(NULLIF(?,''), status)`

	if strings.TrimSpace(req.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to hash password", err)
			return
		}
		set += ", password_hash = ?"
		args = append(args, string(hash))
	}
	args = append(args, id)

	res, err := intconfig.DB.Exec(`UPDATE users SET `+set+`, updated_at = NOW() WHERE id = ?`, args...)
	if err != nil {
		if isDuplicateEntry(err) {
			respondError(c, http.StatusConflict, "conflict", "email or username already registered", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to update user", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&exists); err == nil && exists == 0 {
			respondError(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

// DELETE /api/users/:id. Accounts cannot delete themselves.
func DeleteUser(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if middleware.GetUserID(c) == id {
		respondError(c, http.StatusConflict, "conflict", "you cannot delete your own account", nil)
		return
	}
	res, err := intconfig.DB.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete user", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(c, http.StatusNotFound, "not_found", "user not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
