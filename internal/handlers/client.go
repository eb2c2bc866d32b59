package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/httpx"
	"github.com/adhexa/interim-app/internal/models"
	"github.com/adhexa/interim-app/internal/services"
	"github.com/adhexa/interim-app/internal/validation"
)

type ClientHandler struct {
	DB    *gorm.DB
	Coefs *services.CoefficientService
}

func NewClientHandler(db *gorm.DB, coefs *services.CoefficientService) *ClientHandler {
	return &ClientHandler{DB: db, Coefs: coefs}
}

// List: GET /clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	var total int64
	h.DB.Model(&models.Client{}).Count(&total)
	var clients []models.Client
	if err := h.DB.Order("nom asc").Limit(limit).Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": total, "limit": limit})
}

// Create: POST /clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("nom", c.Nom, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c.ID = 0
	if err := h.DB.Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// Coefficients: GET /clients/coefficients?client_id=N — resolved schedule,
// defaults merged in.
func (h *ClientHandler) Coefficients(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("client_id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_client_id", nil)
		return
	}
	schedule, err := h.Coefs.Resolve(uint(id))
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"client_id": id, "coefficients": schedule})
}
