package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/httpx"
	"github.com/adhexa/interim-app/internal/models"
	"github.com/adhexa/interim-app/internal/validation"
)

type PersonnelHandler struct {
	DB *gorm.DB
}

func NewPersonnelHandler(db *gorm.DB) *PersonnelHandler { return &PersonnelHandler{DB: db} }

// List: GET /personnel
func (h *PersonnelHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	var total int64
	h.DB.Model(&models.Personnel{}).Count(&total)
	var personnel []models.Personnel
	if err := h.DB.Order("nom asc").Limit(limit).Find(&personnel).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_personnel", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": personnel, "total": total, "limit": limit})
}

// Create: POST /personnel
func (h *PersonnelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p models.Personnel
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("matricule", p.Matricule, v)
	validation.Required("nom", p.Nom, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p.ID = 0
	if err := h.DB.Create(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusConflict, "matricule_taken", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}
