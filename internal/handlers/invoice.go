package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/httpx"
	"github.com/adhexa/interim-app/internal/models"
	"github.com/adhexa/interim-app/internal/services"
	"github.com/adhexa/interim-app/internal/validation"
)

// InvoiceHandler owns invoices and their billed lines. Line amounts come
// from the rate resolver + billing calculator; when no rate can be resolved
// the response says so explicitly instead of writing a fake 0.00.
type InvoiceHandler struct {
	DB    *gorm.DB
	Rates *services.RateService
	Coefs *services.CoefficientService
}

func NewInvoiceHandler(db *gorm.DB, rates *services.RateService, coefs *services.CoefficientService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Rates: rates, Coefs: coefs}
}

// List: GET /invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	dbq := h.DB.Model(&models.Invoice{})
	if v := r.URL.Query().Get("client_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			dbq = dbq.Where("client_id = ?", id)
		}
	}
	var total int64
	dbq.Count(&total)
	var invs []models.Invoice
	if err := dbq.Preload("Lines").Order("id desc").Limit(limit).Offset(offset).Find(&invs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": total, "limit": limit, "offset": offset})
}

// Create: POST /invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Number   string `json:"number"`
		ClientID uint   `json:"client_id"`
		Periode  string `json:"periode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("number", req.Number, v)
	if req.ClientID == 0 {
		v["client_id"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var count int64
	h.DB.Model(&models.Client{}).Where("id = ?", req.ClientID).Count(&count)
	if count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	inv := models.Invoice{Number: req.Number, ClientID: req.ClientID, Periode: req.Periode, Status: "draft", Currency: "EUR"}
	if err := h.DB.Create(&inv).Error; err != nil {
		httpx.JSONError(w, http.StatusConflict, "invoice_number_taken", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": inv.ID, "number": inv.Number})
}

type lineReq struct {
	InvoiceID   uint     `json:"invoice_id"`
	LineID      uint     `json:"line_id"` // recalc only
	PersonnelID *uint    `json:"personnel_id"`
	Description string   `json:"description"`
	MontantHT   *float64 `json:"montant_ht"` // manual override; skips calculation
	services.Quantities
}

// lineResponse carries the calculation outcome next to the stored line. The
// UI must be able to tell "zero because the inputs are zero" apart from
// "no amount because no rate was found" — conflating them is a billing bug.
type lineResponse struct {
	Line             models.InvoiceLine `json:"line"`
	Unresolved       bool               `json:"unresolved"`
	NeedsManualEntry bool               `json:"needs_manual_amount"`
	NoActiveContract bool               `json:"no_active_contract,omitempty"`
	Ambiguous        bool               `json:"ambiguous,omitempty"`
	ContractID       *uint              `json:"contract_id,omitempty"`
}

// CreateLine: POST /invoices/lines — one line per billed worker-period.
// The amount is computed once here; later edits require an explicit recalc.
func (h *InvoiceHandler) CreateLine(w http.ResponseWriter, r *http.Request) {
	var req lineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var inv models.Invoice
	if err := h.DB.First(&inv, req.InvoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "load_failed", nil)
		return
	}

	line := models.InvoiceLine{
		InvoiceID:           inv.ID,
		PersonnelID:         req.PersonnelID,
		Description:         req.Description,
		HeuresNormales:      req.HeuresNormales,
		HeuresSup25:         req.HeuresSup25,
		HeuresSup50:         req.HeuresSup50,
		HeuresSup100:        req.HeuresSup100,
		HeuresFeriees:       req.HeuresFeriees,
		PrimesImposables:    req.PrimesImposables,
		PrimesNonImposables: req.PrimesNonImposables,
		IndemnitesCP:        req.IndemnitesCP,
		PrimesBonus:         req.PrimesBonus,
	}

	resp, ok := h.priceLine(w, &inv, &line, req.MontantHT)
	if !ok {
		return
	}
	if err := h.DB.Create(&line).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "create_failed", nil)
		return
	}
	resp.Line = line
	httpx.JSON(w, http.StatusCreated, resp)
}

// RecalcLine: POST /invoices/lines/recalc — the only path that recomputes a
// stored line's amount.
func (h *InvoiceHandler) RecalcLine(w http.ResponseWriter, r *http.Request) {
	var req lineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.LineID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_line_id", nil)
		return
	}
	var line models.InvoiceLine
	if err := h.DB.First(&line, req.LineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "line_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "load_failed", nil)
		return
	}
	var inv models.Invoice
	if err := h.DB.First(&inv, line.InvoiceID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "load_failed", nil)
		return
	}

	resp, ok := h.priceLine(w, &inv, &line, req.MontantHT)
	if !ok {
		return
	}
	if err := h.DB.Save(&line).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "save_failed", nil)
		return
	}
	resp.Line = line
	httpx.JSON(w, http.StatusOK, resp)
}

// priceLine fills MontantHT and ContractID on the line. Manual amounts win;
// otherwise the rate resolver + calculator decide, and an unresolved outcome
// leaves MontantHT nil. Writes the HTTP error itself when resolution fails.
func (h *InvoiceHandler) priceLine(w http.ResponseWriter, inv *models.Invoice, line *models.InvoiceLine, manual *float64) (lineResponse, bool) {
	if manual != nil {
		line.MontantHT = manual
		return lineResponse{}, true
	}
	if line.PersonnelID == nil {
		// No worker attached: nothing to resolve a rate against.
		line.MontantHT = nil
		return lineResponse{Unresolved: true, NeedsManualEntry: true}, true
	}

	res, err := h.Rates.Resolve(*line.PersonnelID, inv.ClientID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "rate_resolution_failed", nil)
		return lineResponse{}, false
	}
	coefs, err := h.Coefs.Resolve(inv.ClientID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		} else {
			httpx.JSONError(w, http.StatusInternalServerError, "coefficients_failed", nil)
		}
		return lineResponse{}, false
	}

	resp := lineResponse{NoActiveContract: res.NoActiveContract, Ambiguous: res.Ambiguous}
	if res.ContractID != 0 {
		id := res.ContractID
		line.ContractID = &id
		resp.ContractID = &id
	}

	var rate *float64
	if res.HasRate {
		rate = &res.Rate
	}
	result := services.ComputeLineAmount(services.LineQuantities(*line), rate, coefs)
	if result.Unresolved {
		line.MontantHT = nil
		resp.Unresolved = true
		resp.NeedsManualEntry = true
		return resp, true
	}
	amount := result.MontantHT
	line.MontantHT = &amount
	return resp, true
}
