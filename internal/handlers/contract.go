package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/auth"
	"github.com/adhexa/interim-app/internal/httpx"
	"github.com/adhexa/interim-app/internal/models"
	"github.com/adhexa/interim-app/internal/services"
	"github.com/adhexa/interim-app/internal/validation"
)

var (
	contractTypes    = []string{models.ContractTypeNew, models.ContractTypeModification, models.ContractTypeRenewal, models.ContractTypeRider, models.ContractTypeDuplicate}
	contractStatuses = []string{models.ContractStatusDraft, models.ContractStatusActive, models.ContractStatusTerminated, models.ContractStatusCancelled}
)

// ContractHandler routes every contract mutation through the audit ledger:
// the live row is never written outside a RecordChange transaction.
type ContractHandler struct {
	DB     *gorm.DB
	Ledger *services.LedgerService
}

func NewContractHandler(db *gorm.DB, ledger *services.LedgerService) *ContractHandler {
	return &ContractHandler{DB: db, Ledger: ledger}
}

type contractReq struct {
	ID                 uint     `json:"id"` // update only
	Number             string   `json:"number"`
	Type               string   `json:"type"`
	Status             string   `json:"status"`
	StartDate          string   `json:"start_date"` // YYYY-MM-DD
	EndDate            *string  `json:"end_date"`
	ReferenceSalary    *float64 `json:"reference_salary"`
	HourlyRate         *float64 `json:"hourly_rate"`
	BillingCoefficient *float64 `json:"billing_coefficient"`
	ClientID           uint     `json:"client_id"`
	PersonnelID        uint     `json:"personnel_id"`
	Workplace          string   `json:"workplace"`
	Justification      string   `json:"justification"`
	RoleDescription    string   `json:"role_description"`
}

func (req *contractReq) validate() (start time.Time, end *time.Time, v validation.Violations) {
	v = validation.Violations{}
	validation.Required("number", req.Number, v)
	validation.OneOf("type", req.Type, contractTypes, v)
	validation.OneOf("status", req.Status, contractStatuses, v)
	if req.ClientID == 0 {
		v["client_id"] = "required"
	}
	if req.PersonnelID == 0 {
		v["personnel_id"] = "required"
	}
	var err error
	start, err = time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		v["start_date"] = "invalid_date"
	}
	if req.EndDate != nil && *req.EndDate != "" {
		e, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			v["end_date"] = "invalid_date"
		} else {
			end = &e
		}
	}
	if v["start_date"] == "" {
		validation.DateOrder("end_date", start, end, v)
	}
	if req.HourlyRate != nil {
		validation.PositiveFloat("hourly_rate", *req.HourlyRate, v)
	}
	return start, end, v
}

func (req *contractReq) apply(c *models.Contract, start time.Time, end *time.Time) {
	c.Number = req.Number
	c.Type = req.Type
	c.Status = req.Status
	c.StartDate = start
	c.EndDate = end
	c.ReferenceSalary = req.ReferenceSalary
	c.HourlyRate = req.HourlyRate
	c.BillingCoefficient = req.BillingCoefficient
	c.ClientID = req.ClientID
	c.PersonnelID = req.PersonnelID
	c.Workplace = req.Workplace
	c.Justification = req.Justification
	c.RoleDescription = req.RoleDescription
}

// List: GET /contracts
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
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
	dbq := h.DB.Model(&models.Contract{})
	if v := r.URL.Query().Get("status"); v != "" {
		dbq = dbq.Where("status = ?", v)
	}
	if v := r.URL.Query().Get("client_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			dbq = dbq.Where("client_id = ?", id)
		}
	}
	var total int64
	dbq.Count(&total)
	var contracts []models.Contract
	if err := dbq.Preload("Client").Preload("Personnel").Order("id desc").Limit(limit).Offset(offset).Find(&contracts).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_contracts", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": contracts, "total": total, "limit": limit, "offset": offset})
}

// Create: POST /contracts — writes version 1 (creation) through the ledger.
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req contractReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	start, end, v := req.validate()
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if !h.referencesExist(w, req.ClientID, req.PersonnelID) {
		return
	}
	var count int64
	h.DB.Model(&models.Contract{}).Where("number = ?", req.Number).Count(&count)
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "contract_number_taken", nil)
		return
	}

	var contract models.Contract
	req.apply(&contract, start, end)
	entry, err := h.Ledger.RecordChange(r.Context(), uid, nil, &contract)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"contract": contract, "version": entry.Version, "entry_uid": entry.EntryUID})
}

// Update: POST /contracts/update — diff against the stored state and append
// a new version; the live row only changes if the ledger entry commits.
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req contractReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var stored models.Contract
	if err := h.DB.First(&stored, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "contract_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "load_failed", nil)
		return
	}
	start, end, v := req.validate()
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if !h.referencesExist(w, req.ClientID, req.PersonnelID) {
		return
	}
	if req.Number != stored.Number {
		var count int64
		h.DB.Model(&models.Contract{}).Where("number = ? AND id <> ?", req.Number, stored.ID).Count(&count)
		if count > 0 {
			httpx.JSONError(w, http.StatusConflict, "contract_number_taken", nil)
			return
		}
	}

	previous := stored.Snapshot()
	req.apply(&stored, start, end)
	entry, err := h.Ledger.RecordChange(r.Context(), uid, &previous, &stored)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"contract": stored, "version": entry.Version, "change_type": entry.ChangeType, "entry_uid": entry.EntryUID})
}

// History: GET /contracts/history?contract_id=N — ledger entries in version
// order, for the change timeline view.
func (h *ContractHandler) History(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("contract_id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_contract_id", nil)
		return
	}
	var count int64
	h.DB.Model(&models.Contract{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "contract_not_found", nil)
		return
	}
	entries, err := h.Ledger.History(uint(id))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "history_failed", nil)
		return
	}
	type historyEntry struct {
		Version    int             `json:"version"`
		EntryUID   string          `json:"entry_uid"`
		ActorID    uint            `json:"actor_id"`
		ChangeType string          `json:"change_type"`
		Diff       json.RawMessage `json:"diff"`
		Snapshot   json.RawMessage `json:"snapshot"`
		CreatedAt  time.Time       `json:"created_at"`
	}
	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			Version:    e.Version,
			EntryUID:   e.EntryUID,
			ActorID:    e.ActorID,
			ChangeType: e.ChangeType,
			Diff:       json.RawMessage(e.Diff),
			Snapshot:   json.RawMessage(e.Snapshot),
			CreatedAt:  e.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"contract_id": id, "entries": out})
}

func (h *ContractHandler) referencesExist(w http.ResponseWriter, clientID, personnelID uint) bool {
	var count int64
	h.DB.Model(&models.Client{}).Where("id = ?", clientID).Count(&count)
	if count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return false
	}
	h.DB.Model(&models.Personnel{}).Where("id = ?", personnelID).Count(&count)
	if count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "personnel_not_found", nil)
		return false
	}
	return true
}

func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrVersionConflict):
		httpx.JSONError(w, http.StatusConflict, "version_conflict", nil)
	case errors.Is(err, services.ErrInvalidState):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_state", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "record_failed", nil)
	}
}
