package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/adhexa/interim-app/internal/models"
	"github.com/adhexa/interim-app/internal/services"
)

func TestInvoiceLineComputedFromContractRate(t *testing.T) {
	db := setupHandlerTestDB(t)
	user, client, worker := seedHandlerFixtures(t, db)
	contract := seedActiveContract(t, db, client, worker, 100)
	h := NewInvoiceHandler(db, services.NewRateService(db), services.NewCoefficientService(db))

	inv := models.Invoice{Number: "FAC-2026-001", ClientID: client.ID, Periode: "2026-02", Status: "draft", Currency: "EUR"}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("invoice: %v", err)
	}

	// 10h normal + 4h sup25 at rate 100 with default coefficients:
	// 10*100*1.0 + 4*100*1.25 = 1500.00
	body := fmt.Sprintf(`{"invoice_id":%d,"personnel_id":%d,"heures_normales":10,"heures_sup25":4}`, inv.ID, worker.ID)
	w := postJSON(t, h.CreateLine, "/invoices/lines", body, user.ID)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Line       models.InvoiceLine `json:"line"`
		Unresolved bool               `json:"unresolved"`
		ContractID *uint              `json:"contract_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Unresolved {
		t.Fatalf("line should be resolved: %s", w.Body.String())
	}
	if resp.Line.MontantHT == nil || *resp.Line.MontantHT != 1500.00 {
		t.Errorf("montant_ht = %v, want 1500.00", resp.Line.MontantHT)
	}
	if resp.ContractID == nil || *resp.ContractID != contract.ID {
		t.Errorf("contract_id = %v, want %d", resp.ContractID, contract.ID)
	}
}

func TestInvoiceLineUnresolvedWithoutActiveContract(t *testing.T) {
	db := setupHandlerTestDB(t)
	user, client, worker := seedHandlerFixtures(t, db)
	h := NewInvoiceHandler(db, services.NewRateService(db), services.NewCoefficientService(db))

	inv := models.Invoice{Number: "FAC-2026-002", ClientID: client.ID, Status: "draft", Currency: "EUR"}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("invoice: %v", err)
	}

	body := fmt.Sprintf(`{"invoice_id":%d,"personnel_id":%d,"heures_normales":35}`, inv.ID, worker.ID)
	w := postJSON(t, h.CreateLine, "/invoices/lines", body, user.ID)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Line             models.InvoiceLine `json:"line"`
		Unresolved       bool               `json:"unresolved"`
		NeedsManual      bool               `json:"needs_manual_amount"`
		NoActiveContract bool               `json:"no_active_contract"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// "no amount because no rate" must never come back as 0.00
	if !resp.Unresolved || !resp.NeedsManual || !resp.NoActiveContract {
		t.Errorf("missing unresolved signals: %s", w.Body.String())
	}
	if resp.Line.MontantHT != nil {
		t.Errorf("montant_ht = %v, want null", *resp.Line.MontantHT)
	}
}

func TestInvoiceLineManualAmountOverride(t *testing.T) {
	db := setupHandlerTestDB(t)
	user, client, worker := seedHandlerFixtures(t, db)
	h := NewInvoiceHandler(db, services.NewRateService(db), services.NewCoefficientService(db))

	inv := models.Invoice{Number: "FAC-2026-003", ClientID: client.ID, Status: "draft", Currency: "EUR"}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("invoice: %v", err)
	}

	body := fmt.Sprintf(`{"invoice_id":%d,"personnel_id":%d,"heures_normales":35,"montant_ht":812.75}`, inv.ID, worker.ID)
	w := postJSON(t, h.CreateLine, "/invoices/lines", body, user.ID)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Line       models.InvoiceLine `json:"line"`
		Unresolved bool               `json:"unresolved"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Unresolved {
		t.Errorf("manual amount must not be unresolved")
	}
	if resp.Line.MontantHT == nil || *resp.Line.MontantHT != 812.75 {
		t.Errorf("montant_ht = %v, want 812.75", resp.Line.MontantHT)
	}
}

func TestInvoiceLineExplicitRecalc(t *testing.T) {
	db := setupHandlerTestDB(t)
	user, client, worker := seedHandlerFixtures(t, db)
	contract := seedActiveContract(t, db, client, worker, 100)
	h := NewInvoiceHandler(db, services.NewRateService(db), services.NewCoefficientService(db))

	inv := models.Invoice{Number: "FAC-2026-004", ClientID: client.ID, Status: "draft", Currency: "EUR"}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("invoice: %v", err)
	}
	body := fmt.Sprintf(`{"invoice_id":%d,"personnel_id":%d,"heures_normales":10}`, inv.ID, worker.ID)
	w := postJSON(t, h.CreateLine, "/invoices/lines", body, user.ID)
	if w.Code != http.StatusCreated {
		t.Fatalf("create line: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Line models.InvoiceLine `json:"line"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Line.MontantHT == nil || *created.Line.MontantHT != 1000.00 {
		t.Fatalf("initial montant_ht = %v, want 1000.00", created.Line.MontantHT)
	}

	// Rate moves on the contract; the stored line must NOT change by itself.
	newRate := 120.0
	if err := db.Model(&models.Contract{}).Where("id = ?", contract.ID).Update("hourly_rate", newRate).Error; err != nil {
		t.Fatalf("update rate: %v", err)
	}
	var untouched models.InvoiceLine
	if err := db.First(&untouched, created.Line.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *untouched.MontantHT != 1000.00 {
		t.Fatalf("line recomputed implicitly: %v", *untouched.MontantHT)
	}

	// Explicit recalc picks up the new rate.
	recalc := fmt.Sprintf(`{"line_id":%d}`, created.Line.ID)
	w = postJSON(t, h.RecalcLine, "/invoices/lines/recalc", recalc, user.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("recalc: %d %s", w.Code, w.Body.String())
	}
	var recalced struct {
		Line models.InvoiceLine `json:"line"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &recalced); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if recalced.Line.MontantHT == nil || *recalced.Line.MontantHT != 1200.00 {
		t.Errorf("recalced montant_ht = %v, want 1200.00", recalced.Line.MontantHT)
	}
}

func TestInvoiceLineUnknownInvoice(t *testing.T) {
	db := setupHandlerTestDB(t)
	user, _, worker := seedHandlerFixtures(t, db)
	h := NewInvoiceHandler(db, services.NewRateService(db), services.NewCoefficientService(db))

	body := fmt.Sprintf(`{"invoice_id":31337,"personnel_id":%d,"heures_normales":10}`, worker.ID)
	w := postJSON(t, h.CreateLine, "/invoices/lines", body, user.ID)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}
