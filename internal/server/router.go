package server

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/auth"
	"github.com/adhexa/interim-app/internal/handlers"
	"github.com/adhexa/interim-app/internal/httpx"
	"github.com/adhexa/interim-app/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	secured := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}

	coefSvc := services.NewCoefficientService(db)
	rateSvc := services.NewRateService(db)
	ledger := services.NewLedgerService(db)

	// Client endpoints
	ch := handlers.NewClientHandler(db, coefSvc)
	mux.Handle("/clients", secured(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ch.List(w, r)
		case http.MethodPost:
			ch.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/clients/coefficients", secured(ch.Coefficients))

	// Personnel endpoints
	ph := handlers.NewPersonnelHandler(db)
	mux.Handle("/personnel", secured(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ph.List(w, r)
		case http.MethodPost:
			ph.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))

	// Contract endpoints — every mutation goes through the audit ledger
	cth := handlers.NewContractHandler(db, ledger)
	mux.Handle("/contracts", secured(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cth.List(w, r)
		case http.MethodPost:
			cth.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/contracts/update", secured(cth.Update))
	mux.Handle("/contracts/history", secured(cth.History))

	// Invoice endpoints
	ih := handlers.NewInvoiceHandler(db, rateSvc, coefSvc)
	mux.Handle("/invoices", secured(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ih.List(w, r)
		case http.MethodPost:
			ih.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/invoices/lines", secured(ih.CreateLine))
	mux.Handle("/invoices/lines/recalc", secured(ih.RecalcLine))

	return mux
}
