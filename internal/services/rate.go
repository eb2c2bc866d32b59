package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/models"
)

// RateResolution is the outcome of looking up which contract governs billing
// for a (personnel, client) pair. Absence of a usable rate is a legitimate
// outcome the caller must handle (manual amount entry), never an error and
// never a silent zero.
type RateResolution struct {
	ContractID uint    `json:"contract_id,omitempty"`
	Rate       float64 `json:"rate,omitempty"`
	HasRate    bool    `json:"has_rate"`
	// NoActiveContract: no active contract exists at all for the pair.
	NoActiveContract bool `json:"no_active_contract,omitempty"`
	// Ambiguous: several contracts were simultaneously active with a null or
	// future end date. The most recently started one was picked; business has
	// not confirmed that policy, so the flag is surfaced rather than hidden.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// RateService finds the contractual hourly rate for a worker at a client.
type RateService struct {
	DB *gorm.DB
}

func NewRateService(db *gorm.DB) *RateService { return &RateService{DB: db} }

// Resolve returns the hourly rate of the most recently started active
// contract for the pair, with the contract id for traceability on the
// invoice line. Deterministic for a fixed contract set.
func (s *RateService) Resolve(personnelID, clientID uint) (RateResolution, error) {
	var contracts []models.Contract
	err := s.DB.
		Where("personnel_id = ? AND client_id = ? AND status = ?", personnelID, clientID, models.ContractStatusActive).
		Order("start_date DESC, id DESC").
		Find(&contracts).Error
	if err != nil {
		return RateResolution{}, fmt.Errorf("listing active contracts for personnel=%d client=%d: %w", personnelID, clientID, err)
	}
	if len(contracts) == 0 {
		return RateResolution{NoActiveContract: true}, nil
	}

	// Uniqueness invariant check: more than one active contract still open
	// (null or future end date) for the same pair.
	now := time.Now()
	open := 0
	for _, c := range contracts {
		if c.EndDate == nil || c.EndDate.After(now) {
			open++
		}
	}

	winner := contracts[0]
	res := RateResolution{ContractID: winner.ID, Ambiguous: open > 1}
	if winner.HourlyRate == nil {
		// Contract exists but carries no rate: same treatment as no contract,
		// minus the flag — the caller still gets the contract reference.
		return res, nil
	}
	res.Rate = *winner.HourlyRate
	res.HasRate = true
	return res, nil
}
