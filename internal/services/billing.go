package services

import (
	"github.com/shopspring/decimal"

	"github.com/adhexa/interim-app/internal/models"
)

// Quantities are the raw hour and allowance figures of one timesheet line.
type Quantities struct {
	HeuresNormales float64 `json:"heures_normales"`
	HeuresSup25    float64 `json:"heures_sup25"`
	HeuresSup50    float64 `json:"heures_sup50"`
	HeuresSup100   float64 `json:"heures_sup100"`
	HeuresFeriees  float64 `json:"heures_feriees"`

	PrimesImposables    float64 `json:"primes_imposables"`
	PrimesNonImposables float64 `json:"primes_non_imposables"`
	IndemnitesCP        float64 `json:"indemnites_cp"`
	PrimesBonus         float64 `json:"primes_bonus"`
}

// LineQuantities extracts the quantity fields of a stored invoice line.
func LineQuantities(l models.InvoiceLine) Quantities {
	return Quantities{
		HeuresNormales:      l.HeuresNormales,
		HeuresSup25:         l.HeuresSup25,
		HeuresSup50:         l.HeuresSup50,
		HeuresSup100:        l.HeuresSup100,
		HeuresFeriees:       l.HeuresFeriees,
		PrimesImposables:    l.PrimesImposables,
		PrimesNonImposables: l.PrimesNonImposables,
		IndemnitesCP:        l.IndemnitesCP,
		PrimesBonus:         l.PrimesBonus,
	}
}

// BillingResult distinguishes a computed amount from an unresolvable one.
// Unresolved means "no hourly rate was available, a manual amount is
// required" — NOT the same thing as a legitimate 0.00 total.
type BillingResult struct {
	MontantHT  float64 `json:"montant_ht"`
	Unresolved bool    `json:"unresolved"`
}

// ComputeLineAmount derives the billable amount of a line:
//
//	hours      = Σ hour_qty * rate * hour_coef   (five categories)
//	allowances = Σ allowance_qty * allowance_coef (four categories)
//	total      = round2(hours + allowances)
//
// Pure and idempotent. All arithmetic runs on decimals; the single final
// rounding is half-away-from-zero to 2 places, so the result does not depend
// on summand order or binary float accumulation. Negative or zero quantities
// are accepted as-is — input validation belongs to the UI layer.
func ComputeLineAmount(q Quantities, rate *float64, coefs models.CoefficientSchedule) BillingResult {
	if rate == nil {
		return BillingResult{Unresolved: true}
	}

	r := decimal.NewFromFloat(*rate)
	total := decimal.Zero
	for _, part := range []struct{ qty, coef float64 }{
		{q.HeuresNormales, coefs.HeureNormale},
		{q.HeuresSup25, coefs.HeureSup25},
		{q.HeuresSup50, coefs.HeureSup50},
		{q.HeuresSup100, coefs.HeureSup100},
		{q.HeuresFeriees, coefs.HeureFeriee},
	} {
		total = total.Add(decimal.NewFromFloat(part.qty).Mul(r).Mul(decimal.NewFromFloat(part.coef)))
	}
	for _, part := range []struct{ qty, coef float64 }{
		{q.PrimesImposables, coefs.PrimeImposable},
		{q.PrimesNonImposables, coefs.PrimeNonImposable},
		{q.IndemnitesCP, coefs.IndemniteCP},
		{q.PrimesBonus, coefs.PrimeBonus},
	} {
		total = total.Add(decimal.NewFromFloat(part.qty).Mul(decimal.NewFromFloat(part.coef)))
	}

	amount, _ := total.Round(2).Float64()
	return BillingResult{MontantHT: amount}
}
