package models

// CoefficientSchedule is a client's fully resolved multiplier table: every raw
// hour or allowance quantity on a timesheet line is multiplied by one of these
// before invoicing.
type CoefficientSchedule struct {
	HeureNormale      float64 `json:"coef_heure_normale"`
	HeureSup25        float64 `json:"coef_heure_sup25"`
	HeureSup50        float64 `json:"coef_heure_sup50"`
	HeureSup100       float64 `json:"coef_heure_sup100"`
	HeureFeriee       float64 `json:"coef_heure_feriee"` // jours fériés / heures non travaillées
	PrimeImposable    float64 `json:"coef_prime_imposable"`
	PrimeNonImposable float64 `json:"coef_prime_non_imposable"`
	IndemniteCP       float64 `json:"coef_indemnite_cp"` // indemnité de congés payés
	PrimeBonus        float64 `json:"coef_prime_bonus"`
}

// DefaultCoefficients is the single source of truth for fallback multipliers.
// A client that has not customised a coefficient gets the value from here.
var DefaultCoefficients = CoefficientSchedule{
	HeureNormale:      1.0,
	HeureSup25:        1.25,
	HeureSup50:        1.5,
	HeureSup100:       2.0,
	HeureFeriee:       2.0,
	PrimeImposable:    1.0,
	PrimeNonImposable: 1.0,
	IndemniteCP:       1.0,
	PrimeBonus:        1.0,
}
