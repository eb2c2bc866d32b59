package models

import "time"

// Client entity — entreprise utilisatrice (le client de l'agence d'intérim).
// The Coef* columns are nullable overrides; a nil value means "use the default
// from DefaultCoefficients". Resolution happens in services, never here.
type Client struct {
	ID            uint   `gorm:"primaryKey"`
	Nom           string `gorm:"not null;index"` // Raison sociale ou nom
	NomCommercial string `gorm:"index"`
	Contact       string // Nom du contact principal
	Adresse       string
	CodePostal    string
	Ville         string
	Telephone     string
	Email         string
	SIREN         string `gorm:"index"` // France
	SIRET         string `gorm:"index"` // France
	TVAIntra      string `gorm:"index"` // Numéro TVA intracommunautaire

	// Coefficients de facturation personnalisés (nil = défaut)
	CoefHeureNormale      *float64
	CoefHeureSup25        *float64
	CoefHeureSup50        *float64
	CoefHeureSup100       *float64
	CoefHeureFeriee       *float64
	CoefPrimeImposable    *float64
	CoefPrimeNonImposable *float64
	CoefIndemniteCP       *float64
	CoefPrimeBonus        *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Coefficients merges the client's overrides over the default schedule.
func (c *Client) Coefficients() CoefficientSchedule {
	s := DefaultCoefficients
	pick := func(dst *float64, override *float64) {
		if override != nil {
			*dst = *override
		}
	}
	pick(&s.HeureNormale, c.CoefHeureNormale)
	pick(&s.HeureSup25, c.CoefHeureSup25)
	pick(&s.HeureSup50, c.CoefHeureSup50)
	pick(&s.HeureSup100, c.CoefHeureSup100)
	pick(&s.HeureFeriee, c.CoefHeureFeriee)
	pick(&s.PrimeImposable, c.CoefPrimeImposable)
	pick(&s.PrimeNonImposable, c.CoefPrimeNonImposable)
	pick(&s.IndemniteCP, c.CoefIndemniteCP)
	pick(&s.PrimeBonus, c.CoefPrimeBonus)
	return s
}
