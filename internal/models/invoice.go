package models

import "time"

// Invoicing models
type Invoice struct {
	ID        uint          `gorm:"primaryKey"`
	Number    string        `gorm:"uniqueIndex;not null"`
	Status    string        `gorm:"not null;default:'draft'"` // draft, final
	ClientID  uint          `gorm:"not null;index"`
	Client    Client        `gorm:"foreignKey:ClientID"`
	Periode   string        // période facturée, ex: "2026-08"
	Currency  string        `gorm:"not null;default:'EUR'"`
	Lines     []InvoiceLine `gorm:"foreignKey:InvoiceID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceLine carries the raw hour/allowance quantities for one worker over
// the billed period. MontantHT is nil while no rate could be resolved and no
// manual amount was entered — that is a different state from 0.00. Lines are
// never recomputed implicitly; edits go through the explicit recalc endpoint.
type InvoiceLine struct {
	ID          uint  `gorm:"primaryKey"`
	InvoiceID   uint  `gorm:"not null;index"`
	PersonnelID *uint `gorm:"index"`
	ContractID  *uint `gorm:"index"` // contrat ayant fourni le taux (traçabilité)

	HeuresNormales float64
	HeuresSup25    float64
	HeuresSup50    float64
	HeuresSup100   float64
	HeuresFeriees  float64

	PrimesImposables    float64
	PrimesNonImposables float64
	IndemnitesCP        float64
	PrimesBonus         float64

	MontantHT   *float64 // calculé ou saisi manuellement
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}
