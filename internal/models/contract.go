package models

import "time"

// Contract types
const (
	ContractTypeNew          = "new"
	ContractTypeModification = "modification"
	ContractTypeRenewal      = "renewal"
	ContractTypeRider        = "rider" // avenant
	ContractTypeDuplicate    = "duplicate"
)

// Contract statuses
const (
	ContractStatusDraft      = "draft"
	ContractStatusActive     = "active"
	ContractStatusTerminated = "terminated"
	ContractStatusCancelled  = "cancelled"
)

// Contract — contrat de mise à disposition liant un intérimaire à un client.
// At most one contract per (personnel, client) pair should be active with a
// null or future end date; the schema does not enforce this, the rate
// resolver surfaces violations instead of hiding them.
type Contract struct {
	ID     uint   `gorm:"primaryKey"`
	Number string `gorm:"column:number;uniqueIndex;not null"` // numéro de contrat lisible
	Type   string `gorm:"not null;default:'new'"`
	Status string `gorm:"not null;index;default:'draft'"`

	StartDate time.Time  `gorm:"not null;index"`
	EndDate   *time.Time // nil = durée indéterminée

	ReferenceSalary    *float64 // salaire de référence
	HourlyRate         *float64 // taux horaire contractuel, base du calcul de facturation
	BillingCoefficient *float64 // coefficient global contractuel (informatif)

	ClientID    uint      `gorm:"not null;index:idx_contract_pairing"`
	Client      Client    `gorm:"foreignKey:ClientID"`
	PersonnelID uint      `gorm:"not null;index:idx_contract_pairing"`
	Personnel   Personnel `gorm:"foreignKey:PersonnelID"`

	Workplace       string // lieu de mission
	Justification   string // motif de recours
	RoleDescription string // caractéristiques du poste

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContractSnapshot is the flat, versioned view of a contract: exactly the
// fields the audit ledger diffs and snapshots. Timestamps and preloaded
// relations deliberately stay out.
type ContractSnapshot struct {
	Number             string     `json:"number"`
	Type               string     `json:"type"`
	Status             string     `json:"status"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	ReferenceSalary    *float64   `json:"reference_salary"`
	HourlyRate         *float64   `json:"hourly_rate"`
	BillingCoefficient *float64   `json:"billing_coefficient"`
	ClientID           uint       `json:"client_id"`
	PersonnelID        uint       `json:"personnel_id"`
	Workplace          string     `json:"workplace"`
	Justification      string     `json:"justification"`
	RoleDescription    string     `json:"role_description"`
}

// Snapshot extracts the versioned fields of the contract.
func (c *Contract) Snapshot() ContractSnapshot {
	return ContractSnapshot{
		Number:             c.Number,
		Type:               c.Type,
		Status:             c.Status,
		StartDate:          c.StartDate,
		EndDate:            c.EndDate,
		ReferenceSalary:    c.ReferenceSalary,
		HourlyRate:         c.HourlyRate,
		BillingCoefficient: c.BillingCoefficient,
		ClientID:           c.ClientID,
		PersonnelID:        c.PersonnelID,
		Workplace:          c.Workplace,
		Justification:      c.Justification,
		RoleDescription:    c.RoleDescription,
	}
}
