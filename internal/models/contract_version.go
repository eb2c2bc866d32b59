package models

import "time"

// Change classifications recorded on a ledger entry.
const (
	ChangeCreation     = "creation"
	ChangeModification = "modification"
	ChangeStatus       = "status_change"
)

// ContractVersion is one immutable entry of the contract audit ledger.
// Version numbers start at 1 and are gapless per contract; the composite
// unique index is what makes concurrent writers lose cleanly instead of
// silently double-claiming a number. Entries are never updated or deleted —
// there is no API for it and the handlers expose none.
type ContractVersion struct {
	ID         uint   `gorm:"primaryKey"`
	ContractID uint   `gorm:"not null;uniqueIndex:idx_contract_version,priority:1"`
	Version    int    `gorm:"not null;uniqueIndex:idx_contract_version,priority:2"`
	EntryUID   string `gorm:"size:36;uniqueIndex"` // référence externe stable (uuid)
	ActorID    uint   `gorm:"not null"`            // qui a fait la modification
	ChangeType string `gorm:"not null"`            // creation, modification, status_change
	Diff       string `gorm:"type:text"`           // JSON: champ -> {old, new}, champs modifiés uniquement
	Snapshot   string `gorm:"type:text;not null"`  // JSON: état complet après modification
	CreatedAt  time.Time
}
