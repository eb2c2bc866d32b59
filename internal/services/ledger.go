package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/models"
)

// maxRecordAttempts bounds the retry loop when concurrent writers race on a
// version number, so two stubborn writers cannot livelock each other.
const maxRecordAttempts = 5

// LedgerService owns the contract audit ledger. Entries are append-only:
// this service exposes no update or delete, and the (contract_id, version)
// unique index makes duplicate version numbers impossible at the store level.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService { return &LedgerService{DB: db} }

// RecordChange appends one ledger entry for a contract mutation and commits
// the live contract state in the same transaction — both take effect
// together or not at all. previous is nil for a brand-new contract (version
// 1, classification "creation").
//
// Version assignment is read-max-then-insert INSIDE the transaction, backed
// by the unique index: a concurrent writer that claims the same number makes
// the insert fail, the whole transaction rolls back (including the live
// update), and the operation retries with a freshly read version.
func (s *LedgerService) RecordChange(ctx context.Context, actorID uint, previous *models.ContractSnapshot, proposed *models.Contract) (models.ContractVersion, error) {
	diff, changeType, err := DiffSnapshots(previous, proposed.Snapshot())
	if err != nil {
		return models.ContractVersion{}, err
	}
	diffJSON, err := json.Marshal(diff)
	if err != nil {
		return models.ContractVersion{}, fmt.Errorf("encoding diff: %w", err)
	}

	// A rolled-back create can leave a stale generated ID on the struct;
	// restore the original before every attempt so Save keeps meaning
	// "insert" for creations and "update" for edits.
	originalID := proposed.ID

	var entry models.ContractVersion
	var lastErr error
	for attempt := 1; attempt <= maxRecordAttempts; attempt++ {
		proposed.ID = originalID
		entry, lastErr = s.tryRecord(ctx, actorID, changeType, string(diffJSON), proposed)
		if lastErr == nil {
			return entry, nil
		}
		if !errors.Is(lastErr, ErrVersionConflict) {
			return models.ContractVersion{}, lastErr
		}
	}
	return models.ContractVersion{}, fmt.Errorf("contract %d: version still contended after %d attempts: %w", originalID, maxRecordAttempts, lastErr)
}

func (s *LedgerService) tryRecord(ctx context.Context, actorID uint, changeType, diffJSON string, proposed *models.Contract) (models.ContractVersion, error) {
	var entry models.ContractVersion
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Live state first: creations need the generated contract id before
		// the entry can reference it.
		if err := tx.Save(proposed).Error; err != nil {
			return fmt.Errorf("committing contract state: %w", err)
		}

		var current int
		if err := tx.Model(&models.ContractVersion{}).
			Where("contract_id = ?", proposed.ID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&current).Error; err != nil {
			return fmt.Errorf("reading max version: %w", err)
		}

		snapJSON, err := json.Marshal(proposed.Snapshot())
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		entry = models.ContractVersion{
			ContractID: proposed.ID,
			Version:    current + 1,
			EntryUID:   uuid.NewString(),
			ActorID:    actorID,
			ChangeType: changeType,
			Diff:       diffJSON,
			Snapshot:   string(snapJSON),
		}
		if err := tx.Create(&entry).Error; err != nil {
			if isVersionConflict(err) {
				return ErrVersionConflict
			}
			return fmt.Errorf("appending ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		if isTransientLock(err) {
			// Busy store (sqlite lock upgrade lost to a concurrent writer):
			// same remedy as a version conflict, roll back and retry.
			return models.ContractVersion{}, fmt.Errorf("%s: %w", err.Error(), ErrVersionConflict)
		}
		return models.ContractVersion{}, err
	}
	return entry, nil
}

// History returns every ledger entry of a contract in version order, the
// only contract the audit viewer depends on.
func (s *LedgerService) History(contractID uint) ([]models.ContractVersion, error) {
	var entries []models.ContractVersion
	if err := s.DB.Where("contract_id = ?", contractID).Order("version ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("loading history for contract %d: %w", contractID, err)
	}
	return entries, nil
}

// isVersionConflict recognises a unique violation on (contract_id, version)
// from either store backend.
func isVersionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "idx_contract_version") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed: contract_versions")
}

// isTransientLock recognises sqlite's lock contention, which surfaces as an
// error instead of blocking the loser.
func isTransientLock(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
