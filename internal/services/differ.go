package services

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/adhexa/interim-app/internal/models"
)

// FieldChange holds the before/after values of one modified field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Diff maps changed field names to their old and new values. Unchanged
// fields never appear.
type Diff map[string]FieldChange

// DiffSnapshots compares two flat contract snapshots and classifies the
// change. A nil previous snapshot means contract creation: the diff is empty
// and the classification is forced to "creation" whatever the content.
// Otherwise the classification is "status_change" when the status field
// moved, "modification" for anything else. Pure function.
func DiffSnapshots(previous *models.ContractSnapshot, proposed models.ContractSnapshot) (Diff, string, error) {
	if err := validateSnapshot(proposed); err != nil {
		return nil, "", err
	}
	if previous == nil {
		return Diff{}, models.ChangeCreation, nil
	}

	before, err := snapshotFields(*previous)
	if err != nil {
		return nil, "", err
	}
	after, err := snapshotFields(proposed)
	if err != nil {
		return nil, "", err
	}

	diff := Diff{}
	for field, oldVal := range before {
		newVal := after[field]
		// JSON null and absent both decode to nil, so "absent equals null"
		// holds without a special case. Value equality, not identity.
		if !reflect.DeepEqual(oldVal, newVal) {
			diff[field] = FieldChange{Old: oldVal, New: newVal}
		}
	}

	changeType := models.ChangeModification
	if _, ok := diff["status"]; ok {
		changeType = models.ChangeStatus
	}
	return diff, changeType, nil
}

// snapshotFields flattens a snapshot into its JSON field map. Contracts have
// no nested sub-entities, so a one-level map is a faithful representation.
func snapshotFields(s models.ContractSnapshot) (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return m, nil
}

// validateSnapshot rejects structurally broken states before they reach the
// ledger. Fatal, never retried.
func validateSnapshot(s models.ContractSnapshot) error {
	switch {
	case s.Number == "":
		return fmt.Errorf("snapshot without contract number: %w", ErrInvalidState)
	case s.Status == "":
		return fmt.Errorf("snapshot without status: %w", ErrInvalidState)
	case s.ClientID == 0 || s.PersonnelID == 0:
		return fmt.Errorf("snapshot without client/personnel reference: %w", ErrInvalidState)
	case s.StartDate.IsZero():
		return fmt.Errorf("snapshot without start date: %w", ErrInvalidState)
	}
	return nil
}
