package engine

import "fmt"

// NotFoundError indicates an unknown entity id was supplied.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidInputError indicates a request was malformed (unknown stat, unknown
// catalog id, negative XP). Rejected before any state change.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnlockReason narrows why a perk unlock was refused.
type UnlockReason string

const (
	UnlockAlreadyUnlocked    UnlockReason = "already_unlocked"
	UnlockPrerequisiteNotMet UnlockReason = "prerequisite_not_met"
	UnlockInsufficientPoints UnlockReason = "insufficient_points"
)

// UnlockError is returned when a perk cannot be unlocked.
type UnlockError struct {
	TreeID     string
	PerkNumber int
	Reason     UnlockReason
	Detail     string
}

func (e UnlockError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("perk %s/%d: %s (%s)", e.TreeID, e.PerkNumber, e.Reason, e.Detail)
	}
	return fmt.Sprintf("perk %s/%d: %s", e.TreeID, e.PerkNumber, e.Reason)
}

// EncounterStateError is returned when a battle operation hits an encounter
// in the wrong state.
type EncounterStateError struct {
	EncounterID string
	Status      string
}

func (e EncounterStateError) Error() string {
	if e.Status == "victory" || e.Status == "defeat" {
		return fmt.Sprintf("encounter %s is already resolved (%s)", e.EncounterID, e.Status)
	}
	return fmt.Sprintf("encounter %s is not active (status=%s)", e.EncounterID, e.Status)
}

// Resolved reports whether the encounter reached a terminal state.
func (e EncounterStateError) Resolved() bool {
	return e.Status == "victory" || e.Status == "defeat"
}

// EquipSlotsFullError is returned when equipping a truth would exceed the
// equip slot cap.
type EquipSlotsFullError struct {
	Limit int
}

func (e EquipSlotsFullError) Error() string {
	return fmt.Sprintf("all %d truth slots are in use", e.Limit)
}
