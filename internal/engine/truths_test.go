package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCollectTruth(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tr, err := svc.CollectTruth(ctx, testCharacter, "  Small steps count.  ", "entry-42", "momentum")
	if err != nil {
		t.Fatalf("CollectTruth: %v", err)
	}
	if tr.Text != "Small steps count." {
		t.Fatalf("text=%q, want trimmed", tr.Text)
	}
	if tr.Equipped {
		t.Fatal("new truth must start unequipped")
	}
	if tr.Theme != "momentum" || tr.SourceEntryID != "entry-42" {
		t.Fatalf("theme=%q source=%q", tr.Theme, tr.SourceEntryID)
	}
	if got := countLogType(t, svc, LogLoot); got != 1 {
		t.Fatalf("loot log entries=%d, want 1", got)
	}

	if _, err := svc.CollectTruth(ctx, testCharacter, "   ", "", ""); err == nil {
		t.Fatal("expected error for blank text")
	}
}

func TestToggleTruthEquipSlotCap(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		tr, err := svc.CollectTruth(ctx, testCharacter, fmt.Sprintf("truth %d", i), "", "")
		if err != nil {
			t.Fatalf("CollectTruth %d: %v", i, err)
		}
		ids = append(ids, tr.ID)
	}

	for i := 0; i < 3; i++ {
		if err := svc.ToggleTruthEquip(ctx, ids[i], true); err != nil {
			t.Fatalf("equip %d: %v", i, err)
		}
	}

	err := svc.ToggleTruthEquip(ctx, ids[3], true)
	var fullErr EquipSlotsFullError
	if !errors.As(err, &fullErr) || fullErr.Limit != TruthEquipLimit {
		t.Fatalf("fourth equip: err=%v, want EquipSlotsFullError{3}", err)
	}

	// Unequipping frees a slot.
	if err := svc.ToggleTruthEquip(ctx, ids[0], false); err != nil {
		t.Fatalf("unequip: %v", err)
	}
	if err := svc.ToggleTruthEquip(ctx, ids[3], true); err != nil {
		t.Fatalf("equip after freeing a slot: %v", err)
	}

	n, err := svc.TruthRepo().CountEquipped(ctx, testCharacter)
	if err != nil {
		t.Fatalf("CountEquipped: %v", err)
	}
	if n != 3 {
		t.Fatalf("equipped=%d, want 3", n)
	}
}

func TestToggleTruthEquipIdempotent(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tr, err := svc.CollectTruth(ctx, testCharacter, "Showing up is most of it.", "", "")
	if err != nil {
		t.Fatalf("CollectTruth: %v", err)
	}

	// Re-applying the current state is a no-op, even with full slots.
	if err := svc.ToggleTruthEquip(ctx, tr.ID, true); err != nil {
		t.Fatalf("equip: %v", err)
	}
	if err := svc.ToggleTruthEquip(ctx, tr.ID, true); err != nil {
		t.Fatalf("re-equip: %v", err)
	}
	if err := svc.ToggleTruthEquip(ctx, tr.ID, false); err != nil {
		t.Fatalf("unequip: %v", err)
	}
	if err := svc.ToggleTruthEquip(ctx, tr.ID, false); err != nil {
		t.Fatalf("re-unequip: %v", err)
	}
}

func TestToggleTruthEquipNotFound(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	err := svc.ToggleTruthEquip(context.Background(), "no-such-truth", true)
	var nfErr NotFoundError
	if !errors.As(err, &nfErr) || nfErr.Kind != "truth" {
		t.Fatalf("err=%v, want NotFoundError{truth}", err)
	}
}
