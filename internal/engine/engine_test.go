package engine

import (
	"context"
	"path/filepath"
	"testing"

	"gritquest/internal/storage"
)

const testCharacter = "test_char"

func newTestService(t *testing.T) (*Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	svc := NewService(db)
	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup
}

func setCharacterXP(t *testing.T, svc *Service, totalXP int) {
	t.Helper()
	ctx := context.Background()
	c, err := svc.CharacterRepo().GetOrCreate(ctx, testCharacter)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	c.XPTotal = totalXP
	if err := svc.CharacterRepo().Update(ctx, c); err != nil {
		t.Fatalf("update character: %v", err)
	}
}

func setStatXP(t *testing.T, svc *Service, kind StatKind, xp int) {
	t.Helper()
	ctx := context.Background()
	c, err := svc.CharacterRepo().GetOrCreate(ctx, testCharacter)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	switch kind {
	case StatSTR:
		c.XPStr = xp
	case StatINT:
		c.XPInt = xp
	case StatWIS:
		c.XPWis = xp
	case StatDIS:
		c.XPDis = xp
	case StatVIT:
		c.XPVit = xp
	case StatCHA:
		c.XPCha = xp
	}
	if err := svc.CharacterRepo().Update(ctx, c); err != nil {
		t.Fatalf("update character: %v", err)
	}
}

func countLogType(t *testing.T, svc *Service, logType LogType) int {
	t.Helper()
	n, err := svc.LogRepo().CountByType(context.Background(), testCharacter, string(logType))
	if err != nil {
		t.Fatalf("count log type: %v", err)
	}
	return n
}

func TestValidateCatalogs(t *testing.T) {
	if err := ValidateCatalogs(); err != nil {
		t.Fatalf("ValidateCatalogs: %v", err)
	}
}

func TestGrantXPLevelUp(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	c, err := svc.CharacterRepo().GetOrCreate(ctx, testCharacter)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if c.Level != 1 {
		t.Fatalf("fresh character level=%d, want 1", c.Level)
	}

	xp := XPToReachLevel(2)
	res, err := svc.GrantXP(ctx, GrantInput{
		CharacterID:  testCharacter,
		SourceModule: "tasks",
		SourceAction: "complete",
		PrimaryStat:  StatDIS,
		PrimaryXP:    xp,
	})
	if err != nil {
		t.Fatalf("GrantXP: %v", err)
	}
	if !res.LevelUp {
		t.Fatalf("expected level up crossing the level 2 threshold")
	}
	if res.LevelBefore != 1 || res.LevelAfter != 2 {
		t.Fatalf("levels %d→%d, want 1→2", res.LevelBefore, res.LevelAfter)
	}
	if got := countLogType(t, svc, LogLevelUp); got != 1 {
		t.Fatalf("level_up log entries=%d, want 1", got)
	}
}

func TestGrantXPStatUp(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	res, err := svc.GrantXP(ctx, GrantInput{
		CharacterID:  testCharacter,
		SourceModule: "workouts",
		SourceAction: "complete",
		PrimaryStat:  StatSTR,
		PrimaryXP:    XPToReachLevel(2),
	})
	if err != nil {
		t.Fatalf("GrantXP: %v", err)
	}
	if lvl, ok := res.StatLevelUps[StatSTR]; !ok || lvl != 2 {
		t.Fatalf("StatLevelUps[STR]=%d (present=%v), want 2", lvl, ok)
	}
	if got := countLogType(t, svc, LogStatUp); got != 1 {
		t.Fatalf("stat_up log entries=%d, want 1", got)
	}
}

func TestGrantXPSecondaryStat(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	res, err := svc.GrantXP(ctx, GrantInput{
		CharacterID:   testCharacter,
		SourceModule:  "workouts",
		SourceAction:  "complete",
		PrimaryStat:   StatSTR,
		PrimaryXP:     40,
		SecondaryStat: StatVIT,
		SecondaryXP:   20,
	})
	if err != nil {
		t.Fatalf("GrantXP: %v", err)
	}
	if res.XPAwarded != 60 {
		t.Fatalf("XPAwarded=%d, want 60", res.XPAwarded)
	}

	c, err := svc.CharacterRepo().Get(ctx, testCharacter)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if c.XPStr != 40 || c.XPVit != 20 || c.XPTotal != 60 {
		t.Fatalf("xp split str=%d vit=%d total=%d, want 40/20/60", c.XPStr, c.XPVit, c.XPTotal)
	}
}

func TestGrantXPRejectsInvalidInput(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	cases := []struct {
		name string
		in   GrantInput
	}{
		{"unknown stat", GrantInput{CharacterID: testCharacter, PrimaryStat: "LUCK", PrimaryXP: 10}},
		{"zero xp", GrantInput{CharacterID: testCharacter, PrimaryStat: StatSTR, PrimaryXP: 0}},
		{"negative xp", GrantInput{CharacterID: testCharacter, PrimaryStat: StatSTR, PrimaryXP: -5}},
		{"secondary without stat", GrantInput{CharacterID: testCharacter, PrimaryStat: StatSTR, PrimaryXP: 10, SecondaryXP: 5}},
	}
	for _, tc := range cases {
		if _, err := svc.GrantXP(ctx, tc.in); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}

	// Nothing may have been written.
	c, err := svc.CharacterRepo().GetOrCreate(ctx, testCharacter)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if c.XPTotal != 0 {
		t.Fatalf("xp total=%d after rejected grants, want 0", c.XPTotal)
	}
}

func TestAddPerkPoints(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if err := svc.AddPerkPoints(ctx, testCharacter, 3); err != nil {
		t.Fatalf("AddPerkPoints: %v", err)
	}
	if err := svc.AddPerkPoints(ctx, testCharacter, -1); err == nil {
		t.Fatalf("expected error for negative points")
	}

	c, err := svc.CharacterRepo().Get(ctx, testCharacter)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if c.PerkPoints != 3 {
		t.Fatalf("perk points=%d, want 3", c.PerkPoints)
	}
}
