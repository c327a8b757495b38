package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBattleVictory(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	// STR track at level 7: attack power 22, 20 damage per hit against
	// the imp's defense of 2 with a mid draw.
	setStatXP(t, svc, StatSTR, 8000)

	e, err := svc.SpawnEncounter(ctx, testCharacter, "procrastination_imp", "task_overdue")
	if err != nil {
		t.Fatalf("SpawnEncounter: %v", err)
	}
	if e.Status != EncounterPending || e.EnemyHP != 60 {
		t.Fatalf("spawned status=%s enemyHP=%d, want pending/60", e.Status, e.EnemyHP)
	}

	e, err = svc.StartEncounter(ctx, e.ID)
	if err != nil {
		t.Fatalf("StartEncounter: %v", err)
	}
	if e.Status != EncounterActive {
		t.Fatalf("status=%s, want active", e.Status)
	}
	// VIT 1, STR 7: 100 + 12 + 21. DIS 1, WIS 1: 50 + 8 + 2.
	if e.CharacterHP != 133 || e.CharacterMaxHP != 133 || e.CharacterEnergy != 60 {
		t.Fatalf("snapshot hp=%d/%d energy=%d, want 133/133, 60", e.CharacterHP, e.CharacterMaxHP, e.CharacterEnergy)
	}

	var last *TurnResult
	for i := 0; i < 3; i++ {
		last, err = svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, 0.5)
		if err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		if last.Turn.TurnNumber != i+1 {
			t.Fatalf("turn number=%d, want %d", last.Turn.TurnNumber, i+1)
		}
	}

	if !last.Victory || last.Defeat {
		t.Fatalf("after 3 hits victory=%v defeat=%v", last.Victory, last.Defeat)
	}
	if last.Turn.EnemyHPAfter != 0 {
		t.Fatalf("enemy hp=%d, want 0", last.Turn.EnemyHPAfter)
	}
	// Two counters of 8 landed before the killing blow suppressed the third.
	if last.Turn.CharacterHPAfter != 117 {
		t.Fatalf("character hp=%d, want 117", last.Turn.CharacterHPAfter)
	}

	e, err = svc.EncounterRepo().Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get encounter: %v", err)
	}
	if e.Status != EncounterVictory || e.ResolvedAt == nil {
		t.Fatalf("status=%s resolvedAt=%v, want victory with timestamp", e.Status, e.ResolvedAt)
	}
	if e.CharacterEnergy != 45 {
		t.Fatalf("energy=%d after 3 attacks, want 45", e.CharacterEnergy)
	}

	c, err := svc.CharacterRepo().Get(ctx, testCharacter)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if c.XPStr != 8090 || c.XPTotal != 90 {
		t.Fatalf("xp str=%d total=%d, want 8090/90", c.XPStr, c.XPTotal)
	}
	if got := countLogType(t, svc, LogBattle); got != 1 {
		t.Fatalf("battle log entries=%d, want 1", got)
	}

	// A resolved encounter rejects further turns.
	_, err = svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, 0.5)
	var stateErr EncounterStateError
	if !errors.As(err, &stateErr) || !stateErr.Resolved() {
		t.Fatalf("turn on resolved encounter: err=%v, want resolved EncounterStateError", err)
	}
}

func TestBattleDefeat(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	// A fresh character deals 3 a turn to the golem and takes 15 back:
	// 115 HP runs out on turn 8.
	e, err := svc.SpawnEncounter(ctx, testCharacter, "burnout_golem", "")
	if err != nil {
		t.Fatalf("SpawnEncounter: %v", err)
	}
	if _, err := svc.StartEncounter(ctx, e.ID); err != nil {
		t.Fatalf("StartEncounter: %v", err)
	}

	var last *TurnResult
	for i := 0; i < 8; i++ {
		last, err = svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, 0.5)
		if err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		if i < 7 && (last.Victory || last.Defeat) {
			t.Fatalf("encounter resolved early on turn %d", i+1)
		}
	}
	if !last.Defeat || last.Victory {
		t.Fatalf("after 8 turns defeat=%v victory=%v", last.Defeat, last.Victory)
	}
	if last.Turn.CharacterHPAfter != 0 {
		t.Fatalf("character hp=%d, want 0", last.Turn.CharacterHPAfter)
	}
	if !strings.Contains(last.Turn.ResultFlags, "defeat") {
		t.Fatalf("flags=%q, want defeat", last.Turn.ResultFlags)
	}

	// Defeat yields no XP, only a battle log entry.
	c, err := svc.CharacterRepo().Get(ctx, testCharacter)
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if c.XPTotal != 0 {
		t.Fatalf("xp total=%d after defeat, want 0", c.XPTotal)
	}
	if got := countLogType(t, svc, LogBattle); got != 1 {
		t.Fatalf("battle log entries=%d, want 1", got)
	}
}

func TestBattleCritDeterministic(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	e, err := svc.SpawnEncounter(ctx, testCharacter, "procrastination_imp", "")
	if err != nil {
		t.Fatalf("SpawnEncounter: %v", err)
	}
	if _, err := svc.StartEncounter(ctx, e.ID); err != nil {
		t.Fatalf("StartEncounter: %v", err)
	}

	// Fresh crit chance is 0.065, so the crit window opens at 0.935.
	res, err := svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, 0.95)
	if err != nil {
		t.Fatalf("ExecuteBattleTurn: %v", err)
	}
	if !strings.Contains(res.Turn.ResultFlags, "crit") {
		t.Fatalf("flags=%q, want crit at draw 0.95", res.Turn.ResultFlags)
	}
	// power 10, variance 1.09, doubled to 21.8, rounds to 22, minus 2.
	if res.Turn.EnemyHPAfter != 40 {
		t.Fatalf("enemy hp=%d, want 40", res.Turn.EnemyHPAfter)
	}

	res, err = svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, 0.5)
	if err != nil {
		t.Fatalf("ExecuteBattleTurn: %v", err)
	}
	if strings.Contains(res.Turn.ResultFlags, "crit") {
		t.Fatalf("flags=%q, draw 0.5 must not crit", res.Turn.ResultFlags)
	}
}

func TestBattleDefendHalvesCounter(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	e, err := svc.SpawnEncounter(ctx, testCharacter, "procrastination_imp", "")
	if err != nil {
		t.Fatalf("SpawnEncounter: %v", err)
	}
	if _, err := svc.StartEncounter(ctx, e.ID); err != nil {
		t.Fatalf("StartEncounter: %v", err)
	}

	res, err := svc.ExecuteBattleTurn(ctx, e.ID, ActionDefend, 0.5)
	if err != nil {
		t.Fatalf("ExecuteBattleTurn: %v", err)
	}
	if !strings.Contains(res.Turn.ResultFlags, "defend") {
		t.Fatalf("flags=%q, want defend", res.Turn.ResultFlags)
	}
	// Undefended counter is 8; defending takes 4 from the 115 pool.
	if res.Turn.CharacterHPAfter != 111 {
		t.Fatalf("character hp=%d, want 111", res.Turn.CharacterHPAfter)
	}
	if res.Turn.EnemyHPAfter != 60 {
		t.Fatalf("enemy hp=%d, defend must not deal damage", res.Turn.EnemyHPAfter)
	}
}

func TestBattleFocusRestoresEnergy(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	e, err := svc.SpawnEncounter(ctx, testCharacter, "procrastination_imp", "")
	if err != nil {
		t.Fatalf("SpawnEncounter: %v", err)
	}
	if _, err := svc.StartEncounter(ctx, e.ID); err != nil {
		t.Fatalf("StartEncounter: %v", err)
	}

	if _, err := svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, 0.5); err != nil {
		t.Fatalf("attack: %v", err)
	}
	res, err := svc.ExecuteBattleTurn(ctx, e.ID, ActionFocus, 0.5)
	if err != nil {
		t.Fatalf("focus: %v", err)
	}
	if !strings.Contains(res.Turn.ResultFlags, "focus") {
		t.Fatalf("flags=%q, want focus", res.Turn.ResultFlags)
	}

	cur, err := svc.EncounterRepo().Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get encounter: %v", err)
	}
	// 60 max, 55 after the attack, focus clamps back to the cap.
	if cur.CharacterEnergy != 60 {
		t.Fatalf("energy=%d, want 60 (clamped at max)", cur.CharacterEnergy)
	}
}

func TestBattleStateAndInputValidation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	e, err := svc.SpawnEncounter(ctx, testCharacter, "procrastination_imp", "")
	if err != nil {
		t.Fatalf("SpawnEncounter: %v", err)
	}

	// Turns require an active encounter; pending is refused but not
	// reported as resolved.
	_, err = svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, 0.5)
	var stateErr EncounterStateError
	if !errors.As(err, &stateErr) || stateErr.Resolved() {
		t.Fatalf("turn on pending encounter: err=%v, want non-resolved EncounterStateError", err)
	}

	if _, err := svc.StartEncounter(ctx, e.ID); err != nil {
		t.Fatalf("StartEncounter: %v", err)
	}
	if _, err := svc.StartEncounter(ctx, e.ID); err == nil {
		t.Fatal("expected error starting an active encounter")
	}

	var invErr InvalidInputError
	if _, err := svc.ExecuteBattleTurn(ctx, e.ID, "flee", 0.5); !errors.As(err, &invErr) {
		t.Fatalf("unknown action: err=%v, want InvalidInputError", err)
	}
	if _, err := svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, 1.0); !errors.As(err, &invErr) {
		t.Fatalf("draw 1.0: err=%v, want InvalidInputError", err)
	}
	if _, err := svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, -0.1); !errors.As(err, &invErr) {
		t.Fatalf("negative draw: err=%v, want InvalidInputError", err)
	}

	var nfErr NotFoundError
	if _, err := svc.ExecuteBattleTurn(ctx, "no-such-encounter", ActionAttack, 0.5); !errors.As(err, &nfErr) {
		t.Fatalf("unknown encounter: err=%v, want NotFoundError", err)
	}
	if _, err := svc.SpawnEncounter(ctx, testCharacter, "no-such-enemy", ""); !errors.As(err, &invErr) {
		t.Fatalf("unknown enemy: err=%v, want InvalidInputError", err)
	}
}

func TestBattleVictoryDropsLoot(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setStatXP(t, svc, StatSTR, 8000)

	e, err := svc.SpawnEncounter(ctx, testCharacter, "doubt_shade", "")
	if err != nil {
		t.Fatalf("SpawnEncounter: %v", err)
	}
	if _, err := svc.StartEncounter(ctx, e.ID); err != nil {
		t.Fatalf("StartEncounter: %v", err)
	}

	for i := 0; i < 20; i++ {
		res, err := svc.ExecuteBattleTurn(ctx, e.ID, ActionAttack, 0.5)
		if err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		if res.Victory {
			break
		}
		if res.Defeat {
			t.Fatal("unexpected defeat against the shade")
		}
	}

	truths, err := svc.TruthRepo().ListAll(ctx, testCharacter)
	if err != nil {
		t.Fatalf("list truths: %v", err)
	}
	if len(truths) != 1 {
		t.Fatalf("got %d truths, want 1", len(truths))
	}
	tr := truths[0]
	if tr.Text != "Doubt shrinks when named." || tr.Theme != "resolve" || tr.Equipped {
		t.Fatalf("truth=%+v, want shade loot, unequipped", tr)
	}
	if tr.SourceEntryID != e.ID {
		t.Fatalf("truth source=%q, want encounter id %q", tr.SourceEntryID, e.ID)
	}
	if got := countLogType(t, svc, LogLoot); got != 1 {
		t.Fatalf("loot log entries=%d, want 1", got)
	}
}

func TestBattleTurnsPersistInOrder(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	e, err := svc.SpawnEncounter(ctx, testCharacter, "procrastination_imp", "")
	if err != nil {
		t.Fatalf("SpawnEncounter: %v", err)
	}
	if _, err := svc.StartEncounter(ctx, e.ID); err != nil {
		t.Fatalf("StartEncounter: %v", err)
	}

	actions := []BattleAction{ActionAttack, ActionDefend, ActionFocus, ActionAttack}
	for _, a := range actions {
		if _, err := svc.ExecuteBattleTurn(ctx, e.ID, a, 0.5); err != nil {
			t.Fatalf("turn %s: %v", a, err)
		}
	}

	turns, err := svc.EncounterRepo().ListTurns(ctx, e.ID)
	if err != nil {
		t.Fatalf("ListTurns: %v", err)
	}
	if len(turns) != len(actions) {
		t.Fatalf("got %d turns, want %d", len(turns), len(actions))
	}
	for i, turn := range turns {
		if turn.TurnNumber != i+1 {
			t.Errorf("turn %d has number %d", i, turn.TurnNumber)
		}
		if turn.Action != string(actions[i]) {
			t.Errorf("turn %d action=%s, want %s", i+1, turn.Action, actions[i])
		}
	}
}
