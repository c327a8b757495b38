package engine

import "testing"

func TestComputeSecondaryStatsBase(t *testing.T) {
	got := ComputeSecondaryStats(StatLevels{})
	if got.MaxHP != baseHP {
		t.Fatalf("MaxHP=%d, want %d", got.MaxHP, baseHP)
	}
	if got.MaxEnergy != baseEnergy {
		t.Fatalf("MaxEnergy=%d, want %d", got.MaxEnergy, baseEnergy)
	}
	if got.Crit != baseCrit {
		t.Fatalf("Crit=%v, want %v", got.Crit, baseCrit)
	}
	if got.Resistance != baseResistance {
		t.Fatalf("Resistance=%v, want %v", got.Resistance, baseResistance)
	}
}

// Raising any single stat level must never lower any derived stat.
func TestComputeSecondaryStatsMonotonic(t *testing.T) {
	base := StatLevels{StatSTR: 2, StatINT: 2, StatWIS: 2, StatDIS: 2, StatVIT: 2, StatCHA: 2}
	before := ComputeSecondaryStats(base)

	for _, kind := range AllStats {
		bumped := StatLevels{}
		for k, v := range base {
			bumped[k] = v
		}
		bumped[kind] = base[kind] + 5

		after := ComputeSecondaryStats(bumped)
		if after.MaxHP < before.MaxHP ||
			after.MaxEnergy < before.MaxEnergy ||
			after.Crit < before.Crit ||
			after.Resistance < before.Resistance {
			t.Fatalf("raising %s lowered a secondary stat: before=%+v after=%+v", kind, before, after)
		}
	}
}

func TestComputeSecondaryStatsCaps(t *testing.T) {
	maxed := StatLevels{}
	for _, kind := range AllStats {
		maxed[kind] = StatLevelCap
	}
	got := ComputeSecondaryStats(maxed)
	if got.Crit > critCap {
		t.Fatalf("Crit=%v exceeds cap %v", got.Crit, critCap)
	}
	if got.Resistance > resistanceCap {
		t.Fatalf("Resistance=%v exceeds cap %v", got.Resistance, resistanceCap)
	}
}

func TestComputeSecondaryStatsIgnoresNegativeLevels(t *testing.T) {
	got := ComputeSecondaryStats(StatLevels{StatVIT: -3})
	if got.MaxHP != baseHP {
		t.Fatalf("MaxHP=%d with negative VIT, want base %d", got.MaxHP, baseHP)
	}
}
