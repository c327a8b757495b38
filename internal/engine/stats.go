package engine

const (
	baseHP     = 100
	baseEnergy = 50

	baseCrit = 0.05
	critCap  = 0.50

	baseResistance = 0.02
	resistanceCap  = 0.60
)

// ComputeSecondaryStats derives combat numbers from the current stat levels.
// Pure and total: all-zero levels produce the base values, and raising any
// stat level never lowers a derived stat.
func ComputeSecondaryStats(levels StatLevels) SecondaryStats {
	str := statLevel(levels, StatSTR)
	intl := statLevel(levels, StatINT)
	wis := statLevel(levels, StatWIS)
	dis := statLevel(levels, StatDIS)
	vit := statLevel(levels, StatVIT)
	cha := statLevel(levels, StatCHA)

	crit := baseCrit + 0.01*float64(intl) + 0.005*float64(cha)
	if crit > critCap {
		crit = critCap
	}
	res := baseResistance + 0.008*float64(wis) + 0.004*float64(dis)
	if res > resistanceCap {
		res = resistanceCap
	}

	return SecondaryStats{
		MaxHP:      baseHP + 12*vit + 3*str,
		MaxEnergy:  baseEnergy + 8*dis + 2*wis,
		Crit:       crit,
		Resistance: res,
	}
}

func statLevel(levels StatLevels, kind StatKind) int {
	lv := levels[kind]
	if lv < 0 {
		return 0
	}
	return lv
}
