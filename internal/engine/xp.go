package engine

import "math"

const (
	// XPRequiredCoef scales the level curve: reaching level L costs
	// 500 * (L-1)^1.5 total XP, so early levels come fast and late
	// levels slow down without ever stalling.
	XPRequiredCoef = 500.0

	// CharacterLevelCap bounds the character curve.
	CharacterLevelCap = 99

	// StatLevelCap bounds each stat track's curve.
	StatLevelCap = 50
)

// LevelInfo reports a position on a level curve.
type LevelInfo struct {
	Level          int
	CurrentLevelXP int // XP earned since entering the current level
	NextLevelXP    int // XP needed to reach the next level; 0 at the cap
}

// Progress returns completion of the current level in [0,1]. At the level
// cap it reports 1.
func (li LevelInfo) Progress() float64 {
	if li.NextLevelXP <= 0 {
		return 1
	}
	return float64(li.CurrentLevelXP) / float64(li.NextLevelXP)
}

// XPToReachLevel returns the total XP threshold required to be at the given
// level. Level 1 (and below) requires 0 XP.
func XPToReachLevel(level int) int {
	if level <= 1 {
		return 0
	}
	req := XPRequiredCoef * math.Pow(float64(level-1), 1.5)
	// Ceil so float rounding never makes a threshold easier.
	return int(math.Ceil(req))
}

// levelForTotalXP returns the highest level L <= cap such that
// totalXP >= XPToReachLevel(L). A fresh character (0 XP) is level 1.
func levelForTotalXP(totalXP, cap int) int {
	if totalXP < 0 {
		totalXP = 0
	}

	// Exponential search for an upper bound, then binary search.
	low := 1
	high := 2
	for high <= cap && XPToReachLevel(high) <= totalXP {
		low = high
		high *= 2
	}
	if high > cap {
		high = cap
		if XPToReachLevel(high) <= totalXP {
			return cap
		}
	}

	for low+1 < high {
		mid := low + (high-low)/2
		if XPToReachLevel(mid) <= totalXP {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

func levelInfo(totalXP, cap int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}
	level := levelForTotalXP(totalXP, cap)
	if level >= cap {
		return LevelInfo{Level: cap}
	}
	entered := XPToReachLevel(level)
	next := XPToReachLevel(level + 1)
	return LevelInfo{
		Level:          level,
		CurrentLevelXP: totalXP - entered,
		NextLevelXP:    next - entered,
	}
}

// LevelFromXP maps accumulated character XP to the character curve.
func LevelFromXP(totalXP int) LevelInfo {
	return levelInfo(totalXP, CharacterLevelCap)
}

// StatLevelFromXP maps accumulated stat XP to the stat curve. Same shape as
// the character curve, lower cap.
func StatLevelFromXP(totalXP int) LevelInfo {
	return levelInfo(totalXP, StatLevelCap)
}
