package engine

import "math"

// Point values
const (
	PointsSingle       = 100
	PointsDouble       = 300
	PointsTriple       = 500
	PointsTetris       = 800
	PointsTSpinSingle  = 800
	PointsTSpinDouble  = 1200
	PointsTSpinTriple  = 1600
	PointsPerfectClear = 3000
	PointsSoftDrop     = 1
	PointsHardDrop     = 2
	PointsComboBase    = 50

	BackToBackBonus = 1.5
	LevelBonus      = 0.1
)

// CalculateScore converts a clear into points. combo is the length of the clearing streak
// that preceded this lock, so the first clear of a streak earns no combo bonus.
func CalculateScore(linesCleared, level int, tSpin, backToBack bool, combo int, perfectClear bool) int {
	levelFactor := 1 + float64(level)*LevelBonus

	if perfectClear {
		return int(math.Floor(PointsPerfectClear * levelFactor))
	}

	var base float64
	switch linesCleared {
	case 1:
		base = PointsSingle
		if tSpin {
			base = PointsTSpinSingle
		}
	case 2:
		base = PointsDouble
		if tSpin {
			base = PointsTSpinDouble
		}
	case 3:
		base = PointsTriple
		if tSpin {
			base = PointsTSpinTriple
		}
	case 4:
		base = PointsTetris
	default:
		return 0
	}

	base *= levelFactor

	if backToBack && (linesCleared == 4 || tSpin) {
		base *= BackToBackBonus
	}

	if combo > 0 {
		base += PointsComboBase * float64(combo) * levelFactor
	}

	return int(math.Floor(base))
}

// ModeMultiplier scales clear points by mode: x2 time-attack, x1.5 survival, x1 otherwise
func ModeMultiplier(mode GameMode) float64 {
	if s, ok := SettingsFor(mode); ok && s.ScoreMultiplier > 0 {
		return s.ScoreMultiplier
	}
	return 1
}

// applyModeMultiplier floors the scaled result so scores stay integral
func applyModeMultiplier(points int, mode GameMode) int {
	return int(math.Floor(float64(points) * ModeMultiplier(mode)))
}
