package sizing

// tierCaps maps a conviction score to the maximum portfolio percentage
// permitted for that score. 티어 캡은 하드 실링: Kelly 결과보다 항상 우선.
var tierCaps = map[int]float64{
	10: 20.0,
	9:  16.0,
	8:  12.0,
	7:  8.0,
	6:  5.0,
	5:  3.0,
	4:  2.0,
	3:  1.0,
	2:  0.5,
}

// TierCap returns the hard position ceiling for a conviction score.
// Scores of 1 or below (and anything outside the table) cap at 0.
func TierCap(score int) float64 {
	if cap, ok := tierCaps[score]; ok {
		return cap
	}
	return 0
}
