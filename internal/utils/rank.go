package utils

// Rank thresholds on accumulated points. Edited points recompute the rank.
var rankLadder = []struct {
	min  int
	name string
}{
	{1000, "Legend"},
	{500, "Veteran"},
	{200, "Contributor"},
	{50, "Member"},
	{0, "Newbie"},
}

// RankForPoints returns the display rank for a points total.
func RankForPoints(points int) string {
	for _, r := range rankLadder {
		if points >= r.min {
			return r.name
		}
	}
	return "Newbie"
}
