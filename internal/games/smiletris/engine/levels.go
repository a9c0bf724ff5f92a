package engine

import "math"

// SmileyCeiling is the number of smileys on the last level: every cell
// from the smiley floor down.
func (c Config) SmileyCeiling() int {
	return c.Width * (c.Height - c.SmileyFloor)
}

// NumberSmileys returns how many smileys level n starts with. The count
// grows logarithmically from SmileyMin at level 0 to SmileyCeiling at
// LevelMax.
func (c Config) NumberSmileys(n int) int {
	ceiling := c.SmileyCeiling()
	if n >= c.LevelMax {
		return ceiling
	}
	if n < 0 {
		n = 0
	}
	coef2 := float64(ceiling-c.SmileyMin) / math.Log(c.Coef*float64(c.LevelMax)+1)
	return int(coef2*math.Log(c.Coef*float64(n)+1) + float64(c.SmileyMin))
}

// CountScore is the score of a player who cleared every level below n.
func (c Config) CountScore(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += c.NumberSmileys(i)
	}
	return total
}
