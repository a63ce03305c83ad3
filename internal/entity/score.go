package entity

// Score tallies finished rounds played at one table.
type Score struct {
	A     int `json:"a"`
	B     int `json:"b"`
	Draws int `json:"draws"`
}

// Record - adds the outcome of a finished game. Unfinished games are ignored.
func (that *Score) Record(state GameState) {
	switch {
	case state.Status == StatusDraw:
		that.Draws++
	case state.Status == StatusWon && state.Winner == PlayerA:
		that.A++
	case state.Status == StatusWon && state.Winner == PlayerB:
		that.B++
	}
}

func (that Score) Total() int {
	return that.A + that.B + that.Draws
}
