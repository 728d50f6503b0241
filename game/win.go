package game

// CheckWin scans players in seat order and returns the first winner, or
// nil. All pigs dirty wins in any mode; all pigs beautiful wins only in
// the expansion. Actions are processed one at a time, so seat order is
// tie-break enough.
func CheckWin(s *State) *Player {
	for _, p := range s.Players {
		if allStatus(p.Pigs, PigDirty) {
			return p
		}
		if s.Mode == ModeExpansion && allStatus(p.Pigs, PigBeautiful) {
			return p
		}
	}
	return nil
}

// Finish freezes the state; every later action fails with ErrGameOver.
func (s *State) Finish(winner *Player) {
	s.finished = true
	if winner != nil {
		s.Winner = winner.ID
	}
}

func allStatus(pigs []Pig, want PigStatus) bool {
	if len(pigs) == 0 {
		return false
	}
	for i := range pigs {
		if pigs[i].Status != want {
			return false
		}
	}
	return true
}
