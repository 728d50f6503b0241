package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setAllPigs(p *Player, status PigStatus) {
	for i := range p.Pigs {
		p.Pigs[i].Status = status
	}
}

func TestCheckWinAllDirty(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	assert.Nil(t, CheckWin(s))

	setAllPigs(s.Players[1], PigDirty)
	w := CheckWin(s)
	if assert.NotNil(t, w) {
		assert.Equal(t, "bob", w.ID)
	}
}

func TestCheckWinTwoAwayIsNotEnough(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	s.Players[0].Pigs[0].Status = PigDirty
	s.Players[0].Pigs[1].Status = PigDirty

	assert.Nil(t, CheckWin(s))
}

func TestBeautifulWinOnlyInExpansion(t *testing.T) {
	basic := twoPlayerState(t, ModeBasic)
	setAllPigs(basic.Players[0], PigBeautiful)
	assert.Nil(t, CheckWin(basic))

	exp := twoPlayerState(t, ModeExpansion)
	setAllPigs(exp.Players[0], PigBeautiful)
	w := CheckWin(exp)
	if assert.NotNil(t, w) {
		assert.Equal(t, "alice", w.ID)
	}
}

func TestCheckWinSeatOrderBreaksTies(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	setAllPigs(s.Players[0], PigDirty)
	setAllPigs(s.Players[1], PigDirty)

	w := CheckWin(s)
	if assert.NotNil(t, w) {
		assert.Equal(t, "alice", w.ID)
	}
}
