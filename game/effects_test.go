package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMudDirtiesCleanPig(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "mud-x", Type: CardMud})

	effect, err := s.PlayCard("alice", "mud-x", "alice-pig-0", "")
	require.NoError(t, err)

	assert.Equal(t, EffectStatusChange, effect.Type)
	assert.Equal(t, PigClean, effect.From)
	assert.Equal(t, PigDirty, effect.To)
	assert.Equal(t, PigDirty, s.Players[0].Pigs[0].Status)
	assert.Equal(t, 0, s.ActionsRemaining)
	assert.Len(t, s.Players[0].Hand, CardsPerHand-1)
	assert.Equal(t, "mud-x", s.DiscardPile[len(s.DiscardPile)-1].ID)
}

func TestMudOnDirtyPigRejected(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "mud-x", Type: CardMud})
	s.Players[0].Pigs[0].Status = PigDirty

	_, err := s.PlayCard("alice", "mud-x", "alice-pig-0", "")
	require.Error(t, err)

	// rejection leaves everything untouched
	assert.Len(t, s.Players[0].Hand, CardsPerHand)
	assert.Equal(t, 1, s.ActionsRemaining)
	assert.Empty(t, s.DiscardPile)
}

func TestMudTargetsOpponentPig(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "mud-x", Type: CardMud})

	effect, err := s.PlayCard("alice", "mud-x", "bob-pig-1", "bob")
	require.NoError(t, err)

	assert.Equal(t, "bob", effect.PlayerID)
	assert.Equal(t, PigDirty, s.Players[1].Pigs[1].Status)
}

func TestBarnAndSecondBarnRejected(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "barn-x", Type: CardBarn})

	effect, err := s.PlayCard("alice", "barn-x", "alice-pig-0", "")
	require.NoError(t, err)
	assert.Equal(t, EffectAddBarn, effect.Type)
	require.NotNil(t, s.Players[0].Pigs[0].Barn)
	assert.False(t, s.Players[0].Pigs[0].Barn.HasLightningRod)
	assert.False(t, s.Players[0].Pigs[0].Barn.IsLocked)

	s.ActionsRemaining = 1
	giveCard(s.Players[0], Card{ID: "barn-y", Type: CardBarn})
	_, err = s.PlayCard("alice", "barn-y", "alice-pig-0", "")
	assert.Error(t, err)
}

func TestBathBlockedByLockedBarn(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "bath-x", Type: CardBath})
	s.Players[1].Pigs[0].Status = PigDirty
	s.Players[1].Pigs[0].Barn = &Barn{IsLocked: true}

	_, err := s.PlayCard("alice", "bath-x", "bob-pig-0", "bob")
	require.Error(t, err)
	assert.Equal(t, PigDirty, s.Players[1].Pigs[0].Status)

	// an unlocked barn is no protection against the bath
	s.Players[1].Pigs[0].Barn.IsLocked = false
	_, err = s.PlayCard("alice", "bath-x", "bob-pig-0", "bob")
	require.NoError(t, err)
	assert.Equal(t, PigClean, s.Players[1].Pigs[0].Status)
}

func TestBathOnCleanPigRejected(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "bath-x", Type: CardBath})

	_, err := s.PlayCard("alice", "bath-x", "alice-pig-0", "")
	assert.Error(t, err)
}

func TestRainWashesUnshelteredDirtyPigs(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "rain-x", Type: CardRain})
	s.Players[0].Pigs[0].Status = PigDirty
	s.Players[1].Pigs[0].Status = PigDirty
	s.Players[1].Pigs[1].Status = PigDirty
	s.Players[1].Pigs[1].Barn = &Barn{}

	effect, err := s.PlayCard("alice", "rain-x", "", "")
	require.NoError(t, err)

	assert.Equal(t, EffectRain, effect.Type)
	assert.Equal(t, PigClean, s.Players[0].Pigs[0].Status)
	assert.Equal(t, PigClean, s.Players[1].Pigs[0].Status)
	// sheltered pig stays dirty
	assert.Equal(t, PigDirty, s.Players[1].Pigs[1].Status)

	require.Len(t, effect.AffectedPigs, 2)
	assert.Equal(t, "alice", effect.AffectedPigs[0].PlayerID)
	assert.True(t, effect.AffectedPigs[0].Pigs[0].WasAffected)
	assert.False(t, effect.AffectedPigs[0].Pigs[1].WasAffected)
	assert.True(t, effect.AffectedPigs[1].Pigs[0].WasAffected)
	assert.False(t, effect.AffectedPigs[1].Pigs[1].WasAffected)
}

func TestRainWithNothingToWashRejected(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "rain-x", Type: CardRain})

	_, err := s.PlayCard("alice", "rain-x", "", "")
	assert.Error(t, err)
	assert.Equal(t, 1, s.ActionsRemaining)
}

func TestLightningDestroysBarn(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "zap-x", Type: CardLightning})
	s.Players[1].Pigs[0].Barn = &Barn{IsLocked: true}

	effect, err := s.PlayCard("alice", "zap-x", "bob-pig-0", "bob")
	require.NoError(t, err)

	assert.Equal(t, EffectDestroyBarn, effect.Type)
	assert.Nil(t, s.Players[1].Pigs[0].Barn)
}

func TestLightningRodBlocksLightning(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "zap-x", Type: CardLightning})
	s.Players[1].Pigs[0].Barn = &Barn{HasLightningRod: true}

	_, err := s.PlayCard("alice", "zap-x", "bob-pig-0", "bob")
	assert.Error(t, err)
	assert.NotNil(t, s.Players[1].Pigs[0].Barn)
}

func TestLightningRodNeedsBarn(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "rod-x", Type: CardLightningRod})

	_, err := s.PlayCard("alice", "rod-x", "alice-pig-0", "")
	assert.Error(t, err)

	s.Players[0].Pigs[0].Barn = &Barn{}
	effect, err := s.PlayCard("alice", "rod-x", "alice-pig-0", "")
	require.NoError(t, err)
	assert.Equal(t, EffectAddLightningRod, effect.Type)
	assert.True(t, s.Players[0].Pigs[0].Barn.HasLightningRod)
}

func TestBarnLock(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "lock-x", Type: CardBarnLock})
	s.Players[0].Pigs[0].Barn = &Barn{}

	effect, err := s.PlayCard("alice", "lock-x", "alice-pig-0", "")
	require.NoError(t, err)
	assert.Equal(t, EffectLockBarn, effect.Type)
	assert.True(t, s.Players[0].Pigs[0].Barn.IsLocked)

	s.ActionsRemaining = 1
	giveCard(s.Players[0], Card{ID: "lock-y", Type: CardBarnLock})
	_, err = s.PlayCard("alice", "lock-y", "alice-pig-0", "")
	assert.Error(t, err)
}

func TestBeautifulPig(t *testing.T) {
	s := twoPlayerState(t, ModeExpansion)
	giveCard(s.Players[0], Card{ID: "bp-x", Type: CardBeautifulPig})
	s.Players[0].Pigs[0].Status = PigDirty

	effect, err := s.PlayCard("alice", "bp-x", "alice-pig-0", "")
	require.NoError(t, err)
	assert.Equal(t, PigDirty, effect.From)
	assert.Equal(t, PigBeautiful, effect.To)
	assert.Equal(t, PigBeautiful, s.Players[0].Pigs[0].Status)
}

func TestBeautifulPigBlockedByLock(t *testing.T) {
	s := twoPlayerState(t, ModeExpansion)
	giveCard(s.Players[0], Card{ID: "bp-x", Type: CardBeautifulPig})
	s.Players[1].Pigs[0].Barn = &Barn{IsLocked: true}

	_, err := s.PlayCard("alice", "bp-x", "bob-pig-0", "bob")
	assert.Error(t, err)
}

func TestEscapeOnlyFromBeautiful(t *testing.T) {
	s := twoPlayerState(t, ModeExpansion)
	giveCard(s.Players[0], Card{ID: "esc-x", Type: CardEscape})

	_, err := s.PlayCard("alice", "esc-x", "bob-pig-0", "bob")
	assert.Error(t, err)

	s.Players[1].Pigs[0].Status = PigBeautiful
	effect, err := s.PlayCard("alice", "esc-x", "bob-pig-0", "bob")
	require.NoError(t, err)
	assert.Equal(t, PigBeautiful, effect.From)
	assert.Equal(t, PigClean, effect.To)
}

func TestLuckyBirdGrantsActions(t *testing.T) {
	s := twoPlayerState(t, ModeExpansion)
	giveCard(s.Players[0], Card{ID: "bird-x", Type: CardLuckyBird})
	require.Len(t, s.Players[0].Hand, 3)

	effect, err := s.PlayCard("alice", "bird-x", "", "")
	require.NoError(t, err)

	// one action per card left after the bird itself
	assert.Equal(t, 2, effect.ActionsGranted)
	assert.Equal(t, 2, s.ActionsRemaining)
	assert.Len(t, s.Players[0].Hand, 2)
}

func TestLuckyBirdAloneRejected(t *testing.T) {
	s := twoPlayerState(t, ModeExpansion)
	s.Players[0].Hand = []Card{{ID: "bird-x", Type: CardLuckyBird}}

	_, err := s.PlayCard("alice", "bird-x", "", "")
	assert.Error(t, err)
	assert.Len(t, s.Players[0].Hand, 1)
}

func TestBadTargets(t *testing.T) {
	s := twoPlayerState(t, ModeBasic)
	giveCard(s.Players[0], Card{ID: "mud-x", Type: CardMud})

	_, err := s.PlayCard("alice", "mud-x", "no-such-pig", "")
	assert.Equal(t, ErrInvalidTarget, err)

	_, err = s.PlayCard("alice", "mud-x", "bob-pig-0", "nobody")
	assert.Equal(t, ErrTargetPlayerNotFound, err)

	// a pig id must belong to the named target player
	_, err = s.PlayCard("alice", "mud-x", "alice-pig-0", "bob")
	assert.Equal(t, ErrInvalidTarget, err)
}
