package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Mode selects the card recipe for a game.
type Mode string

const (
	ModeBasic     Mode = "basic"
	ModeExpansion Mode = "expansion"
)

// CardType is the tag of a card. The resolver switches exhaustively over
// these, so a new type is a compile-visible change there, not a silent
// default case.
type CardType string

const (
	CardMud          CardType = "mud"
	CardBarn         CardType = "barn"
	CardBath         CardType = "bath"
	CardRain         CardType = "rain"
	CardLightning    CardType = "lightning"
	CardLightningRod CardType = "lightning_rod"
	CardBarnLock     CardType = "barn_lock"
	CardBeautifulPig CardType = "beautiful_pig"
	CardEscape       CardType = "escape"
	CardLuckyBird    CardType = "lucky_bird"
)

// Card is immutable once created. It moves between deck, hands and the
// discard pile by ownership transfer, never by copying into two zones.
type Card struct {
	ID   string   `json:"id"`
	Type CardType `json:"type"`
}

type PigStatus string

const (
	PigClean     PigStatus = "clean"
	PigDirty     PigStatus = "dirty"
	PigBeautiful PigStatus = "beautiful"
)

// Barn exists only while attached to a pig. The two flags are orthogonal.
type Barn struct {
	HasLightningRod bool `json:"hasLightningRod"`
	IsLocked        bool `json:"isLocked"`
}

type Pig struct {
	ID     string    `json:"id"`
	Status PigStatus `json:"status"`
	Barn   *Barn     `json:"barn"`
}

// Player identity is the transport-assigned connection id. Hand order is
// meaningful only to its owner; everyone else sees a count.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Hand  []Card `json:"hand,omitempty"`
	Pigs  []Pig  `json:"pigs,omitempty"`
}

const (
	CardsPerHand  = 3
	PigsPerPlayer = 3
)

// ActionRecord describes the last committed action, for client display.
type ActionRecord struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	CardID   string `json:"cardId,omitempty"`
}

// State is the authoritative game state for one playing room. It is only
// ever touched from the server's core loop, so it carries no lock.
type State struct {
	Deck               []Card        `json:"deck"`
	DiscardPile        []Card        `json:"discardPile"`
	Players            []*Player     `json:"players"`
	CurrentPlayerIndex int           `json:"currentPlayerIndex"`
	TurnCount          int           `json:"turnCount"`
	ActionsRemaining   int           `json:"actionsRemaining"`
	LastAction         *ActionRecord `json:"lastAction"`
	Mode               Mode          `json:"gameMode"`
	Winner             string        `json:"winner,omitempty"`

	finished bool
	rnd      *rand.Rand
}

// NewState deals a fresh game for the given players, in seat order. The
// players keep their identity and name; pigs and hands are created here.
func NewState(players []*Player, mode Mode, rnd *rand.Rand) (*State, error) {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	deck := NewDeck(mode)
	Shuffle(deck, rnd)

	s := &State{
		Deck:             deck,
		DiscardPile:      []Card{},
		Players:          players,
		ActionsRemaining: 1,
		Mode:             mode,
		rnd:              rnd,
	}

	for _, p := range players {
		p.Pigs = make([]Pig, PigsPerPlayer)
		for i := range p.Pigs {
			p.Pigs[i] = Pig{
				ID:     fmt.Sprintf("%s-pig-%d", p.ID, i),
				Status: PigClean,
			}
		}
	}

	if err := Deal(s, CardsPerHand); err != nil {
		return nil, err
	}

	return s, nil
}

// Finished reports whether the game has been frozen by a win.
func (s *State) Finished() bool {
	return s.finished
}

func (s *State) CurrentPlayer() *Player {
	if len(s.Players) == 0 {
		return nil
	}
	return s.Players[s.CurrentPlayerIndex]
}

func (s *State) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePlayer takes a player out of a running game. Their hand goes to
// the discard pile so the card set stays whole, their pigs leave with
// them, and the turn index is re-clamped into the shorter seat list.
func (s *State) RemovePlayer(id string) {
	idx := -1
	for i, p := range s.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	s.DiscardPile = append(s.DiscardPile, s.Players[idx].Hand...)
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)

	if len(s.Players) == 0 {
		s.CurrentPlayerIndex = 0
		return
	}
	if idx < s.CurrentPlayerIndex {
		s.CurrentPlayerIndex--
	}
	s.CurrentPlayerIndex = s.CurrentPlayerIndex % len(s.Players)
}

func (s *State) removeFromHand(p *Player, cardID string) (Card, bool) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}
