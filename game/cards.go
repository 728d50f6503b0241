package game

import (
	"fmt"
	"math/rand"
)

type recipeEntry struct {
	t CardType
	n int
}

// Fixed card supplies per mode. The basic set is always present; the
// expansion adds three more types on top.
var basicRecipe = []recipeEntry{
	{CardMud, 21},
	{CardBarn, 9},
	{CardBath, 8},
	{CardRain, 4},
	{CardLightning, 4},
	{CardLightningRod, 4},
	{CardBarnLock, 4},
}

var expansionRecipe = []recipeEntry{
	{CardBeautifulPig, 16},
	{CardEscape, 12},
	{CardLuckyBird, 4},
}

// DeckSize returns the total card count for a mode: 63 basic, 95 expansion.
func DeckSize(mode Mode) int {
	n := 0
	for _, e := range basicRecipe {
		n += e.n
	}
	if mode == ModeExpansion {
		for _, e := range expansionRecipe {
			n += e.n
		}
	}
	return n
}

// NewDeck builds an unshuffled deck for the mode. Card ids are unique
// within one deck instance, of the form "{type}-{index}".
func NewDeck(mode Mode) []Card {
	deck := make([]Card, 0, DeckSize(mode))

	add := func(entries []recipeEntry) {
		for _, e := range entries {
			for i := 0; i < e.n; i++ {
				deck = append(deck, Card{
					ID:   fmt.Sprintf("%s-%d", e.t, i),
					Type: e.t,
				})
			}
		}
	}

	add(basicRecipe)
	if mode == ModeExpansion {
		add(expansionRecipe)
	}

	return deck
}

// Shuffle permutes the deck in place, every permutation equally likely.
func Shuffle(deck []Card, rnd *rand.Rand) {
	rnd.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// Deal removes cardsPerHand cards from the top of the deck per player, in
// seat order. The deck is left untouched if it cannot cover every hand.
func Deal(s *State, cardsPerHand int) error {
	if len(s.Deck) < len(s.Players)*cardsPerHand {
		return ErrInsufficientCards
	}
	for _, p := range s.Players {
		p.Hand = make([]Card, 0, cardsPerHand)
		for i := 0; i < cardsPerHand; i++ {
			p.Hand = append(p.Hand, s.popDeck())
		}
	}
	return nil
}

// popDeck draws from the end of the deck. Callers check emptiness.
func (s *State) popDeck() Card {
	c := s.Deck[len(s.Deck)-1]
	s.Deck = s.Deck[:len(s.Deck)-1]
	return c
}

// draw takes the top card, reshuffling the discard pile into the deck if
// the deck is empty. Fails only when both piles are exhausted.
func (s *State) draw() (Card, error) {
	if len(s.Deck) == 0 {
		if len(s.DiscardPile) == 0 {
			return Card{}, ErrNoCardsAvailable
		}
		s.Deck = s.DiscardPile
		s.DiscardPile = []Card{}
		Shuffle(s.Deck, s.rnd)
	}
	return s.popDeck(), nil
}
