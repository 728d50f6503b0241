package game

// Per-recipient projection of shared state. The server recomputes a view
// for every recipient right before each broadcast that contains hands;
// a redacted copy is never kept as authoritative state.

// HandCard is either a fully described card (the recipient's own) or an
// opaque placeholder carrying no identity at all.
type HandCard struct {
	ID     string   `json:"id,omitempty"`
	Type   CardType `json:"type,omitempty"`
	Hidden bool     `json:"hidden,omitempty"`
}

type PlayerView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Ready     bool       `json:"ready"`
	Hand      []HandCard `json:"hand"`
	HandCount int        `json:"handCount"`
	Pigs      []Pig      `json:"pigs"`
}

// StateView mirrors State, with hidden zones reduced to what the
// recipient is entitled to see: opponents' hands become placeholder runs
// and the deck becomes a count. The discard pile is public.
type StateView struct {
	DeckCount          int           `json:"deckCount"`
	DiscardPile        []Card        `json:"discardPile"`
	DiscardCount       int           `json:"discardCount"`
	Players            []PlayerView  `json:"players"`
	CurrentPlayerIndex int           `json:"currentPlayerIndex"`
	TurnCount          int           `json:"turnCount"`
	ActionsRemaining   int           `json:"actionsRemaining"`
	LastAction         *ActionRecord `json:"lastAction"`
	Mode               Mode          `json:"gameMode"`
	Winner             string        `json:"winner,omitempty"`
}

// Project derives the view of s for one recipient.
func Project(s *State, forPlayerID string) StateView {
	v := StateView{
		DeckCount:          len(s.Deck),
		DiscardPile:        append([]Card{}, s.DiscardPile...),
		DiscardCount:       len(s.DiscardPile),
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		TurnCount:          s.TurnCount,
		ActionsRemaining:   s.ActionsRemaining,
		LastAction:         s.LastAction,
		Mode:               s.Mode,
		Winner:             s.Winner,
	}

	v.Players = make([]PlayerView, len(s.Players))
	for i, p := range s.Players {
		pv := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Ready:     p.Ready,
			HandCount: len(p.Hand),
			Pigs:      append([]Pig{}, p.Pigs...),
		}
		pv.Hand = make([]HandCard, len(p.Hand))
		if p.ID == forPlayerID {
			for j, c := range p.Hand {
				pv.Hand[j] = HandCard{ID: c.ID, Type: c.Type}
			}
		} else {
			for j := range p.Hand {
				pv.Hand[j] = HandCard{Hidden: true}
			}
		}
		v.Players[i] = pv
	}

	return v
}
