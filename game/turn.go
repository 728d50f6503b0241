package game

// Turn and action sequencing. Every operation either fully commits or
// rejects before touching anything; there is no partial mutation to roll
// back.

func (s *State) gate(playerID string) (*Player, error) {
	if s.finished {
		return nil, ErrGameOver
	}
	p := s.PlayerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if s.CurrentPlayer() != p {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// PlayCard validates turn ownership and hand membership, resolves the
// card's effect, then commits: the card moves hand -> discard and one
// action is spent (lucky_bird instead installs its granted budget). On
// failure nothing changes and the card stays in hand.
func (s *State) PlayCard(playerID, cardID, targetPigID, targetPlayerID string) (Effect, error) {
	p, err := s.gate(playerID)
	if err != nil {
		return Effect{}, err
	}
	if s.ActionsRemaining <= 0 {
		return Effect{}, ErrNoActionsLeft
	}

	var card Card
	found := false
	for _, c := range p.Hand {
		if c.ID == cardID {
			card, found = c, true
			break
		}
	}
	if !found {
		return Effect{}, ErrCardNotFound
	}

	effect, err := s.resolve(p, card, targetPigID, targetPlayerID)
	if err != nil {
		return Effect{}, err
	}

	s.removeFromHand(p, cardID)
	s.DiscardPile = append(s.DiscardPile, card)

	if effect.Type == EffectLuckyBird {
		s.ActionsRemaining = effect.ActionsGranted
	} else {
		s.ActionsRemaining--
	}
	s.LastAction = &ActionRecord{Type: "playCard", PlayerID: playerID, CardID: cardID}

	return effect, nil
}

// DrawCard refills the current player's hand by one, up to the hand
// limit, reshuffling the discard pile into the deck when needed.
func (s *State) DrawCard(playerID string) (Card, error) {
	p, err := s.gate(playerID)
	if err != nil {
		return Card{}, err
	}
	if len(p.Hand) >= CardsPerHand {
		return Card{}, ErrHandFull
	}

	c, err := s.draw()
	if err != nil {
		return Card{}, err
	}
	p.Hand = append(p.Hand, c)
	s.LastAction = &ActionRecord{Type: "drawCard", PlayerID: playerID}

	return c, nil
}

// DiscardCard moves one of the current player's own cards to the discard
// pile. It costs an action when one is left, but never goes negative.
func (s *State) DiscardCard(playerID, cardID string) (Card, error) {
	p, err := s.gate(playerID)
	if err != nil {
		return Card{}, err
	}

	c, ok := s.removeFromHand(p, cardID)
	if !ok {
		return Card{}, ErrCardNotFound
	}
	s.DiscardPile = append(s.DiscardPile, c)

	if s.ActionsRemaining > 0 {
		s.ActionsRemaining--
	}
	s.LastAction = &ActionRecord{Type: "discardCard", PlayerID: playerID, CardID: cardID}

	return c, nil
}

// EndTurn passes play to the next seat and resets the action budget.
func (s *State) EndTurn(playerID string) error {
	_, err := s.gate(playerID)
	if err != nil {
		return err
	}

	s.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.Players)
	s.TurnCount++
	s.ActionsRemaining = 1
	s.LastAction = nil

	return nil
}
