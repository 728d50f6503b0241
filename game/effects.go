package game

// EffectType tags the descriptor of a resolved card effect.
type EffectType string

const (
	EffectStatusChange    EffectType = "STATUS_CHANGE"
	EffectAddBarn         EffectType = "ADD_BARN"
	EffectDestroyBarn     EffectType = "DESTROY_BARN"
	EffectAddLightningRod EffectType = "ADD_LIGHTNING_ROD"
	EffectLockBarn        EffectType = "LOCK_BARN"
	EffectRain            EffectType = "RAIN"
	EffectLuckyBird       EffectType = "LUCKY_BIRD"
)

// RainPig records, for one pig, whether the rain washed it.
type RainPig struct {
	PigID       string `json:"pigId"`
	WasAffected bool   `json:"wasAffected"`
}

// RainPlayer groups rain results per pig owner.
type RainPlayer struct {
	PlayerID string    `json:"playerId"`
	Pigs     []RainPig `json:"pigs"`
}

// Effect describes what a resolved card changed. It is broadcast to
// clients for view reconciliation; the mutation itself has already been
// applied by the resolver, so consumers must never apply it again.
type Effect struct {
	Type     EffectType `json:"type"`
	PlayerID string     `json:"playerId,omitempty"`
	PigID    string     `json:"pigId,omitempty"`
	From     PigStatus  `json:"from,omitempty"`
	To       PigStatus  `json:"to,omitempty"`

	AffectedPigs []RainPlayer `json:"affectedPigs,omitempty"`

	// ActionsGranted is set for lucky_bird: the caller must install it
	// as the turn's new action budget.
	ActionsGranted int `json:"actionsGranted,omitempty"`
}

// resolve checks a card's legality against the current state and, if
// legal, applies its mutation and returns the matching descriptor. On any
// error the state is untouched. targetPlayerID defaults to the actor;
// target pigs are matched by exact id within the target player's pigs.
func (s *State) resolve(actor *Player, card Card, targetPigID, targetPlayerID string) (Effect, error) {
	target := actor
	if targetPlayerID != "" {
		if target = s.PlayerByID(targetPlayerID); target == nil {
			return Effect{}, ErrTargetPlayerNotFound
		}
	}

	// Card types that act on a single pig resolve it up front.
	var pig *Pig
	switch card.Type {
	case CardRain, CardLuckyBird:
		// global / untargeted
	default:
		for i := range target.Pigs {
			if target.Pigs[i].ID == targetPigID {
				pig = &target.Pigs[i]
				break
			}
		}
		if pig == nil {
			return Effect{}, ErrInvalidTarget
		}
	}

	switch card.Type {
	case CardMud:
		if pig.Status != PigClean {
			return Effect{}, violation("mud only sticks to a clean pig")
		}
		pig.Status = PigDirty
		return Effect{Type: EffectStatusChange, PlayerID: target.ID, PigID: pig.ID, From: PigClean, To: PigDirty}, nil

	case CardBarn:
		if pig.Barn != nil {
			return Effect{}, violation("that pig already has a barn")
		}
		pig.Barn = &Barn{}
		return Effect{Type: EffectAddBarn, PlayerID: target.ID, PigID: pig.ID}, nil

	case CardBath:
		if pig.Status != PigDirty {
			return Effect{}, violation("only a dirty pig can be bathed")
		}
		if pig.Barn != nil && pig.Barn.IsLocked {
			return Effect{}, violation("the barn door is locked")
		}
		pig.Status = PigClean
		return Effect{Type: EffectStatusChange, PlayerID: target.ID, PigID: pig.ID, From: PigDirty, To: PigClean}, nil

	case CardRain:
		affected := false
		var out []RainPlayer
		for _, p := range s.Players {
			rp := RainPlayer{PlayerID: p.ID}
			for i := range p.Pigs {
				washed := p.Pigs[i].Status == PigDirty && p.Pigs[i].Barn == nil
				rp.Pigs = append(rp.Pigs, RainPig{PigID: p.Pigs[i].ID, WasAffected: washed})
				affected = affected || washed
			}
			out = append(out, rp)
		}
		if !affected {
			return Effect{}, violation("no unsheltered dirty pigs for the rain to wash")
		}
		for _, p := range s.Players {
			for i := range p.Pigs {
				if p.Pigs[i].Status == PigDirty && p.Pigs[i].Barn == nil {
					p.Pigs[i].Status = PigClean
				}
			}
		}
		return Effect{Type: EffectRain, PlayerID: actor.ID, AffectedPigs: out}, nil

	case CardLightning:
		if pig.Barn == nil {
			return Effect{}, violation("there is no barn to strike")
		}
		if pig.Barn.HasLightningRod {
			return Effect{}, violation("the lightning rod protects that barn")
		}
		pig.Barn = nil
		return Effect{Type: EffectDestroyBarn, PlayerID: target.ID, PigID: pig.ID}, nil

	case CardLightningRod:
		if pig.Barn == nil {
			return Effect{}, violation("a lightning rod needs a barn")
		}
		if pig.Barn.HasLightningRod {
			return Effect{}, violation("that barn already has a lightning rod")
		}
		pig.Barn.HasLightningRod = true
		return Effect{Type: EffectAddLightningRod, PlayerID: target.ID, PigID: pig.ID}, nil

	case CardBarnLock:
		if pig.Barn == nil {
			return Effect{}, violation("a lock needs a barn")
		}
		if pig.Barn.IsLocked {
			return Effect{}, violation("that barn is already locked")
		}
		pig.Barn.IsLocked = true
		return Effect{Type: EffectLockBarn, PlayerID: target.ID, PigID: pig.ID}, nil

	case CardBeautifulPig:
		if pig.Status == PigBeautiful {
			return Effect{}, violation("that pig is already beautiful")
		}
		if pig.Barn != nil && pig.Barn.IsLocked {
			return Effect{}, violation("the barn door is locked")
		}
		from := pig.Status
		pig.Status = PigBeautiful
		return Effect{Type: EffectStatusChange, PlayerID: target.ID, PigID: pig.ID, From: from, To: PigBeautiful}, nil

	case CardEscape:
		if pig.Status != PigBeautiful {
			return Effect{}, violation("only a beautiful pig can escape the salon")
		}
		pig.Status = PigClean
		return Effect{Type: EffectStatusChange, PlayerID: target.ID, PigID: pig.ID, From: PigBeautiful, To: PigClean}, nil

	case CardLuckyBird:
		// The bird itself is still in the hand at this point; it grants
		// one action per other card held.
		if len(actor.Hand) <= 1 {
			return Effect{}, violation("lucky bird needs other cards to play")
		}
		return Effect{Type: EffectLuckyBird, PlayerID: actor.ID, ActionsGranted: len(actor.Hand) - 1}, nil
	}

	// Unreachable while CardType stays closed; a new card type must be
	// handled above.
	return Effect{}, violation("unplayable card type " + string(card.Type))
}
