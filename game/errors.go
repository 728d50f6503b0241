package game

// RuleError is a rejected action: something the client asked for that the
// rules or the current state do not allow. It never indicates corruption;
// the room is always left exactly as it was.
type RuleError struct {
	Code   string
	Reason string
}

func (e *RuleError) ErrorCode() string { return e.Code }
func (e *RuleError) Error() string     { return e.Reason }

var (
	// ErrNotYourTurn rejects any turn action from a non-current player
	ErrNotYourTurn = &RuleError{"NOTYOURTURN", "it's not your turn"}
	// ErrCardNotFound means the card id is not in the acting player's hand
	ErrCardNotFound = &RuleError{"CARDNOTFOUND", "card not in your hand"}
	// ErrNoActionsLeft means the turn's action budget is spent
	ErrNoActionsLeft = &RuleError{"NOACTIONS", "no actions remaining this turn"}
	// ErrHandFull rejects drawing above the hand limit
	ErrHandFull = &RuleError{"HANDFULL", "hand is already full"}
	// ErrNoCardsAvailable means deck and discard pile are both empty
	ErrNoCardsAvailable = &RuleError{"NOCARDS", "no cards left to draw"}
	// ErrInsufficientCards means the deck cannot cover the initial deal
	ErrInsufficientCards = &RuleError{"SHORTDECK", "not enough cards to deal"}
	// ErrGameOver rejects actions on a finished game
	ErrGameOver = &RuleError{"GAMEOVER", "the game is over"}
	// ErrUnknownPlayer means the player is not part of this game
	ErrUnknownPlayer = &RuleError{"UNKNOWNPLAYER", "player not in this game"}

	// ErrInvalidTarget covers a missing or nonexistent target pig
	ErrInvalidTarget = &RuleError{"BADTARGET", "no such pig"}
	// ErrTargetPlayerNotFound covers a bad target player id
	ErrTargetPlayerNotFound = &RuleError{"BADTARGET", "no such player"}

	// Room registry errors, reported only to the requester.

	ErrRoomNotFound  = &RuleError{"ROOMNOTFOUND", "room does not exist"}
	ErrRoomFull      = &RuleError{"ROOMFULL", "room is full"}
	ErrRoomStarted   = &RuleError{"ALREADYSTARTED", "game has already started"}
	ErrRoomNotInGame = &RuleError{"NOTPLAYING", "room is not playing"}
	ErrNotOwner      = &RuleError{"NOTOWNER", "only the owner can start the game"}
	ErrTooFewPlayers = &RuleError{"TOOFEWPLAYERS", "at least 2 players are needed"}
	ErrNotAllReady   = &RuleError{"NOTALLREADY", "all players must be ready"}
	ErrNotInRoom     = &RuleError{"NOTINROOM", "you are not in this room"}

	// ErrAlreadyConnected rejects a second connection under the same id.
	ErrAlreadyConnected = &RuleError{"ALREADYCONNECTED", "connection id already in use"}
)

// violation builds a card-specific rejection with a readable reason.
func violation(reason string) *RuleError {
	return &RuleError{"RULEVIOLATION", reason}
}
