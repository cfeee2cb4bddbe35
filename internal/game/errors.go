package game

import "errors"

// User-input errors. These are reported back to the player who issued
// the command and never mutate game state.
var (
	ErrAlreadyPlaying  = errors.New("you are already a part of the game")
	ErrAlreadyQueued   = errors.New("you are already in the queue")
	ErrNotPlaying      = errors.New("you are not a part of the game")
	ErrDealerPlays     = errors.New("you are the dealer")
	ErrNoRound         = errors.New("there is no round in progress")
	ErrNotJudging      = errors.New("it is not time to choose a winner")
	ErrNotDealer       = errors.New("you may not choose the winner")
	ErrNoSuchAnswer    = errors.New("that answer doesn't exist")
	ErrWrongCardCount  = errors.New("you didn't provide the correct amount of cards")
	ErrNoSuchCard      = errors.New("you don't have a card with that index")
	ErrNoIndices       = errors.New("you didn't provide hand indexes for cards")
	ErrNotEnoughPoints = errors.New("you don't have enough points to do that")
	ErrUnknownPlayer   = errors.New("that player doesn't exist")
	ErrKickSelf        = errors.New("you can't kick yourself")
	ErrAlreadyVoted    = errors.New("you already voted to kick this player")
	ErrBadColor        = errors.New("that color card doesn't exist")
	ErrBadBlankCount   = errors.New("you provided too few or too many blanks")
	ErrPokeSelf        = errors.New("why are you poking yourself?")
	ErrDealerIdle      = errors.New("the dealer doesn't need to do anything right now")
	ErrPlayersIdle     = errors.New("players do not need to do anything right now")
	ErrAlreadyPlayed   = errors.New("that player has already played their cards")
)
