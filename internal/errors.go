package internal

import "errors"

var (
	// ErrInvalidState: the action is not allowed in the room's current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrInsufficientPlayers: the roster is below the required minimum.
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	// ErrIdExhaustion: no free room code was found within the retry budget.
	ErrIdExhaustion = errors.New("room code space exhausted")
	ErrBadRequest   = errors.New("bad request")
)
