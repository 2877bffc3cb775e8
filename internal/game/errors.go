package game

import "errors"

var (
	ErrInvalidAction    = errors.New("invalid action")
	ErrInvalidConfig    = errors.New("invalid tournament configuration")
	ErrInvalidMatrix    = errors.New("invalid payoff matrix")
	ErrInvalidTurnCount = errors.New("invalid turn count")
	ErrStrategyNotFound = errors.New("strategy not found")
)
