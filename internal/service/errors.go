package service

import "errors"

// Sentinel errors of the core. Handlers map them onto HTTP statuses:
// not-found and forbidden split 404/403, everything marked invalid is
// a 400, and any other error is a repository failure surfaced as 500.
var (
	ErrDeckNotFound    = errors.New("deck not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("forbidden")
	ErrNoActiveCard    = errors.New("session has no active card")
	ErrPolicyNotFound  = errors.New("feedback policy not found")
	ErrInvalidInput    = errors.New("invalid input")
)
