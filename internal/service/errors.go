package service

import "errors"

var (
	// ErrForbidden is returned when a user tries to modify another user's resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned for values the service refuses to store.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadySubscribed is returned when checkout is requested for an active subscription.
	ErrAlreadySubscribed = errors.New("already subscribed")
	// ErrNoSubscription is returned when there is no paid subscription to act on.
	ErrNoSubscription = errors.New("no subscription")
	// ErrInvalidSignature is returned for webhooks that fail verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
