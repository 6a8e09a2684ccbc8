package service

import "errors"

var (
	// ErrAlreadySubscribed is returned when the email is already on the newsletter.
	ErrAlreadySubscribed = errors.New("already subscribed")
	// ErrChatSchemaMissing means the chat tables have not been created yet.
	ErrChatSchemaMissing = errors.New("chat schema missing")
	// ErrSessionClosed is returned when writing to a closed chat session.
	ErrSessionClosed = errors.New("chat session closed")
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession is returned for an unknown or expired session token.
	ErrInvalidSession = errors.New("invalid session")
	// ErrUnknownConfigKey is returned for a site configuration key outside the known set.
	ErrUnknownConfigKey = errors.New("unknown config key")
)
