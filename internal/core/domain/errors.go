package domain

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so login failures never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("can't validate credentials")
	ErrTokenUsed          = errors.New("token already used")
	ErrUserDisabled       = errors.New("user is inactive or unverified")
	ErrForbidden          = errors.New("forbidden")

	ErrUsernameTaken    = errors.New("the username is already taken")
	ErrEmailTaken       = errors.New("the email is already taken")
	ErrPasswordMismatch = errors.New("the passwords do not match")
	ErrAlreadyVerified  = errors.New("this user is already verified")

	ErrUserNotFound    = errors.New("user not found")
	ErrTagNotFound     = errors.New("tag not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")

	ErrInternal = errors.New("internal server error")
)
