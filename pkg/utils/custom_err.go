package utils

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrUserNotFound        = wrapNotFound("user not found")
	ErrCityNotFound        = wrapNotFound("city not found")
	ErrCardNotFound        = wrapNotFound("membership card not found")
	ErrValidation          = errors.New("validation error")
	ErrDatabaseError       = errors.New("database error")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrReferralCycle       = errors.New("referral chain would form a cycle")
	ErrInvalidToken        = errors.New("invalid token")
	ErrEmptySecret         = errors.New("token signing secret is empty")
)

type notFoundError struct{ msg string }

func (e notFoundError) Error() string { return e.msg }

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

func wrapNotFound(msg string) error { return notFoundError{msg: msg} }
