package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/bookly/internal/transport"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidLink        = errors.New("link is invalid or has expired")
	ErrBookNotFound       = errors.New("book not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrTagAlreadyExists   = errors.New("tag already exists")
	ErrReviewNotFound     = errors.New("review not found")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
)

func validateRequest(req any) error {
	if err := transport.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
