package service

import "errors"

var (
	ErrNotFound           = errors.New("error not found")
	ErrAlreadyExists      = errors.New("error already exists")
	ErrInvalidCredentials = errors.New("error invalid credentials")
	ErrInvalidToken       = errors.New("error invalid token")
	ErrInvalidSymbol      = errors.New("error invalid symbol")
	ErrInvalidQuantity    = errors.New("error invalid quantity")
)
