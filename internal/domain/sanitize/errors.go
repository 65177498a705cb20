package sanitize

import "errors"

// Player name validation failures. ValidatePlayerName reports exactly one.
var (
	ErrEmptyName         = errors.New("please enter your name")
	ErrInvalidCharacters = errors.New("name contains invalid characters")
	ErrNameTooLong       = errors.New("name must be 50 characters or less")
	ErrNameTooShort      = errors.New("name must be at least 2 characters")
	ErrNoAlphanumeric    = errors.New("name must contain at least one letter or number")
)
