package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyURL                = errors.New("url is required")
	ErrInvalidProxy            = errors.New("invalid proxy url")
	ErrNoFieldsToUpdate        = errors.New("at least one field must be provided for update")
	ErrEmptyMirror             = errors.New("mirror url cannot be empty")
	ErrPasswordWithoutUsername = errors.New("password requires a username")
)
