package estimate

import "errors"

var (
	ErrItemIndex       = errors.New("item index out of range")
	ErrTaxIndex        = errors.New("tax index out of range")
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrInvalidKind     = errors.New("kind must be percent or flat")
	ErrInvalidCurrency = errors.New("currency must be one of ₹ $ €")
)
