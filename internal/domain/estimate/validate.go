package estimate

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the enumerated fields of a document received from outside.
// Amounts are not range checked.
func (d *Document) Validate() error {
	return validate.Struct(d)
}
