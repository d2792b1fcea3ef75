package wizard

import (
	"errors"
	"fmt"
)

var errInvalidDomain = errors.New("must be a valid domain name, e.g. example.com")

type missingError struct {
	field string
}

func (e *missingError) Error() string {
	return fmt.Sprintf("%s is required", e.field)
}
