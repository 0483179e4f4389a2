package utils

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// RequiredUUID rejects uuid.Nil. validation.Required treats a [16]byte as
// always present, so ids need their own rule.
func RequiredUUID(msg string) validation.Rule {
	return validation.By(func(value interface{}) error {
		var id uuid.UUID
		switch v := value.(type) {
		case uuid.UUID:
			id = v
		case *uuid.UUID:
			if v == nil {
				return nil
			}
			id = *v
		}
		if id == uuid.Nil {
			return errors.New(msg)
		}
		return nil
	})
}
