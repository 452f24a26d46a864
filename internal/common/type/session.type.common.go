package types

import (
	"github.com/google/uuid"
)

// AdminWithAuth is the identity carried by admin bearer tokens.
type AdminWithAuth struct {
	ID    uuid.UUID `json:"id" validate:"required"`
	Email string    `json:"email" validate:"required,looseemail"`
	Role  string    `json:"role" validate:"required,oneof=admin"`
}
