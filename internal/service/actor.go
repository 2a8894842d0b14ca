package service

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/models"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserUID uuid.UUID
	Email   string
	Role    string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }
