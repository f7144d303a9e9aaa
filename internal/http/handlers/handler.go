package handlers

import (
	"time"

	"busops/internal/services"
)

// Handler serves the /api surface over one services bundle.
type Handler struct {
	Svc *services.Services

	// Secret signs login tokens. Login is disabled when it is empty.
	Secret   []byte
	TokenTTL time.Duration
	Now      func() time.Time
}

func New(svc *services.Services, secret []byte) *Handler {
	return &Handler{
		Svc:      svc,
		Secret:   secret,
		TokenTTL: 24 * time.Hour,
		Now:      time.Now,
	}
}
