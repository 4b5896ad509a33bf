package domain

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrScoreDomain se devuelve cuando se invierte un valor fuera de {1,3,5}.
	ErrScoreDomain = errors.New("score outside {1,3,5}")
	// ErrInvalidItem agrupa errores de validacion de items.
	ErrInvalidItem = errors.New("invalid item")
	// ErrNoJudges indica un panel sin jueces configurados.
	ErrNoJudges = errors.New("no judges configured")
)

var validate = validator.New(validator.WithRequiredStructEnabled())
