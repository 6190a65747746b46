package services

import "errors"

var (
	// ErrSessionNotFound indica sessão inexistente, expirada ou removida
	ErrSessionNotFound = errors.New("sessão não encontrada")
)
