package catalog

import "errors"

var (
	// ErrUnexpectedShape indica um corpo de resposta que não é lista em nenhum formato conhecido
	ErrUnexpectedShape = errors.New("formato de resposta de lista não reconhecido")

	// ErrBackendStatus indica resposta HTTP de erro do backend
	ErrBackendStatus = errors.New("backend respondeu com erro")
)
