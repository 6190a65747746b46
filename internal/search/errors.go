package search

import "errors"

var (
	ErrInvalidQuery     = errors.New("consulta inválida")
	ErrControllerClosed = errors.New("controlador encerrado")
)
