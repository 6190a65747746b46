package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ListKind diferencia lista com itens de lista vazia
type ListKind int

const (
	ListEmpty ListKind = iota
	ListOk
)

// Meta contém a paginação informada pelo backend.
// Pages e Total são zero quando o backend não informou.
type Meta struct {
	Pages int `json:"pages"`
	Total int `json:"total"`

	// Reported indica que o backend enviou um bloco meta
	Reported bool `json:"-"`
}

// List é o resultado normalizado de qualquer chamada de listagem.
// O código que consome nunca olha o formato original da resposta.
type List[T any] struct {
	Kind  ListKind
	Items []T
	Meta  Meta
}

// Ok cria uma lista com itens; sem itens vira Empty mantendo a meta
func Ok[T any](items []T, meta Meta) List[T] {
	if len(items) == 0 {
		return List[T]{Kind: ListEmpty, Meta: meta}
	}
	return List[T]{Kind: ListOk, Items: items, Meta: meta}
}

// Empty cria uma lista vazia
func Empty[T any]() List[T] {
	return List[T]{Kind: ListEmpty}
}

// IsEmpty indica ausência de itens
func (l List[T]) IsEmpty() bool {
	return l.Kind == ListEmpty
}

// Len retorna a quantidade de itens
func (l List[T]) Len() int {
	return len(l.Items)
}

// Total retorna o total informado pelo backend ou, na falta dele, a quantidade de itens
func (l List[T]) Total() int {
	if l.Meta.Reported && l.Meta.Total > 0 {
		return l.Meta.Total
	}
	return len(l.Items)
}

type envelope struct {
	Result        json.RawMessage `json:"result"`
	Data          json.RawMessage `json:"data"`
	Content       json.RawMessage `json:"content"`
	Meta          *Meta           `json:"meta"`
	TotalPages    *int            `json:"totalPages"`
	TotalElements *int            `json:"totalElements"`
}

// DecodeList normaliza o corpo de uma resposta de listagem. Formatos aceitos:
//
//	[ ... ]
//	{"result": [...], "meta": {"pages": n, "total": n}}
//	{"data": [...]}
//	{"data": {"result": [...], "meta": {...}}}
//	{"content": [...], "totalPages": n, "totalElements": n}
func DecodeList[T any](body []byte) (List[T], error) {
	return decodeList[T](body, 0)
}

func decodeList[T any](body []byte, depth int) (List[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Empty[T](), nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return List[T]{}, fmt.Errorf("erro ao decodificar lista: %w", err)
		}
		return Ok(items, Meta{}), nil
	case '{':
	default:
		return List[T]{}, ErrUnexpectedShape
	}

	// Limite de aninhamento para {"data": {"data": ...}}
	if depth > 2 {
		return List[T]{}, ErrUnexpectedShape
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return List[T]{}, fmt.Errorf("erro ao decodificar envelope: %w", err)
	}

	meta := Meta{}
	if env.Meta != nil {
		meta = *env.Meta
		meta.Reported = true
	} else if env.TotalPages != nil || env.TotalElements != nil {
		meta.Reported = true
		if env.TotalPages != nil {
			meta.Pages = *env.TotalPages
		}
		if env.TotalElements != nil {
			meta.Total = *env.TotalElements
		}
	}

	for _, raw := range []json.RawMessage{env.Result, env.Content} {
		if len(raw) == 0 {
			continue
		}
		inner, err := decodeList[T](raw, depth+1)
		if err != nil {
			return List[T]{}, err
		}
		return withMeta(inner, meta), nil
	}

	if len(env.Data) > 0 {
		inner, err := decodeList[T](env.Data, depth+1)
		if err != nil {
			return List[T]{}, err
		}
		return withMeta(inner, meta), nil
	}

	return List[T]{}, ErrUnexpectedShape
}

// withMeta prefere a meta mais interna; a externa só vale quando a interna não existe
func withMeta[T any](l List[T], outer Meta) List[T] {
	if !l.Meta.Reported && outer.Reported {
		l.Meta = outer
	}
	return l
}
