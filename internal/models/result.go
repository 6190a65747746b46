package models

// ResultMode identifica qual caminho de resolução produziu o resultado
type ResultMode string

const (
	ModeNone         ResultMode = ""
	ModeBrowse       ResultMode = "browse"
	ModeTextSearch   ResultMode = "text-search"
	ModeMainCategory ResultMode = "main-category"
	ModeLeafCategory ResultMode = "leaf-category"
)

// Paginated indica se o modo admite carregamento incremental
func (m ResultMode) Paginated() bool {
	return m == ModeBrowse || m == ModeTextSearch
}

// ResultPage é o estado visível de um resultado de busca
type ResultPage struct {
	// Produtos após o filtro de preço
	Products []Product `json:"products"`

	// Quantidade de produtos mantidos antes do filtro de preço
	HeldCount int `json:"heldCount"`

	TotalResults int        `json:"totalResults"`
	HasMore      bool       `json:"hasMore"`
	Page         int        `json:"page"`
	Mode         ResultMode `json:"mode"`
	State        string     `json:"state"`

	// Algum ramo falhou e contribuiu com zero resultados
	Partial bool `json:"partial"`

	// O resultado foi superado por um Resolve mais recente e não foi aplicado
	Stale bool `json:"stale"`
}

// IDs retorna os ids dos produtos visíveis, na ordem
func (r *ResultPage) IDs() []int64 {
	ids := make([]int64, len(r.Products))
	for i, p := range r.Products {
		ids[i] = p.ID
	}
	return ids
}
