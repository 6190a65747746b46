package catalog

import "github.com/prefeitura-rio/app-vitrine-busca/internal/models"

var sortParams = map[models.SortOption]string{
	models.SortPriceAsc:  "minPrice,asc",
	models.SortPriceDesc: "maxPrice,desc",
	models.SortNameAsc:   "name,asc",
	models.SortNameDesc:  "name,desc",
	models.SortNewest:    "id,desc",
}

// SortParam traduz a ordenação para o parâmetro sort do backend.
// ok é false quando nenhum parâmetro deve ser enviado.
func SortParam(s models.SortOption) (param string, ok bool) {
	param, ok = sortParams[s]
	return param, ok
}
