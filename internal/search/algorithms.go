package search

import (
	"context"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// plan é o caminho de resolução escolhido para uma consulta
type plan struct {
	mode       models.ResultMode
	categoryID int64
	text       string
}

// outcome é o resultado bruto de uma execução, antes de ser aplicado ao estado
type outcome struct {
	products []models.Product
	total    int
	hasMore  bool
	partial  bool
}

// planFor decide o caminho; a primeira regra que casa vence
func (c *Controller) planFor(q models.Query) plan {
	text := q.Text()

	// 1. Texto igual ao nome de uma categoria principal vira navegação
	if text != "" {
		if m, ok := c.tree.mainByName(text); ok {
			return plan{mode: models.ModeMainCategory, categoryID: m.ID}
		}
	}

	// 2. Categoria principal explícita
	if q.MainCategoryID != nil {
		return plan{mode: models.ModeMainCategory, categoryID: *q.MainCategoryID}
	}

	// 3. Categoria: principal se estiver na lista carregada, senão folha
	if q.CategoryID != nil {
		if c.tree.isMain(*q.CategoryID) {
			return plan{mode: models.ModeMainCategory, categoryID: *q.CategoryID}
		}
		return plan{mode: models.ModeLeafCategory, categoryID: *q.CategoryID}
	}

	// 4. Busca textual
	if text != "" {
		return plan{mode: models.ModeTextSearch, text: text}
	}

	// 5. Navegação paginada
	return plan{mode: models.ModeBrowse}
}

func (c *Controller) execute(ctx context.Context, p plan, sort models.SortOption, page int) outcome {
	switch p.mode {
	case models.ModeMainCategory:
		return c.fetchSubtree(ctx, p.categoryID, sort)
	case models.ModeLeafCategory:
		return c.fetchLeaf(ctx, p.categoryID, sort)
	case models.ModeTextSearch:
		return c.searchText(ctx, p.text, sort, page)
	default:
		return c.browse(ctx, sort, page)
	}
}

// fetchSubtree busca todos os produtos de uma categoria principal:
// subcategorias -> folhas -> produtos, achatados nessa ordem
func (c *Controller) fetchSubtree(ctx context.Context, mainID int64, sort models.SortOption) outcome {
	subs, err := c.backend.SubCategoriesByMain(ctx, mainID)
	if err != nil {
		c.logger.Warn("falha ao buscar subcategorias da categoria principal",
			zap.Int64("main_category_id", mainID), zap.Error(err))
		return outcome{partial: true}
	}

	leafBranches := fanOut(ctx, c, "leaves", subs.Items, func(ctx context.Context, sub models.SubCategory) branch[models.Category] {
		leaves, err := c.tree.leavesOf(ctx, sub.ID)
		if err != nil {
			c.logger.Warn("falha ao buscar categorias da subcategoria",
				zap.Int64("sub_category_id", sub.ID), zap.Error(err))
			return branch[models.Category]{failed: true}
		}
		return branch[models.Category]{items: leaves}
	})

	leaves, leavesFailed := flatten(leafBranches)
	products, productsFailed := c.productsOfLeaves(ctx, leafIDs(leaves), sort)

	unique := uniqueProducts(products)
	return outcome{
		products: unique,
		total:    len(unique),
		partial:  leavesFailed || productsFailed,
	}
}

// fetchLeaf busca o conjunto completo de uma categoria folha
func (c *Controller) fetchLeaf(ctx context.Context, categoryID int64, sort models.SortOption) outcome {
	products, failed := c.productsOfLeaves(ctx, []int64{categoryID}, sort)
	unique := uniqueProducts(products)
	return outcome{products: unique, total: len(unique), partial: failed}
}

// searchText combina a busca por nome no backend (a) com a busca pelas
// categorias cujo nome contém o texto (b). (b) só roda na primeira página.
func (c *Controller) searchText(ctx context.Context, text string, sort models.SortOption, page int) outcome {
	var (
		g        errgroup.Group
		direct   catalog.List[models.Product]
		directOK bool
		byCat    []models.Product
		catFail  bool
	)

	g.Go(func() error {
		list, err := c.backend.SearchProducts(ctx, text, catalog.PageRequest{Page: page, Size: c.pageSize, Sort: sort})
		if err != nil {
			c.logger.Warn("falha na busca de produtos por nome", zap.String("query", text), zap.Int("page", page), zap.Error(err))
			return nil
		}
		direct, directOK = list, true
		return nil
	})

	if page == 1 {
		g.Go(func() error {
			ids, failed := c.matchingLeaves(ctx, text)
			products, productsFailed := c.productsOfLeaves(ctx, ids, sort)
			byCat, catFail = products, failed || productsFailed
			return nil
		})
	}
	_ = g.Wait()

	set := newProductSet()
	set.add(direct.Items...)
	set.add(byCat...)

	return outcome{
		products: set.items,
		total:    len(set.items),
		hasMore:  directOK && direct.Len() >= c.pageSize,
		partial:  !directOK || catFail,
	}
}

// browse busca uma página da listagem geral
func (c *Controller) browse(ctx context.Context, sort models.SortOption, page int) outcome {
	list, err := c.backend.Products(ctx, catalog.PageRequest{Page: page, Size: c.pageSize, Sort: sort})
	if err != nil {
		c.logger.Warn("falha ao buscar produtos", zap.Int("page", page), zap.Error(err))
		return outcome{partial: true}
	}

	return outcome{
		products: uniqueProducts(list.Items),
		total:    list.Total(),
		hasMore:  hasNextPage(list, page, c.pageSize),
	}
}

// hasNextPage usa a meta do backend quando existe e, na falta dela, página cheia
func hasNextPage(list catalog.List[models.Product], page, pageSize int) bool {
	meta := list.Meta
	switch {
	case meta.Reported && meta.Pages > 0:
		return page < meta.Pages
	case meta.Reported && meta.Total > 0:
		return page*pageSize < meta.Total
	default:
		return list.Len() >= pageSize
	}
}

// productsOfLeaves busca a primeira página (tamanho de conjunto completo) de
// cada folha em paralelo e achata na ordem das folhas
func (c *Controller) productsOfLeaves(ctx context.Context, ids []int64, sort models.SortOption) ([]models.Product, bool) {
	req := catalog.PageRequest{Page: 1, Size: c.fullSetSize, Sort: sort}

	branches := fanOut(ctx, c, "products", ids, func(ctx context.Context, id int64) branch[models.Product] {
		list, err := c.backend.ProductsByCategory(ctx, id, req)
		if err != nil {
			c.logger.Warn("falha ao buscar produtos da categoria",
				zap.Int64("category_id", id), zap.Error(err))
			return branch[models.Product]{failed: true}
		}
		return branch[models.Product]{items: list.Items}
	})

	return flatten(branches)
}

// matchingLeaves retorna as folhas cujo nome, ou o nome da subcategoria ou
// da categoria principal acima, contém o texto. Resultados completos são memoizados.
func (c *Controller) matchingLeaves(ctx context.Context, text string) ([]int64, bool) {
	term := utils.NormalizeName(text)
	if ids, ok := c.matches.Get(term); ok {
		return ids, false
	}

	tree := c.tree.loaded

	mainMatch := make(map[int64]bool, len(tree.MainCategories))
	for _, m := range tree.MainCategories {
		if utils.ContainsName(m.Name, term) {
			mainMatch[m.ID] = true
		}
	}

	leafBranches := fanOut(ctx, c, "leaves", tree.SubCategories, func(ctx context.Context, sub models.SubCategory) branch[models.Category] {
		leaves, err := c.tree.leavesOf(ctx, sub.ID)
		if err != nil {
			c.logger.Warn("falha ao buscar categorias da subcategoria",
				zap.Int64("sub_category_id", sub.ID), zap.Error(err))
			return branch[models.Category]{failed: true}
		}
		return branch[models.Category]{items: leaves}
	})

	var (
		ids    []int64
		seen   = make(map[int64]struct{})
		failed bool
	)
	for i, sub := range tree.SubCategories {
		failed = failed || leafBranches[i].failed
		subMatch := mainMatch[sub.MainCategory.ID] || utils.ContainsName(sub.Name, term)

		for _, leaf := range leafBranches[i].items {
			if !subMatch && !utils.ContainsName(leaf.Name, term) {
				continue
			}
			if _, ok := seen[leaf.ID]; ok {
				continue
			}
			seen[leaf.ID] = struct{}{}
			ids = append(ids, leaf.ID)
		}
	}

	if !failed {
		c.matches.Set(term, ids)
	}

	return ids, failed
}

func leafIDs(leaves []models.Category) []int64 {
	seen := make(map[int64]struct{}, len(leaves))
	ids := make([]int64, 0, len(leaves))
	for _, l := range leaves {
		if _, ok := seen[l.ID]; ok {
			continue
		}
		seen[l.ID] = struct{}{}
		ids = append(ids, l.ID)
	}
	return ids
}
