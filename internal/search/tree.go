package search

import (
	"context"
	"strconv"
	"sync"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// categoryTree guarda as categorias principais e subcategorias carregadas
// na montagem e memoiza as folhas de cada subcategoria. Só recebe inserções.
type categoryTree struct {
	backend catalog.Backend
	logger  *zap.Logger

	loaded models.CategoryTree

	mu     sync.RWMutex
	leaves map[int64][]models.Category
	group  singleflight.Group
}

// loadCategoryTree busca os dois primeiros níveis em paralelo.
// Um nível que falha fica vazio; o retorno indica se houve falha.
func loadCategoryTree(ctx context.Context, backend catalog.Backend, logger *zap.Logger) (*categoryTree, bool) {
	t := &categoryTree{
		backend: backend,
		logger:  logger,
		leaves:  make(map[int64][]models.Category),
	}

	var (
		g        errgroup.Group
		mainsErr error
		subsErr  error
	)

	g.Go(func() error {
		list, err := backend.MainCategories(ctx)
		if err != nil {
			mainsErr = err
			return nil
		}
		t.loaded.MainCategories = list.Items
		return nil
	})
	g.Go(func() error {
		list, err := backend.SubCategories(ctx)
		if err != nil {
			subsErr = err
			return nil
		}
		t.loaded.SubCategories = list.Items
		return nil
	})
	_ = g.Wait()

	if mainsErr != nil {
		logger.Warn("falha ao carregar categorias principais", zap.Error(mainsErr))
	}
	if subsErr != nil {
		logger.Warn("falha ao carregar subcategorias", zap.Error(subsErr))
	}

	return t, mainsErr == nil && subsErr == nil
}

// snapshot retorna uma cópia dos níveis carregados
func (t *categoryTree) snapshot() models.CategoryTree {
	return models.CategoryTree{
		MainCategories: append([]models.MainCategory(nil), t.loaded.MainCategories...),
		SubCategories:  append([]models.SubCategory(nil), t.loaded.SubCategories...),
	}
}

func (t *categoryTree) isMain(id int64) bool {
	_, ok := t.loaded.MainByID(id)
	return ok
}

// mainByName procura uma categoria principal com o mesmo nome, ignorando caixa e acentos
func (t *categoryTree) mainByName(name string) (models.MainCategory, bool) {
	for _, m := range t.loaded.MainCategories {
		if utils.SameName(m.Name, name) {
			return m, true
		}
	}
	return models.MainCategory{}, false
}

// leavesOf retorna as folhas de uma subcategoria. Chamadas simultâneas para a
// mesma subcategoria compartilham uma única requisição; falhas não são memoizadas.
func (t *categoryTree) leavesOf(ctx context.Context, subID int64) ([]models.Category, error) {
	if leaves, ok := t.cached(subID); ok {
		return leaves, nil
	}

	v, err, _ := t.group.Do(strconv.FormatInt(subID, 10), func() (interface{}, error) {
		if leaves, ok := t.cached(subID); ok {
			return leaves, nil
		}

		// A requisição compartilhada não deve morrer com o contexto de quem chegou primeiro
		list, err := t.backend.CategoriesBySub(context.WithoutCancel(ctx), subID)
		if err != nil {
			return nil, err
		}

		t.mu.Lock()
		t.leaves[subID] = list.Items
		t.mu.Unlock()

		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.Category), nil
}

func (t *categoryTree) cached(subID int64) ([]models.Category, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	leaves, ok := t.leaves[subID]
	return leaves, ok
}
