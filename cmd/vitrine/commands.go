package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/api/handlers"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/bootstrap"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/config"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/observability"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/search"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app guarda o que os subcomandos compartilham depois do PersistentPreRunE
type app struct {
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	stack  *bootstrap.Stack
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "vitrine",
		Short: "Consulta o catálogo da vitrine pela linha de comando",
		Long: `Monta o mesmo controlador de busca usado pela API e imprime o resultado em JSON.

A fonte do catálogo vem das variáveis de ambiente (CATALOG_SOURCE, BACKEND_BASE_URL, ...).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Logs no stderr")

	root.AddCommand(a.treeCmd(), a.resolveCmd())
	return root
}

func (a *app) setup() error {
	a.cfg = config.LoadConfig()
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger = zap.NewNop()
	if a.verbose {
		logger, err := observability.NewLogger(a.cfg)
		if err != nil {
			return fmt.Errorf("erro ao criar logger: %w", err)
		}
		a.logger = logger
	}

	stack, err := bootstrap.NewStack(a.cfg, a.logger, nil)
	if err != nil {
		return err
	}
	a.stack = stack
	return nil
}

func (a *app) teardown() {
	if a.stack != nil {
		_ = a.stack.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) controller(cmd *cobra.Command) *search.Controller {
	return bootstrap.ControllerFactory(a.cfg, a.stack.Backend, a.logger, nil)(cmd.Context())
}

func (a *app) presenter() *handlers.Presenter {
	return handlers.NewPresenter(utils.ImageURLRewriter{
		BaseURL:        a.cfg.ImageBaseURL,
		GatewayURL:     a.cfg.GatewayBaseURL,
		GatewayDomains: a.cfg.GatewayDomains,
	})
}

func (a *app) treeCmd() *cobra.Command {
	var subID int64

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Imprime as categorias principais e subcategorias",
		Long: `Imprime a árvore carregada na montagem do controlador.

Com --sub, imprime as categorias folha de uma subcategoria.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := a.controller(cmd)
			defer ctrl.Close()

			if subID > 0 {
				leaves, err := ctrl.Leaves(cmd.Context(), subID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), leaves)
			}
			return writeJSON(cmd.OutOrStdout(), ctrl.Tree())
		},
	}
	cmd.Flags().Int64Var(&subID, "sub", 0, "Id da subcategoria cujas folhas serão listadas")
	return cmd
}

// resolveFlags espelha os parâmetros de consulta da rota de produtos
type resolveFlags struct {
	search       string
	category     int64
	mainCategory int64
	sort         string
	minPrice     string
	maxPrice     string
	page         int
	more         int
	raw          bool
}

func (a *app) resolveCmd() *cobra.Command {
	f := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve uma consulta de produtos",
		Long: `Resolve uma consulta como a rota GET /api/v1/catalog/products.

Exemplo:
  vitrine resolve --search sofa --sort price-asc --max-price 1500 --more 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query(cmd)
			if err != nil {
				return err
			}

			ctrl := a.controller(cmd)
			defer ctrl.Close()

			result, err := ctrl.Resolve(cmd.Context(), q)
			if err != nil {
				return err
			}

			// --more carrega páginas seguintes enquanto houver
			for i := 0; i < f.more && result.HasMore; i++ {
				if result, err = ctrl.LoadMore(cmd.Context()); err != nil {
					return err
				}
			}

			if f.raw {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeJSON(cmd.OutOrStdout(), a.presenter().Result(result))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.search, "search", "s", "", "Texto de busca")
	flags.Int64Var(&f.category, "category", 0, "Id de categoria (folha ou principal)")
	flags.Int64Var(&f.mainCategory, "main-category", 0, "Id de categoria principal")
	flags.StringVar(&f.sort, "sort", string(models.SortDefault), "Ordenação: default, price-asc, price-desc, name-asc, name-desc, newest")
	flags.StringVar(&f.minPrice, "min-price", "", "Preço mínimo")
	flags.StringVar(&f.maxPrice, "max-price", "", "Preço máximo")
	flags.IntVar(&f.page, "page", 1, "Página")
	flags.IntVar(&f.more, "more", 0, "Quantas vezes chamar LoadMore depois do Resolve")
	flags.BoolVar(&f.raw, "raw", false, "Imprime o resultado sem a apresentação da API")

	return cmd
}

func (f *resolveFlags) query(cmd *cobra.Command) (models.Query, error) {
	q := models.Query{
		SearchText: f.search,
		Sort:       models.ParseSortOption(f.sort),
		Page:       f.page,
	}

	if cmd.Flags().Changed("category") {
		q.CategoryID = &f.category
	}
	if cmd.Flags().Changed("main-category") {
		q.MainCategoryID = &f.mainCategory
	}

	var err error
	if q.PriceFilter.Min, err = parsePrice("min-price", f.minPrice); err != nil {
		return models.Query{}, err
	}
	if q.PriceFilter.Max, err = parsePrice("max-price", f.maxPrice); err != nil {
		return models.Query{}, err
	}

	return q, nil
}

func parsePrice(name, raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("--%s inválido: %q", name, raw)
	}
	return decimal.NewNullDecimal(d), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
