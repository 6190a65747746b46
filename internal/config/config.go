// Package config gerencia configurações da aplicação via variáveis de ambiente.
//
// # Variáveis de Ambiente
//
// ## Servidor
//   - SERVER_PORT: Porta HTTP (default: 8080)
//   - ENVIRONMENT: development ou production (default: development)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//
// ## Backend do catálogo
//   - CATALOG_SOURCE: rest ou typesense (default: rest)
//   - BACKEND_BASE_URL: URL base da API REST da loja (obrigatório para rest)
//   - BACKEND_TIMEOUT: Timeout por requisição (default: 10s)
//   - BACKEND_RETRY_COUNT: Tentativas extras em falhas de rede (default: 2)
//   - BACKEND_ZERO_BASED_PAGES: Backend conta páginas a partir de 0 (default: false)
//   - BACKEND_ACCESS_TOKEN: Token de serviço usado quando a requisição não traz um
//
// ## Controlador de busca
//   - CATALOG_PAGE_SIZE: Produtos por página na navegação paginada (default: 12)
//   - CATALOG_FULL_SET_SIZE: Tamanho de página nas buscas de conjunto completo (default: 1000)
//   - CATALOG_MATCH_CACHE_TTL: TTL da memoização de categorias por termo (default: 2m)
//   - CATALOG_FANOUT_LIMIT: Máximo de chamadas simultâneas por lote, 0 = sem limite (default: 0)
//
// ## Sessões
//   - SESSION_CAPACITY: Máximo de sessões de navegação em memória (default: 1000)
//   - SESSION_TTL: Tempo de vida de uma sessão sem uso (default: 30m)
//
// ## Redis
//   - REDIS_URL: URL do Redis para cache compartilhado de categorias (vazio desabilita)
//   - CATEGORY_CACHE_TTL: TTL das categorias no Redis (default: 5m)
//
// ## Typesense
//   - TYPESENSE_HOST, TYPESENSE_PORT, TYPESENSE_API_KEY, TYPESENSE_PROTOCOL
//   - TYPESENSE_PRODUCTS_COLLECTION (default: vitrine_products)
//   - TYPESENSE_CATEGORIES_COLLECTION (default: vitrine_categories)
//
// ## Imagens
//   - IMAGE_BASE_URL: Base para resolver imageUrl relativas
//   - GATEWAY_BASE_URL: Gateway que encapsula URLs de imagem de domínios externos
//   - GATEWAY_DOMAINS: Domínios encapsulados pelo gateway, separados por vírgula
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceREST      = "rest"
	SourceTypesense = "typesense"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string

	// Backend do catálogo
	CatalogSource     string
	BackendBaseURL    string
	BackendTimeout    time.Duration
	BackendRetryCount int
	ZeroBasedPages    bool
	BackendToken      string

	Typesense TypesenseConfig

	// Parâmetros do controlador de busca
	Catalog CatalogConfig

	// Sessões de navegação
	SessionCapacity int
	SessionTTL      time.Duration

	// Redis configuration
	RedisURL         string
	CategoryCacheTTL time.Duration

	// Tracing configuration
	TracingEnabled  bool
	TracingEndpoint string

	// Imagens
	ImageBaseURL   string
	GatewayBaseURL string
	GatewayDomains []string
}

// TypesenseConfig contém a conexão e as collections do índice do catálogo
type TypesenseConfig struct {
	Host                 string
	Port                 string
	APIKey               string
	Protocol             string
	ProductsCollection   string
	CategoriesCollection string
}

// ServerURL monta a URL do servidor Typesense
func (t TypesenseConfig) ServerURL() string {
	return fmt.Sprintf("%s://%s:%s", t.Protocol, t.Host, t.Port)
}

// CatalogConfig contém parâmetros do controlador de busca
type CatalogConfig struct {
	// Produtos por página na navegação e na busca textual paginada
	PageSize int

	// Tamanho de página usado quando o conjunto filtrado é buscado inteiro
	FullSetSize int

	// TTL da memoização das categorias que casam com um termo
	MatchCacheTTL time.Duration

	// Máximo de chamadas simultâneas por lote (0 = sem limite)
	FanOutLimit int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		CatalogSource:     strings.ToLower(getEnv("CATALOG_SOURCE", SourceREST)),
		BackendBaseURL:    strings.TrimRight(getEnv("BACKEND_BASE_URL", ""), "/"),
		BackendTimeout:    getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
		BackendRetryCount: getEnvInt("BACKEND_RETRY_COUNT", 2),
		ZeroBasedPages:    getEnvBool("BACKEND_ZERO_BASED_PAGES", false),
		BackendToken:      getEnv("BACKEND_ACCESS_TOKEN", ""),

		Typesense: TypesenseConfig{
			Host:                 getEnv("TYPESENSE_HOST", "localhost"),
			Port:                 getEnv("TYPESENSE_PORT", "8108"),
			APIKey:               getEnv("TYPESENSE_API_KEY", ""),
			Protocol:             getEnv("TYPESENSE_PROTOCOL", "http"),
			ProductsCollection:   getEnv("TYPESENSE_PRODUCTS_COLLECTION", "vitrine_products"),
			CategoriesCollection: getEnv("TYPESENSE_CATEGORIES_COLLECTION", "vitrine_categories"),
		},

		Catalog: CatalogConfig{
			PageSize:      getEnvInt("CATALOG_PAGE_SIZE", 12),
			FullSetSize:   getEnvInt("CATALOG_FULL_SET_SIZE", 1000),
			MatchCacheTTL: getEnvDuration("CATALOG_MATCH_CACHE_TTL", 2*time.Minute),
			FanOutLimit:   getEnvInt("CATALOG_FANOUT_LIMIT", 0),
		},

		SessionCapacity: getEnvInt("SESSION_CAPACITY", 1000),
		SessionTTL:      getEnvDuration("SESSION_TTL", 30*time.Minute),

		RedisURL:         getEnv("REDIS_URL", ""),
		CategoryCacheTTL: getEnvDuration("CATEGORY_CACHE_TTL", 5*time.Minute),

		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),

		ImageBaseURL:   strings.TrimRight(getEnv("IMAGE_BASE_URL", ""), "/"),
		GatewayBaseURL: getEnv("GATEWAY_BASE_URL", ""),
		GatewayDomains: getEnvList("GATEWAY_DOMAINS"),
	}
}

// Validate verifica combinações obrigatórias de configuração
func (c *Config) Validate() error {
	switch c.CatalogSource {
	case SourceREST:
		if c.BackendBaseURL == "" {
			return fmt.Errorf("BACKEND_BASE_URL é obrigatório quando CATALOG_SOURCE=%s", SourceREST)
		}
	case SourceTypesense:
		if c.Typesense.APIKey == "" {
			return fmt.Errorf("TYPESENSE_API_KEY é obrigatório quando CATALOG_SOURCE=%s", SourceTypesense)
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE inválido: %q (use %s ou %s)", c.CatalogSource, SourceREST, SourceTypesense)
	}

	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("CATALOG_PAGE_SIZE deve ser maior que zero")
	}
	if c.Catalog.FullSetSize < c.Catalog.PageSize {
		return fmt.Errorf("CATALOG_FULL_SET_SIZE deve ser maior ou igual a CATALOG_PAGE_SIZE")
	}

	return nil
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
