package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://loja.local/api/")
	t.Setenv("CATALOG_PAGE_SIZE", "24")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("BACKEND_ZERO_BASED_PAGES", "true")
	t.Setenv("CATALOG_FULL_SET_SIZE", "invalido")
	t.Setenv("GATEWAY_DOMAINS", "imagens.fornecedor.com, ,cdn.parceiro.com")

	cfg := LoadConfig()

	assert.Equal(t, SourceREST, cfg.CatalogSource)
	assert.Equal(t, "http://loja.local/api", cfg.BackendBaseURL)
	assert.Equal(t, 24, cfg.Catalog.PageSize)
	assert.Equal(t, 1000, cfg.Catalog.FullSetSize, "valor inválido cai no default")
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.ZeroBasedPages)
	assert.Equal(t, []string{"imagens.fornecedor.com", "cdn.parceiro.com"}, cfg.GatewayDomains)
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.ServerURL())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			CatalogSource:  SourceREST,
			BackendBaseURL: "http://loja.local",
			Catalog:        CatalogConfig{PageSize: 12, FullSetSize: 1000},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "rest válido", mutate: func(c *Config) {}},
		{name: "rest sem URL", mutate: func(c *Config) { c.BackendBaseURL = "" }, wantErr: true},
		{name: "typesense sem chave", mutate: func(c *Config) { c.CatalogSource = SourceTypesense }, wantErr: true},
		{name: "typesense com chave", mutate: func(c *Config) {
			c.CatalogSource = SourceTypesense
			c.Typesense.APIKey = "xyz"
		}},
		{name: "fonte desconhecida", mutate: func(c *Config) { c.CatalogSource = "graphql" }, wantErr: true},
		{name: "page size zero", mutate: func(c *Config) { c.Catalog.PageSize = 0 }, wantErr: true},
		{name: "full set menor que página", mutate: func(c *Config) { c.Catalog.FullSetSize = 5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
