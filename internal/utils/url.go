package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ImageURLRewriter ajusta as imageUrl devolvidas pelo backend para uso público
type ImageURLRewriter struct {
	// Base usada para resolver caminhos relativos
	BaseURL string

	// Gateway que encapsula URLs dos domínios em GatewayDomains
	GatewayURL     string
	GatewayDomains []string
}

// Rewrite resolve caminhos relativos contra BaseURL e encapsula no gateway
// as URLs absolutas dos domínios configurados
func (r ImageURLRewriter) Rewrite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if !parsed.IsAbs() {
		if r.BaseURL == "" || strings.HasPrefix(raw, "//") {
			return raw
		}
		return strings.TrimRight(r.BaseURL, "/") + "/" + strings.TrimLeft(raw, "/")
	}

	return r.wrap(raw, parsed.Host)
}

func (r ImageURLRewriter) wrap(raw, host string) string {
	if r.GatewayURL == "" || strings.HasPrefix(raw, r.GatewayURL) {
		return raw
	}

	for _, domain := range r.GatewayDomains {
		if domain != "" && (host == domain || strings.HasSuffix(host, "."+domain)) {
			return fmt.Sprintf("%s/gateway?urlServico=%s", strings.TrimRight(r.GatewayURL, "/"), url.QueryEscape(raw))
		}
	}

	return raw
}
