package catalog

import "context"

type accessTokenKey struct{}

// WithAccessToken anexa o token do chamador ao contexto para repasse ao backend
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFrom recupera o token anexado por WithAccessToken
func AccessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}
