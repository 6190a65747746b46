package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxSlugBaseLength limita a parte textual do slug
const MaxSlugBaseLength = 50

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// ProductSlug cria o slug da página do produto: {nome-em-kebab-case}-{id}.
// Exemplo: "Sofá Retrátil 3 Lugares" + 42 -> "sofa-retratil-3-lugares-42"
func ProductSlug(name string, id int64) string {
	if id <= 0 {
		return ""
	}

	base := nonSlugChars.ReplaceAllString(NormalizeName(name), "-")
	base = strings.Trim(base, "-")

	if len(base) > MaxSlugBaseLength {
		base = base[:MaxSlugBaseLength]
		if lastHyphen := strings.LastIndex(base, "-"); lastHyphen > 0 {
			base = base[:lastHyphen]
		}
	}

	if base == "" {
		return strconv.FormatInt(id, 10)
	}
	return base + "-" + strconv.FormatInt(id, 10)
}
