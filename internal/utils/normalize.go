package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName prepara nomes de categoria e termos de busca para comparação:
// remove acentos, converte para minúsculas e colapsa espaços.
// Exemplo: "  Sala de  Estar " -> "sala de estar", "Decoração" -> "decoracao"
func NormalizeName(name string) string {
	if name == "" {
		return name
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// SameName compara dois nomes ignorando caixa e acentos
func SameName(a, b string) bool {
	na := NormalizeName(a)
	return na != "" && na == NormalizeName(b)
}

// ContainsName indica se o nome contém o termo, ignorando caixa e acentos.
// O termo já deve estar normalizado; termo vazio não casa com nada.
func ContainsName(name, normalizedTerm string) bool {
	if normalizedTerm == "" {
		return false
	}
	return strings.Contains(NormalizeName(name), normalizedTerm)
}
