package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "vazio", input: "", expected: ""},
		{name: "só espaços", input: "   ", expected: ""},
		{name: "texto puro", input: "Sofá de três lugares", expected: "Sofá de três lugares"},
		{name: "negrito", input: "Sofá **retrátil**", expected: "Sofá retrátil"},
		{name: "link", input: "Veja o [manual](http://x.y/manual.pdf)", expected: "Veja o manual"},
		{name: "título e parágrafo", input: "# Medidas\n\nAltura 90cm", expected: "Medidas\n\nAltura 90cm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlainDescription(tt.input))
		})
	}
}

func TestPlainDescriptionList(t *testing.T) {
	got := PlainDescription("Itens:\n\n- almofada\n- capa")
	assert.Contains(t, got, "- almofada")
	assert.Contains(t, got, "- capa")
	assert.NotContains(t, got, "\n\n\n")
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "curto", Summarize("curto", 10))
	assert.Equal(t, "sem limite", Summarize("sem limite", 0))
	assert.Equal(t, "Mesa de…", Summarize("Mesa de jantar extensível", 10))
	assert.Equal(t, "Cadeira…", Summarize("Cadeira estofada", 9))
}
