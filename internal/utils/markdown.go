package utils

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
)

// PlainDescription converte a descrição em markdown de um produto para texto puro
func PlainDescription(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	doc := markdown.Parse([]byte(text), nil)

	var buf bytes.Buffer
	writePlain(doc, &buf)

	lines := strings.Split(buf.String(), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " ")
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Summarize corta o texto em até max runas, terminando em palavra inteira
func Summarize(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if i := strings.LastIndexAny(cut, " \n"); i > 0 {
		cut = cut[:i]
	}

	return strings.TrimRight(cut, " ,.;:\n") + "…"
}

func writePlain(node ast.Node, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Literal)
		return
	case *ast.Code:
		buf.Write(n.Literal)
		return
	case *ast.CodeBlock:
		buf.Write(n.Literal)
		buf.WriteString("\n")
		return
	case *ast.Hardbreak:
		buf.WriteString("\n")
		return
	case *ast.Softbreak:
		buf.WriteString(" ")
		return
	case *ast.HTMLBlock, *ast.HTMLSpan, *ast.Image:
		return
	}

	container := node.AsContainer()
	if container == nil {
		return
	}

	if _, ok := node.(*ast.ListItem); ok {
		buf.WriteString("- ")
	}

	for _, child := range container.Children {
		writePlain(child, buf)
	}

	switch node.(type) {
	case *ast.Paragraph, *ast.Heading:
		buf.WriteString("\n\n")
	case *ast.List, *ast.BlockQuote:
		buf.WriteString("\n")
	}
}
