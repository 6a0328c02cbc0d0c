package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/stateful/runpad/pkg/document"
)

var (
	indexColor   = color.New(color.Faint)
	headingColor = color.New(color.Bold, color.Underline)
	codeColor    = color.New(color.FgCyan)
	fenceColor   = color.New(color.Faint)
	folderColor  = color.New(color.FgBlue, color.Bold)
	errorColor   = color.New(color.FgRed)
)

var markAttributes = map[document.Mark]color.Attribute{
	document.Bold:          color.Bold,
	document.Italic:        color.Italic,
	document.Strikethrough: color.CrossedOut,
}

// renderDocument writes every top-level block prefixed with its index.
func renderDocument(w io.Writer, doc *document.Document) error {
	for i, block := range doc.Blocks() {
		if _, err := fmt.Fprintf(w, "%s %s\n", indexColor.Sprintf("[%d]", i), renderBlock(block)); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func renderBlock(block *document.Element) string {
	switch block.Type {
	case document.Heading1Type, document.Heading2Type, document.Heading3Type:
		level := strings.TrimPrefix(string(block.Type), "heading")
		prefix := strings.Repeat("#", int(level[0]-'0'))
		return headingColor.Sprint(prefix + " " + document.TextContent(block))
	case document.CodeType:
		return fenceColor.Sprint("```") + "\n" + codeColor.Sprint(document.TextContent(block)) + "\n" + fenceColor.Sprint("```")
	default:
		var b strings.Builder
		renderInline(&b, block)
		return b.String()
	}
}

func renderInline(b *strings.Builder, n document.Node) {
	switch v := n.(type) {
	case *document.Text:
		if marks := v.Marks.List(); len(marks) > 0 {
			b.WriteString(markColor(marks).Sprint(v.Text))
		} else {
			b.WriteString(v.Text)
		}
	case *document.Element:
		for _, child := range v.Children {
			renderInline(b, child)
		}
	}
}

func markColor(marks []document.Mark) *color.Color {
	c := color.New()
	for _, m := range marks {
		c.Add(markAttributes[m])
	}
	return c
}
