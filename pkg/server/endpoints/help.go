package endpoints

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// helpSection is one level-2 heading of the help document, used for the
// landing page navigation.
type helpSection struct {
	ID    string
	Title string
}

// helpDoc is the rendered help panel.
type helpDoc struct {
	Sections []helpSection
	HTML     template.HTML
}

// renderHelp converts the embedded Markdown help into HTML and collects its
// level-2 headings.
func renderHelp(source []byte) (*helpDoc, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	doc := md.Parser().Parse(text.NewReader(source))

	var sections []helpSection
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok && heading.Level == 2 {
			section := helpSection{Title: headingText(heading, source)}
			if id, ok := heading.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					section.ID = string(b)
				}
			}
			sections = append(sections, section)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, err
	}

	return &helpDoc{
		Sections: sections,
		// Rendered from a trusted embedded file.
		HTML: template.HTML(buf.String()),
	}, nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
		case *ast.CodeSpan:
			for gc := c.FirstChild(); gc != nil; gc = gc.NextSibling() {
				if t, ok := gc.(*ast.Text); ok {
					buf.Write(t.Segment.Value(source))
				}
			}
		}
	}
	return buf.String()
}
