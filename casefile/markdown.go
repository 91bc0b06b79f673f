package casefile

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var casesHeadings = []string{"cases", "test cases", "tests"}

// ParseMarkdown reads cases from a Markdown document. The first GFM table
// after a "Cases" heading holds one case per row; columns are matched by
// header name (name, parser, input, want, error) and only input is required.
// Wrap inputs in backticks so that operators are not read as emphasis.
// Empty want cells mean "no expected value".
func ParseMarkdown(reader io.Reader) (*File, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	fm, body, err := parseFrontMatter(string(content))
	if err != nil {
		return nil, err
	}

	source := []byte(body)
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	table := findCasesTable(doc, source)
	if table == nil {
		return nil, ErrMissingCases
	}

	cases, err := parseCasesTable(table, source)
	if err != nil {
		return nil, err
	}

	file := &File{Parser: fm.Parser, Cases: cases}
	if err := file.normalize(); err != nil {
		return nil, err
	}

	return file, nil
}

type frontMatter struct {
	Parser string `yaml:"parser"`
}

// parseFrontMatter splits an optional "---" delimited YAML block off content.
func parseFrontMatter(content string) (frontMatter, string, error) {
	var fm frontMatter

	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return fm, content, nil
	}

	endIndex := strings.Index(content[4:], "\n---")
	if endIndex == -1 {
		return fm, "", ErrInvalidFrontMatter
	}

	endIndex += 4

	if err := yaml.Unmarshal([]byte(content[4:endIndex]), &fm); err != nil {
		return fm, "", fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	return fm, content[endIndex+4:], nil
}

func findCasesTable(doc ast.Node, source []byte) *extast.Table {
	var (
		inCases bool
		found   *extast.Table
	)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			inCases = slices.Contains(casesHeadings, strings.ToLower(extractText(node, source)))

			return ast.WalkSkipChildren, nil
		case *extast.Table:
			if inCases {
				found = node
				return ast.WalkStop, nil
			}

			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return found
}

func parseCasesTable(table *extast.Table, source []byte) ([]Case, error) {
	var (
		headers []string
		cases   []Case
	)

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		cells := tableCells(row, source)

		if _, ok := row.(*extast.TableHeader); ok {
			for _, h := range cells {
				h = strings.ToLower(h)
				switch h {
				case "name", "parser", "input", "want", "error":
				default:
					return nil, fmt.Errorf("%w: unknown column %q", ErrInvalidTable, h)
				}

				headers = append(headers, h)
			}

			continue
		}

		var c Case
		for i, header := range headers {
			if i >= len(cells) {
				break
			}

			value := cells[i]
			switch header {
			case "name":
				c.Name = value
			case "parser":
				c.Parser = value
			case "input":
				c.Input = value
			case "want":
				if value != "" {
					c.Want = &value
				}
			case "error":
				c.Error = value
			}
		}

		cases = append(cases, c)
	}

	if !slices.Contains(headers, "input") {
		return nil, fmt.Errorf("%w: input column is required", ErrInvalidTable)
	}

	return cases, nil
}

func tableCells(row ast.Node, source []byte) []string {
	var cells []string

	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			cells = append(cells, extractText(cell, source))
		}
	}

	return cells
}

// extractText concatenates the text under node. Whitespace around the cell is
// trimmed, but code span contents are kept as written.
func extractText(node ast.Node, source []byte) string {
	var pieces []textPiece

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch textNode := n.(type) {
		case *ast.CodeSpan:
			pieces = append(pieces, textPiece{text: codeSpanText(textNode, source), code: true})
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			pieces = append(pieces, textPiece{text: string(textNode.Segment.Value(source))})
		case *ast.String:
			pieces = append(pieces, textPiece{text: string(textNode.Value)})
		}

		return ast.WalkContinue, nil
	})

	for len(pieces) > 0 && !pieces[0].code {
		pieces[0].text = strings.TrimLeftFunc(pieces[0].text, unicode.IsSpace)
		if pieces[0].text != "" {
			break
		}

		pieces = pieces[1:]
	}

	for len(pieces) > 0 && !pieces[len(pieces)-1].code {
		last := &pieces[len(pieces)-1]

		last.text = strings.TrimRightFunc(last.text, unicode.IsSpace)
		if last.text != "" {
			break
		}

		pieces = pieces[:len(pieces)-1]
	}

	var result strings.Builder
	for _, piece := range pieces {
		result.WriteString(piece.text)
	}

	return result.String()
}

type textPiece struct {
	text string
	code bool
}

func codeSpanText(span *ast.CodeSpan, source []byte) string {
	var sb strings.Builder

	for child := span.FirstChild(); child != nil; child = child.NextSibling() {
		switch textNode := child.(type) {
		case *ast.Text:
			sb.Write(textNode.Segment.Value(source))
		case *ast.String:
			sb.Write(textNode.Value)
		}
	}

	return sb.String()
}
