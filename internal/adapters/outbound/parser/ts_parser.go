// Package parser implements domain.CodeParser for TypeScript sources. It
// is not a full grammar: it recognizes the declaration, import and call
// shapes the rule catalog dispatches on, with exact 1-based positions, and
// degrades to KindOther for everything else. Parsing the same source twice
// always yields the same tree.
package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/guardrails/guardrails/internal/domain/syntax"
)

// TSParser builds syntax trees from TypeScript/TSX source text.
type TSParser struct{}

func New() *TSParser {
	return &TSParser{}
}

func (p *TSParser) ParseFile(path string) (*syntax.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.ParseSource(path, string(data)), nil
}

var (
	importRe    = regexp.MustCompile(`^import\b`)
	reExportRe  = regexp.MustCompile(`^export\s+(\*|\{)`)
	classRe     = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)
	interfaceRe = regexp.MustCompile(`^(?:export\s+)?interface\s+([A-Za-z_$][\w$]*)`)
	funcRe      = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)?`)
	arrowRe     = regexp.MustCompile(`^(?:export\s+)?const\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*(?:async\s*)?\(`)
	methodRe    = regexp.MustCompile(`^(?:(?:public|private|protected|static|async|override|readonly|get|set)\s+)*([A-Za-z_$][\w$]*)\s*\([^)]*\)\s*(?::\s*[^{]*)?\{`)
	callRe      = regexp.MustCompile(`([A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*)\s*\(`)
	specRe      = regexp.MustCompile(`(['"])([^'"]*)(['"])`)
)

var reservedCallees = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true, "constructor": true, "typeof": true,
}

// container tracks an open declaration and the brace depth at which it
// closes again.
type container struct {
	node  *syntax.Node
	depth int
}

func (p *TSParser) ParseSource(path, source string) *syntax.Tree {
	root := &syntax.Node{Kind: syntax.KindSourceFile, Line: 1, Col: 1}
	tree := &syntax.Tree{Path: path, Source: source, Root: root}

	masked, comments := mask(source)
	lines := strings.Split(source, "\n")
	maskedLines := strings.Split(masked, "\n")

	stack := []container{{node: root, depth: 0}}
	depth := 0
	offset := 0

	for i, line := range lines {
		lineno := i + 1
		ml := maskedLines[i]
		trimmed := strings.TrimSpace(ml)
		indent := len(ml) - len(strings.TrimLeft(ml, " \t"))
		top := func() *syntax.Node { return stack[len(stack)-1].node }

		if c, ok := comments[offset]; ok {
			top().Children = append(top().Children, &syntax.Node{
				Kind: syntax.KindComment, Text: c, Line: lineno, Col: indent + 1,
			})
		}

		node := classifyLine(trimmed, line, lineno, indent, top())
		opened := node != nil && isContainerKind(node.Kind)
		if node != nil {
			top().Children = append(top().Children, node)
		}

		if node == nil || !opened {
			appendCalls(top(), ml, line, lineno, node != nil)
		}
		if strings.Contains(line, "`") {
			appendTemplate(top(), line, lineno)
		}

		// Track brace depth and close containers that end on this line.
		for j := 0; j < len(ml); j++ {
			switch ml[j] {
			case '{':
				depth++
				if opened {
					stack = append(stack, container{node: node, depth: depth})
					opened = false
				}
			case '}':
				depth--
				for len(stack) > 1 && depth < stack[len(stack)-1].depth {
					stack = stack[:len(stack)-1]
				}
			}
		}

		offset += len(line) + 1
	}

	return tree
}

func isContainerKind(k syntax.Kind) bool {
	switch k {
	case syntax.KindClassDecl, syntax.KindInterfaceDecl, syntax.KindFuncDecl, syntax.KindMethodDecl:
		return true
	}
	return false
}

// classifyLine recognizes a declaration starting on this line, or nil.
func classifyLine(trimmed, original string, lineno, indent int, parent *syntax.Node) *syntax.Node {
	col := indent + 1

	switch {
	case importRe.MatchString(trimmed):
		n := &syntax.Node{Kind: syntax.KindImportDecl, Text: strings.TrimSpace(original), Line: lineno, Col: col}
		if m := specRe.FindStringSubmatchIndex(original); m != nil {
			n.Children = append(n.Children, &syntax.Node{
				Kind: syntax.KindStringLit,
				Text: original[m[0]:m[1]],
				Line: lineno,
				Col:  m[0] + 1,
			})
		}
		return n

	case reExportRe.MatchString(trimmed):
		return &syntax.Node{Kind: syntax.KindExportDecl, Text: strings.TrimSpace(original), Line: lineno, Col: col}

	case classRe.MatchString(trimmed):
		m := classRe.FindStringSubmatch(trimmed)
		return &syntax.Node{Kind: syntax.KindClassDecl, Name: m[1], Text: strings.TrimSpace(original), Line: lineno, Col: col}

	case interfaceRe.MatchString(trimmed):
		m := interfaceRe.FindStringSubmatch(trimmed)
		return &syntax.Node{Kind: syntax.KindInterfaceDecl, Name: m[1], Text: strings.TrimSpace(original), Line: lineno, Col: col}

	case strings.HasPrefix(trimmed, "function") || strings.HasPrefix(trimmed, "export function") ||
		strings.HasPrefix(trimmed, "export default function") || strings.HasPrefix(trimmed, "async function") ||
		strings.HasPrefix(trimmed, "export async function"):
		m := funcRe.FindStringSubmatch(trimmed)
		name := ""
		if m != nil {
			name = m[1]
		}
		return &syntax.Node{Kind: syntax.KindFuncDecl, Name: name, Text: strings.TrimSpace(original), Line: lineno, Col: col}

	case arrowRe.MatchString(trimmed) && strings.Contains(trimmed, "=>"):
		m := arrowRe.FindStringSubmatch(trimmed)
		return &syntax.Node{Kind: syntax.KindFuncDecl, Name: m[1], Text: strings.TrimSpace(original), Line: lineno, Col: col}

	case parent.Kind == syntax.KindClassDecl:
		if m := methodRe.FindStringSubmatch(trimmed); m != nil && !reservedCallees[m[1]] {
			return &syntax.Node{Kind: syntax.KindMethodDecl, Name: m[1], Text: strings.TrimSpace(original), Line: lineno, Col: col}
		}
	}

	return nil
}

// appendCalls extracts call expressions from one masked line. When the
// line declared something (declLine), the declaration's own parameter list
// is skipped by dropping a match at the declared name.
func appendCalls(parent *syntax.Node, masked, original string, lineno int, declLine bool) {
	for _, m := range callRe.FindAllStringSubmatchIndex(masked, -1) {
		callee := masked[m[2]:m[3]]
		head := callee
		if dot := strings.IndexByte(callee, '.'); dot >= 0 {
			head = callee[:dot]
		}
		if reservedCallees[head] || reservedCallees[callee] {
			continue
		}
		if declLine && m[0] == 0 {
			continue
		}
		call := &syntax.Node{
			Kind: syntax.KindCallExpr,
			Name: callee,
			Text: strings.TrimSpace(original),
			Line: lineno,
			Col:  m[2] + 1,
		}
		call.Children = append(call.Children, &syntax.Node{
			Kind: syntax.KindIdent, Name: callee, Text: callee, Line: lineno, Col: m[2] + 1,
		})
		// First string argument on the same line, if any.
		rest := original[min(m[1], len(original)):]
		if sm := specRe.FindStringSubmatchIndex(rest); sm != nil {
			call.Children = append(call.Children, &syntax.Node{
				Kind: syntax.KindStringLit,
				Text: rest[sm[0]:sm[1]],
				Line: lineno,
				Col:  m[1] + sm[0] + 1,
			})
		}
		parent.Children = append(parent.Children, call)
	}
}

func appendTemplate(parent *syntax.Node, original string, lineno int) {
	start := strings.IndexByte(original, '`')
	if start < 0 {
		return
	}
	parent.Children = append(parent.Children, &syntax.Node{
		Kind: syntax.KindTemplateLit,
		Text: strings.TrimSpace(original),
		Line: lineno,
		Col:  start + 1,
	})
}

// mask blanks comment bodies and string contents so structural scanning
// never trips on braces or parens inside literals. Delimiters survive.
// The returned map keys comment start offsets to their text.
func mask(source string) (string, map[int]string) {
	out := []byte(source)
	comments := make(map[int]string)

	const (
		code = iota
		lineComment
		blockComment
		single
		double
		template
	)
	state := code
	start := 0

	for i := 0; i < len(out); i++ {
		ch := out[i]
		switch state {
		case code:
			switch {
			case ch == '/' && i+1 < len(out) && out[i+1] == '/':
				state, start = lineComment, i
				out[i] = ' '
			case ch == '/' && i+1 < len(out) && out[i+1] == '*':
				state, start = blockComment, i
				out[i] = ' '
			case ch == '\'':
				state = single
			case ch == '"':
				state = double
			case ch == '`':
				state = template
			}
		case lineComment:
			if ch == '\n' {
				comments[lineStart(source, start)] = source[start:i]
				state = code
			} else {
				out[i] = ' '
			}
		case blockComment:
			if ch == '/' && source[i-1] == '*' && i > start+2 {
				comments[lineStart(source, start)] = source[start : i+1]
				state = code
			}
			if ch != '\n' {
				out[i] = ' '
			}
		case single:
			if ch == '\\' {
				out[i] = ' '
				i++
				if i < len(out) && out[i] != '\n' {
					out[i] = ' '
				}
				continue
			}
			if ch == '\'' || ch == '\n' {
				state = code
			} else {
				out[i] = ' '
			}
		case double:
			if ch == '\\' {
				out[i] = ' '
				i++
				if i < len(out) && out[i] != '\n' {
					out[i] = ' '
				}
				continue
			}
			if ch == '"' || ch == '\n' {
				state = code
			} else {
				out[i] = ' '
			}
		case template:
			if ch == '`' {
				state = code
			} else if ch != '\n' {
				out[i] = ' '
			}
		}
	}
	if state == lineComment || state == blockComment {
		comments[lineStart(source, start)] = source[start:]
	}

	return string(out), comments
}

// lineStart returns the offset of the first byte of the line containing
// offset, used to key comments by the line they start on.
func lineStart(source string, offset int) int {
	if i := strings.LastIndexByte(source[:offset], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}
