package syntax

// Kind is the closed set of node kinds the engine dispatches on. Visitors
// switch on Kind and ignore kinds they do not recognize.
type Kind int

const (
	KindSourceFile Kind = iota
	KindImportDecl
	KindExportDecl
	KindClassDecl
	KindInterfaceDecl
	KindFuncDecl
	KindMethodDecl
	KindCallExpr
	KindIdent
	KindStringLit
	KindTemplateLit
	KindComment
	KindOther
)

var kindNames = [...]string{
	KindSourceFile:    "SourceFile",
	KindImportDecl:    "ImportDecl",
	KindExportDecl:    "ExportDecl",
	KindClassDecl:     "ClassDecl",
	KindInterfaceDecl: "InterfaceDecl",
	KindFuncDecl:      "FuncDecl",
	KindMethodDecl:    "MethodDecl",
	KindCallExpr:      "CallExpr",
	KindIdent:         "Ident",
	KindStringLit:     "StringLit",
	KindTemplateLit:   "TemplateLit",
	KindComment:       "Comment",
	KindOther:         "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is one syntax tree node. Line and Col are 1-based. Name carries the
// declared or called identifier where the kind has one (the callee for
// CallExpr, possibly dotted), and Text the node's source text.
type Node struct {
	Kind     Kind
	Name     string
	Text     string
	Line     int
	Col      int
	Children []*Node
}

// Tree is the parsed form of one source file.
type Tree struct {
	Path   string
	Source string
	Root   *Node
}

// Walk visits n and its children depth-first in document order.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		Walk(c, visit)
	}
}
