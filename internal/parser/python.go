package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/zheng/aurora/internal/graph"
)

// PythonParser extracts entities and relation mentions from Python source
// using tree-sitter. Safe for concurrent use: each Parse call creates its
// own tree-sitter parser instance.
type PythonParser struct{}

// NewPythonParser creates a Python parser.
func NewPythonParser() *PythonParser { return &PythonParser{} }

// Language returns the canonical language name.
func (p *PythonParser) Language() string { return "python" }

// Extensions returns the file extensions this parser handles.
func (p *PythonParser) Extensions() []string { return []string{".py", ".pyi"} }

// Parse extracts the module entity, classes, functions and methods declared
// in the file, plus import, call and inheritance mentions. A file with
// syntax errors yields ErrSyntax and no entities.
func (p *PythonParser) Parse(ctx context.Context, filePath string, content []byte) (*graph.FileResult, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, fmt.Errorf("%w in %s", ErrSyntax, filePath)
	}

	module := ModulePath(filePath)
	res := &graph.FileResult{Path: filePath, Module: module}
	res.Entities = append(res.Entities, graph.Entity{
		Kind:          graph.NodeKindModule,
		Name:          lastDotted(module),
		QualifiedName: module,
		File:          filePath,
		LineStart:     1,
		LineEnd:       int(root.EndPoint().Row) + 1,
	})

	w := &pyWalker{content: content, path: filePath, module: module, res: res}
	w.walk(root, module, "")
	return res, nil
}

type pyWalker struct {
	content []byte
	path    string
	module  string
	res     *graph.FileResult
}

// walk descends the syntax tree tracking the qualified name of the enclosing
// scope and, separately, the enclosing class for method qualification.
func (w *pyWalker) walk(node *sitter.Node, scope, class string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "import_statement":
			w.importStatement(child, scope)
		case "import_from_statement":
			w.importFromStatement(child, scope)
		case "class_definition":
			w.classDefinition(child, scope)
		case "function_definition":
			w.functionDefinition(child, scope, class)
		case "decorated_definition":
			w.walk(child, scope, class)
		case "call":
			w.call(child, scope)
			w.walk(child, scope, class)
		default:
			w.walk(child, scope, class)
		}
	}
}

// importStatement handles "import foo" and "import foo as bar".
func (w *pyWalker) importStatement(node *sitter.Node, scope string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			w.addMention(graph.EdgeKindImports, scope, w.text(child), child)
		case "aliased_import":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if grand := child.NamedChild(j); grand.Type() == "dotted_name" {
					w.addMention(graph.EdgeKindImports, scope, w.text(grand), grand)
				}
			}
		}
	}
}

// importFromStatement handles "from x import y". Only the module path is
// recorded; purely relative imports ("from . import y") carry no resolvable
// module name and are skipped.
func (w *pyWalker) importFromStatement(node *sitter.Node, scope string) {
	if mod := node.ChildByFieldName("module_name"); mod != nil && mod.Type() == "dotted_name" {
		w.addMention(graph.EdgeKindImports, scope, w.text(mod), mod)
	}
}

func (w *pyWalker) classDefinition(node *sitter.Node, scope string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	qname := scope + "." + name
	w.res.Entities = append(w.res.Entities, graph.Entity{
		Kind:          graph.NodeKindClass,
		Name:          name,
		QualifiedName: qname,
		Parent:        scope,
		File:          w.path,
		LineStart:     int(node.StartPoint().Row) + 1,
		LineEnd:       int(node.EndPoint().Row) + 1,
	})

	// Base classes become inheritance mentions.
	if args := node.ChildByFieldName("superclasses"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			base := args.NamedChild(i)
			if t := base.Type(); t == "identifier" || t == "attribute" {
				w.addMention(graph.EdgeKindInherits, qname, w.text(base), base)
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		w.walk(body, qname, qname)
	}
}

func (w *pyWalker) functionDefinition(node *sitter.Node, scope, class string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	qname := scope + "." + name
	parent := w.module
	if class != "" {
		parent = class
	}
	w.res.Entities = append(w.res.Entities, graph.Entity{
		Kind:          graph.NodeKindFunction,
		Name:          name,
		QualifiedName: qname,
		Parent:        parent,
		File:          w.path,
		LineStart:     int(node.StartPoint().Row) + 1,
		LineEnd:       int(node.EndPoint().Row) + 1,
	})
	if body := node.ChildByFieldName("body"); body != nil {
		// Nested scopes leave the class context behind.
		w.walk(body, qname, "")
	}
}

// call records the textual callee, a bare name or an attribute-access chain.
func (w *pyWalker) call(node *sitter.Node, scope string) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}
	if t := fn.Type(); t == "identifier" || t == "attribute" {
		w.addMention(graph.EdgeKindCalls, scope, w.text(fn), fn)
	}
}

func (w *pyWalker) addMention(kind graph.EdgeKind, source, target string, node *sitter.Node) {
	if target == "" {
		return
	}
	w.res.Mentions = append(w.res.Mentions, graph.Mention{
		Kind:   kind,
		Source: source,
		Module: w.module,
		Target: target,
		Line:   int(node.StartPoint().Row) + 1,
	})
}

func (w *pyWalker) text(node *sitter.Node) string {
	return string(w.content[node.StartByte():node.EndByte()])
}

func lastDotted(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
