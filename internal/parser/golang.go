package parser

import (
	"context"
	"fmt"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/zheng/aurora/internal/graph"
)

// GoParser extracts entities and relation mentions from Go source using
// tree-sitter. The module entity is the file's package directory as a dotted
// path, so all files of one package collapse into a single module node.
type GoParser struct{}

// NewGoParser creates a Go parser.
func NewGoParser() *GoParser { return &GoParser{} }

// Language returns the canonical language name.
func (p *GoParser) Language() string { return "go" }

// Extensions returns the file extensions this parser handles.
func (p *GoParser) Extensions() []string { return []string{".go"} }

// Parse extracts the package module entity, struct and interface types as
// class entities, functions and methods, plus import and call mentions.
func (p *GoParser) Parse(ctx context.Context, filePath string, content []byte) (*graph.FileResult, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, fmt.Errorf("%w in %s", ErrSyntax, filePath)
	}

	module := goModulePath(filePath, root, content)
	res := &graph.FileResult{Path: filePath, Module: module}
	res.Entities = append(res.Entities, graph.Entity{
		Kind:          graph.NodeKindModule,
		Name:          lastDotted(module),
		QualifiedName: module,
		File:          filePath,
		LineStart:     1,
		LineEnd:       int(root.EndPoint().Row) + 1,
	})

	w := &goWalker{content: content, path: filePath, module: module, res: res}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "import_declaration":
			w.importDeclaration(child)
		case "type_declaration":
			w.typeDeclaration(child)
		case "function_declaration":
			w.functionDeclaration(child)
		case "method_declaration":
			w.methodDeclaration(child)
		}
	}
	return res, nil
}

// goModulePath derives the dotted module name from the package directory,
// falling back to the declared package name for files at the analysis root.
func goModulePath(filePath string, root *sitter.Node, content []byte) string {
	dir := path.Dir(strings.ReplaceAll(filePath, "\\", "/"))
	if dir != "." && dir != "/" {
		return strings.ReplaceAll(strings.TrimPrefix(dir, "./"), "/", ".")
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "package_clause" {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if grand := child.NamedChild(j); grand.Type() == "package_identifier" {
					return string(content[grand.StartByte():grand.EndByte()])
				}
			}
		}
	}
	return ModulePath(filePath)
}

type goWalker struct {
	content []byte
	path    string
	module  string
	res     *graph.FileResult
}

// importDeclaration records one mention per import spec, with the quoted
// path converted to dotted form.
func (w *goWalker) importDeclaration(node *sitter.Node) {
	var specs []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "import_spec":
			specs = append(specs, child)
		case "import_spec_list":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if grand := child.NamedChild(j); grand.Type() == "import_spec" {
					specs = append(specs, grand)
				}
			}
		}
	}
	for _, spec := range specs {
		pathNode := spec.ChildByFieldName("path")
		if pathNode == nil {
			continue
		}
		target := strings.Trim(w.text(pathNode), "`\"")
		target = strings.ReplaceAll(target, "/", ".")
		w.addMention(graph.EdgeKindImports, w.module, target, spec)
	}
}

// typeDeclaration turns struct and interface types into class entities.
func (w *goWalker) typeDeclaration(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		spec := node.NamedChild(i)
		if spec.Type() != "type_spec" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		typeNode := spec.ChildByFieldName("type")
		if nameNode == nil || typeNode == nil {
			continue
		}
		if t := typeNode.Type(); t != "struct_type" && t != "interface_type" {
			continue
		}
		name := w.text(nameNode)
		w.res.Entities = append(w.res.Entities, graph.Entity{
			Kind:          graph.NodeKindClass,
			Name:          name,
			QualifiedName: w.module + "." + name,
			Parent:        w.module,
			File:          w.path,
			LineStart:     int(spec.StartPoint().Row) + 1,
			LineEnd:       int(spec.EndPoint().Row) + 1,
		})
	}
}

func (w *goWalker) functionDeclaration(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	qname := w.module + "." + name
	w.res.Entities = append(w.res.Entities, graph.Entity{
		Kind:          graph.NodeKindFunction,
		Name:          name,
		QualifiedName: qname,
		Parent:        w.module,
		File:          w.path,
		LineStart:     int(node.StartPoint().Row) + 1,
		LineEnd:       int(node.EndPoint().Row) + 1,
	})
	if body := node.ChildByFieldName("body"); body != nil {
		w.calls(body, qname)
	}
}

func (w *goWalker) methodDeclaration(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	scope := w.module
	if recv := receiverTypeName(node, w.content); recv != "" {
		scope = w.module + "." + recv
	}
	qname := scope + "." + name
	w.res.Entities = append(w.res.Entities, graph.Entity{
		Kind:          graph.NodeKindFunction,
		Name:          name,
		QualifiedName: qname,
		Parent:        scope,
		File:          w.path,
		LineStart:     int(node.StartPoint().Row) + 1,
		LineEnd:       int(node.EndPoint().Row) + 1,
	})
	if body := node.ChildByFieldName("body"); body != nil {
		w.calls(body, qname)
	}
}

// receiverTypeName extracts the receiver's type identifier, unwrapping a
// pointer and generic type parameters if present.
func receiverTypeName(node *sitter.Node, content []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	var find func(n *sitter.Node) string
	find = func(n *sitter.Node) string {
		if n.Type() == "type_identifier" {
			return string(content[n.StartByte():n.EndByte()])
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if name := find(n.NamedChild(i)); name != "" {
				return name
			}
		}
		return ""
	}
	return find(recv)
}

// calls records every call expression in a function body, keeping the
// textual callee as written: a bare identifier or a selector chain.
func (w *goWalker) calls(node *sitter.Node, scope string) {
	if node.Type() == "call_expression" {
		if fn := node.ChildByFieldName("function"); fn != nil {
			switch fn.Type() {
			case "identifier":
				w.addMention(graph.EdgeKindCalls, scope, w.text(fn), fn)
			case "selector_expression":
				w.addMention(graph.EdgeKindCalls, scope, w.text(fn), fn)
			}
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.calls(node.NamedChild(i), scope)
	}
}

func (w *goWalker) addMention(kind graph.EdgeKind, source, target string, node *sitter.Node) {
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

func (w *goWalker) text(node *sitter.Node) string {
	return string(w.content[node.StartByte():node.EndByte()])
}
