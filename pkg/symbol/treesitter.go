//go:build cgo

package symbol

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TreeSitterProvider builds symbol trees for Go, Python, JavaScript and
// TypeScript sources by parsing them with tree-sitter.
type TreeSitterProvider struct {
	maxFileSize int64
}

// NewTreeSitterProvider creates a provider. Files larger than maxFileSize
// bytes are refused; 0 means no limit.
func NewTreeSitterProvider(maxFileSize int64) *TreeSitterProvider {
	return &TreeSitterProvider{maxFileSize: maxFileSize}
}

type extractFunc func(root *sitter.Node, content []byte) []DocumentSymbol

type languageSpec struct {
	language *sitter.Language
	extract  extractFunc
}

func languageFor(path string) (languageSpec, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return languageSpec{golang.GetLanguage(), extractGoSymbols}, true
	case ".py", ".pyi":
		return languageSpec{python.GetLanguage(), extractPythonSymbols}, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return languageSpec{javascript.GetLanguage(), extractJSSymbols}, true
	case ".ts", ".mts", ".cts":
		return languageSpec{typescript.GetLanguage(), extractJSSymbols}, true
	case ".tsx":
		return languageSpec{tsx.GetLanguage(), extractJSSymbols}, true
	}
	return languageSpec{}, false
}

// DocumentSymbols parses the file and returns its top-level symbols with
// nested members as children.
func (p *TreeSitterProvider) DocumentSymbols(ctx context.Context, path string) ([]DocumentSymbol, error) {
	spec, ok := languageFor(path)
	if !ok {
		return nil, fmt.Errorf("no symbol parser for %s", filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if p.maxFileSize > 0 && info.Size() > p.maxFileSize {
		return nil, fmt.Errorf("file too large for symbol parsing: %d bytes", info.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(spec.language)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	return spec.extract(tree.RootNode(), content), nil
}

func newSymbol(nameNode *sitter.Node, content []byte, kind string) DocumentSymbol {
	start := nameNode.StartPoint()
	return DocumentSymbol{
		Name:      nameNode.Content(content),
		Kind:      kind,
		Selection: Position{Line: int(start.Row), Column: int(start.Column)},
	}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// =============================================================================
// GO
// =============================================================================

func extractGoSymbols(root *sitter.Node, content []byte) []DocumentSymbol {
	var symbols []DocumentSymbol
	typeIndex := make(map[string]int)
	methods := make(map[string][]DocumentSymbol)
	var methodOrder []string

	for _, n := range namedChildren(root) {
		switch n.Type() {
		case "function_declaration":
			if name := n.ChildByFieldName("name"); name != nil {
				symbols = append(symbols, newSymbol(name, content, "function"))
			}

		case "method_declaration":
			name := n.ChildByFieldName("name")
			receiver := n.ChildByFieldName("receiver")
			if name == nil || receiver == nil {
				continue
			}
			typeName := goReceiverType(receiver, content)
			if _, seen := methods[typeName]; !seen {
				methodOrder = append(methodOrder, typeName)
			}
			methods[typeName] = append(methods[typeName], newSymbol(name, content, "method"))

		case "type_declaration":
			for _, spec := range namedChildren(n) {
				if spec.Type() != "type_spec" && spec.Type() != "type_alias" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				sym := newSymbol(name, content, "type")
				if typ := spec.ChildByFieldName("type"); typ != nil {
					sym.Children = goTypeMembers(typ, content)
				}
				typeIndex[sym.Name] = len(symbols)
				symbols = append(symbols, sym)
			}

		case "const_declaration", "var_declaration":
			kind := "constant"
			if n.Type() == "var_declaration" {
				kind = "variable"
			}
			for _, spec := range goSpecs(n) {
				for _, child := range namedChildren(spec) {
					if child.Type() == "identifier" {
						symbols = append(symbols, newSymbol(child, content, kind))
					}
				}
			}
		}
	}

	// Methods nest under their receiver type; receivers declared elsewhere stay top-level.
	for _, typeName := range methodOrder {
		if idx, ok := typeIndex[typeName]; ok {
			symbols[idx].Children = append(symbols[idx].Children, methods[typeName]...)
			continue
		}
		symbols = append(symbols, methods[typeName]...)
	}

	return symbols
}

// goSpecs returns const_spec/var_spec nodes, including those inside a
// parenthesized var_spec_list.
func goSpecs(decl *sitter.Node) []*sitter.Node {
	var specs []*sitter.Node
	for _, child := range namedChildren(decl) {
		switch child.Type() {
		case "const_spec", "var_spec":
			specs = append(specs, child)
		case "var_spec_list":
			specs = append(specs, goSpecs(child)...)
		}
	}
	return specs
}

func goReceiverType(receiver *sitter.Node, content []byte) string {
	for _, param := range namedChildren(receiver) {
		if param.Type() != "parameter_declaration" {
			continue
		}
		typ := param.ChildByFieldName("type")
		if typ == nil {
			continue
		}
		text := strings.TrimLeft(typ.Content(content), "*")
		if i := strings.Index(text, "["); i != -1 {
			text = text[:i]
		}
		return strings.TrimSpace(text)
	}
	return ""
}

func goTypeMembers(typ *sitter.Node, content []byte) []DocumentSymbol {
	var members []DocumentSymbol
	switch typ.Type() {
	case "struct_type":
		for _, list := range namedChildren(typ) {
			if list.Type() != "field_declaration_list" {
				continue
			}
			for _, field := range namedChildren(list) {
				if field.Type() != "field_declaration" {
					continue
				}
				for _, child := range namedChildren(field) {
					if child.Type() == "field_identifier" {
						members = append(members, newSymbol(child, content, "field"))
					}
				}
			}
		}
	case "interface_type":
		for _, elem := range namedChildren(typ) {
			if elem.Type() != "method_elem" && elem.Type() != "method_spec" {
				continue
			}
			if name := elem.ChildByFieldName("name"); name != nil {
				members = append(members, newSymbol(name, content, "method"))
			}
		}
	}
	return members
}

// =============================================================================
// PYTHON
// =============================================================================

func extractPythonSymbols(root *sitter.Node, content []byte) []DocumentSymbol {
	return pythonBlock(root, content, false)
}

func pythonBlock(block *sitter.Node, content []byte, inClass bool) []DocumentSymbol {
	var symbols []DocumentSymbol
	for _, n := range namedChildren(block) {
		if n.Type() == "decorated_definition" {
			if def := n.ChildByFieldName("definition"); def != nil {
				n = def
			}
		}

		switch n.Type() {
		case "function_definition":
			if name := n.ChildByFieldName("name"); name != nil {
				kind := "function"
				if inClass {
					kind = "method"
				}
				symbols = append(symbols, newSymbol(name, content, kind))
			}
		case "class_definition":
			name := n.ChildByFieldName("name")
			if name == nil {
				continue
			}
			sym := newSymbol(name, content, "class")
			if body := n.ChildByFieldName("body"); body != nil {
				sym.Children = pythonBlock(body, content, true)
			}
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

// =============================================================================
// JAVASCRIPT / TYPESCRIPT
// =============================================================================

func extractJSSymbols(root *sitter.Node, content []byte) []DocumentSymbol {
	var symbols []DocumentSymbol
	for _, n := range namedChildren(root) {
		symbols = append(symbols, jsDeclaration(n, content)...)
	}
	return symbols
}

func jsDeclaration(n *sitter.Node, content []byte) []DocumentSymbol {
	switch n.Type() {
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return jsDeclaration(decl, content)
		}
		return nil

	case "function_declaration", "generator_function_declaration",
		"type_alias_declaration", "enum_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			return []DocumentSymbol{newSymbol(name, content, jsKind(n.Type()))}
		}

	case "class_declaration", "abstract_class_declaration", "interface_declaration":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		sym := newSymbol(name, content, jsKind(n.Type()))
		if body := n.ChildByFieldName("body"); body != nil {
			sym.Children = jsMembers(body, content)
		}
		return []DocumentSymbol{sym}

	case "lexical_declaration", "variable_declaration":
		var symbols []DocumentSymbol
		for _, decl := range namedChildren(n) {
			if decl.Type() != "variable_declarator" {
				continue
			}
			name := decl.ChildByFieldName("name")
			if name != nil && name.Type() == "identifier" {
				symbols = append(symbols, newSymbol(name, content, "variable"))
			}
		}
		return symbols
	}
	return nil
}

func jsMembers(body *sitter.Node, content []byte) []DocumentSymbol {
	var members []DocumentSymbol
	for _, m := range namedChildren(body) {
		switch m.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			if name := m.ChildByFieldName("name"); name != nil {
				members = append(members, newSymbol(name, content, "method"))
			}
		case "public_field_definition", "property_signature":
			if name := m.ChildByFieldName("name"); name != nil {
				members = append(members, newSymbol(name, content, "property"))
			}
		case "field_definition":
			if name := m.ChildByFieldName("property"); name != nil {
				members = append(members, newSymbol(name, content, "property"))
			}
		}
	}
	return members
}

func jsKind(nodeType string) string {
	switch nodeType {
	case "class_declaration", "abstract_class_declaration":
		return "class"
	case "interface_declaration":
		return "interface"
	case "type_alias_declaration":
		return "type"
	case "enum_declaration":
		return "enum"
	default:
		return "function"
	}
}
