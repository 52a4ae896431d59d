package checks

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Symbol is one public item of a Rust source file
type Symbol struct {
	Kind string
	Name string // qualified within the file, e.g. "DataFrame::select" or "mod::Item"
	Line int
}

func (s Symbol) key() string {
	return s.Kind + " " + s.Name
}

var itemKinds = map[string]string{
	"function_item": "fn",
	"struct_item":   "struct",
	"union_item":    "union",
	"enum_item":     "enum",
	"trait_item":    "trait",
	"type_item":     "type",
	"const_item":    "const",
	"static_item":   "static",
	"mod_item":      "mod",
}

// SymbolExtractor finds public items in Rust sources with tree-sitter.
// Only items whose visibility is exactly `pub` are exported; `pub(crate)`
// and friends are not part of the public API.
type SymbolExtractor struct {
	lang *sitter.Language
}

// NewSymbolExtractor creates an extractor for the Rust grammar
func NewSymbolExtractor() *SymbolExtractor {
	return &SymbolExtractor{lang: rust.GetLanguage()}
}

// PublicSymbols returns the public items of src in source order
func (e *SymbolExtractor) PublicSymbols(ctx context.Context, src []byte) ([]Symbol, error) {
	if len(src) == 0 {
		return nil, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(e.lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rust source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		logger.Debug("Rust source contains syntax errors, symbol list may be partial")
	}

	var out []Symbol
	collectItems(root, src, "", &out)
	return out, nil
}

// RemovedSymbols returns the public items of base that no longer exist in head
func (e *SymbolExtractor) RemovedSymbols(ctx context.Context, base, head []byte) ([]Symbol, error) {
	baseSyms, err := e.PublicSymbols(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	headSyms, err := e.PublicSymbols(ctx, head)
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}

	present := make(map[string]bool, len(headSyms))
	for _, s := range headSyms {
		present[s.key()] = true
	}

	var removed []Symbol
	for _, s := range baseSyms {
		if !present[s.key()] {
			removed = append(removed, s)
		}
	}
	return removed, nil
}

func collectItems(node *sitter.Node, src []byte, prefix string, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		if child.Type() == "impl_item" {
			collectImpl(child, src, prefix, out)
			continue
		}

		kind, ok := itemKinds[child.Type()]
		if !ok || !isPublic(child, src) {
			continue
		}
		name := fieldText(child, "name", src)
		if name == "" {
			continue
		}
		full := prefix + name
		*out = append(*out, Symbol{Kind: kind, Name: full, Line: lineOf(child)})

		body := child.ChildByFieldName("body")
		if body == nil {
			continue
		}
		switch child.Type() {
		case "enum_item":
			for j := 0; j < int(body.NamedChildCount()); j++ {
				variant := body.NamedChild(j)
				if variant.Type() != "enum_variant" {
					continue
				}
				if vname := fieldText(variant, "name", src); vname != "" {
					*out = append(*out, Symbol{Kind: "variant", Name: full + "::" + vname, Line: lineOf(variant)})
				}
			}
		case "trait_item":
			// trait members inherit the trait's visibility
			for j := 0; j < int(body.NamedChildCount()); j++ {
				member := body.NamedChild(j)
				var mkind string
				switch member.Type() {
				case "function_item", "function_signature_item":
					mkind = "method"
				case "associated_type":
					mkind = "type"
				case "const_item":
					mkind = "const"
				default:
					continue
				}
				if mname := fieldText(member, "name", src); mname != "" {
					*out = append(*out, Symbol{Kind: mkind, Name: full + "::" + mname, Line: lineOf(member)})
				}
			}
		case "mod_item":
			collectItems(body, src, full+"::", out)
		}
	}
}

// collectImpl records the pub methods of inherent impls. Trait impls are
// covered by the trait itself.
func collectImpl(impl *sitter.Node, src []byte, prefix string, out *[]Symbol) {
	if impl.ChildByFieldName("trait") != nil {
		return
	}
	typeName := baseTypeName(fieldText(impl, "type", src))
	body := impl.ChildByFieldName("body")
	if typeName == "" || body == nil {
		return
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		item := body.NamedChild(i)
		var kind string
		switch item.Type() {
		case "function_item":
			kind = "method"
		case "const_item":
			kind = "const"
		default:
			continue
		}
		if !isPublic(item, src) {
			continue
		}
		if name := fieldText(item, "name", src); name != "" {
			*out = append(*out, Symbol{Kind: kind, Name: prefix + typeName + "::" + name, Line: lineOf(item)})
		}
	}
}

func isPublic(node *sitter.Node, src []byte) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "visibility_modifier" {
			return strings.TrimSpace(child.Content(src)) == "pub"
		}
	}
	return false
}

func fieldText(node *sitter.Node, field string, src []byte) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// baseTypeName strips generic arguments: "Foo<T>" -> "Foo"
func baseTypeName(t string) string {
	if idx := strings.Index(t, "<"); idx >= 0 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

func lineOf(node *sitter.Node) int {
	return int(node.StartPoint().Row + 1)
}
