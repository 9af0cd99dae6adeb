package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"paratest/internal/domain"
)

// Parser extracts the test class of a source file
type Parser interface {
	// Parse returns the class descriptor of path, or an error wrapping
	// domain.ErrNoClassFound when the file holds no concrete class.
	Parse(ctx context.Context, path string) (*domain.ClassDescriptor, error)
}

// TreeSitterParser parses PHP files with tree-sitter.
// It is not safe for concurrent use.
type TreeSitterParser struct {
	parser *sitter.Parser
}

// NewTreeSitterParser creates a new TreeSitterParser
func NewTreeSitterParser() *TreeSitterParser {
	p := sitter.NewParser()
	p.SetLanguage(php.GetLanguage())
	return &TreeSitterParser{parser: p}
}

type classNode struct {
	namespace string
	node      *sitter.Node
}

// Parse reads path and describes the class it declares. When the file declares
// several concrete classes the one named after the file wins, otherwise the
// first one.
func (p *TreeSitterParser) Parse(ctx context.Context, path string) (*domain.ClassDescriptor, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}

	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parse %s: syntax error", path)
	}

	var classes []classNode
	collectClasses(root, "", source, &classes)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var chosen *classNode
	for i := range classes {
		if isAbstract(classes[i].node) {
			continue
		}
		if chosen == nil {
			chosen = &classes[i]
		}
		if nodeText(classes[i].node.ChildByFieldName("name"), source) == base {
			chosen = &classes[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNoClassFound)
	}

	return describeClass(chosen, path, source), nil
}

// collectClasses gathers class declarations in source order, tracking the
// namespace in effect for each.
func collectClasses(node *sitter.Node, namespace string, source []byte, out *[]classNode) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "namespace_definition":
			name := nodeText(child.ChildByFieldName("name"), source)
			if body := child.ChildByFieldName("body"); body != nil {
				collectClasses(body, name, source, out)
			} else {
				namespace = name
			}
		case "class_declaration":
			*out = append(*out, classNode{namespace: namespace, node: child})
		}
	}
}

func describeClass(c *classNode, path string, source []byte) *domain.ClassDescriptor {
	name := nodeText(c.node.ChildByFieldName("name"), source)
	if c.namespace != "" {
		name = c.namespace + `\` + name
	}

	doc := docComment(c.node, source)
	class := &domain.ClassDescriptor{
		Name:       name,
		Path:       path,
		DocComment: doc,
		Meta:       ParseMetadata(doc),
	}

	body := c.node.ChildByFieldName("body")
	if body == nil {
		return class
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member.Type() != "method_declaration" || !isPublic(member, source) || isAbstract(member) {
			continue
		}
		methodName := nodeText(member.ChildByFieldName("name"), source)
		methodDoc := docComment(member, source)
		if !strings.HasPrefix(methodName, "test") && !hasTestTag(methodDoc) {
			continue
		}
		class.Methods = append(class.Methods, domain.MethodDescriptor{
			Name:       methodName,
			DocComment: methodDoc,
			Meta:       ParseMetadata(methodDoc),
		})
	}
	return class
}

// docComment returns the /** */ comment directly preceding a declaration.
func docComment(node *sitter.Node, source []byte) string {
	prev := node.PrevNamedSibling()
	for prev != nil && prev.Type() == "attribute_list" {
		prev = prev.PrevNamedSibling()
	}
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := nodeText(prev, source)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	return text
}

func isAbstract(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "abstract_modifier" {
			return true
		}
	}
	return false
}

// isPublic treats a method without a visibility modifier as public, as PHP does.
func isPublic(method *sitter.Node, source []byte) bool {
	for i := 0; i < int(method.ChildCount()); i++ {
		child := method.Child(i)
		if child.Type() == "visibility_modifier" {
			return nodeText(child, source) == "public"
		}
	}
	return true
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}
