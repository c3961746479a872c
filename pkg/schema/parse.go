package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Common errors for schema loading.
var (
	ErrFileNotFound     = errors.New("schema file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("schema file is empty")
	ErrInvalidDocument  = errors.New("schema document must be an object of route patterns")
	ErrNoFiles          = errors.New("no schema files matched")
)

// Parse decodes a JSON or YAML schema document, preserving key order.
func Parse(data []byte) (*Object, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyFile
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, ErrEmptyFile
		}
		root = root.Content[0]
	}

	value, err := nodeValue(root)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidDocument, describe(value))
	}
	return obj, nil
}

// LoadFile reads a schema from a JSON or YAML file. The format is picked by
// extension (.yaml and .yml are YAML, everything else must be valid JSON).
func LoadFile(path string) (*Object, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" && !json.Valid(data) {
		return nil, fmt.Errorf("%w in file: %s", ErrInvalidJSON, path)
	}

	obj, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

// LoadGlob loads every file matching pattern (with ** support) in lexical
// order and concatenates their routes. A pattern without glob characters is
// loaded as a single file.
func LoadGlob(pattern string) (*Object, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return LoadFile(pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, pattern)
	}
	sort.Strings(matches)

	merged := &Object{}
	for _, match := range matches {
		obj, err := LoadFile(match)
		if err != nil {
			return nil, err
		}
		merged.Members = append(merged.Members, obj.Members...)
	}
	return merged, nil
}

// nodeValue converts a YAML node into Object/[]any/scalar values.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj := &Object{Members: make([]Member, 0, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: line %d: mapping keys must be scalars", ErrInvalidYAML, k.Line)
			}
			if k.Tag == "!!merge" {
				return nil, fmt.Errorf("%w: line %d: merge keys are not supported", ErrInvalidYAML, k.Line)
			}
			value, err := nodeValue(v)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, value)
		}
		return obj, nil

	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			value, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("%w: line %d: dangling alias", ErrInvalidYAML, n.Line)
		}
		return nodeValue(n.Alias)

	case yaml.ScalarNode:
		return scalarValue(n)

	default:
		return nil, fmt.Errorf("%w: line %d: unsupported node", ErrInvalidYAML, n.Line)
	}
}

func scalarValue(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidYAML, n.Line, err)
		}
		return b, nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidYAML, n.Line, err)
		}
		return f, nil
	default:
		return n.Value, nil
	}
}

// describe names a decoded value's type for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
