package ast

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrFieldType    = errors.New("unexpected field type")
	ErrInvalidChild = errors.New("child must hold exactly one of background, rule, scenario")
)

// FieldError reports a raw parser node that does not have the shape the
// builder requires. Path is dotted from the node handed to Build*, e.g.
// "feature.children[2].scenario.steps[0]".
type FieldError struct {
	Path  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	where := e.Field
	if e.Path != "" {
		where = e.Path + "." + e.Field
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// node is one map of the untyped tree plus the path that led to it.
type node struct {
	path string
	m    map[string]any
}

func newNode(path string, raw map[string]any) node {
	return node{path: path, m: raw}
}

func (n node) fail(field string, err error) error {
	return &FieldError{Path: n.path, Field: field, Err: err}
}

func (n node) typeErr(field string, want string, got any) error {
	return n.fail(field, fmt.Errorf("%w: want %s, got %T", ErrFieldType, want, got))
}

func (n node) sub(field string) string {
	if n.path == "" {
		return field
	}
	return n.path + "." + field
}

func (n node) str(key string) (string, error) {
	v, ok := n.m[key]
	if !ok {
		return "", n.fail(key, ErrMissingField)
	}
	s, ok := v.(string)
	if !ok {
		return "", n.typeErr(key, "string", v)
	}
	return s, nil
}

// optStr returns the value and false when the key is absent, null or empty.
func (n node) optStr(key string) (string, bool, error) {
	v, ok := n.m[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, n.typeErr(key, "string", v)
	}
	return s, s != "", nil
}

func (n node) int(key string) (int, error) {
	v, ok := n.m[key]
	if !ok {
		return 0, n.fail(key, ErrMissingField)
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, n.typeErr(key, "integer", v)
		}
		return int(x), nil
	case json.Number:
		i, err := strconv.Atoi(x.String())
		if err != nil {
			return 0, n.typeErr(key, "integer", v)
		}
		return i, nil
	default:
		return 0, n.typeErr(key, "integer", v)
	}
}

func (n node) child(key string) (node, error) {
	v, ok := n.m[key]
	if !ok || v == nil {
		return node{}, n.fail(key, ErrMissingField)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return node{}, n.typeErr(key, "object", v)
	}
	return newNode(n.sub(key), m), nil
}

// optChild reports false when the key is absent, null or an empty object.
func (n node) optChild(key string) (node, bool, error) {
	v, ok := n.m[key]
	if !ok || v == nil {
		return node{}, false, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return node{}, false, n.typeErr(key, "object", v)
	}
	if len(m) == 0 {
		return node{}, false, nil
	}
	return newNode(n.sub(key), m), true, nil
}

// list returns the elements of a required list. A present null is an empty
// list; an absent key is a missing field.
func (n node) list(key string) ([]node, error) {
	if _, ok := n.m[key]; !ok {
		return nil, n.fail(key, ErrMissingField)
	}
	return n.optList(key)
}

func (n node) optList(key string) ([]node, error) {
	v, ok := n.m[key]
	if !ok || v == nil {
		return []node{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, n.typeErr(key, "array", v)
	}
	nodes := make([]node, 0, len(items))
	for i, item := range items {
		field := fmt.Sprintf("%s[%d]", key, i)
		m, ok := item.(map[string]any)
		if !ok {
			return nil, n.typeErr(field, "object", item)
		}
		nodes = append(nodes, newNode(n.sub(field), m))
	}
	return nodes, nil
}

func (n node) location() (Position, error) {
	loc, err := n.child("location")
	if err != nil {
		return Position{}, err
	}
	return buildPosition(loc)
}

// buildEach builds every node of a raw list in order into a fresh slice.
func buildEach[T any](nodes []node, build func(node) (T, error)) ([]T, error) {
	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		v, err := build(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
