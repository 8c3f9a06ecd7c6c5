package interceptor

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TransformRule derives the value to store from the value being written.
// Rules are pure and hold no state.
type TransformRule func(value any) (any, error)

// Transformer applies a TransformRule to field initializers and setters.
// It carries no per-member state and may be declared on several members.
type Transformer struct {
	name string
	rule TransformRule
}

// NewTransformer creates a transformer named name.
func NewTransformer(name string, rule TransformRule) *Transformer {
	return &Transformer{name: name, rule: rule}
}

func (t *Transformer) WrapperName() string { return t.name }

// Apply runs the rule directly.
func (t *Transformer) Apply(value any) (any, error) {
	return t.rule(value)
}

// WrapField rewrites the value produced by next. It runs once per Init.
func (t *Transformer) WrapField(site Site, next FieldInitFunc) (FieldInitFunc, error) {
	if t.rule == nil {
		return nil, invalidDeclaration(site.Member, "transformer "+t.name+" has no rule")
	}
	return func(ctx context.Context, recv any, value any) (any, error) {
		stored, err := next(ctx, recv, value)
		if err != nil {
			return nil, err
		}
		return t.rule(stored)
	}, nil
}

// WrapSetter rewrites every value before forwarding it to next.
func (t *Transformer) WrapSetter(site Site, next SetterFunc) (SetterFunc, error) {
	if t.rule == nil {
		return nil, invalidDeclaration(site.Member, "transformer "+t.name+" has no rule")
	}
	return func(ctx context.Context, recv any, value any) error {
		normalized, err := t.rule(value)
		if err != nil {
			return err
		}
		return next(ctx, recv, normalized)
	}, nil
}

// Tag prefixes string values with prefix.
func Tag(prefix string) *Transformer {
	return NewTransformer("tag", func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, transformTypeMismatch("tag", "string", value)
		}
		return prefix + s, nil
	})
}

// Readonly marks a field value: "Steve" is stored as "!Steve".
func Readonly() *Transformer {
	t := Tag("!")
	t.name = "readonly"
	return t
}

// Capitalize upper-cases the first rune and lower-cases the rest. The empty
// string passes through unchanged.
func Capitalize() *Transformer {
	return NewTransformer("capitalize", func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, transformTypeMismatch("capitalize", "string", value)
		}
		return capitalize(s), nil
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
