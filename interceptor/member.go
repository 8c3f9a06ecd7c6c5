package interceptor

import (
	"reflect"
	"strings"
	"unicode"
)

// MemberKind is the kind of a wrappable member.
type MemberKind int

const (
	KindMethod MemberKind = iota + 1
	KindField
	KindSetter
	KindConstructor
)

func (k MemberKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindSetter:
		return "setter"
	case KindConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Member identifies one wrappable unit on a type. Members are plain values
// and are never mutated after declaration.
type Member struct {
	Owner reflect.Type
	Name  string
	Kind  MemberKind
}

// MethodOf returns the method member name on T.
func MethodOf[T any](name string) Member {
	return Member{Owner: reflect.TypeFor[T](), Name: name, Kind: KindMethod}
}

// FieldOf returns the field initializer member name on T.
func FieldOf[T any](name string) Member {
	return Member{Owner: reflect.TypeFor[T](), Name: name, Kind: KindField}
}

// SetterOf returns the setter member name on T.
func SetterOf[T any](name string) Member {
	return Member{Owner: reflect.TypeFor[T](), Name: name, Kind: KindSetter}
}

func constructorOf(owner reflect.Type) Member {
	return Member{Owner: owner, Name: "new", Kind: KindConstructor}
}

// String renders Owner.Name, e.g. "Calc.exec".
func (m Member) String() string {
	owner := ownerName(m.Owner)
	if owner == "" {
		return m.Name
	}
	return owner + "." + m.Name
}

// namespace is the snake_case key prefix used when members share a store.
func (m Member) namespace() string {
	owner := snakeCase(ownerName(m.Owner))
	name := snakeCase(m.Name)
	if owner == "" {
		return name
	}
	return owner + "." + name
}

func ownerName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// snakeCase lowers s into snake_case and collapses anything that is not a
// letter or digit (pointer stars, generic brackets, dots) into one underscore.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	pending := false
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					pending = true
				}
			}
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))

		case unicode.IsLower(r) || unicode.IsDigit(r):
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)

		default:
			pending = true
		}
	}

	return b.String()
}
