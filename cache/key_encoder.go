package cache

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	goerrors "github.com/goliatone/go-errors"
	hex "github.com/tmthrgd/go-hex"
	"github.com/vmihailenco/msgpack/v5"
)

// KeySeparator defines the delimiter used between encoded arguments.
const KeySeparator = "-"

// NamespaceSeparator defines the delimiter between a namespace and the encoded arguments.
const NamespaceSeparator = "::"

// TextCodeMalformedKey marks arguments that cannot be encoded into a stable key.
const TextCodeMalformedKey = "MALFORMED_KEY"

// IsMalformedKey reports whether err was produced by a KeyEncoder that could not
// build a stable key.
func IsMalformedKey(err error) bool {
	var e *goerrors.Error
	return goerrors.As(err, &e) && e.TextCode == TextCodeMalformedKey
}

func malformedKey(index int, arg any, source error) error {
	return goerrors.Wrap(source, goerrors.CategoryBadInput,
		fmt.Sprintf("cannot encode argument %d (%T) into a cache key", index, arg)).
		WithTextCode(TextCodeMalformedKey).
		WithMetadata(map[string]any{"index": index, "type": fmt.Sprintf("%T", arg)})
}

// canonicalKeyEncoder renders numbers, strings, booleans, nil and nested
// slices/arrays into an unambiguous textual key.
//
// Top level arguments are joined with KeySeparator so a flat list of numbers
// encodes the way a plain join would ("1-2"). Strings are always quoted and
// nested lists are bracketed, which keeps the encoding injective: the separator
// inside a string or a nested list can never be confused with an argument
// boundary.
type canonicalKeyEncoder struct{}

// NewCanonicalKeyEncoder creates the default key encoder.
func NewCanonicalKeyEncoder() KeyEncoder {
	return &canonicalKeyEncoder{}
}

// EncodeKey builds a key from args. Unsupported kinds (maps, structs, funcs,
// channels, complex numbers) and cyclic or too deeply nested arguments fail
// with a MALFORMED_KEY error.
func (e *canonicalKeyEncoder) EncodeKey(args ...any) (string, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		if err := checkKeyGraph(arg); err != nil {
			return "", malformedKey(i, arg, err)
		}
		var b strings.Builder
		if err := e.encodeValue(&b, reflect.ValueOf(arg)); err != nil {
			return "", malformedKey(i, arg, err)
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, KeySeparator), nil
}

func (e *canonicalKeyEncoder) encodeValue(b *strings.Builder, rv reflect.Value) error {
	if !rv.IsValid() {
		b.WriteString("null")
		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			b.WriteString("null")
			return nil
		}
		return e.encodeValue(b, rv.Elem())

	case reflect.Bool:
		b.WriteString(strconv.FormatBool(rv.Bool()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))

	case reflect.Float32:
		b.WriteString(formatFloat(rv.Float(), 32))

	case reflect.Float64:
		b.WriteString(formatFloat(rv.Float(), 64))

	case reflect.String:
		b.WriteString(strconv.Quote(rv.String()))

	case reflect.Slice, reflect.Array:
		b.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := e.encodeValue(b, rv.Index(i)); err != nil {
				return err
			}
		}
		b.WriteByte(']')

	default:
		return fmt.Errorf("unsupported kind %s", rv.Kind())
	}

	return nil
}

// formatFloat renders floats by value so that 1, int64(1) and 1.0 share a key.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		// folds -0 into 0
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

// msgpackKeyEncoder encodes the argument list with msgpack and renders the
// bytes as hex. It accepts anything msgpack can encode, maps included (keys are
// sorted so map iteration order does not leak into the key).
type msgpackKeyEncoder struct{}

// NewMsgpackKeyEncoder creates a binary canonical key encoder.
func NewMsgpackKeyEncoder() KeyEncoder {
	return &msgpackKeyEncoder{}
}

func (e *msgpackKeyEncoder) EncodeKey(args ...any) (string, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	enc.UseCompactFloats(true)

	for i, arg := range args {
		if err := checkKeyGraph(arg); err != nil {
			return "", malformedKey(i, arg, err)
		}
		if err := enc.Encode(arg); err != nil {
			return "", malformedKey(i, arg, err)
		}
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// hashedKeyEncoder compacts the key produced by another encoder into a
// 64 bit xxhash digest.
type hashedKeyEncoder struct {
	inner KeyEncoder
}

// NewHashedKeyEncoder wraps inner and hashes its keys. Distinct argument lists
// collide only with hash probability.
func NewHashedKeyEncoder(inner KeyEncoder) KeyEncoder {
	if inner == nil {
		inner = NewCanonicalKeyEncoder()
	}
	return &hashedKeyEncoder{inner: inner}
}

func (e *hashedKeyEncoder) EncodeKey(args ...any) (string, error) {
	key, err := e.inner.EncodeKey(args...)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(key)), nil
}

// NamespacedKeyEncoder prefixes every key with a namespace. It is used when
// several memoized members share one store.
type NamespacedKeyEncoder struct {
	Namespace string
	Inner     KeyEncoder
}

// EncodeKey returns Namespace when there are no args, Namespace::key otherwise.
func (e NamespacedKeyEncoder) EncodeKey(args ...any) (string, error) {
	inner := e.Inner
	if inner == nil {
		inner = NewCanonicalKeyEncoder()
	}
	if len(args) == 0 {
		return e.Namespace, nil
	}
	key, err := inner.EncodeKey(args...)
	if err != nil {
		return "", err
	}
	return e.Namespace + NamespaceSeparator + key, nil
}
