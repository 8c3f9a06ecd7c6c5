package cache

import (
	"errors"
	"math"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-interceptor/pkg/testsupport"
)

func TestCanonicalKeyEncoder_BasicTypes(t *testing.T) {
	encoder := NewCanonicalKeyEncoder()
	five := 5

	tests := []struct {
		name string
		args []any
		want string
	}{
		{
			name: "no args",
			args: []any{},
			want: "",
		},
		{
			name: "two ints",
			args: []any{1, 2},
			want: "1-2",
		},
		{
			name: "mixed sized ints",
			args: []any{int8(1), uint64(2), int64(-3)},
			want: "1-2--3",
		},
		{
			name: "float drops trailing zeros",
			args: []any{1.0, 2.5},
			want: "1-2.5",
		},
		{
			name: "float32 keeps its own precision",
			args: []any{float32(0.1)},
			want: "0.1",
		},
		{
			name: "negative zero folds to zero",
			args: []any{math.Copysign(0, -1)},
			want: "0",
		},
		{
			name: "special floats",
			args: []any{math.NaN(), math.Inf(1), math.Inf(-1)},
			want: "NaN-Infinity--Infinity",
		},
		{
			name: "string is quoted",
			args: []any{"hello:world"},
			want: `"hello:world"`,
		},
		{
			name: "pointer is dereferenced",
			args: []any{&five},
			want: "5",
		},
		{
			name: "nil pointer",
			args: []any{(*int)(nil)},
			want: "null",
		},
		{
			name: "typed slice",
			args: []any{[]int{1, 2}},
			want: "[1,2]",
		},
		{
			name: "array",
			args: []any{[2]string{"a", "b"}},
			want: `["a","b"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encoder.EncodeKey(tt.args...)
			if err != nil {
				t.Fatalf("EncodeKey() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EncodeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanonicalKeyEncoder_EqualArgumentsShareKey(t *testing.T) {
	encoder := NewCanonicalKeyEncoder()

	tests := []struct {
		name string
		a    []any
		b    []any
	}{
		{
			name: "int and float with same value",
			a:    []any{1, 2},
			b:    []any{1.0, 2.0},
		},
		{
			name: "different int widths",
			a:    []any{int32(7)},
			b:    []any{uint16(7)},
		},
		{
			name: "typed and untyped nested slices",
			a:    []any{[]int{1, 2}, 3},
			b:    []any{[]any{1, 2}, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyA, err := encoder.EncodeKey(tt.a...)
			if err != nil {
				t.Fatalf("EncodeKey(a) unexpected error: %v", err)
			}
			keyB, err := encoder.EncodeKey(tt.b...)
			if err != nil {
				t.Fatalf("EncodeKey(b) unexpected error: %v", err)
			}
			if keyA != keyB {
				t.Errorf("EncodeKey() keys differ: %q vs %q", keyA, keyB)
			}
		})
	}
}

func TestCanonicalKeyEncoder_NoCollisions(t *testing.T) {
	encoder := NewCanonicalKeyEncoder()

	tests := []struct {
		name string
		a    []any
		b    []any
	}{
		{
			name: "flat numbers vs string containing separator",
			a:    []any{1, 2},
			b:    []any{"1-2"},
		},
		{
			name: "nested array vs flat args",
			a:    []any{[]any{1, 2}},
			b:    []any{1, 2},
		},
		{
			name: "nesting on the left vs the right",
			a:    []any{[]any{1, 2}, 3},
			b:    []any{1, []any{2, 3}},
		},
		{
			name: "separator inside strings",
			a:    []any{"a-b", "c"},
			b:    []any{"a", "b-c"},
		},
		{
			name: "number vs numeric string",
			a:    []any{1},
			b:    []any{"1"},
		},
		{
			name: "nil vs null string",
			a:    []any{nil},
			b:    []any{"null"},
		},
		{
			name: "empty list vs no args",
			a:    []any{[]any{}},
			b:    []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyA, err := encoder.EncodeKey(tt.a...)
			if err != nil {
				t.Fatalf("EncodeKey(a) unexpected error: %v", err)
			}
			keyB, err := encoder.EncodeKey(tt.b...)
			if err != nil {
				t.Fatalf("EncodeKey(b) unexpected error: %v", err)
			}
			if keyA == keyB {
				t.Errorf("EncodeKey() collision: both produced %q", keyA)
			}
		})
	}
}

func TestCanonicalKeyEncoder_MalformedKey(t *testing.T) {
	encoder := NewCanonicalKeyEncoder()

	tests := []struct {
		name  string
		args  []any
		index int
	}{
		{
			name:  "map argument",
			args:  []any{map[string]int{"a": 1}},
			index: 0,
		},
		{
			name:  "function argument",
			args:  []any{1, func() {}},
			index: 1,
		},
		{
			name:  "struct argument",
			args:  []any{struct{ ID int }{ID: 1}},
			index: 0,
		},
		{
			name:  "unsupported element nested in slice",
			args:  []any{[]any{1, make(chan int)}},
			index: 0,
		},
		{
			name:  "slice containing itself",
			args:  []any{1, selfReferencingSlice()},
			index: 1,
		},
		{
			name:  "pointer cycle",
			args:  []any{selfReferencingPointer()},
			index: 0,
		},
		{
			name:  "nesting deeper than MaxKeyDepth",
			args:  []any{deeplyNested(MaxKeyDepth + 1)},
			index: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := encoder.EncodeKey(tt.args...)
			if err == nil {
				t.Fatalf("EncodeKey() expected error, got key %q", key)
			}
			if key != "" {
				t.Errorf("EncodeKey() key = %q, want empty on error", key)
			}
			if !IsMalformedKey(err) {
				t.Errorf("IsMalformedKey() = false for %v", err)
			}

			var e *goerrors.Error
			if !goerrors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if e.Category != goerrors.CategoryBadInput {
				t.Errorf("Category = %v, want %v", e.Category, goerrors.CategoryBadInput)
			}
			if e.Metadata["index"] != tt.index {
				t.Errorf("Metadata[index] = %v, want %v", e.Metadata["index"], tt.index)
			}
		})
	}
}

func selfReferencingSlice() []any {
	a := []any{1, nil}
	a[1] = a
	return a
}

func selfReferencingPointer() any {
	var p any
	p = &p
	return p
}

func deeplyNested(levels int) []any {
	v := []any{1}
	for i := 0; i < levels; i++ {
		v = []any{v}
	}
	return v
}

func TestCanonicalKeyEncoder_SharedValuesAreNotCycles(t *testing.T) {
	shared := []any{1, 2}
	key, err := NewCanonicalKeyEncoder().EncodeKey([]any{shared, shared}, shared)
	if err != nil {
		t.Fatalf("EncodeKey() unexpected error: %v", err)
	}
	if want := "[[1,2],[1,2]]-[1,2]"; key != want {
		t.Errorf("EncodeKey() = %q, want %q", key, want)
	}
}

func TestIsMalformedKey_OtherErrors(t *testing.T) {
	if IsMalformedKey(nil) {
		t.Error("IsMalformedKey(nil) = true, want false")
	}
	if IsMalformedKey(errors.New("boom")) {
		t.Error("IsMalformedKey(plain error) = true, want false")
	}
	if IsMalformedKey(ErrInvalidResultType) {
		t.Error("IsMalformedKey(ErrInvalidResultType) = true, want false")
	}
}

// keyFixtures mirrors testdata/key_scenarios.json.
type keyFixtures struct {
	Scenarios []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Cases       []struct {
			Args        []any  `json:"args"`
			ExpectedKey string `json:"expectedKey"`
		} `json:"cases"`
	} `json:"scenarios"`
}

func TestCanonicalKeyEncoder_FixtureScenarios(t *testing.T) {
	var fixtures keyFixtures
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("key_scenarios.json"), &fixtures)

	if len(fixtures.Scenarios) == 0 {
		t.Fatal("no key scenarios loaded")
	}

	encoder := NewCanonicalKeyEncoder()
	for _, scenario := range fixtures.Scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			for _, tc := range scenario.Cases {
				got, err := encoder.EncodeKey(tc.Args...)
				if err != nil {
					t.Fatalf("EncodeKey(%v) unexpected error: %v", tc.Args, err)
				}
				if got != tc.ExpectedKey {
					t.Errorf("EncodeKey(%v) = %v, want %v", tc.Args, got, tc.ExpectedKey)
				}
			}
		})
	}
}

func TestMsgpackKeyEncoder(t *testing.T) {
	encoder := NewMsgpackKeyEncoder()

	encode := func(t *testing.T, args ...any) string {
		t.Helper()
		key, err := encoder.EncodeKey(args...)
		if err != nil {
			t.Fatalf("EncodeKey() unexpected error: %v", err)
		}
		return key
	}

	t.Run("deterministic", func(t *testing.T) {
		if encode(t, 1, "a", []int{2, 3}) != encode(t, 1, "a", []int{2, 3}) {
			t.Error("EncodeKey() is not deterministic")
		}
	})

	t.Run("compact numbers share keys", func(t *testing.T) {
		if encode(t, 1, 2) != encode(t, int64(1), 2.0) {
			t.Error("expected 1 and 1.0 to share a key")
		}
	})

	t.Run("maps are order independent", func(t *testing.T) {
		a := map[string]int{"x": 1, "y": 2, "z": 3}
		b := map[string]int{"z": 3, "y": 2, "x": 1}
		if encode(t, a) != encode(t, b) {
			t.Error("expected equal maps to share a key")
		}
	})

	t.Run("no collisions", func(t *testing.T) {
		if encode(t, 1, 2) == encode(t, "1-2") {
			t.Error("flat numbers collided with string")
		}
		if encode(t, []any{1, 2}, 3) == encode(t, 1, []any{2, 3}) {
			t.Error("nested arrays collided")
		}
	})

	t.Run("hex output", func(t *testing.T) {
		key := encode(t, "abc")
		if strings.Trim(key, "0123456789abcdef") != "" {
			t.Errorf("EncodeKey() = %q, want lowercase hex", key)
		}
	})

	t.Run("unsupported value is malformed", func(t *testing.T) {
		_, err := encoder.EncodeKey(make(chan int))
		if !IsMalformedKey(err) {
			t.Errorf("expected MALFORMED_KEY, got %v", err)
		}
	})

	t.Run("cyclic values are malformed", func(t *testing.T) {
		type node struct {
			Next *node
		}
		n := &node{}
		n.Next = n
		m := map[string]any{}
		m["self"] = m

		for _, arg := range []any{selfReferencingSlice(), n, m} {
			_, err := encoder.EncodeKey(arg)
			if !IsMalformedKey(err) {
				t.Errorf("EncodeKey(%T) expected MALFORMED_KEY, got %v", arg, err)
			}
		}
	})
}

func TestHashedKeyEncoder(t *testing.T) {
	encoder := NewHashedKeyEncoder(nil)

	key, err := encoder.EncodeKey(1, 2)
	if err != nil {
		t.Fatalf("EncodeKey() unexpected error: %v", err)
	}
	if len(key) != 16 {
		t.Errorf("len(EncodeKey()) = %d, want 16", len(key))
	}

	again, _ := encoder.EncodeKey(1.0, 2.0)
	if key != again {
		t.Errorf("EncodeKey() = %q, want %q for equal arguments", again, key)
	}

	other, _ := encoder.EncodeKey("1-2")
	if key == other {
		t.Error("expected different arguments to hash differently")
	}

	if _, err := encoder.EncodeKey(map[string]int{}); !IsMalformedKey(err) {
		t.Errorf("expected inner MALFORMED_KEY to propagate, got %v", err)
	}
}

func TestNamespacedKeyEncoder(t *testing.T) {
	encoder := NamespacedKeyEncoder{Namespace: "calc.exec"}

	tests := []struct {
		name string
		args []any
		want string
	}{
		{
			name: "no args returns namespace",
			args: nil,
			want: "calc.exec",
		},
		{
			name: "args are prefixed",
			args: []any{1, 2},
			want: "calc.exec" + NamespaceSeparator + "1-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encoder.EncodeKey(tt.args...)
			if err != nil {
				t.Fatalf("EncodeKey() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EncodeKey() = %v, want %v", got, tt.want)
			}
		})
	}

	hashed := NamespacedKeyEncoder{Namespace: "ns", Inner: NewHashedKeyEncoder(nil)}
	got, err := hashed.EncodeKey(1)
	if err != nil {
		t.Fatalf("EncodeKey() unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "ns"+NamespaceSeparator) || len(got) != len("ns"+NamespaceSeparator)+16 {
		t.Errorf("EncodeKey() = %q, want ns:: followed by a 16 digit hash", got)
	}
}
