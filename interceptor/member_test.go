package interceptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type Calculator struct{}

type List[T any] struct{}

func TestMember_String(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   string
		ns     string
	}{
		{name: "method", member: MethodOf[Calculator]("exec"), want: "Calculator.exec", ns: "calculator.exec"},
		{name: "pointer owner", member: MethodOf[*Calculator]("FullName"), want: "Calculator.FullName", ns: "calculator.full_name"},
		{name: "generic owner", member: FieldOf[List[int]]("items"), want: "List[int].items", ns: "list_int.items"},
		{name: "setter", member: SetterOf[calc]("surname"), want: "calc.surname", ns: "calc.surname"},
		{name: "no owner", member: Member{Name: "exec"}, want: "exec", ns: "exec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.member.String())
			assert.Equal(t, tt.ns, tt.member.namespace())
		})
	}
}

func TestMemberKind_String(t *testing.T) {
	assert.Equal(t, "method", KindMethod.String())
	assert.Equal(t, "field", KindField.String())
	assert.Equal(t, "setter", KindSetter.String())
	assert.Equal(t, "constructor", KindConstructor.String())
	assert.Equal(t, "unknown", MemberKind(0).String())
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"Calc":         "calc",
		"FullName":     "full_name",
		"HTTPServer":   "http_server",
		"userID":       "user_id",
		"exec2":        "exec2",
		"Version2Beta": "version2_beta",
		"a-b c":        "a_b_c",
		"List[int]":    "list_int",
	}

	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in), "snakeCase(%q)", in)
	}
}
