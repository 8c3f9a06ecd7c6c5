package interceptor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// BoundValidator rejects calls whose numeric arguments exceed a limit.
type BoundValidator struct {
	limit float64
	err   error
}

// Max creates a bound validator for limit. An invalid limit (NaN or
// infinite) is reported when the validator is declared on a member.
func Max(limit float64) *BoundValidator {
	return &BoundValidator{
		limit: limit,
		err:   validation.Validate(limit, validation.By(finiteLimit)),
	}
}

func finiteLimit(value any) error {
	f, _ := value.(float64)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("must be a finite number")
	}
	return nil
}

func (v *BoundValidator) WrapperName() string { return "max" }

// Limit returns the configured bound.
func (v *BoundValidator) Limit() float64 { return v.limit }

// WrapMethod checks every numeric argument before delegating. Arguments that
// are not numbers are ignored.
func (v *BoundValidator) WrapMethod(site Site, next MethodFunc) (MethodFunc, error) {
	if v.err != nil {
		return nil, goerrors.Wrap(v.err, goerrors.CategoryValidation, fmt.Sprintf("invalid bound for %s", site.Member)).
			WithTextCode(TextCodeInvalidBound).
			WithMetadata(map[string]any{"member": site.Member.String(), "limit": v.limit})
	}

	return func(ctx context.Context, recv any, args []any) (any, error) {
		for i, arg := range args {
			value, ok := numeric(arg)
			if ok && exceeds(arg, value, v.limit) {
				return nil, boundExceeded(site.Member, i, arg, value, v.limit)
			}
		}
		return next(ctx, recv, args)
	}, nil
}

func numeric(arg any) (float64, bool) {
	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Integers beyond 2^53 do not survive the float64 conversion, so they are
// compared against the floored limit in their own domain. limit is finite.
func exceeds(arg any, value, limit float64) bool {
	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch {
		case limit >= twoTo63:
			return false
		case limit < -twoTo63:
			return true
		}
		return rv.Int() > int64(math.Floor(limit))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		switch {
		case limit < 0:
			return true
		case limit >= twoTo64:
			return false
		}
		return rv.Uint() > uint64(math.Floor(limit))
	}
	return value > limit
}

var (
	twoTo63 = math.Ldexp(1, 63)
	twoTo64 = math.Ldexp(1, 64)
)

func boundExceeded(member Member, index int, arg any, value, limit float64) error {
	return goerrors.New(fmt.Sprintf("argument %v is greater than max %v", arg, limit), goerrors.CategoryValidation).
		WithTextCode(TextCodeBoundExceeded).
		WithMetadata(map[string]any{
			"member":   member.String(),
			"index":    index,
			"argument": arg,
			"value":    value,
			"limit":    limit,
		})
}

// BoundExceededDetails extracts the offending value and the limit from a
// BOUND_EXCEEDED error.
func BoundExceededDetails(err error) (value, limit float64, ok bool) {
	var e *goerrors.Error
	if !goerrors.As(err, &e) || e.TextCode != TextCodeBoundExceeded {
		return 0, 0, false
	}
	value, vok := e.Metadata["value"].(float64)
	limit, lok := e.Metadata["limit"].(float64)
	return value, limit, vok && lok
}
