package interceptor

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-interceptor/cache"
)

// Text codes carried by framework errors.
const (
	TextCodeBoundExceeded           = "BOUND_EXCEEDED"
	TextCodeInvalidBound            = "INVALID_BOUND"
	TextCodeWrapperAlreadyInstalled = "WRAPPER_ALREADY_INSTALLED"
	TextCodeTransformTypeMismatch   = "TRANSFORM_TYPE_MISMATCH"
	TextCodeInvalidDeclaration      = "INVALID_DECLARATION"
	TextCodeMalformedKey            = cache.TextCodeMalformedKey
	TextCodeInvalidResultType       = cache.TextCodeInvalidResultType
)

// IsMalformedKey reports whether err means the call's arguments could not be
// encoded into a cache key.
var IsMalformedKey = cache.IsMalformedKey

// IsBoundExceeded reports whether err was raised by a bound validator.
func IsBoundExceeded(err error) bool {
	return hasTextCode(err, TextCodeBoundExceeded)
}

// IsWrapperAlreadyInstalled reports whether a declaration was rejected because
// a wrapper was installed twice.
func IsWrapperAlreadyInstalled(err error) bool {
	return hasTextCode(err, TextCodeWrapperAlreadyInstalled)
}

// IsTransformTypeMismatch reports whether a transform rule received a value
// of the wrong type.
func IsTransformTypeMismatch(err error) bool {
	return hasTextCode(err, TextCodeTransformTypeMismatch)
}

func hasTextCode(err error, code string) bool {
	var e *goerrors.Error
	return goerrors.As(err, &e) && e.TextCode == code
}

func wrapperAlreadyInstalled(wrapper string, member Member, reason string) error {
	return goerrors.New(fmt.Sprintf("wrapper %s %s", wrapper, reason), goerrors.CategoryConflict).
		WithTextCode(TextCodeWrapperAlreadyInstalled).
		WithMetadata(map[string]any{"wrapper": wrapper, "member": member.String()})
}

func invalidDeclaration(member Member, message string) error {
	return goerrors.New(fmt.Sprintf("%s: %s", member, message), goerrors.CategoryBadInput).
		WithTextCode(TextCodeInvalidDeclaration).
		WithMetadata(map[string]any{"member": member.String()})
}

func transformTypeMismatch(rule string, want string, value any) error {
	return goerrors.New(fmt.Sprintf("%s expects a %s, got %T", rule, want, value), goerrors.CategoryBadInput).
		WithTextCode(TextCodeTransformTypeMismatch).
		WithMetadata(map[string]any{"rule": rule, "type": fmt.Sprintf("%T", value)})
}
