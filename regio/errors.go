package regio

import (
	"fmt"
	"strings"
)

// ErrCode identifies a class of configuration error.
type ErrCode uint32

const (
	CodeZeroLength ErrCode = iota + 1
	CodeOverlap
	CodeAddressRange
	CodeBadTag
	CodeUnsupportedMember
	CodeBadMethod
	CodeBadLayout
)

type errDesc struct {
	name string
	msg  string
}

var errorCodeDesc = map[ErrCode]errDesc{
	CodeZeroLength:        {"ERR_ZERO_LENGTH", "Region length must be greater than zero."},
	CodeOverlap:           {"ERR_OVERLAP", "New region collides with an existing region."},
	CodeAddressRange:      {"ERR_ADDRESS_RANGE", "Region extends past the 32 bit address space."},
	CodeBadTag:            {"ERR_BAD_TAG", "Malformed register declaration."},
	CodeUnsupportedMember: {"ERR_UNSUPPORTED_MEMBER", "Member type cannot be mapped to registers."},
	CodeBadMethod:         {"ERR_BAD_METHOD", "Declared register method has an invalid signature."},
	CodeBadLayout:         {"ERR_BAD_LAYOUT", "Invalid register layout description."},
}

func (c ErrCode) String() string {
	if d, ok := errorCodeDesc[c]; ok {
		return d.name
	}
	return fmt.Sprintf("ErrCode(%d)", uint32(c))
}

// ConfigError reports a map that cannot be constructed. It is only ever
// returned while building maps; serving reads and writes never fails.
type ConfigError struct {
	Code    ErrCode
	Message string
}

// Sentinels for errors.Is. A *ConfigError matches the sentinel with the same
// code regardless of its message.
var (
	ErrZeroLength        = &ConfigError{Code: CodeZeroLength}
	ErrOverlap           = &ConfigError{Code: CodeOverlap}
	ErrAddressRange      = &ConfigError{Code: CodeAddressRange}
	ErrBadTag            = &ConfigError{Code: CodeBadTag}
	ErrUnsupportedMember = &ConfigError{Code: CodeUnsupportedMember}
	ErrBadMethod         = &ConfigError{Code: CodeBadMethod}
	ErrBadLayout         = &ConfigError{Code: CodeBadLayout}
)

// NewConfigError creates a configuration error with a formatted message.
func NewConfigError(code ErrCode, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "config error 0x%04x ", uint32(e.Code))
	if desc, ok := errorCodeDesc[e.Code]; ok {
		fmt.Fprintf(&sb, "(%s) [%s]", desc.name, desc.msg)
	} else {
		sb.WriteString("(unknown)")
	}
	if e.Message != "" {
		sb.WriteString("; ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}

// Is matches any *ConfigError carrying the same code.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	return ok && t.Code == e.Code
}
