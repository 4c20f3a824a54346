package binding

import (
	"strconv"
	"strings"

	"vregmap/regio"
)

// TagName is the struct tag key read by the generator.
const TagName = "reg"

const defaultLength = 4

// decl is one parsed register declaration:
//
//	reg:"<address>[,len=<n>][,default=<v>][,ro][,wo]"
//
// Numbers use Go integer literal syntax, so 0x100, 0b1 and 256 all work.
type decl struct {
	addr      uint32
	length    uint32
	def       uint32
	readOnly  bool
	writeOnly bool
}

func parseDecl(tag string) (decl, error) {
	d := decl{length: defaultLength}
	parts := strings.Split(tag, ",")

	addr, err := parseNumber(parts[0])
	if err != nil {
		return d, regio.NewConfigError(regio.CodeBadTag, "address %q: %v", parts[0], err)
	}
	d.addr = addr

	for _, opt := range parts[1:] {
		key, val, hasVal := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "len":
			if !hasVal {
				return d, regio.NewConfigError(regio.CodeBadTag, "len needs a value in %q", tag)
			}
			if d.length, err = parseNumber(val); err != nil {
				return d, regio.NewConfigError(regio.CodeBadTag, "len %q: %v", val, err)
			}
		case "default":
			if !hasVal {
				return d, regio.NewConfigError(regio.CodeBadTag, "default needs a value in %q", tag)
			}
			if d.def, err = parseNumber(val); err != nil {
				return d, regio.NewConfigError(regio.CodeBadTag, "default %q: %v", val, err)
			}
		case "ro":
			d.readOnly = true
		case "wo":
			d.writeOnly = true
		default:
			return d, regio.NewConfigError(regio.CodeBadTag, "unknown option %q in %q", opt, tag)
		}
	}

	if d.length == 0 {
		return d, regio.NewConfigError(regio.CodeZeroLength, "declaration %q", tag)
	}
	if d.readOnly && d.writeOnly {
		return d, regio.NewConfigError(regio.CodeBadTag, "ro and wo are exclusive in %q", tag)
	}
	return d, nil
}

func parseNumber(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			return 0, ne.Err
		}
		return 0, err
	}
	return uint32(v), nil
}
