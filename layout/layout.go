// Package layout describes flat register banks in YAML or INI files and
// builds register maps serving them from plain byte storage.
//
// A YAML layout:
//
//	name: uart0
//	version: v1.0.0
//	registers:
//	  - {name: ctrl, address: 0x00, default: 0x1}
//	  - {name: status, address: 0x04, readOnly: true}
//	  - {name: txfifo, address: 0x08, length: 1, writeOnly: true}
//	memory:
//	  - {name: rom, address: 0x1000, file: boot.bin, readOnly: true}
//
// The INI form uses a [device] section for name and version, one
// [register.<name>] section per register and one [memory.<name>] section per
// memory block, with access=rw|ro|wo in place of the two flags.
package layout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"vregmap/common"
	"vregmap/diag"
	"vregmap/regio"
)

// Format selects the syntax of a layout document.
type Format int

const (
	FormatYAML Format = iota
	FormatINI
)

func (f Format) String() string {
	if f == FormatINI {
		return "ini"
	}
	return "yaml"
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".ini":
		return FormatINI, nil
	}
	return 0, regio.NewConfigError(regio.CodeBadLayout, "unknown layout extension %q", filepath.Ext(path))
}

// SupportedMajor is the layout schema major version this package reads.
const SupportedMajor = "v1"

const defaultRegisterLength = 4

// Register is one storage register of a bank.
type Register struct {
	Name      string
	Address   uint32
	Length    uint32
	Default   uint64
	ReadOnly  bool
	WriteOnly bool
}

// Memory is a block of plain memory, optionally initialised from a file.
// A read-only block models ROM.
type Memory struct {
	Name     string
	Address  uint32
	Length   uint32
	File     string
	ReadOnly bool
}

// Layout is a parsed and validated register bank description.
type Layout struct {
	Name      string
	Version   string
	Registers []Register
	Memory    []Memory

	// Dir is the directory relative memory files are resolved against.
	Dir string

	opts options
}

type options struct {
	log      common.Logger
	counters *diag.Counters
}

// Option configures loading and building.
type Option func(*options)

// WithLogger sets the logger for load (info) and build (debug) messages.
func WithLogger(l common.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithCounters directs unmapped access counts of built maps to c.
func WithCounters(c *diag.Counters) Option {
	return func(o *options) {
		if c != nil {
			o.counters = c
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: common.NewNoOpLogger(), counters: diag.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Load reads a layout file, picking the format from its extension.
func Load(path string, opts ...Option) (*Layout, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := Parse(f, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("layout: %s: %w", path, err)
	}
	l.Dir = filepath.Dir(path)
	return l, nil
}

// Parse reads a layout document from r.
func Parse(r io.Reader, format Format, opts ...Option) (*Layout, error) {
	var (
		l   *Layout
		err error
	)
	switch format {
	case FormatYAML:
		l, err = parseYAML(r)
	case FormatINI:
		l, err = parseINILayout(r)
	default:
		return nil, regio.NewConfigError(regio.CodeBadLayout, "unknown format %d", int(format))
	}
	if err != nil {
		return nil, err
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	l.opts = newOptions(opts)
	l.opts.log.Infof("layout: loaded %s %s (%s): %d registers, %d memory blocks",
		l.Name, l.Version, format, len(l.Registers), len(l.Memory))
	return l, nil
}

func (l *Layout) validate() error {
	if l.Name == "" {
		return regio.NewConfigError(regio.CodeBadLayout, "missing name")
	}
	if !semver.IsValid(l.Version) {
		return regio.NewConfigError(regio.CodeBadLayout, "%s: invalid version %q", l.Name, l.Version)
	}
	if major := semver.Major(l.Version); major != SupportedMajor {
		return regio.NewConfigError(regio.CodeBadLayout, "%s: version %s is not %s", l.Name, l.Version, SupportedMajor)
	}

	seen := make(map[string]bool)
	unique := func(kind, name string) error {
		if name == "" {
			return regio.NewConfigError(regio.CodeBadLayout, "%s: %s without a name", l.Name, kind)
		}
		if seen[name] {
			return regio.NewConfigError(regio.CodeBadLayout, "%s: duplicate name %q", l.Name, name)
		}
		seen[name] = true
		return nil
	}
	for _, r := range l.Registers {
		if err := unique("register", r.Name); err != nil {
			return err
		}
		if r.ReadOnly && r.WriteOnly {
			return regio.NewConfigError(regio.CodeBadLayout, "%s: register %s is both read-only and write-only", l.Name, r.Name)
		}
	}
	for _, m := range l.Memory {
		if err := unique("memory block", m.Name); err != nil {
			return err
		}
		if m.Length == 0 && m.File == "" {
			return regio.NewConfigError(regio.CodeBadLayout, "%s: memory %s needs a length or a file", l.Name, m.Name)
		}
	}
	return nil
}

type yamlRegister struct {
	Name      string  `yaml:"name"`
	Address   uint32  `yaml:"address"`
	Length    *uint32 `yaml:"length"`
	Default   uint64  `yaml:"default"`
	ReadOnly  bool    `yaml:"readOnly"`
	WriteOnly bool    `yaml:"writeOnly"`
}

type yamlMemory struct {
	Name     string `yaml:"name"`
	Address  uint32 `yaml:"address"`
	Length   uint32 `yaml:"length"`
	File     string `yaml:"file"`
	ReadOnly bool   `yaml:"readOnly"`
}

type yamlLayout struct {
	Name      string         `yaml:"name"`
	Version   string         `yaml:"version"`
	Registers []yamlRegister `yaml:"registers"`
	Memory    []yamlMemory   `yaml:"memory"`
}

func parseYAML(r io.Reader) (*Layout, error) {
	var doc yamlLayout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, regio.NewConfigError(regio.CodeBadLayout, "yaml: %v", err)
	}

	l := &Layout{Name: doc.Name, Version: doc.Version}
	for _, yr := range doc.Registers {
		reg := Register{
			Name:      yr.Name,
			Address:   yr.Address,
			Length:    defaultRegisterLength,
			Default:   yr.Default,
			ReadOnly:  yr.ReadOnly,
			WriteOnly: yr.WriteOnly,
		}
		if yr.Length != nil {
			reg.Length = *yr.Length
		}
		l.Registers = append(l.Registers, reg)
	}
	for _, ym := range doc.Memory {
		l.Memory = append(l.Memory, Memory(ym))
	}
	return l, nil
}

const (
	deviceSection   = "device"
	registerPrefix  = "register."
	memoryPrefix    = "memory."
	nameKey         = "name"
	versionKey      = "version"
	addressKey      = "address"
	lengthKey       = "length"
	defaultKey      = "default"
	accessKey       = "access"
	fileKey         = "file"
	accessReadWrite = "rw"
	accessReadOnly  = "ro"
	accessWriteOnly = "wo"
)

func parseINILayout(r io.Reader) (*Layout, error) {
	ini, err := parseINI(r)
	if err != nil {
		return nil, regio.NewConfigError(regio.CodeBadLayout, "ini: %v", err)
	}
	dev := ini.section(deviceSection)
	if dev == nil {
		return nil, regio.NewConfigError(regio.CodeBadLayout, "ini: missing [%s] section", deviceSection)
	}
	l := &Layout{Name: dev[nameKey], Version: dev[versionKey]}

	for _, name := range ini.prefixed(registerPrefix) {
		sec := ini.section(registerPrefix + name)
		reg := Register{Name: name, Length: defaultRegisterLength}
		if reg.Address, err = iniNumber[uint32](sec, addressKey, true); err != nil {
			return nil, sectionError(registerPrefix+name, err)
		}
		if v, ok := sec[lengthKey]; ok {
			if reg.Length, err = parseNumber[uint32](v); err != nil {
				return nil, sectionError(registerPrefix+name, fmt.Errorf("%s: %w", lengthKey, err))
			}
		}
		if reg.Default, err = iniNumber[uint64](sec, defaultKey, false); err != nil {
			return nil, sectionError(registerPrefix+name, err)
		}
		if reg.ReadOnly, reg.WriteOnly, err = iniAccess(sec); err != nil {
			return nil, sectionError(registerPrefix+name, err)
		}
		l.Registers = append(l.Registers, reg)
	}

	for _, name := range ini.prefixed(memoryPrefix) {
		sec := ini.section(memoryPrefix + name)
		m := Memory{Name: name, File: sec[fileKey]}
		if m.Address, err = iniNumber[uint32](sec, addressKey, true); err != nil {
			return nil, sectionError(memoryPrefix+name, err)
		}
		if m.Length, err = iniNumber[uint32](sec, lengthKey, false); err != nil {
			return nil, sectionError(memoryPrefix+name, err)
		}
		ro, wo, err := iniAccess(sec)
		if err != nil {
			return nil, sectionError(memoryPrefix+name, err)
		}
		if wo {
			return nil, sectionError(memoryPrefix+name, fmt.Errorf("memory cannot be write-only"))
		}
		m.ReadOnly = ro
		l.Memory = append(l.Memory, m)
	}
	return l, nil
}

func sectionError(section string, err error) error {
	return regio.NewConfigError(regio.CodeBadLayout, "ini: [%s]: %v", section, err)
}

func iniNumber[T uint32 | uint64](sec map[string]string, key string, required bool) (T, error) {
	v, ok := sec[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing %s", key)
		}
		return 0, nil
	}
	n, err := parseNumber[T](v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parseNumber[T uint32 | uint64](s string) (T, error) {
	var zero T
	bits := 32
	if _, ok := any(zero).(uint64); ok {
		bits = 64
	}
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, err
	}
	return T(v), nil
}

func iniAccess(sec map[string]string) (readOnly, writeOnly bool, err error) {
	switch a := sec[accessKey]; a {
	case "", accessReadWrite:
		return false, false, nil
	case accessReadOnly:
		return true, false, nil
	case accessWriteOnly:
		return false, true, nil
	default:
		return false, false, fmt.Errorf("access %q is not one of rw, ro, wo", a)
	}
}
