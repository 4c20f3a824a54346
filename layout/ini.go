package layout

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// iniFile is a parsed INI document. Properties before the first section
// header belong to the "" section. Section order is kept so registers are
// listed in file order.
type iniFile struct {
	sections map[string]map[string]string
	order    []string
}

func parseINI(r io.Reader) (*iniFile, error) {
	ini := &iniFile{sections: map[string]map[string]string{"": {}}}
	scanner := bufio.NewScanner(r)
	current := ""
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.TrimSpace(line[1 : len(line)-1])
			if _, exists := ini.sections[current]; !exists {
				ini.sections[current] = make(map[string]string)
				ini.order = append(ini.order, current)
			}
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key=value, got %q", lineNo, line)
		}
		ini.sections[current][strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ini, nil
}

// section returns the properties of a section, or nil if it is absent.
func (ini *iniFile) section(name string) map[string]string {
	return ini.sections[name]
}

// prefixed returns the names of the sections starting with prefix, in file
// order, with the prefix removed.
func (ini *iniFile) prefixed(prefix string) []string {
	var names []string
	for _, s := range ini.order {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			names = append(names, rest)
		}
	}
	return names
}
