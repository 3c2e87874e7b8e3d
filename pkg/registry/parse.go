package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// refList accepts code refs written either as plain strings or as
// mappings with a path key.
type refList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *refList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: code_refs must be a list", node.Line)
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, item.Value)
		case yaml.MappingNode:
			var m struct {
				Path string `yaml:"path"`
			}
			if err := item.Decode(&m); err != nil {
				return err
			}
			if m.Path != "" {
				out = append(out, m.Path)
			}
		default:
			return fmt.Errorf("line %d: unsupported code_refs item", item.Line)
		}
	}
	*r = out
	return nil
}

type document struct {
	Enforcements []Entry `yaml:"enforcements"`
}

var entryStartRe = regexp.MustCompile(`(?m)^\s*-\s+id:`)

// Parse extracts registry entries from data. The strict YAML decoder is
// tried first; regex extraction takes over when it fails or finds nothing
// while entry markers are present.
func Parse(data []byte) Result {
	entries, err := ParseStrict(data)
	if err == nil && (len(entries) > 0 || !entryStartRe.Match(data)) {
		return Result{Entries: entries, Method: MethodStrict}
	}
	return Result{Entries: ParseRegex(data), Method: MethodRegex, StrictErr: err}
}

// ParseStrict decodes data with yaml.v3. Entries without an id are dropped.
func ParseStrict(data []byte) ([]Entry, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode registry: %w", err)
	}

	entries := make([]Entry, 0, len(doc.Enforcements))
	for _, e := range doc.Enforcements {
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			continue
		}
		e.Description = collapseSpace(e.Description)
		entries = append(entries, e)
	}
	return entries, nil
}

var (
	entryLineRe  = regexp.MustCompile(`^(\s*)-\s+id:\s*(.*)$`)
	keyLineRe    = regexp.MustCompile(`^(\s*)([A-Za-z_][\w-]*):\s*(.*)$`)
	listItemRe   = regexp.MustCompile(`^(\s*)-\s+(.*)$`)
	inlineListRe = regexp.MustCompile(`^\[(.*)\]$`)
	pathKeyRe    = regexp.MustCompile(`^path:\s*(.*)$`)
	sectionRe    = regexp.MustCompile(`(?m)^\s*enforcements:`)
	sectionKeyRe = regexp.MustCompile(`^(\s*)enforcements:\s*$`)
)

// ParseRegex extracts entries line by line without a YAML parser.
// It understands scalar fields, folded/literal block scalars, inline lists
// and block lists.
func ParseRegex(data []byte) []Entry {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	var entries []Entry
	var cur *Entry
	entryIndent := -1

	// Without an enforcements key the whole document is one list.
	inSection := !sectionRe.MatchString(strings.Join(lines, "\n"))
	sectionIndent := -1

	flush := func() {
		if cur != nil && cur.ID != "" {
			cur.Description = collapseSpace(cur.Description)
			entries = append(entries, *cur)
		}
		cur = nil
	}

	for i := 0; i < len(lines); i++ {
		line := strings.ReplaceAll(lines[i], "\t", "  ")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		if m := keyLineRe.FindStringSubmatch(line); m != nil && len(m[1]) <= sectionIndent {
			flush()
			inSection = false
			sectionIndent = -1
		}
		if m := sectionKeyRe.FindStringSubmatch(line); m != nil {
			flush()
			inSection = true
			sectionIndent = len(m[1])
			continue
		}
		if !inSection {
			continue
		}

		if m := entryLineRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &Entry{ID: unquote(m[2])}
			entryIndent = len(m[1])
			continue
		}
		if cur == nil {
			continue
		}

		m := keyLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent := len(m[1])
		if indent <= entryIndent {
			// dedented key ends the current entry
			flush()
			continue
		}

		key, value := m[2], strings.TrimSpace(m[3])
		switch key {
		case "description":
			if value == ">" || value == "|" || value == ">-" || value == "|-" {
				var block []string
				block, i = collectBlock(lines, i+1, indent)
				cur.Description = strings.Join(block, " ")
			} else {
				cur.Description = unquote(value)
			}
		case "status":
			cur.Status = unquote(value)
		case "mechanism":
			cur.Mechanism = unquote(value)
		case "adrs":
			var items []string
			items, i = collectList(lines, i, indent, value)
			cur.ADRs = items
		case "code_refs":
			var items []string
			items, i = collectList(lines, i, indent, value)
			cur.CodeRefs = items
		}
	}
	flush()

	return entries
}

// collectBlock gathers lines indented deeper than keyIndent. It returns the
// trimmed lines and the index of the last consumed line.
func collectBlock(lines []string, start, keyIndent int) ([]string, int) {
	var out []string
	last := start - 1
	for j := start; j < len(lines); j++ {
		line := strings.ReplaceAll(lines[j], "\t", "  ")
		if strings.TrimSpace(line) == "" {
			last = j
			continue
		}
		if leadingSpaces(line) <= keyIndent {
			break
		}
		out = append(out, strings.TrimSpace(line))
		last = j
	}
	return out, last
}

// collectList reads an inline list from value or a block list from the
// following lines.
func collectList(lines []string, keyLine, keyIndent int, value string) ([]string, int) {
	if m := inlineListRe.FindStringSubmatch(value); m != nil {
		var items []string
		for _, part := range strings.Split(m[1], ",") {
			if v := unquote(strings.TrimSpace(part)); v != "" {
				items = append(items, v)
			}
		}
		return items, keyLine
	}
	if value != "" {
		// single scalar written on the key line
		return []string{unquote(value)}, keyLine
	}

	var items []string
	last := keyLine
	for j := keyLine + 1; j < len(lines); j++ {
		line := strings.ReplaceAll(lines[j], "\t", "  ")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			last = j
			continue
		}
		m := listItemRe.FindStringSubmatch(line)
		if m == nil || len(m[1]) < keyIndent || entryLineRe.MatchString(line) {
			break
		}
		item := strings.TrimSpace(m[2])
		if pm := pathKeyRe.FindStringSubmatch(item); pm != nil {
			item = pm[1]
		}
		if v := unquote(item); v != "" {
			items = append(items, v)
		}
		last = j
	}
	return items, last
}

func leadingSpaces(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

// unquote strips matching quotes, or a trailing comment from a bare value.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	if idx := strings.Index(s, " #"); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
