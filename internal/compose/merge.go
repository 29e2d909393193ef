package compose

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMalformedDocument indicates the compose file is not valid YAML or its
	// top level is not a mapping.
	ErrMalformedDocument = errors.New("compose: malformed document")
	// ErrInvalidDefinition indicates an entry definition is not a YAML mapping.
	ErrInvalidDefinition = errors.New("compose: invalid definition")
)

const defaultIndent = 2

// AddEntry adds name under the top-level mapping section unless an entry with
// that name already exists. definition is the entry body as YAML text (empty
// for a bare key such as a named volume). The bool result reports whether
// content changed.
//
// Block mappings are edited textually at the end of the section so bytes
// outside the inserted entry are preserved. Sections written in flow style
// are rebuilt through the node tree instead.
func AddEntry(content []byte, section, name, definition string) ([]byte, bool, error) {
	section = strings.TrimSpace(section)
	name = strings.TrimSpace(name)
	if section == "" || name == "" {
		return nil, false, fmt.Errorf("compose: section and name are required")
	}
	body, err := normalizeDefinition(definition)
	if err != nil {
		return nil, false, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	root, err := rootMapping(&doc)
	if err != nil {
		return nil, false, err
	}
	eol := lineEnding(content)
	if root == nil {
		out := appendSection(content, section, renderEntry(name, body, defaultIndent, eol), eol)
		return out, true, nil
	}

	keyIdx := -1
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == section {
			keyIdx = i
			break
		}
	}
	if keyIdx < 0 {
		indent := detectIndent(root)
		out := appendSection(content, section, renderEntry(name, body, indent, eol), eol)
		return out, true, nil
	}

	key, value := root.Content[keyIdx], root.Content[keyIdx+1]
	switch {
	case value.Kind == yaml.MappingNode && value.Style&yaml.FlowStyle == 0 && len(value.Content) > 0:
		if hasKey(value, name) {
			return content, false, nil
		}
		indent := value.Content[0].Column - 1
		end := sectionEnd(content, root, keyIdx)
		return insertLines(content, end, renderEntry(name, body, indent, eol), eol), true, nil
	case isBareNull(key, value):
		indent := detectIndent(root)
		return insertLines(content, key.Line, renderEntry(name, body, indent, eol), eol), true, nil
	case value.Kind == yaml.MappingNode || value.Kind == yaml.ScalarNode && value.Tag == "!!null":
		if value.Kind == yaml.MappingNode && hasKey(value, name) {
			return content, false, nil
		}
		return rebuild(&doc, root, keyIdx, name, body)
	default:
		return nil, false, fmt.Errorf("%w: %s is not a mapping", ErrMalformedDocument, section)
	}
}

// Keys returns the entry names under section in document order.
func Keys(content []byte, section string) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	root, err := rootMapping(&doc)
	if err != nil || root == nil {
		return nil, err
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != section {
			continue
		}
		value := root.Content[i+1]
		if value.Kind != yaml.MappingNode {
			return nil, nil
		}
		names := make([]string, 0, len(value.Content)/2)
		for j := 0; j+1 < len(value.Content); j += 2 {
			names = append(names, value.Content[j].Value)
		}
		return names, nil
	}
	return nil, nil
}

func rootMapping(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrMalformedDocument)
	}
	return root, nil
}

func hasKey(mapping *yaml.Node, name string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == name {
			return true
		}
	}
	return false
}

// isBareNull matches `section:` with nothing after the colon.
func isBareNull(key, value *yaml.Node) bool {
	return value.Kind == yaml.ScalarNode && value.Tag == "!!null" && value.Value == "" && value.Style == 0 && key.Style&yaml.FlowStyle == 0
}

// detectIndent returns the indentation used by the first nested block mapping,
// falling back to two spaces.
func detectIndent(root *yaml.Node) int {
	for i := 1; i < len(root.Content); i += 2 {
		value := root.Content[i]
		if value.Kind == yaml.MappingNode && value.Style&yaml.FlowStyle == 0 && len(value.Content) > 0 {
			if col := value.Content[0].Column - 1; col > 0 {
				return col
			}
		}
	}
	return defaultIndent
}

// sectionEnd returns the 1-based line after which a new child of the section at
// keyIdx belongs: the last line before the next top-level key, skipping blank
// lines and column-zero comments that lead into that key.
func sectionEnd(content []byte, root *yaml.Node, keyIdx int) int {
	lines := splitLines(content)
	next := len(lines) + 1
	if keyIdx+2 < len(root.Content) {
		next = root.Content[keyIdx+2].Line
	}
	start := root.Content[keyIdx].Line
	end := next - 1
	for end > start {
		line := strings.TrimRight(lines[end-1], "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") || line == "---" || line == "..." {
			end--
			continue
		}
		break
	}
	return end
}

func splitLines(content []byte) []string {
	lines := strings.SplitAfter(string(content), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineEnding reports the newline style of content, taken from its first line.
func lineEnding(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// insertLines places text after the given 1-based line.
func insertLines(content []byte, after int, text, eol string) []byte {
	lines := splitLines(content)
	if after > len(lines) {
		after = len(lines)
	}
	var buf bytes.Buffer
	for i := 0; i < after; i++ {
		buf.WriteString(lines[i])
	}
	if after > 0 && !strings.HasSuffix(lines[after-1], "\n") {
		buf.WriteString(eol)
	}
	buf.WriteString(text)
	for i := after; i < len(lines); i++ {
		buf.WriteString(lines[i])
	}
	return buf.Bytes()
}

func appendSection(content []byte, section, entry, eol string) []byte {
	var buf bytes.Buffer
	buf.Write(content)
	if len(bytes.TrimSpace(content)) > 0 {
		if !bytes.HasSuffix(content, []byte("\n")) {
			buf.WriteString(eol)
		}
		buf.WriteString(eol)
	}
	buf.WriteString(section)
	buf.WriteString(":")
	buf.WriteString(eol)
	buf.WriteString(entry)
	return buf.Bytes()
}

func renderEntry(name, body string, indent int, eol string) string {
	pad := strings.Repeat(" ", indent)
	var buf strings.Builder
	buf.WriteString(pad)
	buf.WriteString(name)
	buf.WriteString(":")
	buf.WriteString(eol)
	if body == "" {
		return buf.String()
	}
	child := pad + strings.Repeat(" ", indent)
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			buf.WriteString(eol)
			continue
		}
		buf.WriteString(child)
		buf.WriteString(line)
		buf.WriteString(eol)
	}
	return buf.String()
}

// normalizeDefinition dedents definition and checks it is a mapping.
func normalizeDefinition(definition string) (string, error) {
	if strings.TrimSpace(definition) == "" {
		return "", nil
	}
	body := dedent(definition)
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(body), &node); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return "", fmt.Errorf("%w: expected a mapping", ErrInvalidDefinition)
	}
	return body, nil
}

func dedent(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		width := len(line) - len(strings.TrimLeft(line, " "))
		if common < 0 || width < common {
			common = width
		}
	}
	if common <= 0 {
		return strings.Trim(strings.Join(lines, "\n"), "\n") + "\n"
	}
	for i, line := range lines {
		if len(line) >= common {
			lines[i] = line[common:]
		} else {
			lines[i] = strings.TrimLeft(line, " ")
		}
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n") + "\n"
}

// rebuild handles flow-style or explicit-null sections by editing the node
// tree and re-encoding the whole document.
func rebuild(doc *yaml.Node, root *yaml.Node, keyIdx int, name, body string) ([]byte, bool, error) {
	value := root.Content[keyIdx+1]
	if value.Kind != yaml.MappingNode {
		value = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root.Content[keyIdx+1] = value
	}
	value.Style = 0
	entry := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
	if body != "" {
		var parsed yaml.Node
		if err := yaml.Unmarshal([]byte(body), &parsed); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
		entry = parsed.Content[0]
	}
	value.Content = append(value.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
		entry,
	)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(defaultIndent)
	if err := enc.Encode(doc); err != nil {
		return nil, false, fmt.Errorf("compose: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, false, fmt.Errorf("compose: encode: %w", err)
	}
	return buf.Bytes(), true, nil
}
