package params

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	oerrors "github.com/projgen/cli/internal/errors"
)

const overrideHint = `pass a mapping of literals, e.g. --extra-context "{'author': 'Jane', 'license': 'MIT'}"`

// ParseOverrides parses an --extra-context literal into a Set.
//
// The literal must be a flow mapping whose keys and values are scalars.
// Python dict literals such as {'author': 'Jane'} are valid YAML flow
// mappings; the backslash escapes \' and \\ inside their single-quoted
// strings are translated first. Anything else fails with ErrParameter.
func ParseOverrides(literal string) (Set, error) {
	if strings.TrimSpace(literal) == "" {
		return nil, oerrors.NewParameterError("extra context is empty", overrideHint)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(unescapeSingleQuoted(literal)), &doc); err != nil {
		return nil, &oerrors.DetailError{
			Type:    "invalid parameter",
			Message: fmt.Sprintf("extra context is not a valid literal: %v", err),
			Hint:    overrideHint,
			Cause:   oerrors.ErrParameter,
		}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, oerrors.NewParameterError(
			fmt.Sprintf("extra context must be a mapping, got %s", kindName(root.Kind)),
			overrideHint,
		)
	}

	set := make(Set, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, oerrors.NewParameterError(
				fmt.Sprintf("extra context key at line %d is not a literal", key.Line),
				overrideHint,
			)
		}
		if value.Kind != yaml.ScalarNode {
			return nil, oerrors.NewParameterError(
				fmt.Sprintf("value of %q is a %s, not a literal", key.Value, kindName(value.Kind)),
				overrideHint,
			)
		}
		set[key.Value] = value.Value
	}
	return set, nil
}

// unescapeSingleQuoted rewrites \' to '' and \\ to \ inside single-quoted
// strings, which YAML reads without backslash escapes. A quote only opens a
// string where a flow scalar may start, so plain scalars like O'Brien pass
// through unchanged.
func unescapeSingleQuoted(literal string) string {
	if !strings.Contains(literal, `\`) {
		return literal
	}

	var (
		sb    strings.Builder
		quote rune
		prev  = '{'
	)
	runes := []rune(literal)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote == '\'' && r == '\\' && i+1 < len(runes) && runes[i+1] == '\'':
			sb.WriteString("''")
			i++
			continue
		case quote == '\'' && r == '\\' && i+1 < len(runes) && runes[i+1] == '\\':
			sb.WriteRune('\\')
			i++
			continue
		case quote == '"' && r == '\\' && i+1 < len(runes):
			sb.WriteRune(r)
			sb.WriteRune(runes[i+1])
			i++
			continue
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"') && strings.ContainsRune("{[,:", prev):
			quote = r
		}
		sb.WriteRune(r)
		if quote == 0 && r != ' ' && r != '\t' {
			prev = r
		}
	}
	return sb.String()
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty value"
	}
}
