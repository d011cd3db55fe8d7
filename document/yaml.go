package document

import (
	"encoding/base64"
	"encoding/json"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/rollup-codec/errors"
)

// maxNesting bounds mapping/sequence nesting and alias expansion.
const maxNesting = 256

func parseYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.MalformedDocument(errors.PhaseDocument, "decode YAML value", err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return yamlValue(&root, 0)
}

func yamlValue(n *yaml.Node, depth int) (any, error) {
	if depth > maxNesting {
		return nil, yamlError(n, "nesting exceeds %d levels", maxNesting)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0], depth)
	case yaml.AliasNode:
		return yamlValue(n.Alias, depth+1)
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlValue(c, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.MappingNode:
		return yamlMapping(n, depth)
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, yamlError(n, "unknown node kind %d", n.Kind)
	}
}

func yamlMapping(n *yaml.Node, depth int) (any, error) {
	out := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		for k.Kind == yaml.AliasNode {
			k = k.Alias
		}
		if k.Kind != yaml.ScalarNode {
			return nil, yamlError(k, "mapping keys must be scalars")
		}
		if k.ShortTag() == "!!merge" {
			return nil, yamlError(k, "merge keys are not supported")
		}
		key := k.Value
		if _, dup := out[key]; dup {
			return nil, yamlError(k, "duplicate key %q", key)
		}
		v, err := yamlValue(n.Content[i+1], depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, yamlError(n, "invalid boolean %q", n.Value)
		}
		return b, nil
	case "!!int", "!!float":
		return yamlNumber(n)
	case "!!str", "!!timestamp":
		return n.Value, nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, yamlError(n, "invalid !!binary payload")
		}
		return b, nil
	default:
		return nil, yamlError(n, "unsupported tag %s", n.Tag)
	}
}

// yamlNumber keeps integers exact. Integers wider than 64 bits resolve to
// !!float in YAML, so integer syntax is checked first regardless of tag.
func yamlNumber(n *yaml.Node) (any, error) {
	text := strings.ReplaceAll(n.Value, "_", "")
	if bi, ok := new(big.Int).SetString(text, 0); ok {
		return json.Number(bi.String()), nil
	}
	if json.Valid([]byte(text)) && !strings.HasPrefix(text, "\"") {
		return json.Number(text), nil
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return nil, yamlError(n, "invalid number %q", n.Value)
	}
	return f, nil
}

func yamlError(n *yaml.Node, format string, args ...any) *errors.Error {
	return errors.New(errors.PhaseDocument, errors.KindMalformedDocument).
		Detail("line %d column %d: "+format, append([]any{n.Line, n.Column}, args...)...).
		Build()
}
