package frontmatter

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// unmarshalYAML decodes a YAML block into a map. Recognised keys keep the
// scalar text as written (title: 1.10 stays "1.10"); other keys are decoded
// into their natural Go types.
func unmarshalYAML(data []byte, v any) error {
	out, ok := v.(*map[string]any)
	if !ok {
		return yaml.Unmarshal(data, v)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("metadata block must be a mapping")
	}
	if *out == nil {
		*out = map[string]any{}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		if _, dup := (*out)[name]; dup {
			return fmt.Errorf("key %q defined more than once", name)
		}
		node := root.Content[i+1]

		var (
			value any
			err   error
		)
		if _, recognised := LookupKey(name); recognised {
			value, err = literal(node)
		} else {
			err = resolveAlias(node).Decode(&value)
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		(*out)[name] = value
	}
	return nil
}

// literal returns scalars as their source text and sequences as lists of
// literals. Mappings are decoded normally so callers can reject them.
func literal(node *yaml.Node) (any, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return nil, nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := literal(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	default:
		var decoded any
		if err := node.Decode(&decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
