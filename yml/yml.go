// Package yml holds the yaml.v3 helpers shared by the YAML front-end and the output encoders:
// alias and merge key resolution, node kind names, and the output configuration carried in a context.
package yml

import (
	"context"
	"io"

	"gopkg.in/yaml.v3"
)

// Encode writes v as YAML using the indentation of the Config carried in ctx.
func Encode(ctx context.Context, v any, w io.Writer) error {
	cfg := GetConfigFromContext(ctx)

	enc := yaml.NewEncoder(w)
	indent := cfg.Indentation
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)

	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func ResolveAlias(node *yaml.Node) *yaml.Node {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.AliasNode:
		return ResolveAlias(node.Alias)
	default:
		return node
	}
}

// IsMergeKey returns true if the given node is a YAML merge key (<<).
func IsMergeKey(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.Tag == "!!merge" && node.Value == "<<"
}

// ResolveMergeKeys processes a mapping node's content and expands any YAML merge keys (<<).
// Explicit keys in the mapping take precedence over merged keys (YAML merge key rules).
// Merged mappings are recursively flattened so nested merge chains are fully expanded.
// Returns new content with merge keys expanded, or the original content if no merge keys are present.
func ResolveMergeKeys(content []*yaml.Node) []*yaml.Node {
	return resolveMergeKeys(content, nil)
}

// resolveKeyValue returns the effective key string for a node, resolving aliases.
func resolveKeyValue(node *yaml.Node) string {
	resolved := ResolveAlias(node)
	if resolved == nil {
		return node.Value
	}
	return resolved.Value
}

func resolveMergeKeys(content []*yaml.Node, seen map[*yaml.Node]bool) []*yaml.Node {
	// Trim trailing orphan key (odd-length content) so all loops can assume pairs
	if len(content)%2 == 1 {
		content = content[:len(content)-1]
	}
	if len(content) < 2 {
		return content
	}

	// Single pass: detect merge keys and collect explicit keys simultaneously
	hasMergeKey := false
	numMergePairs := 0
	explicitKeys := make(map[string]struct{})

	for i := 0; i < len(content); i += 2 {
		if IsMergeKey(content[i]) {
			hasMergeKey = true
			numMergePairs++
		} else {
			explicitKeys[resolveKeyValue(content[i])] = struct{}{}
		}
	}
	if !hasMergeKey {
		return content
	}

	// Build result: start with merged content, then explicit content
	// (explicit keys override merged ones)
	var mergedContent []*yaml.Node
	seenMerged := make(map[string]struct{})

	for i := 0; i < len(content); i += 2 {
		if !IsMergeKey(content[i]) {
			continue
		}

		resolved := ResolveAlias(content[i+1])
		if resolved == nil {
			continue
		}

		collectMergedPairs(resolved, explicitKeys, seenMerged, &mergedContent, seen)
	}

	// Build final result: merged content first, then explicit keys
	explicitLen := len(content) - 2*numMergePairs
	result := make([]*yaml.Node, 0, len(mergedContent)+explicitLen)
	result = append(result, mergedContent...)

	for i := 0; i < len(content); i += 2 {
		if IsMergeKey(content[i]) {
			continue
		}
		result = append(result, content[i], content[i+1])
	}

	return result
}

// collectMergedPairs collects key-value pairs from a merge target (mapping or sequence of mappings),
// recursively resolving any nested merge keys within the target.
func collectMergedPairs(node *yaml.Node, explicitKeys, seenMerged map[string]struct{}, out *[]*yaml.Node, seen map[*yaml.Node]bool) {
	switch node.Kind {
	case yaml.MappingNode:
		// Cycle guard: prevent infinite loops from circular aliases
		if seen == nil {
			seen = make(map[*yaml.Node]bool)
		}
		if seen[node] {
			return
		}
		seen[node] = true

		// Recursively flatten the merged mapping's own merge keys first
		flatContent := resolveMergeKeys(node.Content, seen)

		for j := 0; j < len(flatContent); j += 2 {
			key := resolveKeyValue(flatContent[j])
			if _, isExplicit := explicitKeys[key]; !isExplicit {
				if _, alreadyMerged := seenMerged[key]; !alreadyMerged {
					*out = append(*out, flatContent[j], flatContent[j+1])
					seenMerged[key] = struct{}{}
				}
			}
		}
	case yaml.SequenceNode:
		// Sequence of mappings merge: <<: [*alias1, *alias2]
		for _, item := range node.Content {
			resolvedItem := ResolveAlias(item)
			if resolvedItem == nil || resolvedItem.Kind != yaml.MappingNode {
				continue
			}
			collectMergedPairs(resolvedItem, explicitKeys, seenMerged, out, seen)
		}
	}
}
