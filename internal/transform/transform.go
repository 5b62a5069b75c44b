// Package transform converts query output containing relationship objects
// into a visualization-ready graph of unique nodes and edges.
package transform

import (
	"fmt"

	"go.uber.org/zap"
)

// Tag keys used to locate node and type fields inside a relationship object.
const (
	defaultSourceNodeTag       = "start"
	defaultTargetNodeTag       = "end"
	defaultRelationshipTypeTag = "type"
)

// Properties never copied onto output edges; endpoint nodes are emitted separately.
var excludedEdgeProperties = []string{"source", "target", "start", "end"}

// Params configures which keys identify the endpoints and type of a
// relationship object.
type Params struct {
	SourceNodeTag       string
	TargetNodeTag       string
	RelationshipTypeTag string
}

// Graph is the transformed output: unique nodes and deduplicated edges.
type Graph struct {
	Nodes         []map[string]any `json:"nodes"`
	Relationships []map[string]any `json:"relationships"`
}

// Transformer extracts unique nodes and formatted edges from relationship
// objects returned by graph queries.
type Transformer struct {
	logger *zap.Logger
}

// New constructs a Transformer.
func New(logger *zap.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// ParamsFromMap resolves per-request tag overrides against the defaults.
func ParamsFromMap(overrides map[string]any) Params {
	params := Params{
		SourceNodeTag:       defaultSourceNodeTag,
		TargetNodeTag:       defaultTargetNodeTag,
		RelationshipTypeTag: defaultRelationshipTypeTag,
	}
	if v, ok := overrides["source_node_tag"].(string); ok && v != "" {
		params.SourceNodeTag = v
	}
	if v, ok := overrides["target_node_tag"].(string); ok && v != "" {
		params.TargetNodeTag = v
	}
	if v, ok := overrides["relationship_type_tag"].(string); ok && v != "" {
		params.RelationshipTypeTag = v
	}
	return params
}

// Transform walks the input rows, where each row maps arbitrary keys to
// relationship objects carrying endpoint nodes and a type. Nodes are
// deduplicated by id in first-seen order; edges are deduplicated by their
// generated "<start>_<type>_<end>" id. Invalid entries are skipped.
func (t *Transformer) Transform(input []map[string]map[string]any, params Params) Graph {
	var (
		nodeOrder []string
		nodes     = map[string]map[string]any{}
		edges     []map[string]any
		edgeIDs   = map[string]struct{}{}
		processed int
		skipped   int
	)

	for _, row := range input {
		for key, rel := range row {
			if rel == nil {
				t.logger.Warn("skipping empty relationship object", zap.String("key", key))
				skipped++
				continue
			}
			processed++

			startNode, startID := extractNode(rel[params.SourceNodeTag])
			endNode, endID := extractNode(rel[params.TargetNodeTag])
			if startNode == nil || endNode == nil {
				t.logger.Warn("skipping relationship with missing or invalid endpoint",
					zap.String("key", key))
				skipped++
				continue
			}

			if _, seen := nodes[startID]; !seen {
				nodes[startID] = startNode
				nodeOrder = append(nodeOrder, startID)
			}
			if _, seen := nodes[endID]; !seen {
				nodes[endID] = endNode
				nodeOrder = append(nodeOrder, endID)
			}

			relType, _ := rel[params.RelationshipTypeTag].(string)
			if relType == "" {
				t.logger.Warn("skipping relationship without a valid type", zap.String("key", key))
				skipped++
				continue
			}

			edge := buildEdge(rel, params, relType, startID, endID)
			edgeID := edge["id"].(string)
			if _, seen := edgeIDs[edgeID]; seen {
				t.logger.Info("skipping duplicate relationship", zap.String("id", edgeID))
				continue
			}
			edgeIDs[edgeID] = struct{}{}
			edges = append(edges, edge)
		}
	}

	t.logger.Info("transformation completed",
		zap.Int("relationships_processed", processed),
		zap.Int("unique_nodes", len(nodes)),
		zap.Int("unique_relationships", len(edges)),
		zap.Int("skipped", skipped),
	)

	out := Graph{
		Nodes:         make([]map[string]any, 0, len(nodeOrder)),
		Relationships: edges,
	}
	if out.Relationships == nil {
		out.Relationships = []map[string]any{}
	}
	for _, id := range nodeOrder {
		out.Nodes = append(out.Nodes, nodes[id])
	}
	return out
}

// extractNode validates a candidate endpoint: it must be a map carrying a
// non-nil id. Returns the node and its id rendered as a string.
func extractNode(candidate any) (map[string]any, string) {
	node, ok := candidate.(map[string]any)
	if !ok {
		return nil, ""
	}
	id, present := node["id"]
	if !present || id == nil {
		return nil, ""
	}
	return node, fmt.Sprint(id)
}

func buildEdge(rel map[string]any, params Params, relType, startID, endID string) map[string]any {
	edge := map[string]any{
		"id":     fmt.Sprintf("%s_%s_%s", startID, relType, endID),
		"source": startID,
		"target": endID,
		"type":   relType,
	}

	excluded := map[string]struct{}{
		params.SourceNodeTag: {},
		params.TargetNodeTag: {},
	}
	for _, key := range excludedEdgeProperties {
		excluded[key] = struct{}{}
	}

	for key, value := range rel {
		if _, skip := excluded[key]; skip {
			continue
		}
		edge[key] = value
	}
	return edge
}
