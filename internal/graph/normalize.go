package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// NormalizeRecord converts every field of a record into a JSON-serializable
// value, unwrapping graph entities into plain maps.
func NormalizeRecord(rec Record) Record {
	out := make(Record, len(rec))
	for key, value := range rec {
		out[key] = NormalizeValue(value)
	}
	return out
}

// NormalizeValue recursively unwraps driver values into scalars, lists and
// maps. Nodes carry their labels and properties, relationships their type and
// endpoints, paths their normalized elements. Plain values pass through
// unchanged, so normalization is idempotent.
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case dbtype.Node:
		return map[string]any{
			"elementId":  v.ElementId,
			"labels":     normalizeLabels(v.Labels),
			"properties": normalizeMap(v.Props),
		}
	case dbtype.Relationship:
		return map[string]any{
			"elementId":      v.ElementId,
			"type":           v.Type,
			"startElementId": v.StartElementId,
			"endElementId":   v.EndElementId,
			"properties":     normalizeMap(v.Props),
		}
	case dbtype.Path:
		nodes := make([]any, len(v.Nodes))
		for i, node := range v.Nodes {
			nodes[i] = NormalizeValue(node)
		}
		relationships := make([]any, len(v.Relationships))
		for i, rel := range v.Relationships {
			relationships[i] = NormalizeValue(rel)
		}
		return map[string]any{
			"nodes":         nodes,
			"relationships": relationships,
		}
	case dbtype.Date:
		return v.String()
	case dbtype.Time:
		return v.String()
	case dbtype.LocalTime:
		return v.String()
	case dbtype.LocalDateTime:
		return v.String()
	case dbtype.Duration:
		return v.String()
	case dbtype.Point2D:
		return v.String()
	case dbtype.Point3D:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case map[string]any:
		return normalizeMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = NormalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func normalizeMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = NormalizeValue(v)
	}
	return out
}

func normalizeLabels(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}
