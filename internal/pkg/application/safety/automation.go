package safety

import (
	"fmt"
	"strings"
)

// automation is a parsed YAML document with triggers, conditions and
// actions flattened to lists. Single-item shorthand and plural key
// variants are both accepted.
type automation struct {
	triggers   []map[string]any
	conditions []map[string]any
	actions    []map[string]any
}

func newAutomation(doc map[string]any) automation {
	return automation{
		triggers:   section(doc, "trigger", "triggers"),
		conditions: section(doc, "condition", "conditions"),
		actions:    flattenActions(section(doc, "action", "actions")),
	}
}

func section(doc map[string]any, keys ...string) []map[string]any {
	for _, key := range keys {
		v, ok := doc[key]
		if !ok {
			continue
		}
		return asMapList(v)
	}
	return nil
}

func asMapList(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{t}
	default:
		return nil
	}
}

// flattenActions unrolls repeat/sequence/choose wrappers so rules see
// every service call regardless of nesting depth.
func flattenActions(actions []map[string]any) []map[string]any {
	var out []map[string]any

	for _, a := range actions {
		out = append(out, a)

		for _, key := range []string{"sequence", "then", "default"} {
			if nested, ok := a[key]; ok {
				out = append(out, flattenActions(asMapList(nested))...)
			}
		}
		if rep, ok := a["repeat"].(map[string]any); ok {
			out = append(out, flattenActions(asMapList(rep["sequence"]))...)
		}
		if choices, ok := a["choose"].([]any); ok {
			for _, c := range choices {
				if cm, ok := c.(map[string]any); ok {
					out = append(out, flattenActions(asMapList(cm["sequence"]))...)
				}
			}
		}
	}

	return out
}

func serviceOf(action map[string]any) string {
	if s, ok := action["service"].(string); ok {
		return s
	}
	if s, ok := action["action"].(string); ok && strings.Contains(s, ".") {
		return s
	}
	return ""
}

// targetEntities collects entity ids from both target blocks and legacy
// flat entity_id keys.
func targetEntities(action map[string]any) []string {
	var out []string

	collect := func(v any) {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	if target, ok := action["target"].(map[string]any); ok {
		collect(target["entity_id"])
	}
	collect(action["entity_id"])
	if data, ok := actionData(action); ok {
		collect(data["entity_id"])
	}

	return out
}

func targetAreas(action map[string]any) []string {
	var out []string

	if target, ok := action["target"].(map[string]any); ok {
		switch t := target["area_id"].(type) {
		case string:
			out = append(out, t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func actionData(action map[string]any) (map[string]any, bool) {
	for _, key := range []string{"data", "service_data"} {
		if d, ok := action[key].(map[string]any); ok {
			return d, true
		}
	}
	return nil, false
}

func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case float64:
		return t, true
	case string:
		var f float64
		_, err := fmt.Sscanf(t, "%g", &f)
		return f, err == nil
	default:
		return 0, false
	}
}
