package safety

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// pluralKeys maps the plural section spellings to the canonical singular
// keys the hub expects.
var pluralKeys = map[string]string{
	"triggers":   "trigger",
	"conditions": "condition",
	"actions":    "action",
}

// manufacturerDomains are vendor-specific service domains that should use
// the generic light services instead.
var manufacturerDomains = map[string]string{
	"inovelli":    "light",
	"lifx":        "light",
	"tplink":      "light",
	"zigbee2mqtt": "light",
}

// AutoFix normalizes structural variants the LLM and older hub configs
// produce. It returns the fixed YAML and a description of each applied
// fix; an empty fix list means the input came back unchanged.
func AutoFix(yamlText string) (string, []string, error) {
	var doc map[string]any
	err := yaml.Unmarshal([]byte(yamlText), &doc)
	if err != nil {
		return "", nil, fmt.Errorf("automation is not valid YAML: %w", err)
	}

	var fixes []string

	for plural, singular := range pluralKeys {
		v, ok := doc[plural]
		if !ok {
			continue
		}
		if _, exists := doc[singular]; !exists {
			doc[singular] = v
			fixes = append(fixes, fmt.Sprintf("renamed %s: to %s:", plural, singular))
		}
		delete(doc, plural)
	}

	fixes = append(fixes, fixTriggers(doc)...)
	fixes = append(fixes, fixActions(doc)...)

	if len(fixes) == 0 {
		return yamlText, nil, nil
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", nil, err
	}

	return string(out), fixes, nil
}

func fixTriggers(doc map[string]any) []string {
	var fixes []string

	for _, trig := range asMapList(doc["trigger"]) {
		// "trigger: state" is the modern spelling; the config API wants
		// "platform: state"
		if p, ok := trig["trigger"].(string); ok {
			if _, exists := trig["platform"]; !exists {
				trig["platform"] = p
				fixes = append(fixes, "renamed trigger: "+p+" to platform: "+p)
			}
			delete(trig, "trigger")
		}
	}

	return fixes
}

func fixActions(doc map[string]any) []string {
	return fixActionList(asMapList(doc["action"]))
}

func fixActionList(actions []map[string]any) []string {
	var fixes []string

	for _, action := range actions {
		if s, ok := action["action"].(string); ok && strings.Contains(s, ".") {
			if _, exists := action["service"]; !exists {
				action["service"] = s
				fixes = append(fixes, "renamed action: "+s+" to service: "+s)
			}
			delete(action, "action")
		}

		if svc, ok := action["service"].(string); ok {
			domain, name, found := strings.Cut(svc, ".")
			if found {
				if generic, known := manufacturerDomains[domain]; known {
					action["service"] = generic + "." + name
					fixes = append(fixes, "renamed service "+svc+" to "+generic+"."+name)
				}
			}
		}

		for _, key := range []string{"sequence", "then", "default"} {
			if nested, ok := action[key]; ok {
				fixes = append(fixes, fixActionList(asMapList(nested))...)
			}
		}
		if rep, ok := action["repeat"].(map[string]any); ok {
			fixes = append(fixes, fixActionList(asMapList(rep["sequence"]))...)
		}
	}

	return fixes
}
