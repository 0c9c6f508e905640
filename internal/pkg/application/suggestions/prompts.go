package suggestions

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/homelab-tools/home-intel/pkg/types"
)

const descriptionSystemPrompt = `You describe home automation opportunities to a homeowner.
Given a detected usage pattern and the capabilities of the involved devices,
write two or three plain sentences proposing an automation. Name the devices,
say when it would run and what it would do. No YAML, no code, no lists.`

const refineSystemPrompt = `You refine a proposed home automation description based on the
homeowner's feedback. Return only the updated description, two or three plain
sentences. No YAML, no code, no lists.`

const yamlSystemPrompt = `You translate a home automation description into hub automation
configuration YAML. Return a single YAML document with alias, trigger,
condition (when needed) and action sections. Use only services the listed
device capabilities support. Return the YAML inside a fenced code block and
nothing else.`

func buildDescriptionPrompt(p types.Pattern, snapshot []types.DeviceCapabilities) string {
	var b strings.Builder

	b.WriteString("Detected pattern:\n")
	writeJSON(&b, p)

	if len(snapshot) > 0 {
		b.WriteString("\nDevice capabilities:\n")
		writeJSON(&b, snapshot)
	}

	return b.String()
}

func buildRefinePrompt(sg types.Suggestion, feedback string) string {
	var b strings.Builder

	b.WriteString("Current description:\n")
	b.WriteString(sg.Description)
	b.WriteString("\n\nHomeowner feedback:\n")
	b.WriteString(feedback)

	return b.String()
}

func buildYAMLPrompt(sg types.Suggestion) string {
	var b strings.Builder

	b.WriteString("Automation description:\n")
	b.WriteString(sg.Description)

	if len(sg.Capabilities) > 0 {
		b.WriteString("\n\nDevice capabilities:\n")
		writeJSON(&b, sg.Capabilities)
	}

	return b.String()
}

func writeJSON(b *strings.Builder, v any) {
	enc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	b.Write(enc)
	b.WriteByte('\n')
}

// templateDescription renders a deterministic description from pattern
// metadata when the model is unavailable.
func templateDescription(p types.Pattern) string {
	switch p.PatternType {
	case types.PatternTypeTimeOfDay:
		when := "around the same time every day"
		if tr, ok := p.Metadata["time_range"].(string); ok && tr != "" {
			when = "between " + tr
		}
		return fmt.Sprintf("%s is typically used %s, observed %d times. An automation could schedule this for you.", p.DeviceID, when, p.Occurrences)

	case types.PatternTypeCoOccurrence:
		if len(p.DevicePair) == 2 {
			return fmt.Sprintf("%s and %s are usually activated together within a few minutes, observed %d times. An automation could trigger one when the other changes.", p.DevicePair[0], p.DevicePair[1], p.Occurrences)
		}

	case types.PatternTypeSequence:
		if len(p.Sequence) > 1 {
			return fmt.Sprintf("These devices are usually used in order: %s, observed %d times. An automation could run the later steps automatically.", strings.Join(p.Sequence, ", then "), p.Occurrences)
		}

	case types.PatternTypeContextual:
		if key, ok := p.Metadata["context_key"].(string); ok && key != "" {
			return fmt.Sprintf("%s is consistently used under the same conditions (%s), observed %d times. An automation could react to those conditions directly.", p.DeviceID, key, p.Occurrences)
		}

	case types.PatternTypeDuration:
		if avg, ok := p.Metadata["avg_duration_seconds"].(float64); ok {
			return fmt.Sprintf("%s usually stays in the same state for about %.0f seconds, observed %d times. An automation could switch it back automatically.", p.DeviceID, avg, p.Occurrences)
		}

	case types.PatternTypeAnomaly:
		if hour, ok := p.Metadata["hour"].(int); ok {
			return fmt.Sprintf("%s showed unusually high activity around %02d:00. An automation could notify you when this happens again.", p.DeviceID, hour)
		}
	}

	return fmt.Sprintf("A recurring usage pattern was observed for %s, %d occurrences. An automation could take over this routine.", strings.Join(patternEntities(p), " and "), p.Occurrences)
}
