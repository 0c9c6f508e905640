package testharness

import (
	"encoding/json"
	"strings"

	"github.com/homelab-tools/home-intel/pkg/types"
)

const stripSystemPrompt = `You prepare a home automation for a short live test on the hub.
Produce a minimal test version of the automation:
- remove every time-based condition
- replace all triggers with a single manual event trigger using
  event_type: test_automation_trigger
- keep only the core action
- when the mode is "sequence", keep the sequence structure of the actions
  but shorten delays to at most two seconds
Return a single YAML document inside a fenced code block and nothing else.`

const restoreSystemPrompt = `You restore a home automation that was stripped down for a live test.
Reinsert the listed components (delays, repeats, time conditions) into the
test YAML at the recorded nesting, replace the manual test trigger with the
real trigger the components imply, and keep entity ids and service names
unchanged. Return a single YAML document inside a fenced code block and
nothing else.`

func buildStripPrompt(sg types.Suggestion, components []Component, mode string) string {
	var b strings.Builder

	b.WriteString("Mode: ")
	b.WriteString(mode)
	b.WriteString("\n\nAutomation description:\n")
	b.WriteString(sg.Description)

	if sg.AutomationYAML != nil {
		b.WriteString("\n\nAutomation YAML:\n")
		b.WriteString(*sg.AutomationYAML)
	}

	if len(components) > 0 {
		b.WriteString("\n\nDetected components:\n")
		writeJSON(&b, components)
	}

	return b.String()
}

func buildRestorePrompt(strippedYAML string, components []Component) string {
	var b strings.Builder

	b.WriteString("Test YAML:\n")
	b.WriteString(strippedYAML)
	b.WriteString("\n\nComponents to restore:\n")
	writeJSON(&b, components)

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
