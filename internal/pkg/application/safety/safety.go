package safety

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Level string

const (
	LevelStrict     Level = "strict"
	LevelModerate   Level = "moderate"
	LevelPermissive Level = "permissive"
)

func (l Level) threshold() int {
	switch l {
	case LevelStrict:
		return 85
	case LevelPermissive:
		return 50
	default:
		return 70
	}
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

const (
	RuleClimateExtremes   = "climate_extremes"
	RuleBulkDeviceOff     = "bulk_device_off"
	RuleSecurityDisable   = "security_disable"
	RuleTimeConstraints   = "missing_time_constraint"
	RuleExcessiveTriggers = "excessive_triggers"
	RuleDestructiveSystem = "destructive_system_action"
)

type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

type Result struct {
	Passed      bool    `json:"passed"`
	Score       int     `json:"safety_score"`
	Issues      []Issue `json:"issues,omitempty"`
	CanOverride bool    `json:"can_override"`
	Summary     string  `json:"summary"`
}

// Validator scores automation YAML against the rule set. The bulk width is
// how many entities a single destructive action may target before it
// counts as bulk.
type Validator struct {
	bulkWidth int
}

func NewValidator(bulkWidth int) *Validator {
	if bulkWidth <= 0 {
		bulkWidth = 3
	}
	return &Validator{bulkWidth: bulkWidth}
}

func (v *Validator) Validate(yamlText string, level Level) (Result, error) {
	var doc map[string]any
	err := yaml.Unmarshal([]byte(yamlText), &doc)
	if err != nil {
		return Result{}, fmt.Errorf("automation is not valid YAML: %w", err)
	}

	a := newAutomation(doc)

	var issues []Issue
	for _, rule := range []func(automation) []Issue{
		v.checkClimateExtremes,
		v.checkBulkDeviceOff,
		v.checkSecurityDisable,
		v.checkTimeConstraints,
		v.checkExcessiveTriggers,
		v.checkDestructiveSystem,
	} {
		issues = append(issues, rule(a)...)
	}

	score := 100
	criticals := 0
	overridable := true

	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			score -= 30
			criticals++
			if issue.Rule == RuleDestructiveSystem {
				overridable = false
			}
		case SeverityWarning:
			score -= 10
		case SeverityInfo:
			score -= 2
		}
	}

	if score < 0 {
		score = 0
	}

	return Result{
		Passed:      criticals == 0 && score >= level.threshold(),
		Score:       score,
		Issues:      issues,
		CanOverride: overridable,
		Summary:     summarize(issues, score),
	}, nil
}

func summarize(issues []Issue, score int) string {
	if len(issues) == 0 {
		return fmt.Sprintf("no safety issues found (score %d)", score)
	}

	counts := map[Severity]int{}
	for _, i := range issues {
		counts[i.Severity]++
	}

	parts := []string{}
	for _, sev := range []Severity{SeverityCritical, SeverityWarning, SeverityInfo} {
		if counts[sev] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
		}
	}

	return fmt.Sprintf("%s (score %d)", strings.Join(parts, ", "), score)
}
