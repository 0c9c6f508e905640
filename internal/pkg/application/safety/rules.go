package safety

import (
	"fmt"
	"strings"
)

// acceptable set-temperature range in Fahrenheit
const (
	minSafeTempF = 55.0
	maxSafeTempF = 85.0
)

var securityEntityHint = []string{"alarm", "security", "lock", "camera"}

var destructiveSystemServices = map[string]struct{}{
	"homeassistant.restart": {},
	"homeassistant.stop":    {},
	"recorder.purge":        {},
	"recorder.disable":      {},
	"hassio.host_reboot":    {},
	"hassio.host_shutdown":  {},
}

func (v *Validator) checkClimateExtremes(a automation) []Issue {
	var issues []Issue

	for _, action := range a.actions {
		if serviceOf(action) != "climate.set_temperature" {
			continue
		}

		data, ok := actionData(action)
		if !ok {
			continue
		}

		temp, ok := numericValue(data["temperature"])
		if !ok {
			continue
		}

		f := temp
		if temp <= 45 { // low magnitudes are Celsius setpoints
			f = temp*9/5 + 32
		}

		if f < minSafeTempF || f > maxSafeTempF {
			issues = append(issues, Issue{
				Rule:     RuleClimateExtremes,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("set_temperature %v is outside the safe range [%v, %v] °F", temp, minSafeTempF, maxSafeTempF),
			})
		}
	}

	return issues
}

func (v *Validator) checkBulkDeviceOff(a automation) []Issue {
	var issues []Issue

	for _, action := range a.actions {
		if !strings.HasSuffix(serviceOf(action), ".turn_off") {
			continue
		}

		bulk := false
		reason := ""

		for _, area := range targetAreas(action) {
			if area == "all" {
				bulk = true
				reason = "targets area_id: all"
			}
		}
		if n := len(targetEntities(action)); n > v.bulkWidth {
			bulk = true
			reason = fmt.Sprintf("targets %d entities (limit %d)", n, v.bulkWidth)
		}

		if bulk && !a.hasTimeConstraint() {
			issues = append(issues, Issue{
				Rule:     RuleBulkDeviceOff,
				Severity: SeverityCritical,
				Message:  serviceOf(action) + " " + reason + " without a time constraint",
			})
		}
	}

	return issues
}

func (v *Validator) checkSecurityDisable(a automation) []Issue {
	var issues []Issue

	for _, action := range a.actions {
		svc := serviceOf(action)
		if !strings.HasSuffix(svc, ".turn_off") && svc != "lock.unlock" && !strings.HasSuffix(svc, ".disarm") {
			continue
		}

		for _, entity := range targetEntities(action) {
			for _, hint := range securityEntityHint {
				if strings.Contains(entity, hint) {
					issues = append(issues, Issue{
						Rule:     RuleSecurityDisable,
						Severity: SeverityCritical,
						Message:  fmt.Sprintf("%s disables security entity %s", svc, entity),
					})
					break
				}
			}
		}
	}

	return issues
}

var destructiveServices = map[string]struct{}{
	"cover.close_cover": {},
}

func (v *Validator) checkTimeConstraints(a automation) []Issue {
	if a.hasTimeConstraint() {
		return nil
	}

	var issues []Issue

	for _, action := range a.actions {
		svc := serviceOf(action)

		_, destructive := destructiveServices[svc]
		if !destructive && !strings.HasSuffix(svc, ".turn_off") {
			continue
		}

		broad := len(targetEntities(action)) > v.bulkWidth || len(targetAreas(action)) > 0
		if broad {
			issues = append(issues, Issue{
				Rule:     RuleTimeConstraints,
				Severity: SeverityWarning,
				Message:  svc + " targets a broad set without a time condition or sun trigger",
			})
		}
	}

	return issues
}

func (v *Validator) checkExcessiveTriggers(a automation) []Issue {
	var issues []Issue

	everyMinute := false
	for _, trig := range a.triggers {
		platform, _ := trig["platform"].(string)
		if platform != "time_pattern" {
			continue
		}
		if m, ok := trig["minutes"].(string); ok && m == "*" {
			everyMinute = true
			issues = append(issues, Issue{
				Rule:     RuleExcessiveTriggers,
				Severity: SeverityWarning,
				Message:  "time_pattern fires every minute",
			})
		}
	}

	if everyMinute {
		for _, trig := range a.triggers {
			if platform, _ := trig["platform"].(string); platform != "state" {
				continue
			}
			if _, ok := trig["for"]; !ok {
				issues = append(issues, Issue{
					Rule:     RuleExcessiveTriggers,
					Severity: SeverityWarning,
					Message:  "state trigger lacks a for: debounce",
				})
			}
		}
	}

	return issues
}

func (v *Validator) checkDestructiveSystem(a automation) []Issue {
	var issues []Issue

	for _, action := range a.actions {
		svc := serviceOf(action)
		if _, ok := destructiveSystemServices[svc]; ok {
			issues = append(issues, Issue{
				Rule:     RuleDestructiveSystem,
				Severity: SeverityCritical,
				Message:  svc + " is a destructive system action",
			})
		}
	}

	return issues
}

// hasTimeConstraint reports whether any condition gates on time or any
// trigger is sun-based.
func (a automation) hasTimeConstraint() bool {
	for _, cond := range a.conditions {
		if c, _ := cond["condition"].(string); c == "time" || c == "sun" {
			return true
		}
	}
	for _, trig := range a.triggers {
		if p, _ := trig["platform"].(string); p == "sun" || p == "time" {
			return true
		}
	}
	return false
}
