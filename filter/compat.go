package filter

import (
	"fmt"
	"regexp"
	"strings"
)

type shorthandRule struct {
	pattern *regexp.Regexp
	replace func(m []string) string
}

// Rules are applied in order.
var shorthandRules = []shorthandRule{
	// tag:"value" or tag!:"value"
	{regexp.MustCompile(`\btag(!?):"([^"]+)"`), func(m []string) string {
		return negate(m[1], fmt.Sprintf(`hasTag(%q)`, m[2]))
	}},
	// category:"value" or category!:"value"
	{regexp.MustCompile(`\bcategory(!?):"([^"]*)"`), func(m []string) string {
		return negate(m[1], fmt.Sprintf(`Category == %q`, m[2]))
	}},
	// state:"stalledUP"
	{regexp.MustCompile(`\bstate(!?):"([^"]+)"`), func(m []string) string {
		return negate(m[1], fmt.Sprintf(`State == %q`, m[2]))
	}},
	// tracker:"substring"
	{regexp.MustCompile(`\btracker(!?):"([^"]+)"`), func(m []string) string {
		return negate(m[1], fmt.Sprintf(`icontains(Tracker, %q)`, m[2]))
	}},
	// name:"substring"
	{regexp.MustCompile(`\bname(!?):"([^"]+)"`), func(m []string) string {
		return negate(m[1], fmt.Sprintf(`icontains(Name, %q)`, m[2]))
	}},
	// seeding:true/false, complete:true/false, paused:true/false
	{regexp.MustCompile(`\b(seeding|complete|paused):(true|false)\b`), func(m []string) string {
		fn := map[string]string{"seeding": "isSeeding", "complete": "isComplete", "paused": "isPaused"}[m[1]]
		return fmt.Sprintf(`%s() == %s`, fn, m[2])
	}},
	// ratio:>=N
	{regexp.MustCompile(`\bratio:(>=|<=|>|<|==)(\d+(?:\.\d+)?)`), func(m []string) string {
		return fmt.Sprintf(`Ratio %s %s`, m[1], m[2])
	}},
	// size:>10GB
	{regexp.MustCompile(`\bsize:(>=|<=|>|<|==)([\d.]+\s*[A-Za-z]*)`), func(m []string) string {
		return fmt.Sprintf(`Size %s parseSize(%q)`, m[1], m[2])
	}},
	// added_before:"YYYY-MM-DD" / added_after:"YYYY-MM-DD"
	{regexp.MustCompile(`\badded_(before|after):"([^"]+)"`), func(m []string) string {
		op := "<"
		if m[1] == "after" {
			op = ">"
		}
		return fmt.Sprintf(`AddedOn %s parseDate(%q)`, op, m[2])
	}},
}

var logicalOperators = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`\bAND\b`), "and"},
	{regexp.MustCompile(`\bOR\b`), "or"},
	{regexp.MustCompile(`\bNOT\b`), "not"},
}

func negate(bang, expr string) string {
	if bang == "!" {
		return "not " + expr
	}
	return expr
}

// ConvertShorthand rewrites the shorthand filter syntax into an expr expression.
func ConvertShorthand(filter string) string {
	if strings.TrimSpace(filter) == "" {
		return ""
	}

	for _, op := range logicalOperators {
		filter = op.pattern.ReplaceAllString(filter, op.replace)
	}

	for _, rule := range shorthandRules {
		filter = rule.pattern.ReplaceAllStringFunc(filter, func(match string) string {
			return rule.replace(rule.pattern.FindStringSubmatch(match))
		})
	}

	return filter
}

// IsShorthand checks if a filter uses the shorthand syntax
func IsShorthand(filter string) bool {
	for _, rule := range shorthandRules {
		if rule.pattern.MatchString(filter) {
			return true
		}
	}
	return false
}
