package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lorrc/home-services-backend/internal/core/domain"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// Interpolate replaces {{variable}} placeholders in a template with values
// from the trigger context. Dotted names walk nested maps
// (e.g. {{contact.phone}}). Unresolved placeholders are left as-is so a
// misconfigured rule is visible in the output instead of silently blanked.
func Interpolate(template string, trigCtx domain.TriggerContext) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := lookupPath(trigCtx, name); ok {
			return fmt.Sprintf("%v", value)
		}
		return match
	})
}

// lookupPath resolves a dotted path through nested map[string]any values.
func lookupPath(trigCtx domain.TriggerContext, path string) (any, bool) {
	parts := strings.Split(path, ".")

	var current any = map[string]any(trigCtx)
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
