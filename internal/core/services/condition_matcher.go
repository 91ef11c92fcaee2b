package services

import (
	"reflect"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// EqualityMatcher matches rule conditions against a trigger context with
// strict equality. Every condition key must exist in the context with an
// exactly-equal value; an empty condition map matches unconditionally.
// Richer operators (ranges, contains, negation) can replace this without
// touching the engine.
type EqualityMatcher struct{}

var _ ports.ConditionMatcher = (*EqualityMatcher)(nil)

// NewEqualityMatcher creates the default condition matcher.
func NewEqualityMatcher() *EqualityMatcher {
	return &EqualityMatcher{}
}

// Matches reports whether every condition holds in the context.
func (m *EqualityMatcher) Matches(conditions map[string]any, trigCtx domain.TriggerContext) bool {
	for key, want := range conditions {
		got, ok := trigCtx[key]
		if !ok {
			return false
		}
		// reflect.DeepEqual rather than == so slice/map-valued context
		// entries compare correctly. No type coercion: 42 != "42".
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
