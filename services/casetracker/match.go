package casetracker

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"

	"jagriti-backend/lib/scrapers/jagriti"
	"jagriti-backend/lib/textutil"
)

// how many catalog names a not-found error carries
const maxAvailableNames = 12

// suggestions below this similarity are worse than none
const suggestionThreshold = 0.84

type StateNotFoundError struct {
	Name       string
	Available  []string
	Suggestion string
}

func (e *StateNotFoundError) Error() string {
	msg := fmt.Sprintf("no state or UT matches %q", e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	if len(e.Available) > 0 {
		msg += "; available: " + strings.Join(e.Available, ", ")
	}
	return msg
}

type CommissionNotFoundError struct {
	Name       string
	StateName  string
	Available  []string
	Suggestion string
}

func (e *CommissionNotFoundError) Error() string {
	msg := fmt.Sprintf("no commission in %s matches %q", e.StateName, e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	if len(e.Available) > 0 {
		msg += "; available: " + strings.Join(e.Available, ", ")
	}
	return msg
}

// matchState resolves a human-entered name against the catalog.
// Exact canonical-name matches beat exact display-name matches, which
// beat substring matches in either direction (a catalog name
// containing the input, or an input phrase containing the catalog
// name); within a tier the first catalog entry wins, so resolution is
// deterministic for a given catalog order.
func matchState(states []jagriti.State, name string) (jagriti.State, error) {
	folded := textutil.Fold(name)
	if folded == "" {
		return jagriti.State{}, &StateNotFoundError{Name: name, Available: stateNames(states)}
	}

	for _, s := range states {
		if textutil.Fold(s.CanonicalName) == folded {
			return s, nil
		}
	}
	for _, s := range states {
		if textutil.Fold(s.DisplayName) == folded {
			return s, nil
		}
	}
	for _, s := range states {
		if textutil.ContainsFolded(s.CanonicalName, name) ||
			textutil.ContainsFolded(s.DisplayName, name) ||
			textutil.ContainsFolded(name, s.DisplayName) {
			return s, nil
		}
	}

	return jagriti.State{}, &StateNotFoundError{
		Name:       name,
		Available:  stateNames(states),
		Suggestion: closestName(name, stateNames(states)),
	}
}

func matchCommission(commissions []jagriti.Commission, state jagriti.State, name string) (jagriti.Commission, error) {
	folded := textutil.Fold(name)
	notFound := func() (jagriti.Commission, error) {
		names := commissionNames(commissions)
		return jagriti.Commission{}, &CommissionNotFoundError{
			Name:       name,
			StateName:  state.DisplayName,
			Available:  names,
			Suggestion: closestName(name, names),
		}
	}
	if folded == "" {
		return notFound()
	}

	for _, c := range commissions {
		if textutil.Fold(c.DisplayName) == folded {
			return c, nil
		}
	}
	for _, c := range commissions {
		if textutil.ContainsFolded(c.DisplayName, name) ||
			textutil.ContainsFolded(name, c.DisplayName) {
			return c, nil
		}
	}
	return notFound()
}

func stateNames(states []jagriti.State) []string {
	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, s.DisplayName)
	}
	return truncateNames(names)
}

func commissionNames(commissions []jagriti.Commission) []string {
	names := make([]string, 0, len(commissions))
	for _, c := range commissions {
		names = append(names, c.DisplayName)
	}
	return truncateNames(names)
}

func truncateNames(names []string) []string {
	if len(names) > maxAvailableNames {
		return names[:maxAvailableNames]
	}
	return names
}

// closestName picks the catalog name most similar to the input, or ""
// when nothing is close enough to be a useful hint.
func closestName(input string, names []string) string {
	best := ""
	bestScore := suggestionThreshold
	for _, candidate := range names {
		score := matchr.JaroWinkler(strings.ToLower(input), strings.ToLower(candidate), true)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best
}
