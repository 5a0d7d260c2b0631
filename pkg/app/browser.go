package app

import "strings"

// EffectBrowser keeps the viewer's effect list, the current search filter
// and the selected effect. Navigation wraps around the filtered list.
type EffectBrowser struct {
	all      []string
	filtered []string
	index    int
	query    string
}

// NewEffectBrowser creates a browser over names, keeping their order.
func NewEffectBrowser(names []string) *EffectBrowser {
	all := append([]string(nil), names...)
	return &EffectBrowser{all: all, filtered: all}
}

// filterEffects returns effects matching the query (case-insensitive substring match)
func filterEffects(allNames []string, query string) []string {
	if query == "" {
		return allNames
	}

	queryLower := strings.ToLower(query)
	filtered := make([]string, 0)

	for _, name := range allNames {
		if strings.Contains(strings.ToLower(name), queryLower) {
			filtered = append(filtered, name)
		}
	}

	return filtered
}

// SetFilter applies a search query and resets the selection to the first
// match. It reports the number of matches.
func (b *EffectBrowser) SetFilter(query string) int {
	b.query = query
	b.filtered = filterEffects(b.all, query)
	b.index = 0
	return len(b.filtered)
}

// Query returns the active search query.
func (b *EffectBrowser) Query() string { return b.query }

// Len returns the number of effects passing the filter.
func (b *EffectBrowser) Len() int { return len(b.filtered) }

// Total returns the number of effects regardless of the filter.
func (b *EffectBrowser) Total() int { return len(b.all) }

// Index returns the zero-based position of the selection in the filtered list.
func (b *EffectBrowser) Index() int { return b.index }

// Current returns the selected effect name; ok is false when nothing matches.
func (b *EffectBrowser) Current() (string, bool) {
	if len(b.filtered) == 0 {
		return "", false
	}
	return b.filtered[b.index], true
}

// Move moves the selection by delta, wrapping around both ends.
func (b *EffectBrowser) Move(delta int) {
	n := len(b.filtered)
	if n == 0 {
		return
	}
	b.index = ((b.index+delta)%n + n) % n
}

// SelectIndex selects the i-th filtered effect. Out of range indices are ignored.
func (b *EffectBrowser) SelectIndex(i int) bool {
	if i < 0 || i >= len(b.filtered) {
		return false
	}
	b.index = i
	return true
}

// Select selects an effect by name within the filtered list.
func (b *EffectBrowser) Select(name string) bool {
	for i, n := range b.filtered {
		if n == name {
			b.index = i
			return true
		}
	}
	return false
}

// First selects the first filtered effect.
func (b *EffectBrowser) First() { b.index = 0 }

// Last selects the last filtered effect.
func (b *EffectBrowser) Last() {
	if len(b.filtered) > 0 {
		b.index = len(b.filtered) - 1
	}
}
