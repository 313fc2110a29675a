/*
Package catalog holds the searchable exercise collection.

Entries are hydrated from the wger.de API (with a local JSON cache) or,
failing that, from a built-in seed list. A filtering call always reads an
immutable snapshot, so hydration never races with a request in flight.
*/
package catalog

import "strings"

// Exercise is a single catalog entry. The struct is treated as immutable
// once it has been handed out in a snapshot.
type Exercise struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`

	// Contraindications lists condition tags this exercise is unsafe for
	// (e.g. "knee_injury"). Empty for most remote entries.
	Contraindications []string `json:"contraindications"`

	ImageURL string `json:"image_url,omitempty"`
}

// Haystack builds the lowercase composite text used both for fuzzy search
// and for dynamic-risk keyword blocking: name, category and tags joined
// with spaces.
func (e Exercise) Haystack() string {
	parts := make([]string, 0, 2+len(e.Tags))
	parts = append(parts, e.Name, e.Category)
	parts = append(parts, e.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
