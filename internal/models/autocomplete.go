package models

// AutocompleteKind names a suggestion source.
type AutocompleteKind string

const (
	AutocompleteAreaOfStudy AutocompleteKind = "area-of-study"
	AutocompleteCourse      AutocompleteKind = "course"
	AutocompleteProfessor   AutocompleteKind = "professor"
	AutocompleteTag         AutocompleteKind = "tag"
	AutocompleteFactrak     AutocompleteKind = "factrak"
)

// Suggestion is one autocomplete result.
type Suggestion struct {
	ID    string `db:"id" json:"id"`
	Value string `db:"value" json:"value"`
	Type  string `db:"type" json:"type,omitempty"`
}
