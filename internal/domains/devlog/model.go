package devlog

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	MaxContentLength = 256
	SlugLength       = 6
)

// Log is a short note attached to a project.
// ProjectID, AuthorID and Date never change once the log is stored.
type Log struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"` // random, assigned once after creation
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
	Date      time.Time `json:"date" db:"date"`
	Content   string    `json:"content" db:"content"` // max 256 chars
	Important bool      `json:"important" db:"important"`
}

func (l *Log) HasSlug() bool {
	return l.Slug != ""
}

func (l *Log) String() string {
	return fmt.Sprintf("%s: %s on %s", l.Date.Format(time.DateTime), l.AuthorID, l.ProjectID)
}

// ========================================
// CHANGED FIELDS
// ========================================

// Field names a stored column of Log that an update may touch
type Field string

const (
	FieldContent   Field = "content"
	FieldAuthor    Field = "author"
	FieldProject   Field = "project"
	FieldImportant Field = "important"
)

// Columns callers can never name in an update
var readOnlyFields = map[string]struct{}{
	"id":   {},
	"slug": {},
	"date": {},
}

// ParseField maps an external field name to a Field.
// id, slug and date yield an ImmutableFieldError.
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FieldContent, FieldAuthor, FieldProject, FieldImportant:
		return f, nil
	}
	if _, ok := readOnlyFields[name]; ok {
		return "", &ImmutableFieldError{Field: name}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Keys of a PATCH body and the fields they change
var bodyFields = map[string]Field{
	"content":    FieldContent,
	"important":  FieldImportant,
	"author_id":  FieldAuthor,
	"project_id": FieldProject,
}

// ParseBodyFields maps the keys of an update body to a FieldSet.
// id, slug and date yield an ImmutableFieldError, any other key ErrUnknownField.
func ParseBodyFields(keys ...string) (FieldSet, error) {
	s := make(FieldSet, len(keys))
	for _, key := range slices.Sorted(slices.Values(keys)) {
		if f, ok := bodyFields[key]; ok {
			s[f] = struct{}{}
			continue
		}
		if _, ok := readOnlyFields[key]; ok {
			return nil, &ImmutableFieldError{Field: key}
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return s, nil
}

// FieldSet is the explicit set of fields an update claims to change
type FieldSet map[Field]struct{}

func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// ParseFieldSet builds a FieldSet from external names, failing on the first invalid one
func ParseFieldSet(names ...string) (FieldSet, error) {
	s := make(FieldSet, len(names))
	for _, name := range names {
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		s[f] = struct{}{}
	}
	return s, nil
}

func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

func (s FieldSet) Add(f Field) {
	s[f] = struct{}{}
}

// Names returns the field names sorted
func (s FieldSet) Names() []string {
	names := make([]string, 0, len(s))
	for f := range s {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
