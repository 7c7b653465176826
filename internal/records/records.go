package records

import (
	"strings"

	"github.com/pkg/errors"

	"booktracker/internal/validation"
)

// Field names as they are stored in the borrowed books collection.
const (
	FieldSection = "section"
	FieldTitle   = "title"
	FieldGenre   = "genre"
	FieldDate    = "date"
)

// FieldNames lists the record fields in form order.
var FieldNames = []string{FieldSection, FieldTitle, FieldGenre, FieldDate}

// ErrMalformedDocument is returned when a stored document cannot be read as a Record.
var ErrMalformedDocument = errors.New("malformed document")

// Record is one borrowed book entry. ID is assigned by the document store.
type Record struct {
	ID      string `json:"id"`
	Section string `json:"section"`
	Title   string `json:"title"`
	Genre   string `json:"genre"`
	Date    string `json:"date"`
}

// Fields holds the user editable part of a Record.
type Fields struct {
	Section string `json:"section"`
	Title   string `json:"title"`
	Genre   string `json:"genre"`
	Date    string `json:"date"`
}

// Fields returns the editable values of the record.
func (r Record) Fields() Fields {
	return Fields{Section: r.Section, Title: r.Title, Genre: r.Genre, Date: r.Date}
}

// WithID builds a Record from the fields and a store assigned id.
func (f Fields) WithID(id string) Record {
	return Record{ID: id, Section: f.Section, Title: f.Title, Genre: f.Genre, Date: f.Date}
}

// Get returns the value of the named field.
func (f Fields) Get(name string) string {
	switch name {
	case FieldSection:
		return f.Section
	case FieldTitle:
		return f.Title
	case FieldGenre:
		return f.Genre
	case FieldDate:
		return f.Date
	}
	return ""
}

// Set assigns the named field. Unknown names are ignored.
func (f *Fields) Set(name, value string) {
	switch name {
	case FieldSection:
		f.Section = value
	case FieldTitle:
		f.Title = value
	case FieldGenre:
		f.Genre = value
	case FieldDate:
		f.Date = value
	}
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (f Fields) Trimmed() Fields {
	return Fields{
		Section: strings.TrimSpace(f.Section),
		Title:   strings.TrimSpace(f.Title),
		Genre:   strings.TrimSpace(f.Genre),
		Date:    strings.TrimSpace(f.Date),
	}
}

// IsEmpty reports whether every field is blank.
func (f Fields) IsEmpty() bool {
	return f.Trimmed() == Fields{}
}

// Validate checks that all four fields are present. Only presence is checked.
func (f Fields) Validate() error {
	verrs := validation.Errors{}
	for _, name := range FieldNames {
		verrs.Required(name, f.Get(name), Label(name)+" is required")
	}
	return verrs.Err()
}

// Document converts the fields into a full document for creation.
func (f Fields) Document() map[string]interface{} {
	return map[string]interface{}{
		FieldSection: f.Section,
		FieldTitle:   f.Title,
		FieldGenre:   f.Genre,
		FieldDate:    f.Date,
	}
}

// Patch returns only the non-empty fields, for partial updates.
func (f Fields) Patch() map[string]interface{} {
	patch := map[string]interface{}{}
	for _, name := range FieldNames {
		if v := f.Get(name); v != "" {
			patch[name] = v
		}
	}
	return patch
}

// FromDocument decodes a raw stored document. Extra keys are ignored.
func FromDocument(id string, doc map[string]interface{}) (Record, error) {
	if id == "" {
		return Record{}, errors.Wrap(ErrMalformedDocument, "empty id")
	}
	var f Fields
	for _, name := range FieldNames {
		raw, ok := doc[name]
		if !ok {
			return Record{}, errors.Wrapf(ErrMalformedDocument, "document %s: missing %s", id, name)
		}
		s, ok := raw.(string)
		if !ok {
			return Record{}, errors.Wrapf(ErrMalformedDocument, "document %s: %s is %T, not a string", id, name, raw)
		}
		f.Set(name, s)
	}
	return f.WithID(id), nil
}

// Label returns the display label of a field name.
func Label(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
