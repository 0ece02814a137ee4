package site

import (
	"fmt"
	"strings"
)

type InputType string

const (
	InputText     InputType = "text"
	InputTel      InputType = "tel"
	InputEmail    InputType = "email"
	InputDate     InputType = "date"
	InputTextarea InputType = "textarea"
	InputRating   InputType = "rating" // visually hidden numeric field fed by the star widget
)

type Field struct {
	Name        string
	ID          string // defaults to <form>-<name> when empty
	Label       string
	Type        InputType
	Placeholder string
	Required    bool
}

// Form is the static definition of one of the page's forms.
type Form struct {
	ID             string
	Section        SectionID
	Title          string
	Fields         []Field
	SuccessID      string
	SuccessMessage string
	SaveLabel      string
	CancelLabel    string
}

// RequiresRating is true when the form can't be submitted without a star rating.
func (f Form) RequiresRating() bool {
	for _, field := range f.Fields {
		if field.Type == InputRating && field.Required {
			return true
		}
	}
	return false
}

// Field returns the named field.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (f Form) FieldNames() []string {
	names := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		names[i] = field.Name
	}
	return names
}

// ElementID returns the DOM id of a field.
func (f Form) ElementID(field Field) string {
	if field.ID != "" {
		return field.ID
	}
	return strings.TrimSuffix(f.ID, "Form") + "-" + field.Name
}

// ValidationError describes the first field that blocked a submission.
type ValidationError struct {
	Form  string
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s is required", e.Form, e.Field)
}

// FormState is the mutable state of one form for the duration of a page session.
type FormState struct {
	Values    map[string]string
	Rating    Rating
	Submitted bool
}

func NewFormState() *FormState {
	return &FormState{Values: map[string]string{}}
}

// Set records the value of a text input. A value stored under a rating field's name never
// satisfies that field; only SetRating does.
func (s *FormState) Set(name, value string) {
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	s.Values[name] = value
}

func (s *FormState) SetRating(n int) error { return s.Rating.Set(n) }

// Validate returns a *ValidationError for the first required field (in form order) that is
// empty. Like the browser's required check, whitespace counts as a value. A required rating
// field is satisfied only by a set Rating.
func (s *FormState) Validate(form Form) error {
	for _, field := range form.Fields {
		if !field.Required {
			continue
		}
		if field.Type == InputRating {
			if !s.Rating.IsSet() {
				return &ValidationError{Form: form.ID, Field: field.Name}
			}
			continue
		}
		if s.Values[field.Name] == "" {
			return &ValidationError{Form: form.ID, Field: field.Name}
		}
	}
	return nil
}

// Submit validates the state. On success the form shows its banner and its inputs reset.
func (s *FormState) Submit(form Form) error {
	if err := s.Validate(form); err != nil {
		return err
	}
	s.clear()
	s.Submitted = true
	return nil
}

// Reset is the cancel action: every value is cleared and the banner is hidden.
func (s *FormState) Reset() {
	s.clear()
	s.Submitted = false
}

func (s *FormState) clear() {
	s.Values = map[string]string{}
	s.Rating = 0
}
