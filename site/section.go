// Package site describes the Cannacraft page: its sections, forms, and star rating.
//
// The storefront renders its markup from these definitions and the browser suite uses them
// as its expectations, so both sides agree on ids, names, and copy.
package site

import (
	"errors"
	"fmt"
)

// ErrUnknownSection is returned when navigating to an id that isn't one of the four sections.
var ErrUnknownSection = errors.New("unknown section")

type SectionID string

const (
	Home        SectionID = "home"
	Address     SectionID = "address"
	Appointment SectionID = "appointment"
	Feedback    SectionID = "feedback"
)

// Section is one of the top-level views of the page.
type Section struct {
	ID          SectionID
	NavLabel    string // text of the nav button
	Heading     string // text of the section's h1/h2
	ExactHeader bool   // heading is asserted verbatim rather than as a substring
}

// Sections are listed in nav order.
var Sections = []Section{
	{ID: Home, NavLabel: "Home", Heading: "Welcome to Cannacraft"},
	{ID: Address, NavLabel: "Add Address", Heading: "Add Address", ExactHeader: true},
	{ID: Appointment, NavLabel: "Book Appointment", Heading: "Schedule Your Appointment"},
	{ID: Feedback, NavLabel: "Feedback", Heading: "Customer Feedback", ExactHeader: true},
}

// LookupSection returns the section with the given id.
func LookupSection(id SectionID) (Section, error) {
	for _, s := range Sections {
		if s.ID == id {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
}

// Navigator tracks which section is active. The zero value has Home active.
type Navigator struct {
	active SectionID
}

func NewNavigator(initial SectionID) *Navigator {
	n := &Navigator{}
	if err := n.Activate(initial); err != nil {
		n.active = Home
	}
	return n
}

// Activate deactivates the current section and activates id.
// Unknown ids leave the state unchanged.
func (n *Navigator) Activate(id SectionID) error {
	if _, err := LookupSection(id); err != nil {
		return err
	}
	n.active = id
	return nil
}

func (n *Navigator) Active() SectionID {
	if n.active == "" {
		return Home
	}
	return n.active
}

func (n *Navigator) IsActive(id SectionID) bool { return n.Active() == id }

// States returns the active flag of every section in nav order.
// Exactly one entry is true.
func (n *Navigator) States() []SectionState {
	states := make([]SectionState, len(Sections))
	for i, s := range Sections {
		states[i] = SectionState{Section: s, Active: n.IsActive(s.ID)}
	}
	return states
}

type SectionState struct {
	Section
	Active bool
}
