package e2e

import (
	"strings"
	"testing"

	"github.com/cannacraft/storefront/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	addressValues = map[string]string{
		"firstName": "John",
		"lastName":  "Doe",
		"phone":     "1234567890",
		"address":   "123 Main Street",
		"pinCode":   "12345",
		"city":      "New York",
		"state":     "NY",
		"country":   "USA",
	}
	appointmentValues = map[string]string{
		"firstName":       "Jane",
		"lastName":        "Smith",
		"phone":           "9876543210",
		"email":           "jane@example.com",
		"dob":             "1990-01-01",
		"appointmentDate": "2025-12-31",
		"symptoms":        "Regular checkup",
	}
	feedbackValues = map[string]string{
		"name":     "Alex Johnson",
		"email":    "alex@example.com",
		"feedback": "Excellent service!",
	}
)

func valuesFor(form site.Form) map[string]string {
	switch form.ID {
	case site.AddressForm.ID:
		return addressValues
	case site.AppointmentForm.ID:
		return appointmentValues
	default:
		return feedbackValues
	}
}

// openForm navigates to the form's section.
func openForm(t *testing.T, form site.Form) *FormPage {
	p := openStorefront(t)
	p.Open(form.Section)
	return p.Form(form)
}

func TestFormFieldsPresent(t *testing.T) {
	for _, form := range site.Forms {
		t.Run(form.ID, func(t *testing.T) {
			f := openForm(t, form)
			for _, name := range form.FieldNames() {
				require.NoError(t, expect(t).Locator(f.Field(name)).ToHaveCount(1), "field %s", name)
			}
		})
	}
}

func TestAddressFormSubmission(t *testing.T) {
	f := openForm(t, site.AddressForm)
	f.ExpectNoSuccess()

	f.FillAll(addressValues)
	f.Save()

	f.ExpectSuccess()
	text, err := f.Banner().InnerText()
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(text), "successfully")
}

func TestAddressFormValidation(t *testing.T) {
	f := openForm(t, site.AddressForm)
	f.Save()

	assert.NotEmpty(t, f.ValidationMessage("firstName"))
	f.ExpectNoSuccess()
}

func TestAppointmentFormSubmission(t *testing.T) {
	f := openForm(t, site.AppointmentForm)

	f.FillAll(appointmentValues)
	assert.Equal(t, "1990-01-01", f.Value("dob"))
	f.Save()

	f.ExpectSuccess()
}

func TestFeedbackFormSubmission(t *testing.T) {
	f := openForm(t, site.FeedbackForm)

	f.Fill("name", feedbackValues["name"])
	f.Fill("email", feedbackValues["email"])
	f.ClickStar(5)
	f.Fill("feedback", feedbackValues["feedback"])
	f.Save()

	f.ExpectSuccess()
	require.NoError(t, expect(t).Locator(f.Banner()).ToContainText("Thank you"))
}

// Omitting any single required field blocks submission with a native validation message.
func TestRequiredFieldOmission(t *testing.T) {
	for _, form := range site.Forms {
		for _, field := range form.Fields {
			if !field.Required {
				continue
			}
			t.Run(form.ID+"/"+field.Name, func(t *testing.T) {
				f := openForm(t, form)

				values := valuesFor(form)
				for _, other := range form.Fields {
					if other.Name != field.Name && other.Type != site.InputRating {
						f.Fill(other.Name, values[other.Name])
					}
				}
				if form.RequiresRating() && field.Type != site.InputRating {
					f.ClickStar(3)
				}

				f.Save()
				assert.NotEmpty(t, f.ValidationMessage(field.Name))
				f.ExpectNoSuccess()
			})
		}
	}
}

func TestFormCancelButton(t *testing.T) {
	for _, form := range site.Forms {
		t.Run(form.ID, func(t *testing.T) {
			f := openForm(t, form)

			f.FillAll(valuesFor(form))
			if form.RequiresRating() {
				f.ClickStar(2)
			}
			f.Cancel()

			for _, field := range form.Fields {
				assert.Empty(t, f.Value(field.Name), "field %s", field.Name)
			}
			if form.RequiresRating() {
				require.NoError(t, expect(t).Locator(f.ActiveStars()).ToHaveCount(0))
			}
			f.ExpectNoSuccess()
		})
	}
}

func TestFormResetsAfterSubmission(t *testing.T) {
	for _, form := range site.Forms {
		t.Run(form.ID, func(t *testing.T) {
			f := openForm(t, form)

			f.FillAll(valuesFor(form))
			if form.RequiresRating() {
				f.ClickStar(4)
			}
			f.Save()
			f.ExpectSuccess()

			for _, field := range form.Fields {
				assert.Empty(t, f.Value(field.Name), "field %s", field.Name)
			}
		})
	}
}

func TestSuccessBannerDismissal(t *testing.T) {
	f := openForm(t, site.AddressForm)

	f.FillAll(addressValues)
	f.Save()
	f.ExpectSuccess()

	f.DismissBanner()
	f.ExpectNoSuccess()
}

func TestCancelHidesSuccessBanner(t *testing.T) {
	f := openForm(t, site.AppointmentForm)

	f.FillAll(appointmentValues)
	f.Save()
	f.ExpectSuccess()

	f.Cancel()
	f.ExpectNoSuccess()
}
