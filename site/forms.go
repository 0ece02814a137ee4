package site

import "fmt"

const (
	Title = "Cannacraft - Customer Care"
	Brand = "Cannacraft"
)

var AddressForm = Form{
	ID:      "addressForm",
	Section: Address,
	Title:   "Add Address",
	Fields: []Field{
		{Name: "firstName", Label: "First Name", Type: InputText, Required: true},
		{Name: "lastName", Label: "Last Name", Type: InputText, Required: true},
		{Name: "phone", Label: "Phone Number", Type: InputTel, Required: true},
		{Name: "address", Label: "Street Address", Type: InputText, Required: true},
		{Name: "pinCode", Label: "PIN Code", Type: InputText, Required: true},
		{Name: "city", Label: "City", Type: InputText, Required: true},
		{Name: "state", Label: "State", Type: InputText, Required: true},
		{Name: "country", Label: "Country", Type: InputText, Required: true},
	},
	SuccessID:      "addressSuccess",
	SuccessMessage: "Address saved successfully!",
	SaveLabel:      "Save Address",
	CancelLabel:    "Cancel",
}

var AppointmentForm = Form{
	ID:      "appointmentForm",
	Section: Appointment,
	Title:   "Schedule Your Appointment",
	Fields: []Field{
		{Name: "firstName", Label: "First Name", Type: InputText, Required: true},
		{Name: "lastName", Label: "Last Name", Type: InputText, Required: true},
		{Name: "phone", Label: "Phone Number", Type: InputTel, Required: true},
		{Name: "email", Label: "Email", Type: InputEmail, Required: true},
		{Name: "dob", Label: "Date of Birth", Type: InputDate, Required: true},
		{Name: "appointmentDate", Label: "Appointment Date", Type: InputDate, Required: true},
		{Name: "symptoms", Label: "Symptoms / Reason for Visit", Type: InputTextarea, Required: true},
	},
	SuccessID:      "appointmentSuccess",
	SuccessMessage: "Appointment booked successfully! We will contact you soon.",
	SaveLabel:      "Confirm Booking",
	CancelLabel:    "Cancel",
}

var FeedbackForm = Form{
	ID:      "feedbackForm",
	Section: Feedback,
	Title:   "Customer Feedback",
	Fields: []Field{
		{Name: "name", Label: "Your Name", Type: InputText, Required: true},
		{Name: "email", Label: "Email", Type: InputEmail, Required: true},
		{Name: "rating", ID: "ratingValue", Label: "Rating", Type: InputRating, Required: true},
		{Name: "feedback", Label: "Your Feedback", Type: InputTextarea, Required: true},
	},
	SuccessID:      "feedbackSuccess",
	SuccessMessage: "Thank you for your feedback!",
	SaveLabel:      "Submit Feedback",
	CancelLabel:    "Cancel",
}

// Forms are listed in section order.
var Forms = []Form{AddressForm, AppointmentForm, FeedbackForm}

// FormFor returns the form shown in the given section.
func FormFor(id SectionID) (Form, error) {
	for _, f := range Forms {
		if f.Section == id {
			return f, nil
		}
	}
	return Form{}, fmt.Errorf("section %q has no form", id)
}
