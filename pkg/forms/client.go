package forms

import "github.com/goliatone/go-mfadmin/pkg/model"

const (
	legalFormPerson = "1"
	legalFormEntity = "2"
)

var (
	mobilePattern = `^\+?[0-9]{6,15}$`
	emailPattern  = `^[^@\s]+@[^@\s]+\.[^@\s]+$`
)

// Client is the client (borrower) editor.
func Client() *Definition {
	return &Definition{
		Resource:   "clients",
		Title:      "Client",
		Collection: "/clients",
		Template:   "/clients/template",
		Sources: []OptionSource{
			{Field: "officeId", Results: []string{"officeOptions"}},
			{Field: "staffId", Results: []string{"staffOptions"}},
			{Field: "legalFormId", Results: []string{"clientLegalFormOptions"}},
			{Field: "genderId", Results: []string{"genderOptions"}},
			{Field: "clientTypeId", Results: []string{"clientTypeOptions"}},
			{Field: "clientClassificationId", Results: []string{"clientClassificationOptions"}},
		},
		Fields: []model.Field{
			{Name: "officeId", Type: model.FieldTypeSelect, Required: true, CreateOnly: true},
			{Name: "legalFormId", Label: "Legal form", Type: model.FieldTypeSelect, Default: legalFormPerson},
			{Name: "firstname", Label: "First name", Type: model.FieldTypeString, Validations: []model.ValidationRule{model.MaxLength("50")}},
			{Name: "middlename", Label: "Middle name", Type: model.FieldTypeString, Validations: []model.ValidationRule{model.MaxLength("50")}},
			{Name: "lastname", Label: "Last name", Type: model.FieldTypeString, Validations: []model.ValidationRule{model.MaxLength("50")}},
			{Name: "fullname", Label: "Full name", Type: model.FieldTypeString, Description: "Used when the client is an entity", Validations: []model.ValidationRule{model.MaxLength("100")}},
			{Name: "staffId", Label: "Staff", Type: model.FieldTypeSelect},
			{Name: "genderId", Label: "Gender", Type: model.FieldTypeSelect},
			{Name: "clientTypeId", Label: "Client type", Type: model.FieldTypeSelect},
			{Name: "clientClassificationId", Label: "Classification", Type: model.FieldTypeSelect},
			{Name: "mobileNo", Label: "Mobile number", Type: model.FieldTypeString, Validations: []model.ValidationRule{model.Pattern(mobilePattern)}},
			{Name: "emailAddress", Label: "Email", Type: model.FieldTypeString, Validations: []model.ValidationRule{model.Pattern(emailPattern)}},
			{Name: "externalId", Label: "External id", Type: model.FieldTypeString},
			{Name: "dateOfBirth", Type: model.FieldTypeDate},
			{Name: "active", Type: model.FieldTypeBoolean, CreateOnly: true},
			{Name: "activationDate", Type: model.FieldTypeDate, CreateOnly: true},
			{Name: "submittedOnDate", Label: "Submitted on", Type: model.FieldTypeDate, CreateOnly: true},
		},
		CanUpdate: true,
		CanDelete: true,
		hydrate:   hydrateClient,
		validate:  validateClient,
		payload:   clientPayload,
	}
}

func hydrateClient(record Record) Values {
	values := Values{
		"officeId":               pick(record, "officeId", "office.id"),
		"legalFormId":            pick(record, "legalForm.id", "legalFormId"),
		"firstname":              pick(record, "firstname"),
		"middlename":             pick(record, "middlename"),
		"lastname":               pick(record, "lastname"),
		"fullname":               pick(record, "fullname"),
		"staffId":                pick(record, "staffId", "staff.id"),
		"genderId":               pick(record, "gender.id", "genderId"),
		"clientTypeId":           pick(record, "clientType.id", "clientTypeId"),
		"clientClassificationId": pick(record, "clientClassification.id", "clientClassificationId"),
		"mobileNo":               pick(record, "mobileNo"),
		"emailAddress":           pick(record, "emailAddress"),
		"externalId":             pick(record, "externalId"),
		"dateOfBirth":            pickDate(record, "dateOfBirth"),
		"active":                 pickBool(record, "active"),
		"activationDate":         pickDate(record, "activationDate", "timeline.activatedOnDate"),
	}
	return values
}

func validateClient(values Values, mode Mode, errs FieldErrors) {
	if values.Get("legalFormId") == legalFormEntity {
		if values.Get("fullname") == "" {
			errs.Add("fullname", "Full name is required for entities")
		}
	} else {
		if values.Get("firstname") == "" {
			errs.Add("firstname", "First name is required")
		}
		if values.Get("lastname") == "" {
			errs.Add("lastname", "Last name is required")
		}
	}
	if mode == ModeCreate && truthy(values.Get("active")) && values.Get("activationDate") == "" {
		errs.Add("activationDate", "Activation date is required when the client is active")
	}
}

func clientPayload(values Values, mode Mode) map[string]any {
	b := newPayload(values).
		int("officeId", "legalFormId", "staffId", "genderId", "clientTypeId", "clientClassificationId").
		str("mobileNo", "emailAddress", "externalId")
	if values.Get("legalFormId") == legalFormEntity {
		b.str("fullname")
	} else {
		b.str("firstname", "middlename", "lastname")
	}
	b.date("dateOfBirth")
	if mode == ModeCreate {
		active := truthy(values.Get("active"))
		b.set("active", active)
		if active {
			b.date("activationDate")
		}
		b.date("submittedOnDate")
	}
	return b.locale().build()
}
