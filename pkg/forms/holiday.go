package forms

import (
	"strconv"

	"github.com/goliatone/go-mfadmin/pkg/model"
)

const rescheduleToSpecificDate = "2"

// Holiday is the holiday calendar editor.
func Holiday() *Definition {
	return &Definition{
		Resource:   "holidays",
		Title:      "Holiday",
		Collection: "/holidays",
		Template:   "/holidays/template",
		Sources: []OptionSource{
			{Field: "reschedulingType"},
			{Field: "offices", Endpoint: "/offices"},
		},
		Fields: []model.Field{
			{Name: "name", Type: model.FieldTypeString, Required: true, Validations: []model.ValidationRule{model.MaxLength("100")}},
			{Name: "description", Type: model.FieldTypeText},
			{Name: "fromDate", Label: "From", Type: model.FieldTypeDate, Required: true},
			{Name: "toDate", Label: "To", Type: model.FieldTypeDate, Required: true},
			{Name: "reschedulingType", Label: "Repayment rescheduling", Type: model.FieldTypeSelect, Default: "1"},
			{Name: "repaymentsRescheduledTo", Label: "Reschedule repayments to", Type: model.FieldTypeDate},
			{Name: "offices", Type: model.FieldTypeMultiSelect, Required: true, CreateOnly: true},
		},
		CanUpdate: true,
		CanDelete: true,
		hydrate: func(record Record) Values {
			return Values{
				"name":                    pick(record, "name"),
				"description":             pick(record, "description"),
				"fromDate":                pickDate(record, "fromDate"),
				"toDate":                  pickDate(record, "toDate"),
				"reschedulingType":        pick(record, "reschedulingType", "reschedulingType.id"),
				"repaymentsRescheduledTo": pickDate(record, "repaymentsRescheduledTo"),
			}
		},
		validate: validateHoliday,
		payload:  holidayPayload,
	}
}

func validateHoliday(values Values, _ Mode, errs FieldErrors) {
	from, fromErr := ParseDate(values.Get("fromDate"))
	to, toErr := ParseDate(values.Get("toDate"))
	if fromErr == nil && toErr == nil && to.Before(from) {
		errs.Add("toDate", "To date must not be before the from date")
	}
	if values.Get("reschedulingType") == rescheduleToSpecificDate && values.Get("repaymentsRescheduledTo") == "" {
		errs.Add("repaymentsRescheduledTo", "Reschedule date is required for this rescheduling type")
	}
}

func holidayPayload(values Values, mode Mode) map[string]any {
	b := newPayload(values).
		str("name", "description").
		int("reschedulingType").
		date("fromDate", "toDate")
	if values.Get("reschedulingType") == rescheduleToSpecificDate {
		b.date("repaymentsRescheduledTo")
	}
	if mode == ModeCreate {
		offices := []map[string]any{}
		for _, id := range values.List("offices") {
			if n, err := strconv.ParseInt(id, 10, 64); err == nil {
				offices = append(offices, map[string]any{"officeId": n})
			} else {
				offices = append(offices, map[string]any{"officeId": id})
			}
		}
		b.set("offices", offices)
	}
	return b.locale().build()
}
