package forms

import (
	"strconv"

	"github.com/goliatone/go-mfadmin/pkg/model"
)

// DelinquencyRange is the delinquency bucket range editor. Older backends
// name the bounds minDays/maxDays; both spellings are accepted on input and,
// with compat keys enabled, emitted on output.
func DelinquencyRange() *Definition {
	return &Definition{
		Resource:   "delinquency-ranges",
		Title:      "Delinquency range",
		Collection: "/delinquency/ranges",
		Fields: []model.Field{
			{Name: "classification", Type: model.FieldTypeString, Required: true, Validations: []model.ValidationRule{model.MaxLength("100")}},
			{Name: "minimumAgeDays", Label: "Minimum age (days)", Type: model.FieldTypeInteger, Required: true, Validations: []model.ValidationRule{model.Min("0")}},
			{Name: "maximumAgeDays", Label: "Maximum age (days)", Type: model.FieldTypeInteger, Validations: []model.ValidationRule{model.Min("0")}},
		},
		Aliases: map[string]string{
			"minDays": "minimumAgeDays",
			"maxDays": "maximumAgeDays",
		},
		Compat: map[string]string{
			"minimumAgeDays": "minDays",
			"maximumAgeDays": "maxDays",
		},
		CanUpdate: true,
		CanDelete: true,
		hydrate: func(record Record) Values {
			return Values{
				"classification": pick(record, "classification"),
				"minimumAgeDays": pick(record, "minimumAgeDays", "minDays"),
				"maximumAgeDays": pick(record, "maximumAgeDays", "maxDays"),
			}
		},
		validate: validateDelinquency,
		payload: func(values Values, _ Mode) map[string]any {
			return newPayload(values).
				str("classification").
				int("minimumAgeDays", "maximumAgeDays").
				locale().
				build()
		},
	}
}

func validateDelinquency(values Values, _ Mode, errs FieldErrors) {
	if errs.Has("minimumAgeDays") || errs.Has("maximumAgeDays") {
		return
	}
	upper := values.Get("maximumAgeDays")
	if upper == "" {
		return
	}
	lo, err := strconv.ParseInt(values.Get("minimumAgeDays"), 10, 64)
	if err != nil {
		return
	}
	hi, err := strconv.ParseInt(upper, 10, 64)
	if err != nil {
		return
	}
	if hi < lo {
		errs.Add("maximumAgeDays", "Maximum age must be greater than or equal to the minimum age")
	}
}
