package model

import "testing"

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"officeId":       "Office",
		"minimumAgeDays": "Minimum Age Days",
		"external_id":    "External",
		"transferAmount": "Transfer Amount",
		"id":             "Id",
		"dateOfBirth":    "Date Of Birth",
		"":               "",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestApplyLabels_KeepsExplicitLabels(t *testing.T) {
	form := FormModel{Fields: []Field{
		{Name: "officeId"},
		{Name: "name", Label: "Fund name"},
	}}
	if err := ApplyLabels(nil).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if form.Fields[0].Label != "Office" || form.Fields[1].Label != "Fund name" {
		t.Fatalf("unexpected labels: %#v", form.Fields)
	}
}
