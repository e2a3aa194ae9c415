package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm    ChromeClass = "mfadmin-form"
	ClassHeader  ChromeClass = "mfadmin-header"
	ClassSection ChromeClass = "mfadmin-section"
	ClassField   ChromeClass = "mfadmin-field"
	ClassActions ChromeClass = "mfadmin-actions"
	ClassErrors  ChromeClass = "mfadmin-errors"
	ClassError   ChromeClass = "mfadmin-error"
	ClassGrid    ChromeClass = "mfadmin-grid"
	ClassTable   ChromeClass = "mfadmin-table"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"section": string(ClassSection),
		"field":   string(ClassField),
		"actions": string(ClassActions),
		"errors":  string(ClassErrors),
		"error":   string(ClassError),
		"grid":    string(ClassGrid),
		"table":   string(ClassTable),
	}
}
