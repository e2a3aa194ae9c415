// Package forms is the template-driven form engine behind every entity form
// of the console.
//
// A Definition describes one backend resource: where its template and
// collection live, which fields it edits, how a backend record hydrates into
// editable Values, which rules apply at submit time and how Values become the
// JSON payload the backend expects. A Form is one live instance of a
// Definition. It moves through three states:
//
//	loading-template -> ready -> submitting -> ready
//
// Template fetch failures degrade the form to empty option lists and surface
// a toast; validation failures block submission without touching the
// network; backend failures surface the backend's message and leave the form
// ready for a manual retry.
package forms
