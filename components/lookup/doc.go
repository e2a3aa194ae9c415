// Package lookup provides a small net/http handler that searches the option
// lists of an entity form field and returns them as JSON, for typeahead
// inputs.
//
// Requests look like GET <RoutePath>/{resource}/{field}?q=..&limit=..; every
// other query parameter is passed to the Source as scope (for example loanId
// for loan collaterals).
package lookup
