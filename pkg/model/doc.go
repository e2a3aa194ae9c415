// Package model defines the typed form model shared by the form engine and
// the renderers. A FormModel lists the Fields of one entity form together with
// the normalized option lists each select field offers. Validation rules use
// canonical identifiers (required, min/max, minLength/maxLength, pattern) with
// string parameters so renderers can map them onto HTML attributes or prompt
// validators without depending on the form engine.
package model
