package vanilla

import (
	"github.com/goliatone/go-theme"

	"github.com/goliatone/go-mfadmin/pkg/notify"
)

// TableColumn is a list header.
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TableRow is one rendered list entry. Empty URLs hide the matching action.
type TableRow struct {
	ID        string   `json:"id"`
	Cells     []string `json:"cells"`
	EditURL   string   `json:"edit_url,omitempty"`
	DeleteURL string   `json:"delete_url,omitempty"`
}

// ScopeInput is a visible filter input for a parent identifier such as
// loanId.
type ScopeInput struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// TableView is the list page view model.
type TableView struct {
	Title   string            `json:"title"`
	BaseURL string            `json:"base_url"`
	NewURL  string            `json:"new_url,omitempty"`
	Query   string            `json:"query"`
	Scope   []ScopeInput      `json:"scope,omitempty"`
	Columns []TableColumn     `json:"columns"`
	Rows    []TableRow        `json:"rows"`
	Hidden  map[string]string `json:"-"`
	// Message replaces the empty-table placeholder.
	Message string `json:"message,omitempty"`
}

// NavItem is one entry of the console navigation.
type NavItem struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// Layout wraps a rendered body into the console page chrome.
type Layout struct {
	Title       string
	Nav         []NavItem
	Body        string
	Toasts      []notify.Toast
	Stylesheets []string
	Theme       *theme.RendererConfig
	// StreamURL is the websocket endpoint the page subscribes to for toasts.
	StreamURL string
}
