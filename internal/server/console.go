package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-mfadmin/internal/journal"
	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/forms"
	"github.com/goliatone/go-mfadmin/pkg/model"
	"github.com/goliatone/go-mfadmin/pkg/pages"
	"github.com/goliatone/go-mfadmin/pkg/render"
	"github.com/goliatone/go-mfadmin/pkg/renderers/vanilla"
)

const activityPath = DashboardPath + "/activity"

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	view := vanilla.TableView{
		Title:   "Console",
		BaseURL: DashboardPath,
		Columns: []vanilla.TableColumn{
			{Key: "title", Label: "Resource"},
			{Key: "endpoint", Label: "Endpoint"},
			{Key: "actions", Label: "Operations"},
		},
	}
	for _, res := range pages.Resources() {
		def := res.Definition
		ops := []string{"create"}
		if def.CanUpdate {
			ops = append(ops, "update")
		}
		if def.CanDelete {
			ops = append(ops, "delete")
		}
		view.Rows = append(view.Rows, vanilla.TableRow{
			ID:    res.Name(),
			Cells: []string{def.Title, def.Collection, strings.Join(ops, ", ")},
		})
	}
	body, err := s.renderer.RenderTable(r.Context(), view)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.layout(w, r, http.StatusOK, "Console", body, nil)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	res, scope, ok := s.resolve(w, r)
	if !ok {
		return
	}
	def := res.Definition
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	view := vanilla.TableView{
		Title:   def.Title,
		BaseURL: listPath(res),
		Query:   query,
	}
	for _, col := range res.Columns {
		view.Columns = append(view.Columns, vanilla.TableColumn{Key: col.Key, Label: col.Label})
	}
	for _, key := range res.Scope {
		view.Scope = append(view.Scope, vanilla.ScopeInput{Name: key, Label: model.DefaultLabeler(key), Value: scope[key]})
	}

	if missing := missingScope(res, scope); len(missing) > 0 {
		view.Message = fmt.Sprintf("Enter %s to list %s records", strings.Join(missing, ", "), strings.ToLower(def.Title))
		s.renderTable(w, r, http.StatusOK, view)
		return
	}

	page, err := s.newPage(res, scope)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	// Load failures are already toasts; the table renders whatever arrived.
	_ = page.Load(r.Context())

	view.NewURL = withScope(listPath(res)+"/new", scope)
	for _, row := range page.Filter(query) {
		cells := make([]string, 0, len(res.Columns))
		for _, col := range res.Columns {
			cells = append(cells, row.Cell(col.Key))
		}
		item := vanilla.TableRow{ID: row.ID, Cells: cells}
		if def.CanUpdate {
			item.EditURL = withScope(itemPath(res, row.ID)+"/edit", scope)
		}
		if def.CanDelete {
			item.DeleteURL = withScope(itemPath(res, row.ID)+"/delete", scope)
		}
		view.Rows = append(view.Rows, item)
	}
	s.renderTable(w, r, http.StatusOK, view)
}

func (s *Server) newForm(w http.ResponseWriter, r *http.Request) {
	res, scope, ok := s.resolveScoped(w, r)
	if !ok {
		return
	}
	page, err := s.newPage(res, scope)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	form, err := page.NewForm(r.Context(), "")
	if err != nil {
		s.fail(w, r, statusFor(err), err.Error())
		return
	}
	defer form.Close()
	s.renderForm(w, r, http.StatusOK, res, scope, form, withScope(listPath(res), scope))
}

func (s *Server) editForm(w http.ResponseWriter, r *http.Request) {
	res, scope, ok := s.resolveScoped(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	form, err := s.openEntity(r.Context(), res, scope, id)
	if err != nil {
		s.fail(w, r, statusFor(err), err.Error())
		return
	}
	defer form.Close()
	s.renderForm(w, r, http.StatusOK, res, scope, form, withScope(itemPath(res, id), scope))
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	res, scope, ok := s.resolveScoped(w, r)
	if !ok {
		return
	}
	page, err := s.newPage(res, scope)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	form, err := page.NewForm(r.Context(), "")
	if err != nil {
		s.fail(w, r, statusFor(err), err.Error())
		return
	}
	defer form.Close()

	result, err := form.Submit(r.Context(), formValues(r, res.Definition))
	s.afterSubmit(w, r, res, scope, form, journal.ActionCreate, result, err, withScope(listPath(res), scope))
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	res, scope, ok := s.resolveScoped(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	form, err := s.openEntity(r.Context(), res, scope, id)
	if err != nil {
		s.fail(w, r, statusFor(err), err.Error())
		return
	}
	defer form.Close()

	result, err := form.Submit(r.Context(), formValues(r, res.Definition))
	if result.ID == "" {
		result.ID = id
	}
	s.afterSubmit(w, r, res, scope, form, journal.ActionUpdate, result, err, withScope(itemPath(res, id), scope))
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	res, scope, ok := s.resolveScoped(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !res.Definition.CanDelete {
		s.fail(w, r, http.StatusMethodNotAllowed, forms.ErrDeleteUnsupported.Error())
		return
	}
	page, err := s.newPage(res, scope)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	err = page.Delete(r.Context(), id)
	s.record(r, res.Name(), journal.ActionDelete, id, err)
	// The delete outcome is a toast either way; the list shows it.
	http.Redirect(w, r, withScope(listPath(res), scope), http.StatusSeeOther)
}

func (s *Server) afterSubmit(w http.ResponseWriter, r *http.Request, res pages.Resource, scope forms.Scope, form *forms.Form, action journal.Action, result forms.Result, err error, formAction string) {
	var invalid *forms.ValidationError
	switch {
	case err == nil:
		s.record(r, res.Name(), action, result.ID, nil)
		http.Redirect(w, r, withScope(listPath(res), scope), http.StatusSeeOther)
	case errors.As(err, &invalid):
		s.renderForm(w, r, http.StatusUnprocessableEntity, res, scope, form, formAction)
	default:
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			s.record(r, res.Name(), action, result.ID, err)
		}
		s.renderForm(w, r, statusFor(err), res, scope, form, formAction)
	}
}

func (s *Server) openEntity(ctx context.Context, res pages.Resource, scope forms.Scope, id string) (*forms.Form, error) {
	if !res.Definition.CanUpdate {
		return nil, forms.ErrUpdateUnsupported
	}
	page, err := s.newPage(res, scope)
	if err != nil {
		return nil, err
	}
	if err := page.Load(ctx); err != nil {
		if _, ok := page.Row(id); !ok {
			return nil, err
		}
	}
	return page.NewForm(ctx, id)
}

func (s *Server) newPage(res pages.Resource, scope forms.Scope) (*pages.Page, error) {
	return pages.New(res, s.api,
		pages.WithNotifier(s.notifier),
		pages.WithScope(scope),
		pages.WithFormOptions(forms.WithCompatKeys(s.compat)),
	)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, res pages.Resource, scope forms.Scope, form *forms.Form, action string) {
	fm := form.Model()
	opts := render.RenderOptions{
		Action: action,
		Values: form.Values(),
		Errors: form.Errors(),
		Hidden: render.MergeHiddenFields(nil, render.ScopeFields(scope)...),
		Theme:  s.theme,
	}
	body, err := s.renderer.Render(r.Context(), fm, opts)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.layout(w, r, status, fm.Title, body, s.renderer.Stylesheets(fm))
}

func (s *Server) renderTable(w http.ResponseWriter, r *http.Request, status int, view vanilla.TableView) {
	body, err := s.renderer.RenderTable(r.Context(), view)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.layout(w, r, status, view.Title, body, nil)
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request, status int, title string, body []byte, stylesheets []string) {
	out, err := s.renderer.RenderLayout(r.Context(), vanilla.Layout{
		Title:       title,
		Nav:         s.nav(r.URL.Path),
		Body:        string(body),
		Toasts:      s.notifier.Visible(),
		Stylesheets: stylesheets,
		Theme:       s.theme,
		StreamURL:   "/ws/toasts",
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, out)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	body := `<section class="mfadmin-error" role="alert"><h2>` + http.StatusText(status) + `</h2><p>` + vanilla.SanitizeMessage(message) + `</p></section>`
	s.layout(w, r, status, http.StatusText(status), []byte(body), nil)
}

func (s *Server) nav(current string) []vanilla.NavItem {
	items := []vanilla.NavItem{{Label: "Console", Href: DashboardPath, Active: current == DashboardPath || current == DashboardPath+"/"}}
	for _, res := range pages.Resources() {
		href := listPath(res)
		items = append(items, vanilla.NavItem{
			Label:  res.Definition.Title,
			Href:   href,
			Active: current == href || strings.HasPrefix(current, href+"/"),
		})
	}
	items = append(items, vanilla.NavItem{Label: "Activity", Href: activityPath, Active: current == activityPath})
	return items
}

func (s *Server) record(r *http.Request, resource string, action journal.Action, id string, err error) {
	if s.journal == nil {
		return
	}
	entry := journal.Entry{
		Resource:  resource,
		Action:    action,
		EntityID:  id,
		Outcome:   journal.OutcomeOK,
		RequestID: RequestIDFrom(r.Context()),
	}
	if err != nil {
		entry.Outcome = journal.OutcomeError
		entry.Message = apiclient.UserMessage(err, err.Error())
	}
	if _, err := s.journal.Record(r.Context(), entry); err != nil {
		s.logf("server: journal: %v", err)
	}
}

// resolve looks up the resource named in the route and reads its scope from
// the query string or the posted form.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (pages.Resource, forms.Scope, bool) {
	res, ok := pages.Lookup(chi.URLParam(r, "resource"))
	if !ok {
		s.fail(w, r, http.StatusNotFound, "Unknown resource "+chi.URLParam(r, "resource"))
		return pages.Resource{}, nil, false
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			s.fail(w, r, http.StatusBadRequest, err.Error())
			return pages.Resource{}, nil, false
		}
	}
	scope := forms.Scope{}
	for _, key := range res.Scope {
		value := strings.TrimSpace(r.URL.Query().Get(key))
		if value == "" && r.PostForm != nil {
			value = strings.TrimSpace(r.PostForm.Get(key))
		}
		if value != "" {
			scope[key] = value
		}
	}
	return res, scope, true
}

// resolveScoped is resolve plus a 400 when a scope key is missing.
func (s *Server) resolveScoped(w http.ResponseWriter, r *http.Request) (pages.Resource, forms.Scope, bool) {
	res, scope, ok := s.resolve(w, r)
	if !ok {
		return res, scope, false
	}
	if missing := missingScope(res, scope); len(missing) > 0 {
		s.fail(w, r, http.StatusBadRequest, "Missing "+strings.Join(missing, ", "))
		return res, scope, false
	}
	return res, scope, true
}

func missingScope(res pages.Resource, scope forms.Scope) []string {
	var missing []string
	for _, key := range res.Scope {
		if scope[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// formValues reads the posted fields of def. Checkboxes post a hidden
// "false" followed by "true" when ticked, so the last value wins.
func formValues(r *http.Request, def *forms.Definition) forms.Values {
	values := forms.Values{}
	for _, field := range def.Fields {
		raw, ok := r.PostForm[field.Name]
		if !ok || len(raw) == 0 {
			continue
		}
		switch field.Type {
		case model.FieldTypeMultiSelect:
			ids := make([]string, 0, len(raw))
			for _, id := range raw {
				if id = strings.TrimSpace(id); id != "" {
					ids = append(ids, id)
				}
			}
			values.Set(field.Name, strings.Join(ids, ","))
		case model.FieldTypeBoolean:
			values.Set(field.Name, strings.TrimSpace(raw[len(raw)-1]))
		default:
			values.Set(field.Name, strings.TrimSpace(raw[0]))
		}
	}
	return values
}

func statusFor(err error) int {
	var apiErr *apiclient.Error
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &apiErr):
		if code := apiErr.StatusCode(); code >= 400 && code < 500 {
			return code
		}
		return http.StatusBadGateway
	case errors.Is(err, pages.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, forms.ErrUpdateUnsupported), errors.Is(err, forms.ErrDeleteUnsupported):
		return http.StatusMethodNotAllowed
	case errors.Is(err, forms.ErrMissingScope):
		return http.StatusBadRequest
	case errors.Is(err, forms.ErrSubmitInProgress):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func listPath(res pages.Resource) string {
	return DashboardPath + "/" + res.Name()
}

func itemPath(res pages.Resource, id string) string {
	return listPath(res) + "/" + url.PathEscape(id)
}

func withScope(path string, scope forms.Scope) string {
	if len(scope) == 0 {
		return path
	}
	keys := make([]string, 0, len(scope))
	for key := range scope {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	q := url.Values{}
	for _, key := range keys {
		q.Set(key, scope[key])
	}
	return path + "?" + q.Encode()
}

func (s *Server) activity(w http.ResponseWriter, r *http.Request) {
	view := vanilla.TableView{
		Title:   "Activity",
		BaseURL: activityPath,
		Columns: []vanilla.TableColumn{
			{Key: "created_at", Label: "When"},
			{Key: "resource", Label: "Resource"},
			{Key: "action", Label: "Action"},
			{Key: "entity_id", Label: "Entity"},
			{Key: "outcome", Label: "Outcome"},
			{Key: "message", Label: "Message"},
		},
	}
	if s.journal == nil {
		view.Message = "Mutation journal is disabled"
		s.renderTable(w, r, http.StatusOK, view)
		return
	}
	entries, err := s.journal.Recent(r.Context(), 50)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	for _, entry := range entries {
		view.Rows = append(view.Rows, vanilla.TableRow{
			ID: fmt.Sprint(entry.ID),
			Cells: []string{
				entry.CreatedAt.Format("2006-01-02 15:04:05"),
				entry.Resource,
				string(entry.Action),
				entry.EntityID,
				string(entry.Outcome),
				entry.Message,
			},
		})
	}
	s.renderTable(w, r, http.StatusOK, view)
}
