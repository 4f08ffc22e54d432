package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gartstein/careers/internal/careers/editor"
	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/models"
)

type editorResponse struct {
	Editor editor.View `json:"editor"`
}

type themeSavedResponse struct {
	Theme  models.Theme `json:"theme"`
	Editor editor.View  `json:"editor"`
}

type sectionsSavedResponse struct {
	Sections []models.Section `json:"sections"`
	Editor   editor.View      `json:"editor"`
}

type sectionAddedResponse struct {
	Section models.Section `json:"section"`
	Editor  editor.View    `json:"editor"`
}

type saveFailedResponse struct {
	Error  string      `json:"error"`
	Editor editor.View `json:"editor"`
}

// editorView snapshots ws with save errors reduced to what the caller may
// see.
func editorView(ws *editor.Workspace) editor.View {
	v := ws.View()
	if v.Theme.Err != nil {
		_, v.Theme.LastError = errorStatus(v.Theme.Err)
	}
	if v.Sections.Err != nil {
		_, v.Sections.LastError = errorStatus(v.Sections.Err)
	}
	return v
}

// workspace opens the editors of the company in the path, writing the
// error response itself when that fails.
func (a *API) workspace(w http.ResponseWriter, r *http.Request, pathParams map[string]string) (*editor.Workspace, bool) {
	ws, err := a.editors.Open(r.Context(), pathParams["slug"])
	if err != nil {
		a.writeServiceError(w, err)
		return nil, false
	}
	return ws, true
}

// respondEdit reports the outcome of a draft edit.
func (a *API) respondEdit(w http.ResponseWriter, ws *editor.Workspace, err error) {
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, editorResponse{Editor: editorView(ws)})
}

// respondSaveError keeps the draft state in the body so the caller can
// show the failure next to the unsaved values.
func (a *API) respondSaveError(w http.ResponseWriter, ws *editor.Workspace, err error) {
	code, msg := a.mapServiceError(err)
	writeJSON(w, code, saveFailedResponse{Error: msg, Editor: editorView(ws)})
}

func (a *API) getEditor(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	ws, ok := a.workspace(w, r, pathParams)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, editorResponse{Editor: editorView(ws)})
}

// editTheme applies {field: value} pairs to the theme draft. Unknown
// fields reject the whole request before anything changes.
func (a *API) editTheme(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	var patch map[models.ThemeField]string
	if err := decodeJSON(w, r, &patch); err != nil {
		a.writeServiceError(w, err)
		return
	}
	fields := make([]models.ThemeField, 0, len(patch))
	for field := range patch {
		if _, ok := (models.Theme{}).With(field, ""); !ok {
			a.writeServiceError(w, fmt.Errorf("%w: unknown theme field %q", e.ErrInvalidInput, field))
			return
		}
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	ws, ok := a.workspace(w, r, pathParams)
	if !ok {
		return
	}
	for _, field := range fields {
		if err := ws.Theme.Set(field, patch[field]); err != nil {
			a.writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, editorResponse{Editor: editorView(ws)})
}

func (a *API) saveTheme(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	ws, ok := a.workspace(w, r, pathParams)
	if !ok {
		return
	}
	theme, err := ws.Theme.Save(r.Context())
	if err != nil {
		a.respondSaveError(w, ws, err)
		return
	}
	writeJSON(w, http.StatusOK, themeSavedResponse{Theme: theme, Editor: editorView(ws)})
}

func (a *API) addSection(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	ws, ok := a.workspace(w, r, pathParams)
	if !ok {
		return
	}
	section := ws.Sections.Add()
	writeJSON(w, http.StatusCreated, sectionAddedResponse{Section: section, Editor: editorView(ws)})
}

func (a *API) moveSection(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeServiceError(w, err)
		return
	}
	if req.Index == nil {
		a.writeServiceError(w, fmt.Errorf("%w: index is required", e.ErrInvalidInput))
		return
	}
	ws, ok := a.workspace(w, r, pathParams)
	if !ok {
		return
	}
	a.respondEdit(w, ws, ws.Sections.Move(*req.Index, editor.Direction(req.Direction)))
}

func (a *API) editSection(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	var req sectionFieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeServiceError(w, err)
		return
	}
	value, err := sectionValue(req.Field, req.Value)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	ws, ok := a.workspace(w, r, pathParams)
	if !ok {
		return
	}
	a.respondEdit(w, ws, ws.Sections.SetField(pathParams["id"], req.Field, value))
}

func (a *API) toggleSection(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	ws, ok := a.workspace(w, r, pathParams)
	if !ok {
		return
	}
	a.respondEdit(w, ws, ws.Sections.Toggle(pathParams["id"]))
}

func (a *API) removeSection(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	ws, ok := a.workspace(w, r, pathParams)
	if !ok {
		return
	}
	a.respondEdit(w, ws, ws.Sections.Remove(pathParams["id"]))
}

func (a *API) saveSections(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	ws, ok := a.workspace(w, r, pathParams)
	if !ok {
		return
	}
	sections, err := ws.Sections.Save(r.Context())
	if err != nil {
		a.respondSaveError(w, ws, err)
		return
	}
	writeJSON(w, http.StatusOK, sectionsSavedResponse{Sections: sections, Editor: editorView(ws)})
}
