package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/pkg/convert"
	"github.com/yaklabco/richdraft/pkg/editor"
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// ReduceRequest is the body of POST /v1/reduce. Either Action or Actions
// may be given; Action runs first.
type ReduceRequest struct {
	Document  json.RawMessage      `json:"document"`
	Selection *selection.Selection `json:"selection,omitempty"`
	Action    *editor.ActionSpec   `json:"action,omitempty"`
	Actions   []editor.ActionSpec  `json:"actions,omitempty"`
}

// Toolbar is the active state of the toolbar controls at the new selection.
type Toolbar struct {
	InlineStyles []string `json:"inlineStyles"`
	Color        string   `json:"color"`
	BlockType    string   `json:"blockType"`
	Link         bool     `json:"link"`
}

// ReduceResponse is the body returned by POST /v1/reduce.
type ReduceResponse struct {
	Document      *richtext.RawDraft  `json:"document"`
	Selection     selection.Selection `json:"selection"`
	StyleOverride []string            `json:"styleOverride,omitempty"`
	Unhandled     int                 `json:"unhandled"`
	Toolbar       Toolbar             `json:"toolbar"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReduce(w http.ResponseWriter, r *http.Request) {
	var req ReduceRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Document) == 0 {
		s.writeError(w, r, badRequest("document is required"))
		return
	}

	content, err := richtext.Parse(req.Document)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	specs := req.Actions
	if req.Action != nil {
		specs = append([]editor.ActionSpec{*req.Action}, specs...)
	}
	actions, err := editor.DecodeActions(specs)
	if err != nil {
		s.writeError(w, r, badRequest("%v", err))
		return
	}

	state := editor.NewState(content)
	if req.Selection != nil {
		state = state.WithSelection(*req.Selection)
	}

	next, unhandled, err := s.reduce(state, actions)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	toolbar, err := s.toolbar(next)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := ReduceResponse{
		Document:  richtext.ToRaw(next.Content),
		Selection: next.Selection,
		Unhandled: unhandled,
		Toolbar:   toolbar,
	}
	if next.StyleOverride != nil {
		resp.StyleOverride = next.StyleOverride.Names()
	}

	logging.FromContext(r.Context()).Debug("reduced",
		logging.FieldActions, len(actions),
		logging.FieldUnhandled, unhandled,
		logging.FieldBlocks, next.Content.BlockCount(),
	)
	writeJSON(w, http.StatusOK, resp)
}

// reduce applies actions all-or-nothing and records one metric per action.
func (s *Server) reduce(initial editor.State, actions []editor.Action) (editor.State, int, error) {
	state := initial
	unhandled := 0
	for i, action := range actions {
		next, err := editor.Reduce(state, action, s.editor)
		switch {
		case errors.Is(err, editor.ErrUnhandled):
			s.metrics.observeAction(action.Name(), OutcomeUnhandled)
			unhandled++
		case err != nil:
			s.metrics.observeAction(action.Name(), OutcomeRejected)
			return initial, unhandled, fmt.Errorf("action %d (%s): %w", i, action.Name(), err)
		default:
			s.metrics.observeAction(action.Name(), OutcomeApplied)
			state = next
		}
	}
	return state, unhandled, nil
}

// toolbar reports which configured controls are active for state.
func (s *Server) toolbar(state editor.State) (Toolbar, error) {
	styles, err := editor.CurrentInlineStyle(state)
	if err != nil {
		return Toolbar{}, err
	}
	blockType, err := editor.CurrentBlockType(state)
	if err != nil {
		return Toolbar{}, err
	}
	_, onLink, err := editor.LinkAtSelection(state)
	if err != nil {
		return Toolbar{}, err
	}

	tb := Toolbar{
		InlineStyles: []string{},
		Color:        s.editor.Colors.Default(),
		BlockType:    string(blockType),
		Link:         onLink,
	}
	for _, style := range s.cfg.Editor.Styles {
		if styles.Has(style) {
			tb.InlineStyles = append(tb.InlineStyles, style)
		}
	}
	for _, style := range styles.Names() {
		if slices.Contains(s.editor.Colors, style) {
			tb.Color = style
			break
		}
	}
	return tb, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := convert.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	content, err := richtext.Parse(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := convert.Export(content, format, convert.ExportOptions{
		Indent:   s.cfg.Output.Indent,
		Sanitize: s.cfg.SanitizeHTML(),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	format, err := convert.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	content, err := s.importer.Import(r.Context(), format, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, richtext.ToRaw(content))
}
