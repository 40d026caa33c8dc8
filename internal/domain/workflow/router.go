package workflow

import (
	"fmt"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// ViewMode is the derived rendering mode for a phase view. It is never
// stored; it is recomputed from the submission's current phase and the
// actor's permissions on every render.
type ViewMode string

const (
	// ViewHistorical renders a phase other than the submission's current
	// phase, always read-only
	ViewHistorical ViewMode = "historical"
	// ViewCurrentEditable renders the current phase with edit controls
	ViewCurrentEditable ViewMode = "current-editable"
	// ViewCurrentReadonly renders the current phase without edit permission
	ViewCurrentReadonly ViewMode = "current-readonly"
)

// ResolveViewMode derives the rendering mode for phaseViewed given the
// submission's current phase and whether the actor may edit phase content.
// canEdit is broader than the advancement policy: an actor may edit notes
// on the current phase without yet being allowed to advance it.
func ResolveViewMode(submissionPhase, phaseViewed phase.Phase, canEdit bool) ViewMode {
	if phaseViewed != submissionPhase {
		return ViewHistorical
	}
	if canEdit {
		return ViewCurrentEditable
	}
	return ViewCurrentReadonly
}

// ContentView is the phase-specific view model handed to the presentation
// layer. Fields carries the phase's display data; EditableFields lists the
// inputs the actor may modify, populated only in editable mode.
type ContentView struct {
	Phase          phase.Phase            `json:"phase"`
	Mode           ViewMode               `json:"mode"`
	Title          string                 `json:"title"`
	Fields         map[string]interface{} `json:"fields"`
	EditableFields []string               `json:"editable_fields,omitempty"`
}

// PhaseContent builds the read and write view models for one phase key.
// Summary and Editor are deliberately separate functions so the pure mode
// derivation stays apart from content assembly.
type PhaseContent interface {
	// Phases returns the phase keys this handler serves
	Phases() []phase.Phase

	// Summary builds the read-only view of the phase
	Summary(sub *entity.Submission) ContentView

	// Editor builds the editable view of the phase
	Editor(sub *entity.Submission) ContentView
}

// Router selects the content handler for a phase key and the mode it
// renders in. It performs no business logic beyond mode derivation.
type Router struct {
	handlers map[phase.Phase]PhaseContent
}

// NewRouter builds a router from the given handlers. Every phase in the
// registry must be covered by exactly one handler; a missing phase returns
// ErrMissingHandler so incomplete wiring fails at startup rather than at
// render time.
func NewRouter(handlers ...PhaseContent) (*Router, error) {
	table := make(map[phase.Phase]PhaseContent)
	for _, h := range handlers {
		for _, p := range h.Phases() {
			if !p.IsValid() {
				return nil, fmt.Errorf("%w: handler registered for unrecognised phase %s", ErrUnknownPhase, p)
			}
			if _, dup := table[p]; dup {
				return nil, fmt.Errorf("duplicate content handler for phase %s", p)
			}
			table[p] = h
		}
	}

	for _, p := range phase.Ordered() {
		if _, ok := table[p]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingHandler, p)
		}
	}

	return &Router{handlers: table}, nil
}

// Render resolves the view mode for phaseViewed and dispatches to the
// matching content handler. Unknown phase keys return ErrUnknownPhase;
// callers recover with a generic fallback view.
func (r *Router) Render(sub *entity.Submission, phaseViewed phase.Phase, canEdit bool) (ContentView, error) {
	handler, ok := r.handlers[phaseViewed]
	if !ok {
		return ContentView{}, fmt.Errorf("%w: %s", ErrUnknownPhase, phaseViewed)
	}

	mode := ResolveViewMode(sub.Phase, phaseViewed, canEdit)

	var view ContentView
	if mode == ViewCurrentEditable {
		view = handler.Editor(sub)
	} else {
		view = handler.Summary(sub)
	}
	view.Phase = phaseViewed
	view.Mode = mode
	return view, nil
}
