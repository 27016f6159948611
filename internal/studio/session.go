// Package studio implements the generation orchestration core: a single
// interactive session that turns a free-text idea plus optional reference
// images into a rendered picture and supports iterative edits of the result.
package studio

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"studio/internal/domain"
	"studio/internal/infra"
)

// Renderer is the remote generative capability consumed by the session:
// best-effort style analysis and the image synthesis call proper. The
// session never reaches for ambient credentials; the capability is injected
// at construction.
type Renderer interface {
	AnalyzeStyle(ctx context.Context, images []domain.ImagePart, instruction string) (string, error)
	SynthesizeImage(ctx context.Context, parts []domain.Part, aspect domain.AspectRatio) ([]domain.Part, error)
}

// Phase is the caller-visible lifecycle state of the session.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseInProgress Phase = "in_progress"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Snapshot is a point-in-time view of the session for the UI layer.
type Snapshot struct {
	Phase           Phase
	ProgressMessage string
	PromptText      string
	AspectRatio     domain.AspectRatio
	ReferenceCount  int
	Editing         bool
	ActiveResult    *domain.GenerationResult
	HistoryLen      int
	ErrorKind       string
	ErrorMessage    string
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Renderer         Renderer
	Logger           *infra.Logger
	ProgressInterval time.Duration
}

// Session owns all per-session state: the reference store, the history
// ledger, the active-result slot and the edit-authoring flag. All methods
// are safe for concurrent use, but at most one generation runs at a time;
// the busy flag is checked and set atomically under the session mutex
// before the first suspension point.
type Session struct {
	mu sync.Mutex

	renderer         Renderer
	logger           infra.Logger
	progressInterval time.Duration

	previews *PreviewRegistry
	refs     *ReferenceStore
	ledger   *Ledger

	prompt  string
	aspect  domain.AspectRatio
	active  *domain.GenerationResult
	editing bool

	busy        bool
	phase       Phase
	progressMsg string
	errKind     string
	errMsg      string
}

// NewSession constructs a session around the injected renderer capability.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("studio: renderer is required")
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	previews := NewPreviewRegistry()
	return &Session{
		renderer:         opts.Renderer,
		logger:           logger,
		progressInterval: opts.ProgressInterval,
		previews:         previews,
		refs:             NewReferenceStore(previews),
		ledger:           NewLedger(),
		aspect:           domain.DefaultAspectRatio,
		phase:            PhaseIdle,
	}, nil
}

// AddReferences admits up to the remaining reference capacity; excess files
// are silently dropped. Rejected while a generation is in flight.
func (s *Session) AddReferences(files []ReferenceFile) ([]ReferenceImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, domain.ErrBusy
	}
	return s.refs.Add(files), nil
}

// RemoveReference deletes one reference by position and releases its
// preview handle.
func (s *Session) RemoveReference(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrBusy
	}
	return s.refs.Remove(index)
}

// References returns a snapshot of the reference store.
func (s *Session) References() []ReferenceImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs.Images()
}

// Preview resolves a preview handle to its payload. Safe during a
// generation; previews are read-only once registered.
func (s *Session) Preview(id string) (string, []byte, bool) {
	return s.previews.Lookup(id)
}

// SetPrompt updates the working prompt text.
func (s *Session) SetPrompt(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrBusy
	}
	s.prompt = text
	return nil
}

// SetAspectRatio selects one of the supported output frames.
func (s *Session) SetAspectRatio(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrBusy
	}
	aspect, err := domain.ParseAspectRatio(id)
	if err != nil {
		return err
	}
	s.aspect = aspect
	return nil
}

// Generate runs the full pipeline for the current prompt and references:
// optional style analysis, prompt composition, image synthesis, result
// recording. Style analysis is best-effort; synthesis failures surface to
// the caller classified but unretried.
func (s *Session) Generate(ctx context.Context) (domain.GenerationResult, error) {
	return s.generate(ctx, "", false)
}

// BeginEdit enters edit-authoring state. Only possible when an active
// result exists and no generation is in flight.
func (s *Session) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrBusy
	}
	if s.active == nil {
		return domain.ErrNoActiveResult
	}
	s.editing = true
	return nil
}

// CancelEdit leaves edit-authoring state without a remote call.
func (s *Session) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrBusy
	}
	s.editing = false
	return nil
}

// ApplyEdit re-enters the pipeline with the active result as the base image
// and the given instruction. Style analysis is skipped. On success the new
// result is appended to history alongside the original and edit-authoring
// state is cleared.
func (s *Session) ApplyEdit(ctx context.Context, instruction string) (domain.GenerationResult, error) {
	return s.generate(ctx, instruction, true)
}

// SelectHistory points the active-result slot at a past entry without
// removing or reordering anything.
func (s *Session) SelectHistory(id string) (domain.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.GenerationResult{}, domain.ErrBusy
	}
	result, err := s.ledger.Select(id)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("%w: history entry %s", domain.ErrNotFound, id)
	}
	s.active = &result
	return result, nil
}

// HistoryEntry looks up one ledger entry without changing the active
// result.
func (s *Session) HistoryEntry(id string) (domain.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Select(id)
}

// History returns the newest-first ledger snapshot.
func (s *Session) History() []domain.GenerationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Entries()
}

// ExportActiveResult hands back the active result for download. A local
// pass-through, never a network call.
func (s *Session) ExportActiveResult() (domain.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return domain.GenerationResult{}, domain.ErrNoActiveResult
	}
	return *s.active, nil
}

// State returns a point-in-time snapshot for the UI layer.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Phase:           s.phase,
		ProgressMessage: s.progressMsg,
		PromptText:      s.prompt,
		AspectRatio:     s.aspect,
		ReferenceCount:  s.refs.Len(),
		Editing:         s.editing,
		HistoryLen:      s.ledger.Len(),
		ErrorKind:       s.errKind,
		ErrorMessage:    s.errMsg,
	}
	if s.active != nil {
		active := *s.active
		snap.ActiveResult = &active
	}
	return snap
}

// Close releases all preview handles. The session is not usable afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs.Close()
}

func (s *Session) generate(ctx context.Context, instruction string, editing bool) (domain.GenerationResult, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return domain.GenerationResult{}, domain.ErrBusy
	}

	var prompt string
	var editBase *domain.ImagePart
	if editing {
		if s.active == nil {
			s.mu.Unlock()
			return domain.GenerationResult{}, domain.ErrNoActiveResult
		}
		prompt = strings.TrimSpace(instruction)
		if prompt == "" {
			s.mu.Unlock()
			return domain.GenerationResult{}, fmt.Errorf("%w: edit instruction is required", domain.ErrEmptyInput)
		}
		editBase = &domain.ImagePart{MIMEType: s.active.MIMEType, Data: s.active.ImageBytes}
	} else {
		prompt = strings.TrimSpace(s.prompt)
		if prompt == "" && s.refs.Len() == 0 {
			s.mu.Unlock()
			return domain.GenerationResult{}, fmt.Errorf("%w: provide an idea or a reference image", domain.ErrEmptyInput)
		}
	}

	refs := s.refs.ImageParts()
	aspect := s.aspect
	s.busy = true
	s.phase = PhaseInProgress
	s.errKind = ""
	s.errMsg = ""
	s.mu.Unlock()

	ticker := startProgress(s.progressInterval, s.setProgress)
	defer ticker.stop()

	result, err := s.run(ctx, prompt, refs, aspect, editBase, editing)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.progressMsg = ""
	if err != nil {
		s.phase = PhaseFailed
		s.errKind = domain.Classify(err)
		s.errMsg = err.Error()
		s.logger.Error().
			Err(err).
			Str("kind", s.errKind).
			Bool("editing", editing).
			Msg("studio: generation failed")
		return domain.GenerationResult{}, err
	}

	s.ledger.Record(result)
	active := result
	s.active = &active
	s.editing = false
	s.phase = PhaseSucceeded
	s.logger.Info().
		Str("result_id", result.ID).
		Str("aspect_ratio", aspect.String()).
		Bool("editing", editing).
		Int("history_len", s.ledger.Len()).
		Msg("studio: generation succeeded")
	return result, nil
}

// run executes the remote pipeline with the session mutex released. It
// touches no session state: inputs were snapshotted by the caller and the
// result is committed by the caller.
func (s *Session) run(ctx context.Context, prompt string, refs []domain.ImagePart, aspect domain.AspectRatio, editBase *domain.ImagePart, editing bool) (domain.GenerationResult, error) {
	styleContext := ""
	if !editing && len(refs) > 0 {
		text, err := s.renderer.AnalyzeStyle(ctx, refs, StyleAnalysisInstruction)
		if err != nil {
			// Best effort: continue with an empty style context.
			s.logger.Warn().
				Err(fmt.Errorf("%w: %v", domain.ErrStyleAnalysis, err)).
				Int("reference_count", len(refs)).
				Msg("studio: style analysis failed; continuing without style context")
		} else {
			styleContext = text
		}
	}

	parts := BuildParts(GenerationRequest{
		PromptText:   prompt,
		StyleContext: styleContext,
		AspectRatio:  aspect,
		EditBase:     editBase,
	})

	out, err := s.renderer.SynthesizeImage(ctx, parts, aspect)
	if err != nil {
		if domain.Classify(err) == "internal" {
			err = fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}
		return domain.GenerationResult{}, err
	}

	img, ok := domain.FirstImage(out)
	if !ok {
		return domain.GenerationResult{}, fmt.Errorf("%w: try a different prompt", domain.ErrEmptyResponse)
	}

	return domain.NewGenerationResult(img, prompt, aspect), nil
}

func (s *Session) setProgress(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		s.progressMsg = msg
	}
}
