// Package client implements the search session state machine consumed by the
// web and terminal frontends: debounced search input, an explicit pagination
// cursor, and generation-tagged requests so stale responses never corrupt the
// session.
package client

import (
	"sync"
	"time"

	"github.com/buscador-establecimientos/backend/internal/domain/entities"
)

// DebounceQuantum is how long search input must settle before a query fires
const DebounceQuantum = 300 * time.Millisecond

// State is the session's lifecycle state
type State int

const (
	// StateIdle means no query is in flight
	StateIdle State = iota
	// StateLoading means exactly one query is logically in flight
	StateLoading
	// StateError means the last query failed; cleared by the next user action
	StateError
)

// CommandKind identifies a display command
type CommandKind int

const (
	// CommandReplace replaces the displayed result set
	CommandReplace CommandKind = iota
	// CommandAppend appends to the displayed result set
	CommandAppend
	// CommandShowEmpty shows the distinct no-results affordance
	CommandShowEmpty
	// CommandShowError shows the generic retry-prompting error affordance
	CommandShowError
)

// DisplayCommand is one rendering instruction emitted by the session
type DisplayCommand struct {
	Kind             CommandKind
	Establecimientos []entities.Establecimiento
}

// Renderer consumes display commands. Rendering itself is outside the state
// machine's contract.
type Renderer interface {
	Render(cmd DisplayCommand)
}

// Request describes one query the transport must issue. The generation tag
// identifies which session epoch it belongs to.
type Request struct {
	Generation uint64
	Search     string
	Provincia  string
	Skip       int
	Limit      int
	Append     bool
}

// Session holds the client-side search state: current filters, the skip
// cursor, and whether more results are available. One instance per active
// user session.
type Session struct {
	mu sync.Mutex

	renderer Renderer
	start    func(Request)
	timer    Timer
	limit    int

	currentSearch   string
	currentProvince string
	currentSkip     int
	hasMore         bool
	state           State
	appending       bool
	generation      uint64
	results         []entities.Establecimiento
}

// NewSession creates a new search session. start is the transport callback
// that issues a query; its response must be fed back through HandleSuccess or
// HandleFailure with the original request.
func NewSession(renderer Renderer, timer Timer, limit int, start func(Request)) *Session {
	return &Session{
		renderer: renderer,
		timer:    timer,
		limit:    limit,
		start:    start,
	}
}

// SetSearch records new search text and restarts the debounce timer. Only
// after input settles for the full quantum does a query fire, so rapid
// keystrokes coalesce into one request.
func (s *Session) SetSearch(text string) {
	s.mu.Lock()
	s.currentSearch = text
	if s.state == StateError {
		s.state = StateIdle
	}
	s.mu.Unlock()

	s.timer.Schedule(DebounceQuantum, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.beginLoadLocked(false)
	})
}

// SetProvincia changes the province filter and queries immediately, with no
// debounce
func (s *Session) SetProvincia(provincia string) {
	s.timer.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentProvince = provincia
	if s.state == StateError {
		s.state = StateIdle
	}
	s.beginLoadLocked(false)
}

// LoadMore requests the next page. It is only valid while idle with more
// results available; otherwise it is ignored.
func (s *Session) LoadMore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle || !s.hasMore {
		return
	}
	s.beginLoadLocked(true)
}

// beginLoadLocked starts a new query epoch. A fresh search resets the cursor;
// bumping the generation invalidates any in-flight response.
func (s *Session) beginLoadLocked(append bool) {
	if !append {
		s.currentSkip = 0
		s.hasMore = false
	}
	s.generation++
	s.state = StateLoading
	s.appending = append

	s.start(Request{
		Generation: s.generation,
		Search:     s.currentSearch,
		Provincia:  s.currentProvince,
		Skip:       s.currentSkip,
		Limit:      s.limit,
		Append:     append,
	})
}

// HandleSuccess feeds a successful query response back into the session.
// Responses from superseded generations are discarded without touching any
// cursor state.
func (s *Session) HandleSuccess(req Request, page *entities.ResultPage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Generation != s.generation {
		return
	}

	s.currentSkip = page.Pagination.NextSkip
	s.hasMore = page.Pagination.HasMore
	s.state = StateIdle

	if req.Append {
		s.results = append(s.results, page.Establecimientos...)
		s.renderer.Render(DisplayCommand{Kind: CommandAppend, Establecimientos: page.Establecimientos})
		return
	}

	s.results = append([]entities.Establecimiento(nil), page.Establecimientos...)
	if len(page.Establecimientos) == 0 {
		s.renderer.Render(DisplayCommand{Kind: CommandShowEmpty})
		return
	}
	s.renderer.Render(DisplayCommand{Kind: CommandReplace, Establecimientos: page.Establecimientos})
}

// HandleFailure feeds a failed query back into the session. Stale failures
// are discarded; current ones surface the generic error affordance. Errors
// are not retried automatically.
func (s *Session) HandleFailure(req Request, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Generation != s.generation {
		return
	}

	s.state = StateError
	s.renderer.Render(DisplayCommand{Kind: CommandShowError})
}

// State returns the session's current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Skip returns the current pagination cursor
func (s *Session) Skip() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSkip
}

// HasMore reports whether more results are available
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Results returns a copy of the accumulated result set
func (s *Session) Results() []entities.Establecimiento {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Establecimiento(nil), s.results...)
}
