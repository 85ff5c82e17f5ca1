// Package designer owns the interactive state of a rack layout: the project
// tree, in-flight drags, the pending click-to-place selection and the
// current selection. Every placement decision is delegated to the engine
// package; the session only sequences them and reports rejections.
//
// A Session is safe for use from multiple goroutines. Each operation runs
// under the session lock, so readers such as the autosaver always observe a
// fully resolved project.
package designer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
	"github.com/amassoud-ap34/rack-designer/internal/project"
)

// ErrUnknownElement is returned for IDs that are not in the project.
var ErrUnknownElement = errors.New("unknown element")

// ErrUnknownRack is returned for rack IDs that are not in the project.
var ErrUnknownRack = errors.New("unknown rack")

// Notifier shows non-fatal messages to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Prompter asks the user for text. The reply callback may be invoked later,
// from any goroutine; ok is false when the user cancelled.
type Prompter interface {
	RequestText(label, current string, reply func(text string, ok bool))
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier sets the receiver of user-facing rejection messages.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithPrompter sets the collaborator used for renames.
func WithPrompter(p Prompter) Option {
	return func(s *Session) { s.prompter = p }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithConfig applies rack naming and canvas settings.
func WithConfig(cfg model.AppConfig) Option {
	return func(s *Session) { s.cfg = cfg }
}

// Session is the designer state for one workspace.
type Session struct {
	mu sync.Mutex

	project  *model.Project
	cfg      model.AppConfig
	notifier Notifier
	prompter Prompter
	logger   *log.Logger

	pending  *pendingSelection
	drags    map[string]*dragOrigin
	selected string
	nextRack int
	revision uint64

	outbox    []string
	changed   bool
	listeners []func()
}

// New returns a session with an empty project.
func New(opts ...Option) *Session {
	s := &Session{
		project:  model.NewProject(),
		cfg:      model.DefaultAppConfig(),
		drags:    map[string]*dragOrigin{},
		nextRack: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.cfg.RackNamePrefix == "" {
		s.cfg.RackNamePrefix = model.DefaultAppConfig().RackNamePrefix
	}
	return s
}

// lock acquires the session and returns the release function. Messages and
// change callbacks queued while locked are delivered after unlocking.
func (s *Session) lock() func() {
	s.mu.Lock()
	return func() {
		msgs := s.outbox
		s.outbox = nil
		changed := s.changed
		s.changed = false
		listeners := append([]func(){}, s.listeners...)
		notifier := s.notifier
		s.mu.Unlock()

		if notifier != nil {
			for _, m := range msgs {
				notifier.Notify(m)
			}
		}
		if changed {
			for _, fn := range listeners {
				fn()
			}
		}
	}
}

func (s *Session) touch() {
	s.changed = true
	s.revision++
}

// reject queues the user-facing message of a rejected placement.
func (s *Session) reject(err error) error {
	if errors.Is(err, engine.ErrNoTarget) {
		return err
	}
	s.logger.Debug("placement rejected", "err", err)
	s.outbox = append(s.outbox, err.Error())
	return err
}

// OnChange registers fn to run after every operation that modified the project.
func (s *Session) OnChange(fn func()) {
	defer s.lock()()
	s.listeners = append(s.listeners, fn)
}

// Revision increases on every change.
func (s *Session) Revision() uint64 {
	defer s.lock()()
	return s.revision
}

// View runs fn with the live project under the session lock. fn must not
// call back into the session or retain the pointer.
func (s *Session) View(fn func(p *model.Project)) {
	defer s.lock()()
	fn(s.project)
}

// Snapshot returns a deep copy of the project.
func (s *Session) Snapshot() *model.Project {
	defer s.lock()()
	return s.project.Clone()
}

// Serialize encodes the project in the versioned file format.
func (s *Session) Serialize() ([]byte, error) {
	defer s.lock()()
	return project.Serialize(s.project)
}

// LoadProject replaces the workspace with a decoded document. On a format
// error the current workspace is left untouched.
func (s *Session) LoadProject(data []byte) error {
	p, err := project.Deserialize(data)
	if err != nil {
		return err
	}
	s.Replace(p)
	return nil
}

// Replace installs p as the workspace and clears all transient state.
func (s *Session) Replace(p *model.Project) {
	defer s.lock()()
	if p == nil {
		p = model.NewProject()
	}
	s.project = p
	s.pending = nil
	s.drags = map[string]*dragOrigin{}
	s.selected = ""
	s.nextRack = len(p.Racks) + 1
	s.touch()
	s.logger.Info("workspace loaded", "racks", len(p.Racks), "devices", p.DeviceCount())
}

// Reset clears the workspace.
func (s *Session) Reset() {
	s.Replace(model.NewProject())
}

func (s *Session) element(id string) (*model.Element, error) {
	el := s.project.Element(id)
	if el == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	return el, nil
}

func (s *Session) rack(id string) (*model.Rack, error) {
	r := s.project.Rack(id)
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRack, id)
	}
	return r, nil
}
