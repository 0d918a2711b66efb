// Package shortcut manages global keyboard shortcuts. Each registered
// accelerator gets a numeric identifier; presses are queued and drained
// by the owning event loop, which reports them to the host.
package shortcut

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.design/x/hotkey"
)

// ErrConflict is returned when the key combination is already taken,
// either by this process or by another application.
var ErrConflict = errors.New("shortcut: key combination already registered")

// ErrInvalid is returned when the accelerator string cannot be parsed.
var ErrInvalid = errors.New("shortcut: invalid key combination")

// ErrUnknown is returned when an identifier matches no registration.
var ErrUnknown = errors.New("shortcut: no such registration")

// binding abstracts one OS-level key registration so tests can use a
// mock instead of the real CGo-backed implementation.
type binding interface {
	Register() error
	Unregister() error
	Keydown() <-chan struct{}
}

// realBinding wraps golang.design/x/hotkey. The hotkey.Hotkey is
// created lazily in Register to avoid spawning CGo goroutines at
// construction time.
type realBinding struct {
	hk        *hotkey.Hotkey
	mods      []hotkey.Modifier
	key       hotkey.Key
	relay     chan struct{}
	closeOnce sync.Once
}

func newRealBinding(accel string) (binding, error) {
	mods, key, err := parseAccelerator(accel)
	if err != nil {
		return nil, err
	}
	return &realBinding{mods: mods, key: key}, nil
}

func (r *realBinding) Register() error {
	r.hk = hotkey.New(r.mods, r.key)
	if err := r.hk.Register(); err != nil {
		// Release OS-level state so the abandoned object does not leak
		// its monitor goroutine.
		_ = r.hk.Unregister()
		r.hk = nil
		return ErrConflict
	}
	// Buffered relay; rapid presses beyond the buffer are dropped.
	r.relay = make(chan struct{}, 4)
	src := r.hk.Keydown()
	go func() {
		for range src {
			select {
			case r.relay <- struct{}{}:
			default:
			}
		}
		r.closeOnce.Do(func() { close(r.relay) })
	}()
	return nil
}

func (r *realBinding) Unregister() error {
	if r.hk == nil {
		return nil
	}
	return r.hk.Unregister()
}

func (r *realBinding) Keydown() <-chan struct{} { return r.relay }

type entry struct {
	id      uint32
	accel   string
	binding binding
	cancel  chan struct{}
}

// Manager owns a set of global shortcut registrations. It belongs to an
// application instance; nothing here is process-global. All methods are
// safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	nextID  uint32
	entries map[uint32]*entry
	byAccel map[string]uint32

	triggers chan uint32
	notify   func()
	factory  func(accel string) (binding, error)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithNotify installs a hook called after each press is queued, so the
// owner can wake its event loop and drain promptly.
func WithNotify(fn func()) ManagerOption {
	return func(m *Manager) { m.notify = fn }
}

// withFactory swaps the binding constructor (tests only).
func withFactory(f func(accel string) (binding, error)) ManagerOption {
	return func(m *Manager) { m.factory = f }
}

// NewManager creates an empty Manager backed by the OS hotkey API.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		entries:  make(map[uint32]*entry),
		byAccel:  make(map[string]uint32),
		triggers: make(chan uint32, 16),
		factory:  newRealBinding,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register parses accel, claims the key combination, and returns its
// identifier. Identifiers are never reused within a Manager. A
// combination already held by this Manager or by another application
// fails with ErrConflict; an unparseable accelerator with ErrInvalid.
func (m *Manager) Register(accel string) (uint32, error) {
	norm, err := normalizeAccelerator(accel)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byAccel[norm]; taken {
		return 0, fmt.Errorf("%w: %q held by this application", ErrConflict, norm)
	}
	b, err := m.factory(norm)
	if err != nil {
		return 0, err
	}
	if err := b.Register(); err != nil {
		return 0, err
	}

	m.nextID++
	e := &entry{id: m.nextID, accel: norm, binding: b, cancel: make(chan struct{})}
	m.entries[e.id] = e
	m.byAccel[norm] = e.id
	log.Printf("shortcut: %s registered as #%d", norm, e.id)

	keydown := b.Keydown()
	go func() {
		for {
			select {
			case <-e.cancel:
				return
			case _, ok := <-keydown:
				if !ok {
					return
				}
				select {
				case m.triggers <- e.id:
				default:
					log.Printf("shortcut: #%d press dropped, queue full", e.id)
				}
				if m.notify != nil {
					m.notify()
				}
			}
		}
	}()
	return e.id, nil
}

// Unregister releases one registration. Presses already queued for it
// still surface.
func (m *Manager) Unregister(id uint32) error {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok {
		delete(m.entries, id)
		delete(m.byAccel, e.accel)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: #%d", ErrUnknown, id)
	}
	close(e.cancel)
	if err := e.binding.Unregister(); err != nil {
		return fmt.Errorf("shortcut: release %s: %w", e.accel, err)
	}
	log.Printf("shortcut: %s (#%d) unregistered", e.accel, id)
	return nil
}

// UnregisterAll releases every registration.
func (m *Manager) UnregisterAll() {
	m.mu.Lock()
	all := make([]*entry, 0, len(m.entries))
	for _, e := range m.entries {
		all = append(all, e)
	}
	m.entries = make(map[uint32]*entry)
	m.byAccel = make(map[string]uint32)
	m.mu.Unlock()
	for _, e := range all {
		close(e.cancel)
		if err := e.binding.Unregister(); err != nil {
			log.Printf("shortcut: release %s: %v", e.accel, err)
		}
	}
}

// Triggered exposes the press queue for hosts that prefer to select on
// it directly.
func (m *Manager) Triggered() <-chan uint32 { return m.triggers }

// Simulate queues a synthetic press for id and fires the notify hook,
// exactly as a real press would. Useful in tests and for hosts that
// synthesize activations.
func (m *Manager) Simulate(id uint32) {
	select {
	case m.triggers <- id:
	default:
		log.Printf("shortcut: simulated #%d dropped, queue full", id)
	}
	if m.notify != nil {
		m.notify()
	}
}

// TryNext dequeues one pending press without blocking.
func (m *Manager) TryNext() (uint32, bool) {
	select {
	case id := <-m.triggers:
		return id, true
	default:
		return 0, false
	}
}

// IsRegistered reports whether id is currently registered.
func (m *Manager) IsRegistered(id uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[id]
	return ok
}

// Accelerator returns the normalized combination behind id.
func (m *Manager) Accelerator(id uint32) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return "", false
	}
	return e.accel, true
}
