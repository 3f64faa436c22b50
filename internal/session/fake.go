package session

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FakeMultiplexer is an in-memory Multiplexer for tests.
type FakeMultiplexer struct {
	sessions map[string]fakeSession

	// Attached records every Attach call in order.
	Attached []string
	// Killed records every Kill call in order.
	Killed []string
}

type fakeSession struct {
	dir          string
	command      string
	lastActivity time.Time
}

// NewFakeMultiplexer creates an empty fake.
func NewFakeMultiplexer() *FakeMultiplexer {
	return &FakeMultiplexer{sessions: make(map[string]fakeSession)}
}

// AddSession registers a live session with the given last-activity time.
func (f *FakeMultiplexer) AddSession(name string, lastActivity time.Time) {
	f.sessions[name] = fakeSession{lastActivity: lastActivity}
}

// Command returns the entry command a session was started with.
func (f *FakeMultiplexer) Command(name string) string {
	return f.sessions[name].command
}

// Dir returns the directory a session was started in.
func (f *FakeMultiplexer) Dir(name string) string {
	return f.sessions[name].dir
}

func (f *FakeMultiplexer) NewSession(name, dir, command string) error {
	if _, ok := f.sessions[name]; ok {
		return fmt.Errorf("duplicate session %s", name)
	}
	f.sessions[name] = fakeSession{dir: dir, command: command, lastActivity: time.Now()}
	return nil
}

func (f *FakeMultiplexer) HasSession(name string) bool {
	_, ok := f.sessions[name]
	return ok
}

func (f *FakeMultiplexer) List(prefix string) ([]Session, error) {
	var out []Session
	for name, s := range f.sessions {
		if strings.HasPrefix(name, prefix) {
			out = append(out, Session{Name: name, LastActivity: s.lastActivity})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeMultiplexer) Attach(name string) error {
	if !f.HasSession(name) {
		return fmt.Errorf("no session %s", name)
	}
	f.Attached = append(f.Attached, name)
	return nil
}

func (f *FakeMultiplexer) Kill(name string) error {
	if !f.HasSession(name) {
		return fmt.Errorf("no session %s", name)
	}
	delete(f.sessions, name)
	f.Killed = append(f.Killed, name)
	return nil
}
