package repofake

import (
	"sync"

	"github.com/clinicware/go-clinic-console/internal/errors"
	"github.com/clinicware/go-clinic-console/session"
)

var _ session.Store = (*FakeSessionStore)(nil)

type FakeSessionStore struct {
	current *session.Session
	lock    sync.RWMutex

	// SetCalls and ClearCalls count writes for assertions.
	SetCalls   int
	ClearCalls int
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{}
}

func (f *FakeSessionStore) Get() (*session.Session, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	if f.current == nil {
		return nil, nil
	}
	copied := *f.current
	return &copied, nil
}

func (f *FakeSessionStore) Set(s *session.Session) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	copied := *s
	f.current = &copied
	f.SetCalls++
	return nil
}

func (f *FakeSessionStore) UpdateAccessToken(token string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.current == nil {
		return errors.ErrNoSession
	}
	f.current.AccessToken = token
	return nil
}

func (f *FakeSessionStore) Clear() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.current = nil
	f.ClearCalls++
	return nil
}
