package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/clinicware/go-clinic-console/internal/errors"
	"github.com/clinicware/go-clinic-console/session"
)

const sessionFileName = "session.json"

// storedSession is the on-disk shape: three named entries and nothing else.
type storedSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
}

var _ session.Store = (*Store)(nil)

// Store persists the session as a JSON file in the data folder, so a login
// survives restarting the console.
type Store struct {
	path string
	lock sync.Mutex
}

func New(dataFolder string) (*Store, error) {
	if err := os.MkdirAll(dataFolder, 0o700); err != nil {
		return nil, errors.Wrapf(err, "filestore.New mkdir %q", dataFolder)
	}
	return &Store{path: filepath.Join(dataFolder, sessionFileName)}, nil
}

func (s *Store) Get() (*session.Session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	stored, err := s.read()
	if err != nil || stored == nil {
		return nil, err
	}
	return &session.Session{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Username:     stored.Username,
	}, nil
}

func (s *Store) Set(sess *session.Session) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.write(&storedSession{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		Username:     sess.Username,
	})
}

func (s *Store) UpdateAccessToken(token string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	stored, err := s.read()
	if err != nil {
		return err
	}
	if stored == nil {
		return errors.ErrNoSession
	}
	stored.AccessToken = token
	return s.write(stored)
}

func (s *Store) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "filestore.Clear %q", s.path)
	}
	return nil
}

func (s *Store) read() (*storedSession, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "filestore read %q", s.path)
	}
	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, errors.Wrapf(err, "filestore decode %q", s.path)
	}
	return &stored, nil
}

func (s *Store) write(stored *storedSession) error {
	data, err := json.Marshal(stored)
	if err != nil {
		return errors.Wrapf(err, "filestore encode")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "filestore write %q", s.path)
	}
	return nil
}
