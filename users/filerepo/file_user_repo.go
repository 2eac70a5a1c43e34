// Package filerepo keeps backend accounts in a JSON document on disk, so tokens
// survive a restart of the mock server.
package filerepo

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/users"
)

var _ users.UserRepo = (*FileUserRepo)(nil)

// database is the on-disk layout: {"users": [...]}.
type database struct {
	Users []*users.User `json:"users"`
}

type FileUserRepo struct {
	path string
	lock sync.RWMutex
}

// New opens the database at path, creating an empty one when the file is missing.
func New(path string) (*FileUserRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	r := &FileUserRepo{path: path}

	if _, err := os.Stat(path); stderrors.Is(err, os.ErrNotExist) {
		if err := r.write(&database{Users: []*users.User{}}); err != nil {
			return nil, err
		}
	}
	if _, err := r.read(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileUserRepo) Upsert(user *users.User) error {
	if user == nil || user.Username == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "upsert user")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	db, err := r.read()
	if err != nil {
		return err
	}

	if user.ID == 0 {
		for _, u := range db.Users {
			user.ID = max(user.ID, u.ID)
		}
		user.ID++
	}

	replaced := false
	for i, u := range db.Users {
		if u.ID == user.ID {
			db.Users[i] = user.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		db.Users = append(db.Users, user.Clone())
	}
	sort.Slice(db.Users, func(i, j int) bool { return db.Users[i].ID < db.Users[j].ID })

	return r.write(db)
}

func (r *FileUserRepo) GetByID(id int) (*users.User, error) {
	return r.find(func(u *users.User) bool { return u.ID == id })
}

func (r *FileUserRepo) GetByUsername(username string) (*users.User, error) {
	return r.find(func(u *users.User) bool { return u.Username == username })
}

func (r *FileUserRepo) GetByAccessToken(token string) (*users.User, error) {
	if token == "" {
		return nil, errors.ErrUserNotFound
	}
	return r.find(func(u *users.User) bool { return u.AccessToken == token })
}

func (r *FileUserRepo) GetByRefreshToken(token string) (*users.User, error) {
	if token == "" {
		return nil, errors.ErrUserNotFound
	}
	return r.find(func(u *users.User) bool { return u.RefreshToken == token })
}

func (r *FileUserRepo) List() ([]*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	db, err := r.read()
	if err != nil {
		return nil, err
	}
	return db.Users, nil
}

func (r *FileUserRepo) find(match func(*users.User) bool) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	db, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, u := range db.Users {
		if match(u) {
			return u, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

// read loads the whole document; callers hold the lock.
func (r *FileUserRepo) read() (*database, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", r.path)
	}
	var db database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", r.path)
	}
	return &db, nil
}

func (r *FileUserRepo) write(db *database) error {
	raw, err := json.MarshalIndent(db, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "encoding database")
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrapf(err, "replacing %s", r.path)
	}
	return nil
}
