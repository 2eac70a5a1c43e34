package fakeuserrepo

import (
	"sort"
	"sync"

	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users  map[int]*users.User
	nextID int
	lock   sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:  make(map[int]*users.User),
		nextID: 1,
	}
}

func (ur *FakeUserRepo) Upsert(user *users.User) error {
	if user == nil || user.Username == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "upsert user")
	}

	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == 0 {
		user.ID = ur.nextID
	}
	if user.ID >= ur.nextID {
		ur.nextID = user.ID + 1
	}
	ur.users[user.ID] = user.Clone()
	return nil
}

func (ur *FakeUserRepo) GetByID(id int) (*users.User, error) {
	return ur.find(func(u *users.User) bool { return u.ID == id })
}

func (ur *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	return ur.find(func(u *users.User) bool { return u.Username == username })
}

func (ur *FakeUserRepo) GetByAccessToken(token string) (*users.User, error) {
	if token == "" {
		return nil, errors.ErrUserNotFound
	}
	return ur.find(func(u *users.User) bool { return u.AccessToken == token })
}

func (ur *FakeUserRepo) GetByRefreshToken(token string) (*users.User, error) {
	if token == "" {
		return nil, errors.ErrUserNotFound
	}
	return ur.find(func(u *users.User) bool { return u.RefreshToken == token })
}

func (ur *FakeUserRepo) List() ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, u := range ur.users {
		userList = append(userList, u.Clone())
	}
	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})
	return userList, nil
}

func (ur *FakeUserRepo) find(match func(*users.User) bool) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	for _, u := range ur.users {
		if match(u) {
			return u.Clone(), nil
		}
	}
	return nil, errors.ErrUserNotFound
}
