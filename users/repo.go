package users

// UserRepo stores backend accounts. Getters return copies; changes are saved with Upsert.
// Lookups that miss return errors.ErrUserNotFound.
type UserRepo interface {
	Upsert(user *User) error
	GetByID(id int) (*User, error)
	GetByUsername(username string) (*User, error)
	GetByAccessToken(token string) (*User, error)
	GetByRefreshToken(token string) (*User, error)
	List() ([]*User, error)
}
