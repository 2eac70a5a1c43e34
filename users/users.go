package users

import (
	"slices"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-admin-session/apimodel"
)

// User is a backend account together with its current token pair.
// Only one pair is live per user: login and refresh overwrite it.
type User struct {
	ID                    int             `json:"id"`
	Username              string          `json:"username"`
	PasswordHash          string          `json:"passwordHash"`
	Nickname              string          `json:"nickname"`
	Avatar                string          `json:"avatar"`
	RoleID                int             `json:"roleId"`
	AccessToken           string          `json:"accessToken,omitempty"`
	AccessTokenExpiresAt  time.Time       `json:"accessTokenExpiresAt,omitzero"`
	RefreshToken          string          `json:"refreshToken,omitempty"`
	RefreshTokenExpiresAt time.Time       `json:"refreshTokenExpiresAt,omitzero"`
	Menus                 []apimodel.Menu `json:"menus"`
	Permissions           []string        `json:"permissions"`
}

// Info is the profile sent to clients. Password and tokens are left out.
func (u *User) Info() apimodel.UserInfo {
	menus := u.Menus
	if menus == nil {
		menus = []apimodel.Menu{}
	}
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return apimodel.UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Nickname:    u.Nickname,
		Avatar:      u.Avatar,
		RoleID:      u.RoleID,
		Menus:       menus,
		Permissions: perms,
	}
}

// Clone returns a copy that shares no slices with u.
func (u *User) Clone() *User {
	c := *u
	c.Menus = cloneMenus(u.Menus)
	c.Permissions = slices.Clone(u.Permissions)
	return &c
}

func cloneMenus(menus []apimodel.Menu) []apimodel.Menu {
	if menus == nil {
		return nil
	}
	out := make([]apimodel.Menu, len(menus))
	for i, m := range menus {
		out[i] = m
		out[i].Children = cloneMenus(m.Children)
	}
	return out
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
