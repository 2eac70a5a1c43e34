// Package routes holds the dashboard's route table, the permission guard that
// unlocks routes from the user's menus, and an in-memory navigator.
package routes

import (
	"net/url"
	"strings"
)

const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	PathNotFound  = "/404"

	NameLayout    = "Layout"
	NameDashboard = "Dashboard"
	NameLogin     = "Login"
	NameNotFound  = "NotFound"
	NameRedirect  = "Redirect"

	// QueryRedirect carries the path to return to after login.
	QueryRedirect = "redirect"
)

type Meta struct {
	Title       string
	Icon        string
	IsAffix     bool
	IsCache     bool
	IsWhiteList bool
}

type Route struct {
	Name string
	Path string
	Meta Meta
}

// StaticRoutes are always present.
var StaticRoutes = []Route{
	{Name: NameDashboard, Path: PathDashboard, Meta: Meta{Title: "仪表盘", Icon: "icon-dashboard"}},
	{Name: NameLogin, Path: PathLogin, Meta: Meta{Title: "登录", IsWhiteList: true}},
	{Name: NameNotFound, Path: PathNotFound, Meta: Meta{Title: "页面不存在", IsWhiteList: true}},
}

// DefaultCatalog lists the pages a menu can unlock, keyed by route name.
var DefaultCatalog = []Route{
	{Name: "System", Path: "/system"},
	{Name: "SystemUser", Path: "/system/user", Meta: Meta{Title: "用户管理"}},
	{Name: "SystemRole", Path: "/system/role", Meta: Meta{Title: "角色管理"}},
	{Name: "SystemMenu", Path: "/system/menu", Meta: Meta{Title: "菜单管理"}},
	{Name: "Profile", Path: "/profile", Meta: Meta{Title: "个人中心"}},
}

// Location is a navigation target.
type Location struct {
	Name    string
	Path    string
	Query   url.Values
	Meta    Meta
	Replace bool
}

// ParseLocation splits "/path?query" into a Location.
func ParseLocation(raw string) Location {
	path, rawQuery, _ := strings.Cut(raw, "?")
	if path == "" {
		path = PathRoot
	}
	query, _ := url.ParseQuery(rawQuery)
	if len(query) == 0 {
		query = nil
	}
	return Location{Path: path, Query: query}
}

// FullPath is the path with its encoded query.
func (l Location) FullPath() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// LoginLocation is the login page, remembering redirect unless it is the login page itself.
func LoginLocation(redirect string) Location {
	loc := Location{Name: NameLogin, Path: PathLogin, Meta: Meta{Title: "登录", IsWhiteList: true}}
	if redirect != "" && ParseLocation(redirect).Path != PathLogin {
		loc.Query = url.Values{QueryRedirect: []string{redirect}}
	}
	return loc
}
