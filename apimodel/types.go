package apimodel

// LoginParams is the body of POST /auth/login.
type LoginParams struct {
	// Username of the account. Required.
	Username string `json:"username"`

	// Password in clear text. Required.
	Password string `json:"password"`
}

// RefreshTokenParams is the body of POST /auth/refresh.
type RefreshTokenParams struct {
	// RefreshToken previously issued by login or refresh. Required.
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is returned by login and refresh.
// Both tokens rotate on every refresh; the previous refresh token becomes invalid.
type TokenPair struct {
	// AccessToken is sent raw in the Authorization header.
	// Example: "admin-access-3f9a0c1e5b7d4a2c8e6f1a3b5c7d9e0f"
	AccessToken string `json:"accessToken"`

	// RefreshToken exchanges for a new pair at /auth/refresh.
	// Example: "admin-refresh-0a1b2c3d4e5f60718293a4b5c6d7e8f9"
	RefreshToken string `json:"refreshToken"`
}

// MenuType distinguishes directories, pages and buttons in the menu tree.
type MenuType int

const (
	MenuTypeDirectory MenuType = 1
	MenuTypePage      MenuType = 2
	MenuTypeButton    MenuType = 3
)

// Menu is one node of the permission-derived navigation tree.
// Flags (Status, IsExternal, IsCache, IsAffix) use 1 for true and 0 for false.
type Menu struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"` // Route name the node unlocks
	Type       MenuType `json:"type"`
	Path       *string  `json:"path,omitempty"`
	Sort       int      `json:"sort"`
	ParentID   int      `json:"parentId"`
	Status     int      `json:"status"`
	Title      string   `json:"title"`
	Icon       *string  `json:"icon,omitempty"`
	IsExternal int      `json:"isExternal"`
	IsCache    int      `json:"isCache"`
	IsAffix    int      `json:"isAffix"`
	Children   []Menu   `json:"children,omitempty"`
}

// UserInfo is returned by GET /user/info. Sensitive fields never leave the backend.
type UserInfo struct {
	ID          int      `json:"id"`
	Username    string   `json:"username"`
	Nickname    string   `json:"nickname"`
	Avatar      string   `json:"avatar"`
	RoleID      int      `json:"roleId"`
	Menus       []Menu   `json:"menus"`
	Permissions []string `json:"permissions"`
}

// FlattenMenus returns every node of the tree in depth-first pre-order.
func FlattenMenus(menus []Menu) []Menu {
	result := make([]Menu, 0, len(menus))
	var traverse func([]Menu)
	traverse = func(list []Menu) {
		for _, m := range list {
			result = append(result, m)
			if len(m.Children) > 0 {
				traverse(m.Children)
			}
		}
	}
	traverse(menus)
	return result
}
