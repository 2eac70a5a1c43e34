package users

import (
	"fmt"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/internal/utils"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "123456"

// AdminMenus is the full menu tree of the seeded admin.
func AdminMenus() []apimodel.Menu {
	return []apimodel.Menu{
		{
			ID: 1, Name: "System", Type: apimodel.MenuTypeDirectory, Path: utils.Ptr("/system"),
			Sort: 1, Status: 1, Title: "系统管理", Icon: utils.Ptr("icon-setting"),
			Children: []apimodel.Menu{
				{ID: 2, ParentID: 1, Name: "SystemUser", Type: apimodel.MenuTypePage, Path: utils.Ptr("/system/user"), Sort: 1, Status: 1, Title: "用户管理", Icon: utils.Ptr("icon-user"), IsCache: 1, IsAffix: 1},
				{ID: 3, ParentID: 1, Name: "SystemRole", Type: apimodel.MenuTypePage, Path: utils.Ptr("/system/role"), Sort: 2, Status: 1, Title: "角色管理", Icon: utils.Ptr("icon-role"), IsCache: 1},
				{ID: 4, ParentID: 1, Name: "SystemMenu", Type: apimodel.MenuTypePage, Path: utils.Ptr("/system/menu"), Sort: 3, Status: 1, Title: "菜单管理", Icon: utils.Ptr("icon-menu")},
			},
		},
		{ID: 5, Name: "Profile", Type: apimodel.MenuTypePage, Path: utils.Ptr("/profile"), Sort: 2, Status: 1, Title: "个人中心", Icon: utils.Ptr("icon-profile")},
	}
}

// Seed returns the default accounts: admin with every page and test with the profile page only.
func Seed() ([]*User, error) {
	hash, err := HashPassword(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing seed password: %w", err)
	}

	return []*User{
		{
			ID:           1,
			Username:     "admin",
			PasswordHash: hash,
			Nickname:     "超级管理员",
			Avatar:       "https://api.dicebear.com/7.x/avataaars/svg?seed=admin",
			RoleID:       1,
			Menus:        AdminMenus(),
			Permissions:  []string{"system:user:list", "system:user:add", "system:user:edit", "system:user:delete", "system:role:list", "system:menu:list"},
		},
		{
			ID:           2,
			Username:     "test",
			PasswordHash: hash,
			Nickname:     "测试用户",
			Avatar:       "https://api.dicebear.com/7.x/avataaars/svg?seed=test",
			RoleID:       2,
			Menus:        AdminMenus()[1:],
			Permissions:  []string{"system:user:list"},
		},
	}, nil
}

// SeedRepo upserts the default accounts into repo when it holds no users.
func SeedRepo(repo UserRepo) error {
	existing, err := repo.List()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seeded, err := Seed()
	if err != nil {
		return err
	}
	for _, u := range seeded {
		if err := repo.Upsert(u); err != nil {
			return fmt.Errorf("seeding %s: %w", u.Username, err)
		}
	}
	return nil
}
