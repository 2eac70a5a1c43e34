package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/settings"
)

func withApp(cfg config.Config, run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()
		return run(cmd.Context(), a, args)
	}
}

func loginCmd(cfg config.Config) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the token pair",
		RunE: withApp(cfg, func(ctx context.Context, a *app, _ []string) error {
			if err := a.session.Login(ctx, apimodel.LoginParams{Username: username, Password: password}); err != nil {
				return fmt.Errorf("login: %s", apimodel.MessageOf(err))
			}
			user := a.session.User()
			fmt.Printf("Logged in as %s (%s)\n", user.Nickname, user.Username)
			fmt.Printf("Routes: %d  Tabs: %d\n", len(a.session.Guard().Registry().Routes()), len(a.tabs.Tabs()))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func whoamiCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Fetch the current profile, refreshing the token when needed",
		RunE: withApp(cfg, func(ctx context.Context, a *app, _ []string) error {
			if !a.session.IsAuthenticated() {
				return errors.New("not logged in")
			}
			if err := a.session.FetchProfile(ctx); err != nil {
				return fmt.Errorf("whoami: %s", apimodel.MessageOf(err))
			}
			user := a.session.User()
			fmt.Printf("%-12s %d\n", "id", user.ID)
			fmt.Printf("%-12s %s\n", "username", user.Username)
			fmt.Printf("%-12s %s\n", "nickname", user.Nickname)
			fmt.Printf("%-12s %v\n", "permissions", a.session.Permissions())
			return nil
		}),
	}
}

func burstCmd(cfg config.Config) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "burst",
		Short: "Fire concurrent profile requests and report how many refreshes they caused",
		RunE: withApp(cfg, func(ctx context.Context, a *app, _ []string) error {
			if n < 1 {
				return errors.New("burst: -n must be at least 1")
			}

			start := time.Now()
			var (
				wg     sync.WaitGroup
				mu     sync.Mutex
				failed = map[string]int{}
			)
			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := a.session.FetchProfile(ctx); err != nil {
						mu.Lock()
						failed[apimodel.MessageOf(err)]++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			stats := a.client.Coordinator().Stats()
			fmt.Printf("requests: %d  took: %s\n", n, time.Since(start).Round(time.Millisecond))
			fmt.Printf("refreshes: %d  refresh failures: %d\n", stats.Refreshes, stats.Failures)
			for msg, count := range failed {
				fmt.Printf("failed x%d: %s\n", count, msg)
			}
			if !a.session.IsAuthenticated() {
				fmt.Printf("session ended, now at %s\n", a.history.Current().FullPath())
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&n, "requests", "n", 10, "number of concurrent requests")
	return cmd
}

func logoutCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: withApp(cfg, func(_ context.Context, a *app, _ []string) error {
			if !a.session.IsAuthenticated() {
				fmt.Println("No session")
				return nil
			}
			a.session.Logout("")
			fmt.Printf("Logged out, now at %s\n", a.history.Current().FullPath())
			return nil
		}),
	}
}

func settingsCmd(cfg config.Config) *cobra.Command {
	var (
		theme  string
		layout string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change dashboard settings",
		RunE: withApp(cfg, func(_ context.Context, a *app, _ []string) error {
			var events []settings.Event
			if theme != "" {
				events = append(events, settings.ThemeChanged{Theme: settings.Theme(theme)})
			}
			if layout != "" {
				events = append(events, settings.LayoutChanged{Layout: settings.Layout(layout)})
			}
			if width != 0 {
				events = append(events, settings.SidebarWidthChanged{Width: width})
			}
			for _, ev := range events {
				if err := a.settings.Apply(ev); err != nil {
					return err
				}
			}

			s := a.settings.Settings()
			fmt.Printf("%-14s %s\n", "theme", s.Theme)
			fmt.Printf("%-14s %s\n", "layout", s.Layout)
			fmt.Printf("%-14s %d\n", "sidebar width", s.SidebarWidth)
			return nil
		}),
	}
	cmd.Flags().StringVar(&theme, "theme", "", "light, dark or system")
	cmd.Flags().StringVar(&layout, "layout", "", "vertical or horizontal")
	cmd.Flags().IntVar(&width, "sidebar-width", 0, "sidebar width in pixels")
	return cmd
}
