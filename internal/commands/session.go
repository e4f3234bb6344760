package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finbook/internal/config"
	"finbook/internal/core"
	"finbook/internal/restapi"
	"finbook/internal/services"
	"finbook/internal/session"
)

func newLoginCommand() *cobra.Command {
	var (
		email    string
		userID   string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a local session for a stored user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" && userID == "" {
				return fmt.Errorf("--email or --user is required")
			}

			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			api, err := restapi.New(cfg.APIBaseURL, cfg.APITimeout)
			if err != nil {
				return fmt.Errorf("init data store client: %w", err)
			}
			users := services.NewUserService(api)

			var user core.User
			if userID != "" {
				user, err = users.Get(cmd.Context(), userID)
			} else {
				user, err = users.FindByEmail(cmd.Context(), email)
			}
			if err != nil {
				return err
			}

			store := session.NewStore(cfg.SessionPath)
			if err := store.Save(session.Session{
				User:       user,
				UserID:     user.ID,
				LoggedIn:   true,
				RememberMe: remember,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.Name, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the stored user")
	cmd.Flags().StringVar(&userID, "user", "", "id of the stored user")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep the session for 30 days instead of 24 hours")

	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := session.NewStore(cfg.SessionPath).Clear(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			sess, ok, err := session.NewStore(cfg.SessionPath).Load()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", sess.User.Name, sess.UserID)
			return nil
		},
	}
}

// resolveUserID prefers the explicit flag, falling back to the stored
// session so seeded data lands on the signed-in user.
func resolveUserID(cfg *config.Config, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	sess, ok, err := session.NewStore(cfg.SessionPath).Load()
	if err != nil {
		return "", err
	}
	if !ok || sess.UserID == "" {
		return "", fmt.Errorf("--user is required when no session is active (run finbook login)")
	}
	return sess.UserID, nil
}
