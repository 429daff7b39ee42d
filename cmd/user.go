package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/http/registry"
	"github.com/benedict-erwin/auth-gateway/internal/app"
	entity "github.com/benedict-erwin/auth-gateway/internal/entities/accounts"
	"github.com/benedict-erwin/auth-gateway/internal/repository/users"
	"github.com/benedict-erwin/auth-gateway/pkg/auth"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/utils"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts in the user store",
	Long:  `Create accounts with any role (e.g. the first ADMIN) and look accounts up by email`,
}

var userCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create an account",
	Example: `  auth-gateway user create --username root --email root@example.com --password '...' --role ADMIN`,
	RunE:    runUserCreate,
}

var userShowCmd = &cobra.Command{
	Use:   "show [email]",
	Short: "Show an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserShow,
}

var (
	userUsername string
	userEmail    string
	userPassword string
	userRole     string
)

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userShowCmd)

	userCreateCmd.Flags().StringVarP(&userUsername, "username", "u", "", "Username (required)")
	userCreateCmd.Flags().StringVarP(&userEmail, "email", "e", "", "Email (required)")
	userCreateCmd.Flags().StringVarP(&userPassword, "password", "p", "", "Password (required)")
	userCreateCmd.Flags().StringVarP(&userRole, "role", "r", string(auth.RoleUser), "Role: USER or ADMIN")
	userCreateCmd.MarkFlagRequired("username")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("password")
}

// accountDeps opens the user store configured for the auth-service
func accountDeps() (*app.Dependencies, error) {
	cfg := *config.Get()
	// the CLI never enqueues audit events
	cfg.Asynq.Enabled = false
	return app.New(&cfg, config.ModeAuth)
}

// runUserCreate creates an account with the requested role
func runUserCreate(cmd *cobra.Command, args []string) error {
	role, err := auth.ParseRole(userRole)
	if err != nil {
		return err
	}

	req := entity.RegisterRequest{
		Username: userUsername,
		Email:    userEmail,
		Password: userPassword,
	}
	if err := registry.NewValidator().Validate(&req); err != nil {
		return fmt.Errorf("%s", registry.ValidationMessage(err))
	}

	deps, err := accountDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u, err := deps.Accounts.CreateWithRole(ctx, req, role)
	if errors.Is(err, users.ErrEmailTaken) {
		fmt.Printf("❌ Email already exists: %s\n", userEmail)
		return err
	}
	if err != nil {
		return err
	}

	logger.WithScope("userCreate").Info().Int64("user_id", u.ID).Str("role", role.String()).Msg("User created")
	printUser(u)
	return nil
}

// runUserShow prints an account without its password hash
func runUserShow(cmd *cobra.Command, args []string) error {
	deps, err := accountDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u, err := deps.Accounts.Lookup(ctx, args[0])
	if errors.Is(err, users.ErrUserNotFound) {
		fmt.Printf("❌ User not found: %s\n", args[0])
		return err
	}
	if err != nil {
		return err
	}

	printUser(u)
	return nil
}

func printUser(u *users.User) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"ID", "Username", "Email", "Role", "Authority", "Created"})
	table.Append([]string{
		strconv.FormatInt(u.ID, 10),
		u.Username,
		u.Email,
		u.Role.String(),
		string(auth.DeriveAuthority(u.Role)),
		utils.FormatTime(u.CreatedAt),
	})
	table.Render()
}
