package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/pkg/auth"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/utils"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue and inspect bearer tokens",
	Long:  `Issue tokens with the configured secret, inspect tokens and generate signing secrets`,
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a token",
	Example: `  auth-gateway token issue --subject alice --email alice@example.com --role USER
  auth-gateway token issue --subject root --email root@example.com --role ADMIN --ttl 15m`,
	RunE: runTokenIssue,
}

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect [token]",
	Short: "Show the claims of a token and why it would be rejected",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenInspect,
}

var tokenSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a random signing secret for jwt.secret",
	// does not need a loadable configuration
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	RunE:             runTokenSecret,
}

var (
	tokenSubject string
	tokenEmail   string
	tokenRole    string
	tokenTTL     time.Duration
	secretBytes  int
)

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)
	tokenCmd.AddCommand(tokenInspectCmd)
	tokenCmd.AddCommand(tokenSecretCmd)

	tokenIssueCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "", "Username carried in sub (required)")
	tokenIssueCmd.Flags().StringVarP(&tokenEmail, "email", "e", "", "Email claim (required)")
	tokenIssueCmd.Flags().StringVarP(&tokenRole, "role", "r", string(auth.RoleUser), "Role: USER or ADMIN")
	tokenIssueCmd.Flags().DurationVarP(&tokenTTL, "ttl", "t", 0, "Lifetime (default: jwt.ttl)")
	tokenIssueCmd.MarkFlagRequired("subject")
	tokenIssueCmd.MarkFlagRequired("email")

	tokenSecretCmd.Flags().IntVarP(&secretBytes, "bytes", "b", 48, "Number of random bytes")
}

// runTokenIssue prints a token signed with the configured secret
func runTokenIssue(cmd *cobra.Command, args []string) error {
	role, err := auth.ParseRole(tokenRole)
	if err != nil {
		return err
	}

	issuer, err := auth.NewIssuer(config.Get().JWT.AuthConfig())
	if err != nil {
		return err
	}

	ttl := issuer.TTL()
	if tokenTTL > 0 {
		ttl = tokenTTL
	}

	token, err := issuer.IssueWithTTL(tokenSubject, tokenEmail, role, ttl)
	if err != nil {
		return err
	}

	logger.WithScope("tokenIssue").Info().
		Str("subject", tokenSubject).
		Str("role", role.String()).
		Dur("ttl", ttl).
		Msg("Token issued")

	fmt.Println(token)
	return nil
}

// runTokenInspect prints the verified claims and the validation outcome
func runTokenInspect(cmd *cobra.Command, args []string) error {
	validator, err := auth.NewValidator(config.Get().JWT.AuthConfig())
	if err != nil {
		return err
	}

	token := args[0]
	claims, err := validator.ExtractClaims(token)
	if err != nil {
		fmt.Printf("❌ Token cannot be read: %v\n", err)
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Claim", "Value"})
	table.Append([]string{"jti", claims.ID})
	table.Append([]string{"sub", claims.Subject})
	table.Append([]string{"email", claims.Email})
	table.Append([]string{"role", string(claims.Role)})
	table.Append([]string{"iss", claims.Issuer})
	table.Append([]string{"aud", fmt.Sprint([]string(claims.Audience))})
	table.Append([]string{"iat", formatClaimTime(claims.IssuedAt)})
	table.Append([]string{"nbf", formatClaimTime(claims.NotBefore)})
	table.Append([]string{"exp", formatClaimTime(claims.ExpiresAt)})
	table.Render()

	if err := validator.Check(token); err != nil {
		fmt.Printf("\n❌ Rejected: %v\n", err)
		return nil
	}
	fmt.Printf("\n✅ Valid, authority %s\n", auth.DeriveAuthority(claims.Role))
	return nil
}

// runTokenSecret prints a secret long enough for HS256
func runTokenSecret(cmd *cobra.Command, args []string) error {
	if secretBytes < auth.MinSigningKeyLength {
		return fmt.Errorf("--bytes must be at least %d", auth.MinSigningKeyLength)
	}
	secret, err := utils.RandomSecret(secretBytes)
	if err != nil {
		return err
	}

	fmt.Println(secret)
	fmt.Fprintf(os.Stderr, "\nSet it with %s_JWT_SECRET or jwt.secret in .config.json\n", config.EnvPrefix)
	return nil
}

func formatClaimTime(d *jwt.NumericDate) string {
	if d == nil {
		return "-"
	}
	return utils.FormatTime(d.Time)
}
