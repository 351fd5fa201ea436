package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Token helpers",
	}

	cmd.AddCommand(newAuthSetTokenCmd())
	cmd.AddCommand(newAuthInspectCmd(opts))
	return cmd
}

func newAuthSetTokenCmd() *cobra.Command {
	var (
		token       string
		profileName string
	)

	cmd := &cobra.Command{
		Use:   "set-token",
		Short: "Store a workspace token in a configuration profile",
		Long:  "Store a Databricks token in the named profile. Without --token the value is read from a hidden prompt so it never lands in shell history.",
		Example: `  # Prompt for the token and save it to the active profile
  laketrace auth set-token

  # Save a token to a named profile
  laketrace auth set-token --token dapi... --profile staging`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if token == "" {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("--token is required when stdin is not a terminal")
				}
				_, _ = fmt.Fprint(os.Stderr, "Token: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				_, _ = fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("read token: %w", err)
				}
				token = strings.TrimSpace(string(raw))
			}
			if token == "" {
				return fmt.Errorf("token is empty")
			}

			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = &UserConfig{Profiles: make(map[string]Profile)}
			}
			name := profileName
			if name == "" {
				name = cfg.CurrentProfile
			}
			if name == "" {
				name = "default"
				cfg.CurrentProfile = name
			}
			if cfg.Profiles == nil {
				cfg.Profiles = make(map[string]Profile)
			}
			p := cfg.Profiles[name]
			p.Token = token
			cfg.Profiles[name] = p
			if err := SaveUserConfig(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Token saved to profile %q (%s)\n", name, ConfigPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Token value (prompted when omitted)")
	cmd.Flags().StringVar(&profileName, "profile", "", "Profile to store the token in (default: active profile)")

	return cmd
}

func newAuthInspectCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show details of the effective token",
		Long:  "Decode the resolved token as an unverified JWT and print its claims. Opaque tokens (personal access tokens) print a redacted prefix instead.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := opts.token
			if token == "" {
				return fmt.Errorf("no token configured: pass --token, set LAKETRACE_TOKEN, or run 'laketrace auth set-token'")
			}

			claims := jwt.MapClaims{}
			if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
				// Personal access tokens are opaque strings, not JWTs.
				if getOutputFormat(cmd) == "json" {
					return printJSON(os.Stdout, map[string]string{
						"kind":  "opaque",
						"token": maskSecret(token),
					})
				}
				_, _ = fmt.Fprintf(os.Stdout, "Opaque token %s (not a JWT)\n", maskSecret(token))
				return nil
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{
					"kind":   "jwt",
					"claims": map[string]interface{}(claims),
				})
			}

			keys := make([]string, 0, len(claims))
			for k := range claims {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				_, _ = fmt.Fprintf(os.Stdout, "%-6s %v\n", k, claims[k])
			}

			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				if exp.Before(time.Now()) {
					_, _ = fmt.Fprintf(os.Stdout, "\nToken expired %s ago\n", time.Since(exp.Time).Round(time.Second))
				} else {
					_, _ = fmt.Fprintf(os.Stdout, "\nToken expires in %s\n", time.Until(exp.Time).Round(time.Second))
				}
			}
			return nil
		},
	}

	return cmd
}
