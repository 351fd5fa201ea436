package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"laketrace/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions holds the resolved persistent flag values shared by all
// commands. Resolution order is flag > environment > profile > default.
type rootOptions struct {
	host        string
	token       string
	workspaceID string
	output      string
	profile     string
}

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var apiErr *domain.APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.Status
			}
			_ = printJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "laketrace",
		Short:         "Databricks table lineage explorer",
		Long:          "Query a workspace's lineage-tracking API and flatten one hop of table lineage into rows.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load config from profile if flags/env not set
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}

			p := cfg.ActiveProfile(opts.profile)

			// Apply precedence: flag > env > profile > default
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("LAKETRACE_HOST"); v != "" {
					opts.host = v
				} else if p.Host != "" {
					opts.host = p.Host
				}
			}
			if !cmd.Flags().Changed("token") {
				if v := os.Getenv("LAKETRACE_TOKEN"); v != "" {
					opts.token = v
				} else if p.Token != "" {
					opts.token = p.Token
				}
			}
			if !cmd.Flags().Changed("workspace-id") {
				if v := os.Getenv("LAKETRACE_WORKSPACE_ID"); v != "" {
					opts.workspaceID = v
				} else if p.WorkspaceID != "" {
					opts.workspaceID = p.WorkspaceID
				}
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("LAKETRACE_OUTPUT"); v != "" {
					opts.output = v
				} else if p.Output != "" {
					opts.output = p.Output
				}
			}

			return validateOutputFormat(opts.output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.host, "host", "", "Workspace instance (e.g. adb-123.azuredatabricks.net)")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", "", "Workspace API token")
	rootCmd.PersistentFlags().StringVar(&opts.workspaceID, "workspace-id", "", "Workspace ID used in pipeline links")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, csv, markdown)")
	rootCmd.PersistentFlags().StringVarP(&opts.profile, "profile", "p", "", "Config profile to use")

	rootCmd.AddCommand(newLineageCmd(opts))
	rootCmd.AddCommand(newAuthCmd(opts))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
