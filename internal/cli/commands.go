package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/stowng/internal/version"
	"github.com/arthur-debert/stowng/pkg/config"
	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stowng version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(stowng completion bash)

Zsh:
  $ stowng completion zsh > "${fpath[1]}/_stowng"

Fish:
  $ stowng completion fish | source

PowerShell:
  PS> stowng completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  MsgManShort,
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "STOWNG",
				Section: "1",
				Source:  "stowng " + version.Version,
				Manual:  "stowng manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "gen-config",
		Short: MsgGenConfigShort,
		Long:  MsgGenConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.GenerateConfigContent()
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			xdg.Reload()
			path, err := xdg.ConfigFile(config.ConfigFileName)
			if err != nil {
				return errors.Wrap(err, errors.ErrFileAccess, "cannot locate the configuration directory")
			}
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrAlreadyExists, MsgErrConfigExists, path).
					WithDetail("path", path)
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

// packageCompletion completes package names from the stow directory
func packageCompletion(f *rootFlags) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.Load(config.LoadOptions{Flags: f.configFlags(cmd)})
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		resolved, err := paths.Resolve(cfg.Dir, cfg.Target)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		entries, err := os.ReadDir(resolved.StowDir)
		if err != nil {
			log.Debug().Err(err).Msg("Cannot list packages")
			return nil, cobra.ShellCompDirectiveError
		}

		given := make(map[string]bool, len(args))
		for _, arg := range args {
			given[arg] = true
		}

		var names []string
		for _, entry := range entries {
			name := entry.Name()
			if !entry.IsDir() || strings.HasPrefix(name, ".") || given[name] {
				continue
			}
			names = append(names, name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
