// Package cli builds the stowng command line.
package cli

import (
	"os"

	"github.com/arthur-debert/stowng/internal/version"
	"github.com/arthur-debert/stowng/pkg/config"
	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/farmer"
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/arthur-debert/stowng/pkg/output"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootFlags holds every option of the stow action
type rootFlags struct {
	dir    string
	target string

	stow   []string
	delete []string
	restow []string

	ignore   []string
	deferRe  []string
	override []string

	adopt     bool
	noFolding bool
	dotfiles  bool
	compat    bool
	simulate  bool
	logFile   bool

	verbosity int
	output    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootFlags{})
}

func newRootCmd(f *rootFlags) *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "stowng [flags] [PACKAGE...]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerWithOptions(logging.Options{
				Verbosity: f.verbosity,
				Out:       cmd.ErrOrStderr(),
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStow(cmd, f, args)
		},
		ValidArgsFunction: packageCompletion(f),
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&f.dir, "dir", "d", "", MsgFlagDir)
	flags.StringVarP(&f.target, "target", "t", "", MsgFlagTarget)
	flags.StringSliceVarP(&f.stow, "stow", "S", nil, MsgFlagStow)
	flags.StringSliceVarP(&f.delete, "delete", "D", nil, MsgFlagDelete)
	flags.StringSliceVarP(&f.restow, "restow", "R", nil, MsgFlagRestow)
	// regexps may contain commas, so these are never split
	flags.StringArrayVar(&f.ignore, "ignore", nil, MsgFlagIgnore)
	flags.StringArrayVar(&f.deferRe, "defer", nil, MsgFlagDefer)
	flags.StringArrayVar(&f.override, "override", nil, MsgFlagOverride)
	flags.BoolVar(&f.adopt, "adopt", false, MsgFlagAdopt)
	flags.BoolVar(&f.noFolding, "no-folding", false, MsgFlagNoFolding)
	flags.BoolVar(&f.dotfiles, "dotfiles", false, MsgFlagDotfiles)
	flags.BoolVarP(&f.compat, "compat", "p", false, MsgFlagCompat)
	flags.BoolVarP(&f.simulate, "simulate", "n", false, MsgFlagSimulate)
	flags.BoolVar(&f.simulate, "no", false, MsgFlagSimulate)
	_ = flags.MarkHidden("no")
	flags.BoolVar(&f.logFile, "log-file", false, MsgFlagLogFile)

	rootCmd.PersistentFlags().CountVarP(&f.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&f.output, "output", "o", "auto", MsgFlagOutput)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newGenConfigCmd())

	if err := initTopics(rootCmd); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// Execute runs the command line and returns the process exit status
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// conflicts were already reported with the plan
		if !errors.IsErrorCode(err, errors.ErrConflicts) {
			reportError(rootCmd, err)
		}
		return 1
	}
	return 0
}

func reportError(cmd *cobra.Command, err error) {
	format := output.FormatText
	if file, ok := cmd.ErrOrStderr().(*os.File); ok {
		format = output.DetectFormat(file)
	}
	renderer, rerr := output.NewRenderer(cmd.ErrOrStderr(), format)
	if rerr != nil {
		return
	}
	_ = renderer.RenderError(err)
}

// configFlags returns the config layer of the flags that were given on the
// command line
func (f *rootFlags) configFlags(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Flags()
	set := make(map[string]interface{})

	add := func(name, key string, value interface{}) {
		if flags.Changed(name) {
			set[key] = value
		}
	}
	add("dir", "dir", f.dir)
	add("target", "target", f.target)
	add("ignore", "ignore", f.ignore)
	add("defer", "defer", f.deferRe)
	add("override", "override", f.override)
	add("adopt", "adopt", f.adopt)
	add("no-folding", "no_folding", f.noFolding)
	add("dotfiles", "dotfiles", f.dotfiles)
	add("compat", "compat", f.compat)
	add("simulate", "simulate", f.simulate)
	add("no", "simulate", f.simulate)
	add("log-file", "log_file", f.logFile)
	add("verbose", "verbose", f.verbosity)
	add("output", "output", f.output)
	return set
}

func runStow(cmd *cobra.Command, f *rootFlags, args []string) error {
	logger := logging.GetLogger("cli")

	cfg, err := config.Load(config.LoadOptions{Flags: f.configFlags(cmd)})
	if err != nil {
		return err
	}
	logging.SetupLoggerWithOptions(logging.Options{
		Verbosity: cfg.Verbose,
		LogFile:   cfg.LogFile,
		Out:       cmd.ErrOrStderr(),
	})

	patterns, err := cfg.Patterns()
	if err != nil {
		return err
	}
	format, err := resolveFormat(cmd, cfg.Output)
	if err != nil {
		return err
	}

	stowPkgs := append(append([]string{}, args...), f.stow...)
	unstowPkgs := append(append([]string{}, f.delete...), f.restow...)
	stowPkgs = append(stowPkgs, f.restow...)
	if len(stowPkgs) == 0 && len(unstowPkgs) == 0 {
		return errors.New(errors.ErrInvalidInput, MsgErrNoPackages)
	}

	logger.Info().
		Strs("stow", stowPkgs).
		Strs("unstow", unstowPkgs).
		Bool("simulate", cfg.Simulate).
		Msg("Starting run")

	farm, err := farmer.New(farmer.Options{
		StowDir:        cfg.Dir,
		TargetDir:      cfg.Target,
		Adopt:          cfg.Adopt,
		NoFolding:      cfg.NoFolding,
		Dotfiles:       cfg.Dotfiles,
		Compat:         cfg.Compat,
		Simulate:       cfg.Simulate,
		Defer:          patterns.Defer,
		Override:       patterns.Override,
		IgnorePatterns: patterns.Ignore,
	})
	if err != nil {
		return err
	}

	if err := farm.PlanUnstow(unstowPkgs); err != nil {
		return err
	}
	if err := farm.PlanStow(stowPkgs); err != nil {
		return err
	}

	report := output.NewReport(farm.ConflictList(), farm.Tasks())
	report.StowDir = farm.Paths().StowDir
	report.TargetDir = farm.Paths().TargetDir
	report.Simulate = cfg.Simulate

	if report.HasConflicts() {
		if err := render(cmd, format, report); err != nil {
			return err
		}
		return errors.New(errors.ErrConflicts, MsgErrAborted).
			WithDetail("count", farm.ConflictCount())
	}

	if !cfg.Simulate {
		results, err := farm.ProcessTasks()
		if err != nil {
			return err
		}
		report.Applied = true
		logger.Info().Int("tasks", len(results)).Msg("Run completed")

		// plain text stays silent on success unless asked to talk
		if format == output.FormatText && cfg.Verbose == 0 {
			return nil
		}
	}

	return render(cmd, format, report)
}

// resolveFormat turns the output option into a concrete format. Auto only
// picks styled output when stdout is a real terminal.
func resolveFormat(cmd *cobra.Command, name string) (output.Format, error) {
	format, err := output.ParseFormat(name)
	if err != nil {
		return format, err
	}
	if file, ok := cmd.OutOrStdout().(*os.File); ok {
		return output.ResolveFormat(format, file), nil
	}
	if format == output.FormatAuto {
		return output.FormatText, nil
	}
	return format, nil
}

// render writes the report. Human readable conflict reports go to stderr.
func render(cmd *cobra.Command, format output.Format, report *output.Report) error {
	w := cmd.OutOrStdout()
	if report.HasConflicts() && !format.Structured() {
		w = cmd.ErrOrStderr()
	}

	renderer, err := output.NewRenderer(w, format)
	if err != nil {
		return err
	}
	return renderer.Render(report)
}
