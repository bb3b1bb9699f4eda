// Package cli implements the pbxpatch command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/soapywu/pbxpatch/config"
	clierrors "github.com/soapywu/pbxpatch/errors"
	"github.com/soapywu/pbxpatch/logger"
	"github.com/soapywu/pbxpatch/pbxproj"
)

var successLine = color.New(color.FgGreen, color.Bold).SprintfFunc()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pbxpatch",
		Short: "Register GoogleService-Info.plist in a Flutter iOS Xcode project",
		Long: `pbxpatch adds a resource file to ios/Runner.xcodeproj/project.pbxproj.

It inserts a file reference, a build file, a child of the Runner group and an
entry of the Resources build phase, each placed by text anchors taken from the
Flutter iOS template. The rest of the project file is left byte for byte as it
was.`,
		Example: `  # Register ios/Runner/GoogleService-Info.plist from the Flutter app root
  pbxpatch

  # Print the patched project instead of writing it
  pbxpatch --dry-run

  # Fail when any anchor is missing
  pbxpatch --strict --project app/ios/Runner.xcodeproj/project.pbxproj`,
		Args:          argumentError(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPatch,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default .pbxpatch.yml)")
	flags.StringP("project", "p", "", "path to project.pbxproj (default "+pbxproj.DEFAULT_PROJECT_PATH+")")
	flags.StringP("resource", "r", "", "resource path written into the project (default "+pbxproj.DEFAULT_RESOURCE+")")
	flags.String("resource-file", "", "property list on disk to validate before patching")
	flags.Bool("strict", false, "fail when any anchor is missing")
	flags.Bool("dry-run", false, "print the patched project to stdout instead of writing it")
	flags.Bool("avoid-collisions", false, "never reuse an identifier already present in the project")
	flags.Bool("debug", false, "enable debug logging")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierrors.Wrap(err, clierrors.Argument, "run 'pbxpatch --help' to list the flags")
	})
	cmd.AddCommand(newCheckCmd())
	return cmd
}

// argumentError categorizes the errors of a cobra argument validator.
func argumentError(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return clierrors.Wrap(err, clierrors.Argument,
				"pbxpatch takes no arguments; use --project and --resource")
		}
		return nil
	}
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		clierrors.FprintError(os.Stderr, err)
	}
	return err
}

// loadConfig layers command line flags over the file, environment and
// defaults.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "loading config",
			"check the YAML syntax of "+configFileName(configPath))
	}

	if flags.Changed("project") {
		cfg.Project, _ = flags.GetString("project")
	}
	if flags.Changed("resource") {
		cfg.Resource.Name, _ = flags.GetString("resource")
	}
	if flags.Changed("resource-file") {
		cfg.Resource.File, _ = flags.GetString("resource-file")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("dry-run") {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("avoid-collisions") {
		cfg.AvoidCollisions, _ = flags.GetBool("avoid-collisions")
	}
	if flags.Changed("debug") {
		cfg.Log.Debug, _ = flags.GetBool("debug")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configFileName(path string) string {
	if path == "" {
		return config.DefaultConfigPath
	}
	return path
}

// newPatcher returns the patcher and a func closing its log file.
func newPatcher(cmd *cobra.Command, cfg *config.Configuration) (*pbxproj.PbxPatcher, func() error, error) {
	log, closeLog, err := logger.New(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return nil, nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "creating log directory",
			"set 'log.dir' to a writable directory")
	}

	options := []pbxproj.PbxPatcherOption{
		pbxproj.WithResource(cfg.NewResource()),
		pbxproj.WithAnchors(cfg.Anchors),
		pbxproj.WithStrict(cfg.Strict),
		pbxproj.WithAvoidCollisions(cfg.AvoidCollisions),
		pbxproj.WithLogger(log),
	}
	if cfg.Resource.File != "" {
		options = append(options, pbxproj.WithResourceFile(cfg.Resource.File))
	}
	if cfg.DryRun {
		options = append(options, pbxproj.WithDryRun(cmd.OutOrStdout()))
	}
	return pbxproj.NewPbxPatcher(cfg.Project, options...), closeLog, nil
}

func runPatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	patcher, closeLog, err := newPatcher(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	result, err := patcher.Patch(cmd.Context())
	if err != nil {
		return classifyError(err)
	}

	// the patched document owns stdout on a dry run
	out := cmd.OutOrStdout()
	if cfg.DryRun {
		out = cmd.ErrOrStderr()
	}
	printReport(out, patcher.Resource(), result)
	return nil
}

func printReport(out io.Writer, resource *pbxproj.PbxResource, result pbxproj.Result) {
	fmt.Fprintln(out, successLine("✅ %s added to the Xcode project!", resource.Basename))
	fmt.Fprintf(out, "FileRef UUID: %s\n", result.FileRef)
	fmt.Fprintf(out, "BuildFile UUID: %s\n", result.BuildFile)
}

// classifyError attaches a category and remediation to errors coming out of
// the patcher.
func classifyError(err error) error {
	switch {
	case errors.Is(err, pbxproj.ErrAnchorNotFound):
		return clierrors.Wrap(err, clierrors.Runtime,
			"run 'pbxpatch check' to see which anchors match",
			"override the missing anchors under 'anchors' in "+config.DefaultConfigPath)
	case errors.Is(err, pbxproj.ErrInvalidResource):
		return clierrors.Wrap(err, clierrors.Prerequisite,
			"download GoogleService-Info.plist again from the Firebase console")
	case errors.Is(err, pbxproj.ErrMissingResource):
		return clierrors.Wrap(err, clierrors.Prerequisite,
			"download GoogleService-Info.plist from the Firebase console into ios/Runner",
			"or pass --resource-file with its path")
	case errors.Is(err, fs.ErrNotExist):
		return clierrors.Wrap(err, clierrors.Prerequisite,
			"run pbxpatch from the root of the Flutter app",
			"or pass --project with the path to project.pbxproj")
	case errors.Is(err, context.Canceled):
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "interrupted, project left unchanged")
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}
