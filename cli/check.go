package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	clierrors "github.com/soapywu/pbxpatch/errors"
	"github.com/soapywu/pbxpatch/pbxproj"
)

var (
	foundMark   = color.New(color.FgGreen).SprintFunc()
	missingMark = color.New(color.FgRed).SprintFunc()
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which anchors match the project without writing it",
		Example: `  pbxpatch check
  pbxpatch check --project app/ios/Runner.xcodeproj/project.pbxproj`,
		Args: argumentError(cobra.NoArgs),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	patcher, closeLog, err := newPatcher(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	result, err := patcher.Check()
	if err != nil {
		return classifyError(err)
	}

	out := cmd.OutOrStdout()
	for _, step := range pbxproj.Steps {
		if result.Has(step) {
			fmt.Fprintf(out, "%s %s\n", foundMark("✓"), step)
		} else {
			fmt.Fprintf(out, "%s %s: anchor not found\n", missingMark("✗"), step)
		}
	}

	if !result.Complete() {
		return clierrors.NewRuntimeError(
			fmt.Sprintf("%d of %d anchors not found in %s", len(result.Skipped), len(pbxproj.Steps), patcher.FilePath()),
			"override the missing anchors under 'anchors' in .pbxpatch.yml")
	}
	return nil
}
