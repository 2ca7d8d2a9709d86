package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	torchext "github.com/contriboss/torch-extension-go"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the build toolchain is available",
	Long: `Check verifies that the host interpreter and the CMake toolchain the build
needs are on PATH, without resolving or building anything.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	requirements := torchext.ResolverTools(&cfg)
	builder := &torchext.ExtensionBuilder{SourceDir: cfg.ProjectRoot}
	requirements = append(requirements, builder.RequiredTools()...)

	if err := torchext.CheckRequiredTools(requirements); err != nil {
		return err
	}

	fmt.Println("all required tools found")
	return nil
}
