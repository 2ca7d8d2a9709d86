package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	torchext "github.com/contriboss/torch-extension-go"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Resolve and print the extension build plan",
	Long: `Plan runs the resolution pipeline for the host platform and prints the
resulting target configuration without building anything. With the feature
flag off it prints nothing and exits zero.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	resolver := torchext.NewResolver(cfg)
	resolver.Log = logger

	plan, err := resolver.Resolve(context.Background())
	if err != nil {
		return fmt.Errorf("failed to resolve build plan: %w", err)
	}
	if plan == nil {
		fmt.Printf("extension build disabled (set %s=1 to enable)\n", torchext.EnableEnvVar)
		return nil
	}

	printPlan(plan)
	return nil
}

func printPlan(plan *torchext.BuildPlan) {
	fmt.Printf("profile:       %s\n", plan.Profile)
	fmt.Printf("artifact:      %s\n", plan.ArtifactFileName())
	fmt.Printf("sources:       %s\n", strings.Join(plan.Sources, ", "))
	fmt.Printf("include dirs:  %s\n", strings.Join(plan.IncludeDirs, ", "))
	if len(plan.SearchPrefixes) > 0 {
		fmt.Printf("prefixes:      %s\n", strings.Join(plan.SearchPrefixes, ", "))
	}
	if len(plan.LinkFlags) > 0 {
		fmt.Printf("link flags:    %s\n", strings.Join(plan.LinkFlags, " "))
	}
	fmt.Printf("libraries:     %s\n", strings.Join(plan.LinkLibraries, ", "))
	for _, rule := range plan.InstallRules {
		fmt.Printf("install:       %s -> %s\n", rule.Kind, rule.Dest)
	}
	fmt.Printf("\nlink command:\n  %s\n", torchext.LinkCommand(plan))
	fmt.Printf("\ncmake defines:\n  %s\n", strings.Join(torchext.CMakeDefines(plan), "\n  "))
}
