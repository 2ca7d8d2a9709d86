package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	torchext "github.com/contriboss/torch-extension-go"
)

var (
	buildDir      string
	installPrefix string
	skipInstall   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resolve the plan and build the extension with CMake",
	Long: `Build resolves the extension build plan, verifies the toolchain, runs the
CMake configure/build workflow and installs the produced artifact to the
declared destinations.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildDir, "build-dir", "", "out-of-tree build directory (default <project-root>/build)")
	buildCmd.Flags().StringVar(&installPrefix, "install-prefix", "", "CMake install prefix")
	buildCmd.Flags().BoolVar(&skipInstall, "skip-install", false, "build only, do not place artifacts")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()
	plan, err := resolver.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve build plan: %w", err)
	}
	if plan == nil {
		logger.Info("extension build disabled, nothing to do",
			zap.String("flag", torchext.EnableEnvVar))
		return nil
	}

	dir := buildDir
	if dir == "" {
		dir = filepath.Join(cfg.ProjectRoot, "build")
	}
	builder := &torchext.ExtensionBuilder{
		SourceDir:     cfg.ProjectRoot,
		BuildDir:      dir,
		InstallPrefix: installPrefix,
		Log:           logger,
	}
	if err := builder.CheckTools(); err != nil {
		return fmt.Errorf("build tools missing: %w", err)
	}

	result, err := builder.Build(ctx, &cfg, plan)
	if err != nil {
		if result != nil && cfg.Verbose {
			fmt.Fprintln(os.Stderr, strings.Join(result.Output, "\n"))
		}
		return err
	}

	logger.Info("extension built",
		zap.Strings("artifacts", result.Artifacts))

	if skipInstall {
		return nil
	}

	installed, err := torchext.InstallArtifacts(dir, dir, plan, result.Artifacts)
	if err != nil {
		return fmt.Errorf("failed to install artifacts: %w", err)
	}

	for _, path := range installed {
		fmt.Println(path)
	}
	return nil
}
