package internal

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	torchext "github.com/contriboss/torch-extension-go"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "torchext",
	Short: "torchext resolves and builds the torchrl native Python extension",
	Long: `torchext is the build resolver for the torchrl C++ extension module.
It discovers the installed torch framework, resolves platform-specific
naming and link flags, and can drive the CMake build of the extension.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default torchext.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("torchext")
		viper.AddConfigPath(".")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// The feature gate keeps its historical environment name.
	_ = viper.BindEnv("build-python-extension", torchext.EnableEnvVar)

	// A missing config file is fine; env vars and flags still apply.
	_ = viper.ReadInConfig()
}

// loadConfig builds a BuildConfig from defaults, config file and env.
func loadConfig() (torchext.BuildConfig, error) {
	cfg := torchext.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	return cfg, nil
}

// newLogger builds the CLI logger: human-readable, debug level when verbose.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}
