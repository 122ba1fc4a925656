// Package root contains the root command for the application
package root

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/meat-stats/internal/config"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	Workbook   string
	OutputDir  string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger once the root command has initialized.
	Log = logging.NewDiscardLogger()

	// AppContainer holds the wired dependencies of the running command.
	AppContainer *container.Container

	// SharedFlags are the persistent flags of every command.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "meat-stats",
		Short: "Normalize the USDA meat statistics workbook and fetch US population data.",
		Long: `meat-stats reads the USDA livestock and meat statistics workbook, turns its
worksheets into tidy monthly series, derives slaughter weights, rolls them up to
years and renders charts. It can also fetch the yearly US population from the
Census Bureau API.`,
		SilenceUsage:      true,
		PersistentPreRunE: initialize,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if AppContainer == nil {
				return nil
			}
			return AppContainer.Close()
		},
	}
)

// Init registers the persistent flags of the root command.
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches ~/.meat-stats, .meat-stats and .)")
	flags.StringVarP(&SharedFlags.Workbook, "workbook", "w", "", "Path to the statistics workbook (.xlsx)")
	flags.StringVarP(&SharedFlags.OutputDir, "output", "o", "", "Output directory (default: current directory)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format: text or json")
}

func initialize(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadEnv(); err != nil {
		return err
	}

	cfg, err := config.InitializeConfigFrom(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(SharedFlags.LogLevel)
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = strings.ToLower(SharedFlags.LogFormat)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	AppContainer = c
	Log = c.GetLogger()
	Log.Debug("Initialized", logging.F("command", cmd.Name()))
	return nil
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return AppContainer, nil
}

// WorkbookPath returns the workbook given on the command line, or the one
// from the configuration.
func WorkbookPath(cfg *config.Config) (string, error) {
	path := SharedFlags.Workbook
	if path == "" {
		path = cfg.Workbook.Path
	}
	if path == "" {
		return "", fmt.Errorf("no workbook given: use --workbook or set workbook.path")
	}
	return path, nil
}

// OutputPath places a file name in the output directory.
func OutputPath(name string) string {
	if SharedFlags.OutputDir == "" {
		return name
	}
	return filepath.Join(SharedFlags.OutputDir, name)
}
