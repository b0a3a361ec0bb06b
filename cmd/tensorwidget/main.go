package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tensorflow/tensorboard-sub001/internal/cli"
	"github.com/tensorflow/tensorboard-sub001/internal/config"
	"github.com/tensorflow/tensorboard-sub001/internal/highlight"
	"github.com/tensorflow/tensorboard-sub001/internal/history"
	"github.com/tensorflow/tensorboard-sub001/internal/keybinds"
	"github.com/tensorflow/tensorboard-sub001/internal/logging"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
	"github.com/tensorflow/tensorboard-sub001/internal/tui"
)

var (
	version = "0.1.0"
)

// settings and logCloser are set by the root command's PersistentPreRunE
var (
	settings  config.Settings
	logCloser io.Closer
)

func main() {
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tensorwidget [file]",
	Short: "Tensor viewer for the terminal",
	Long: `tensorwidget shows the values of n-dimensional tensors as a scrollable grid.

Two dimensions are viewed as rows and columns, every other dimension is
pinned to one index. Swap viewing dimensions, step through pinned indices,
select ranges and copy them as tab-separated values.

Supported files: .safetensors, .json, .yaml, .yml (nested arrays; use
--query to pick arrays out of a larger document).

Examples:
  tensorwidget model.safetensors               # Open the TUI
  tensorwidget model.safetensors -t encoder.w  # Open a specific tensor
  tensorwidget run.json -q 'layers[0].weights' # Pick arrays with JMESPath
  tensorwidget inspect model.safetensors       # List tensors as JSON
  tensorwidget stats model.safetensors         # Health pills of every tensor
  tensorwidget slice model.safetensors --index 0=3 --rows 10 --cols 6`,
	Version:           version,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveFile(args)
		if err != nil {
			return err
		}
		return runTUI(path)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List the tensors of a file with dtype, shape and default slicing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Inspect(cli.InspectOptions{
			Path:   args[0],
			Query:  flagQuery,
			Filter: flagFilter,
			Color:  !flagNoColor && highlight.IsTerminal(os.Stdout),
			Out:    os.Stdout,
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print value statistics for every tensor of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workers := settings.StatsWorkers
		if flagWorkers > 0 {
			workers = flagWorkers
		}
		return cli.Stats(cmd.Context(), cli.StatsOptions{
			Path:      args[0],
			Query:     flagQuery,
			Workers:   workers,
			Precision: precision(),
			Out:       os.Stdout,
		})
	},
}

var sliceCmd = &cobra.Command{
	Use:   "slice <file>",
	Short: "Print one window of a tensor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Slice(cmd.Context(), cli.SliceOptions{
			Path:      args[0],
			Query:     flagQuery,
			Tensor:    flagTensor,
			Indices:   flagIndices,
			SwapRows:  flagSwapRows,
			SwapCols:  flagSwapCols,
			Rows:      flagRows,
			Cols:      flagCols,
			RowStart:  flagRowStart,
			ColStart:  flagColStart,
			Precision: precision(),
			CellWidth: settings.CellWidth,
			ColumnGap: settings.ColumnGap,
			Out:       os.Stdout,
		})
	},
}

var specsCmd = &cobra.Command{
	Use:   "specs",
	Short: "Manage stored slicing specs",
}

var specsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored slicing specs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(mgr *history.Manager) error {
			return cli.ListSpecs(mgr, os.Stdout, flagJSON)
		})
	},
}

var specsClearCmd = &cobra.Command{
	Use:   "clear [file]",
	Short: "Delete the stored slicing specs of a file, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if len(args) > 0 {
			source = args[0]
		}
		return withStore(func(mgr *history.Manager) error {
			return cli.ClearSpecs(mgr, source, os.Stdout)
		})
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Manage keybindings",
}

var keybindsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default keybindings to keybinds.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.KeybindsFile); err == nil && !flagForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.KeybindsFile)
		}
		if err := keybinds.CreateExampleConfig(config.KeybindsFile); err != nil {
			return fmt.Errorf("failed to write keybindings: %w", err)
		}
		fmt.Printf("Wrote %s\n", config.KeybindsFile)
		return nil
	},
}

var keybindsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate keybinds.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := keybinds.LoadConfig(config.KeybindsFile)
		if os.IsNotExist(err) {
			fmt.Println("No keybinds.json, using defaults")
			return nil
		}
		if err != nil {
			return err
		}
		result := keybinds.NewValidator().ValidateConfig(cfg)
		fmt.Println(result.String())
		if result.HasErrors() {
			return fmt.Errorf("keybinds.json has %d errors", len(result.Errors))
		}
		return nil
	},
}

// Global flags
var (
	flagVerbose   bool
	flagConfigDir string
)

// Flags for commands reading tensor files
var (
	flagTensor    string
	flagQuery     string
	flagNoRestore bool
	flagPrecision int
)

// Flags for inspect, stats and slice
var (
	flagFilter   string
	flagNoColor  bool
	flagWorkers  int
	flagIndices  []string
	flagRows     int
	flagCols     int
	flagRowStart int
	flagColStart int
	flagSwapRows int
	flagSwapCols int
)

// Flags for specs and keybinds
var (
	flagJSON  bool
	flagForce bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Write debug messages to the log file")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "Configuration directory (default ~/.tensorwidget)")

	rootCmd.Flags().StringVarP(&flagTensor, "tensor", "t", "", "Tensor to open")
	rootCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath selecting arrays in JSON and YAML files")
	rootCmd.Flags().BoolVar(&flagNoRestore, "no-restore", false, "Ignore stored slicing specs")
	rootCmd.Flags().IntVarP(&flagPrecision, "precision", "p", -1, "Decimals shown for float values")

	inspectCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath selecting arrays in JSON and YAML files")
	inspectCmd.Flags().StringVarP(&flagFilter, "filter", "f", "", "JMESPath applied to the output")
	inspectCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable syntax highlighting")

	statsCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath selecting arrays in JSON and YAML files")
	statsCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "Tensors summarized at once (default from settings)")
	statsCmd.Flags().IntVarP(&flagPrecision, "precision", "p", -1, "Decimals shown for float values")

	sliceCmd.Flags().StringVarP(&flagTensor, "tensor", "t", "", "Tensor to print")
	sliceCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath selecting arrays in JSON and YAML files")
	sliceCmd.Flags().StringArrayVarP(&flagIndices, "index", "i", []string{}, "Pin a sliced dimension (dim=index), can be repeated")
	sliceCmd.Flags().IntVar(&flagRows, "rows", 20, "Rows to print")
	sliceCmd.Flags().IntVar(&flagCols, "cols", 8, "Columns to print")
	sliceCmd.Flags().IntVar(&flagRowStart, "row-start", 0, "First row")
	sliceCmd.Flags().IntVar(&flagColStart, "col-start", 0, "First column")
	sliceCmd.Flags().IntVar(&flagSwapRows, "swap-rows", cli.NoSwap, "View this sliced dimension as rows")
	sliceCmd.Flags().IntVar(&flagSwapCols, "swap-cols", cli.NoSwap, "View this sliced dimension as columns")
	sliceCmd.Flags().IntVarP(&flagPrecision, "precision", "p", -1, "Decimals shown for float values")

	specsListCmd.Flags().BoolVar(&flagJSON, "json", false, "Print as JSON")
	keybindsInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing keybinds.json")

	specsCmd.AddCommand(specsListCmd, specsClearCmd)
	keybindsCmd.AddCommand(keybindsInitCmd, keybindsCheckCmd)
	rootCmd.AddCommand(inspectCmd, statsCmd, sliceCmd, specsCmd, keybindsCmd)
}

// setup initializes configuration, settings and logging for every command
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfigDir != "" {
		err = config.InitializeAt(flagConfigDir)
	} else {
		err = config.Initialize()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	logCloser, err = logging.Setup(config.LogFile, flagVerbose)
	if err != nil {
		return err
	}

	settings, err = config.LoadSettings(config.SettingsFile)
	if err != nil {
		return err
	}
	log.Debugf("running %s with settings %+v", cmd.CommandPath(), settings)
	return nil
}

func precision() int {
	if flagPrecision >= 0 {
		return flagPrecision
	}
	return settings.Precision
}

func withStore(fn func(*history.Manager) error) error {
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return err
	}
	defer mgr.Close()
	return fn(mgr)
}

// resolveFile returns the file to open. Without an argument the working
// directory must hold exactly one supported file.
func resolveFile(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	entries, err := os.ReadDir(".")
	if err != nil {
		return "", err
	}
	var candidates []string
	for _, e := range entries {
		if !e.IsDir() && tensor.IsSupported(e.Name()) {
			candidates = append(candidates, e.Name())
		}
	}
	sort.Strings(candidates)

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no tensor file given and none found in the working directory")
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("several tensor files found, pick one: %s", strings.Join(candidates, ", "))
	}
}

// runTUI opens the interactive viewer
func runTUI(path string) error {
	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}
	if result := keybinds.NewValidator().ValidateRegistry(registry); result.HasWarnings() {
		log.Warnf("keybinding issues:\n%s", result)
	}

	var store *history.Manager
	if settings.RestoreSpecs && !flagNoRestore {
		store, err = history.NewManager(config.DatabasePath)
		if err != nil {
			// Viewing still works without the store
			log.Warnf("spec store unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	s := settings
	s.Precision = precision()

	return tui.Run(tui.Options{
		Path:     filepath.Clean(path),
		Tensor:   flagTensor,
		Query:    flagQuery,
		Settings: s,
		Keybinds: registry,
		Store:    store,
	})
}
