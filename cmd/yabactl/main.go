package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yourusername/yabactl/internal/config"
	"github.com/yourusername/yabactl/internal/entity"
	"github.com/yourusername/yabactl/internal/gateway"
	"github.com/yourusername/yabactl/internal/logging"
	"github.com/yourusername/yabactl/internal/notify"
	"github.com/yourusername/yabactl/internal/output"
	"github.com/yourusername/yabactl/internal/reconcile"
	"github.com/yourusername/yabactl/internal/selector"
	"github.com/yourusername/yabactl/internal/wm"
)

var (
	configPath string
	yabaiPath  string
	timeout    time.Duration
	jsonOutput bool
	noColor    bool
	noNotify   bool
	debugMode  bool

	// Color functions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	keyColor     = color.New(color.FgYellow)
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "yabactl",
	Short: "Keep yabai spaces labeled, placed, and ordered",
	Long: `yabactl is a wrapper around the yabai message interface that keeps
spaces in order: every declared space exists, carries its label, sits on its
preferred display, and displays list their spaces in ascending label order.

Space declarations live in ~/.config/yabactl/config.yaml.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		return logging.Init(debugMode)
	},
}

// prepareCmd converges the whole machine to the declared layout
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Create, label, place, and order all declared spaces",
	Long: `Makes the live space set match the declaration: excess spaces are
relabeled or destroyed, missing spaces are created, every space moves to its
preferred display (clamped to the last connected display when fewer are
attached), and each display is sorted by label.

Failures on individual spaces are reported at the end; the rest of the pass
still runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			printError(err.Error())
			return err
		}

		engine, err := reconcile.NewEngine(newGateway(cfg), cfg.Spaces)
		if err != nil {
			printError(err.Error())
			return err
		}

		result, err := engine.Prepare(context.Background())
		if result != nil {
			printResult(result)
		}
		if err != nil {
			printError(err.Error())
			return err
		}
		notifier(cfg).Post("yabactl", "Prepared spaces")
		if aggErr := result.Err(); aggErr != nil {
			printError(aggErr.Error())
			return aggErr
		}
		successColor.Println("✓ All spaces converged")
		return nil
	},
}

var sortCheck bool

// sortDisplayCmd sorts the spaces of one display
var sortDisplayCmd = &cobra.Command{
	Use:   "sort-display [display]",
	Short: "Sort spaces on a display by label",
	Long: `Restores ascending label order among the spaces of the given display
(current display if omitted). Accepts an arrangement index or a direction
keyword (north, south, east, west, prev, next, first, last, recent, mouse).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := ""
		if len(args) == 1 {
			raw = args[0]
		}
		sel, err := selector.Parse(wm.KindDisplay, raw)
		if err != nil {
			printError(err.Error())
			return err
		}

		ctx := context.Background()
		gw := newGateway(nil)
		display, err := entity.DisplayFromSelector(ctx, gw, sel)
		if err != nil {
			printError(err.Error())
			return err
		}

		if sortCheck {
			sorted, err := reconcile.CheckSorted(ctx, gw, display)
			if err != nil {
				printError(err.Error())
				return err
			}
			if sorted {
				successColor.Println("✓ Display is sorted")
				return nil
			}
			printError("display is not sorted")
			return fmt.Errorf("display %d is not sorted", display.ID())
		}

		moves, err := reconcile.Sort(ctx, gw, display)
		if err != nil {
			printError(err.Error())
			return err
		}
		successColor.Printf("✓ Display sorted (%d moves)\n", moves)
		return nil
	},
}

// sortDisplaysCmd sorts every display
var sortDisplaysCmd = &cobra.Command{
	Use:   "sort-displays",
	Short: "Sort spaces on all displays by label",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		gw := newGateway(nil)
		displays, err := selector.NewResolver(gw).AllDisplays(ctx)
		if err != nil {
			printError(err.Error())
			return err
		}

		var failed bool
		for i := range displays {
			display := entity.DisplayFromProps(gw, &displays[i])
			moves, err := reconcile.Sort(ctx, gw, display)
			if err != nil {
				failed = true
				printError(fmt.Sprintf("display %d: %v", displays[i].Index, err))
				continue
			}
			infoColor.Printf("display %d: %d moves\n", displays[i].Index, moves)
		}
		if failed {
			return fmt.Errorf("some displays could not be sorted")
		}
		successColor.Println("✓ All displays sorted")
		return nil
	},
}

// spaceToDisplayCmd sends the current space to a display, keeping order
var spaceToDisplayCmd = &cobra.Command{
	Use:   "space-to-display <display>",
	Short: "Send the current space to a display and re-sort it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selector.Parse(wm.KindDisplay, args[0])
		if err != nil {
			printError(err.Error())
			return err
		}

		ctx := context.Background()
		cfg := tryLoadConfig()
		gw := newGateway(cfg)

		space, err := entity.SpaceFromSelector(ctx, gw, selector.Current())
		if err != nil {
			printError(err.Error())
			return err
		}
		display, err := entity.DisplayFromSelector(ctx, gw, sel)
		if err != nil {
			printError(err.Error())
			return err
		}

		if _, err := reconcile.MoveSpaceToDisplay(ctx, gw, space, display); err != nil {
			printError(err.Error())
			return err
		}
		if err := display.Focus(ctx); err != nil {
			printError(err.Error())
			return err
		}

		props, err := display.Props(ctx)
		if err == nil {
			notifier(cfg).Post("Moving space", fmt.Sprintf("To display %d", props.Index))
		}
		successColor.Println("✓ Space moved")
		return nil
	},
}

// windowToSpaceCmd sends the current window to a space
var windowToSpaceCmd = &cobra.Command{
	Use:   "window-to-space <space>",
	Short: "Send the current window to a space and focus that space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selector.Parse(wm.KindSpace, args[0])
		if err != nil {
			printError(err.Error())
			return err
		}

		ctx := context.Background()
		cfg := tryLoadConfig()
		gw := newGateway(cfg)

		window, err := entity.WindowFromSelector(ctx, gw, selector.Current())
		if err != nil {
			printError(err.Error())
			return err
		}
		space, err := entity.SpaceFromSelector(ctx, gw, sel)
		if err != nil {
			printError(err.Error())
			return err
		}
		props, err := space.Props(ctx)
		if err != nil {
			printError(err.Error())
			return err
		}

		if err := window.SendToSpace(ctx, props.Index); err != nil {
			printError(err.Error())
			return err
		}
		if err := space.Focus(ctx); err != nil {
			printError(err.Error())
			return err
		}

		notifier(cfg).Post("Moving window to", spaceName(cfg, props.Label))
		successColor.Println("✓ Window moved")
		return nil
	},
}

// focusSpaceCmd focuses a space
var focusSpaceCmd = &cobra.Command{
	Use:   "focus-space <space>",
	Short: "Focus a space by label, index, or keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selector.Parse(wm.KindSpace, args[0])
		if err != nil {
			printError(err.Error())
			return err
		}

		ctx := context.Background()
		cfg := tryLoadConfig()
		gw := newGateway(cfg)

		space, err := entity.SpaceFromSelector(ctx, gw, sel)
		if err != nil {
			printError(err.Error())
			return err
		}
		if err := space.Focus(ctx); err != nil {
			printError(err.Error())
			return err
		}

		if props, err := space.Props(ctx); err == nil {
			notifier(cfg).Post("Focusing", spaceName(cfg, props.Label))
		}
		return nil
	},
}

// labelCmd relabels a space
var labelCmd = &cobra.Command{
	Use:   "label <space> <new-label>",
	Short: "Relabel a space",
	Long: `Sets the label of the addressed space. The new label must be unique
among spaces, non-empty, not a reserved selector keyword, and not a number.
Nothing is sent to yabai if the label is invalid.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selector.Parse(wm.KindSpace, args[0])
		if err != nil {
			printError(err.Error())
			return err
		}

		ctx := context.Background()
		gw := newGateway(nil)
		space, err := entity.SpaceFromSelector(ctx, gw, sel)
		if err != nil {
			printError(err.Error())
			return err
		}
		if err := space.SetLabel(ctx, args[1]); err != nil {
			printError(err.Error())
			return err
		}
		successColor.Printf("✓ Space labeled %q\n", args[1])
		return nil
	},
}

// listCmd is the parent command for list subcommands
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List spaces, displays, or windows",
	Long:  `Lists window manager entities in a table format.`,
}

// listSpacesCmd lists all spaces
var listSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "List all spaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := tryLoadConfig()
		spaces, err := selector.NewResolver(newGateway(cfg)).AllSpaces(context.Background())
		if err != nil {
			printError(err.Error())
			return err
		}
		if jsonOutput {
			return printJSON(spaces)
		}
		var defs []config.SpaceDef
		if cfg != nil {
			defs = cfg.Spaces
		}
		output.PrintSpacesTable(spaces, defs)
		fmt.Printf("\nTotal: %d spaces\n", len(spaces))
		return nil
	},
}

// listDisplaysCmd lists all displays
var listDisplaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List all displays",
	RunE: func(cmd *cobra.Command, args []string) error {
		displays, err := selector.NewResolver(newGateway(nil)).AllDisplays(context.Background())
		if err != nil {
			printError(err.Error())
			return err
		}
		if jsonOutput {
			return printJSON(displays)
		}
		output.PrintDisplaysTable(displays)
		fmt.Printf("\nTotal: %d displays\n", len(displays))
		return nil
	},
}

// listWindowsCmd lists all windows
var listWindowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List all windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		windows, err := selector.NewResolver(newGateway(nil)).AllWindows(context.Background())
		if err != nil {
			printError(err.Error())
			return err
		}
		if jsonOutput {
			return printJSON(windows)
		}
		output.PrintWindowsTable(windows)
		fmt.Printf("\nTotal: %d windows\n", len(windows))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.config/yabactl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&yabaiPath, "yabai", "", "Path to the yabai binary")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", gateway.DefaultTimeout, "Command timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noNotify, "no-notify", false, "Disable desktop notifications")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	sortDisplayCmd.Flags().BoolVar(&sortCheck, "check", false, "Only check whether the display is sorted")

	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(sortDisplayCmd)
	rootCmd.AddCommand(sortDisplaysCmd)
	rootCmd.AddCommand(spaceToDisplayCmd)
	rootCmd.AddCommand(windowToSpaceCmd)
	rootCmd.AddCommand(focusSpaceCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(listCmd)

	listCmd.AddCommand(listSpacesCmd)
	listCmd.AddCommand(listDisplaysCmd)
	listCmd.AddCommand(listWindowsCmd)
}

func main() {
	defer logging.Close()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Helper functions

// newGateway builds the yabai transport. Flags win over config, config over
// defaults.
func newGateway(cfg *config.Config) gateway.Gateway {
	bin := yabaiPath
	to := timeout
	if cfg != nil {
		if bin == "" {
			bin = cfg.Settings.YabaiPath
		}
		if to == gateway.DefaultTimeout && cfg.Settings.TimeoutSeconds > 0 {
			to = time.Duration(cfg.Settings.TimeoutSeconds) * time.Second
		}
	}
	return gateway.NewClient(bin, to)
}

// tryLoadConfig loads the config when present; commands that only decorate
// their output with it keep working without one.
func tryLoadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Debug().Err(err).Msg("config not loaded")
		return nil
	}
	return cfg
}

func notifier(cfg *config.Config) *notify.Notifier {
	enabled := !noNotify
	if cfg != nil && !cfg.Settings.Notifications {
		enabled = false
	}
	return notify.New(enabled)
}

// spaceName renders a space label with its declared icon, if any.
func spaceName(cfg *config.Config, label string) string {
	if label == "" {
		return "(unlabeled)"
	}
	if cfg != nil {
		if def := config.DefByLabel(cfg.Spaces, label); def != nil && def.Icon != "" {
			return fmt.Sprintf("%s %s", def.Icon, label)
		}
	}
	return label
}

func printResult(result *reconcile.Result) {
	for _, o := range result.Spaces {
		switch {
		case o.Err != nil:
			printError(fmt.Sprintf("space %q: %v", o.Label, o.Err))
		case o.Created:
			infoColor.Printf("created space %q\n", o.Label)
		case o.Destroyed:
			infoColor.Printf("destroyed space %q\n", o.Label)
		case o.Relabeled:
			infoColor.Printf("labeled space %d as %q\n", o.SpaceID, o.Label)
		case o.Moved:
			infoColor.Printf("moved space %q to display %d\n", o.Label, o.TargetDisplay)
		}
	}
	for _, o := range result.Displays {
		if o.Err != nil {
			printError(fmt.Sprintf("display %d: %v", o.DisplayIndex, o.Err))
			continue
		}
		if o.Moves > 0 {
			infoColor.Printf("sorted display %d (%d moves)\n", o.DisplayIndex, o.Moves)
		}
	}
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	} else {
		errorColor.Fprint(os.Stderr, "✗ Error: ")
		fmt.Fprintln(os.Stderr, msg)
	}
}
