package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NikiSuckau/pomodoro-vpet/internal/core/timelog"
	"github.com/NikiSuckau/pomodoro-vpet/internal/logging"
	"github.com/NikiSuckau/pomodoro-vpet/internal/sprites"
	"github.com/NikiSuckau/pomodoro-vpet/internal/storage"
	"github.com/NikiSuckau/pomodoro-vpet/internal/ui/preferences"
	"github.com/NikiSuckau/pomodoro-vpet/resources"
)

const appName = "pomodoro-vpet"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Pomodoro timer with a virtual pet companion",
	Long: `Pomodoro VPet shows a countdown timer and an animated sprite pet in a
small always-on-top window. The pet walks, celebrates and trains along
with your work/break cycle; completed work sessions are logged to JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI()
	},
}

func main() {
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(petsCmd())
	rootCmd.AddCommand(exportCmd())
}

// environment bundles what every command needs: loaded settings, the
// logger, and data locations under the user config directory.
type environment struct {
	settings   preferences.Settings
	logger     zerolog.Logger
	spritesDir string
	logPath    string
}

func loadEnvironment() (environment, error) {
	settings, err := storage.LoadSettings(appName)
	if err != nil {
		return environment{}, err
	}
	logger := logging.New(settings.LogLevel)

	configDir, err := os.UserConfigDir()
	if err != nil {
		return environment{}, fmt.Errorf("resolve user config dir: %w", err)
	}
	logPath, err := timelog.DefaultLogPath(appName)
	if err != nil {
		return environment{}, err
	}

	return environment{
		settings:   settings,
		logger:     logger,
		spritesDir: filepath.Join(configDir, appName, "sprites"),
		logPath:    logPath,
	}, nil
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show work session statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}
			logger := timelog.NewLogger(env.logPath, env.logger)

			today, _ := cmd.Flags().GetBool("today")
			byPet, _ := cmd.Flags().GetBool("by-pet")

			switch {
			case byPet && today:
				return printPetStats(logger.TodayStatsByPet())
			case byPet:
				return printPetStats(logger.StatsByPet())
			default:
				return printDayStats(logger.TodayStats())
			}
		},
	}
	cmd.Flags().Bool("today", false, "limit to today's sessions")
	cmd.Flags().Bool("by-pet", false, "group statistics by pet")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <pack.zip>",
		Short: "Import a sprite pack from a zip archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}
			registry := sprites.NewRegistry(env.spritesDir, env.logger)
			importer := sprites.NewImporter(env.spritesDir, registry, env.logger)

			name, err := importer.Import(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Successfully imported %s\n", name)
			return nil
		},
	}
}

func petsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pets",
		Short: "List registered sprite packs",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}
			registry := sprites.NewRegistry(env.spritesDir, env.logger)
			packs := registry.List()

			if viper.GetBool("json") {
				return printJSON(packs)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Name", "Directory", "Imported", "Default"})
			tw.AppendRow(table.Row{resources.DefaultPetName, "(embedded)", "-", true})
			for _, pack := range packs {
				tw.AppendRow(table.Row{pack.Name, pack.Directory, pack.ImportedDate, pack.Default})
			}
			tw.Render()
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the session log as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			logger := timelog.NewLogger(env.logPath, env.logger)
			if err := logger.ExportCSV(out); err != nil {
				return err
			}
			fmt.Printf("Sessions exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().String("out", "work_sessions.csv", "output CSV path")
	return cmd
}

func printDayStats(stats timelog.DayStats) error {
	if viper.GetBool("json") {
		return printJSON(stats)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Date", "Minutes", "Hours", "Sessions", "Completed", "Interrupted"})
	tw.AppendRow(table.Row{
		stats.Date, stats.TotalMinutes, stats.TotalHours,
		stats.SessionCount, stats.CompletedSessions, stats.InterruptedSessions,
	})
	tw.Render()
	return nil
}

func printPetStats(grouped map[string]timelog.PetStats) error {
	if viper.GetBool("json") {
		return printJSON(grouped)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Pet", "Minutes", "Hours", "Sessions", "Completed", "Success %"})
	for _, name := range names {
		stats := grouped[name]
		tw.AppendRow(table.Row{
			name, stats.TotalMinutes, stats.TotalHours,
			stats.SessionCount, stats.CompletedSessions, stats.SuccessRate,
		})
	}
	tw.Render()
	return nil
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
