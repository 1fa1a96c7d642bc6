package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/larder/am"
	"github.com/teranos/larder/catalog"
	"github.com/teranos/larder/db"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/server"
	"github.com/teranos/larder/version"
)

// ServerCmd starts the larder HTTP and websocket server
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Start the larder HTTP and websocket server",
	Long: `Serve quantity parsing, icon resolution, the ingredient catalog and
websocket autocomplete sessions. The user config file is watched and applied
without a restart.`,
	RunE: runServer,
}

var (
	serverPort    int
	serverNoWatch bool
)

func init() {
	ServerCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Port to listen on (overrides server.port)")
	ServerCmd.Flags().BoolVar(&serverNoWatch, "no-watch", false, "Do not reload the config file when it changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.GetDatabasePath()
	}
	database, err := openDatabase(dbPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	store := catalog.NewStore(database, logger.ComponentLogger("catalog"))
	srv, err := server.NewLarderServer(store, cfg, logger.ComponentLogger("server"))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if !serverNoWatch {
		if path := am.UserConfigPath(); path != "" {
			if _, statErr := os.Stat(path); statErr == nil {
				if err := srv.WatchConfig(path); err != nil {
					pterm.Warning.Printf("Not watching %s: %v\n", path, err)
				}
			}
		}
	}

	port := serverPort
	if port == 0 {
		port = cfg.GetServerPort()
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	printStartupBanner(verbosity, dbPath, port)
	if logger.ShouldOutput(verbosity, logger.OutputStartup) {
		if versions, err := db.AppliedVersions(database); err == nil {
			pterm.Info.Printf("Schema migrations: %s\n", strings.Join(versions, ", "))
		}
		if summary, err := am.GetConfigSummary(); err == nil {
			pterm.Info.Printf("Config sources: %d default, %d from files, %d from environment\n",
				summary[am.SourceDefault],
				summary[am.SourceSystem]+summary[am.SourceUser]+summary[am.SourceProject],
				summary[am.SourceEnvironment])
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-sigChan:
		// First Ctrl+C - graceful shutdown
		pterm.Info.Println("Shutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			// Second Ctrl+C - force immediate exit
			pterm.Warning.Println("Force shutdown - exiting immediately")
			os.Exit(1)
			return nil
		}
	}
}

// printStartupBanner prints what is being served and where
func printStartupBanner(verbosity int, dbPath string, port int) {
	info := version.Get()
	pterm.DefaultHeader.Println("larder")
	pterm.Info.Printf("%s, icon table %s\n", info.String(), info.IconTable)
	pterm.Info.Printf("Database:  %s\n", dbPath)
	pterm.Info.Printf("Verbosity: %s\n", logger.LevelName(verbosity))
	pterm.Info.Printf("Listening on http://localhost:%d (press Ctrl+C to stop)\n", port)
}
