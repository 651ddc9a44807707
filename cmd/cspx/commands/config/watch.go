package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/itdojp/cspx/pkg/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a config file and re-validate it on every change",
	Long: `Watch the config file and report the result of re-loading and
re-validating it whenever it changes, until interrupted. Useful while
hand-editing a config that a CI job will consume: the first invalid edit
is reported immediately instead of failing the next pipeline run.

Example:
  cspx config watch --config ./cspx.yaml`,
	RunE: runConfigWatch,
}

func init() {
	Cmd.AddCommand(watchCmd)
}

func runConfigWatch(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("config watch: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that write via
	// rename-over-replace would otherwise silently detach the watch after
	// the first save.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("config watch: %w", err)
	}

	report := func() {
		if _, err := config.Load(configPath, nil); err != nil {
			cmd.Printf("invalid: %v\n", err)
			return
		}
		cmd.Printf("ok: %s\n", configPath)
	}
	report()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	target := filepath.Clean(configPath)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				report()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("watch error: %v\n", werr)
		case <-interrupt:
			return nil
		}
	}
}
