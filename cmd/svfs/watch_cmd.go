package svfs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ethsol/svfs/session"
)

const debounceInterval = 300 * time.Millisecond

var watchSource string

// watchCmd watches a single on-disk source file and, whenever it is
// written, rebuilds a fresh session with that file as its only CLI
// source (see rebuildSession). Reload timing and retry policy are left entirely to the
// host; this command just debounces filesystem events and rebuilds.
var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Rebuild a fresh session from a source file whenever it changes on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %q: %w", args[0], err)
		}

		if err := rebuildSession(cmd, args[0]); err != nil {
			return compileError(err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating file watcher: %w", err)
		}
		defer watcher.Close()

		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %q: %w", filepath.Dir(abs), err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", abs)
		return watchLoop(cmd, watcher, args[0], abs)
	},
}

func init() {
	watchCmd.Flags().StringVar(&basePath, "base-path", "", "base directory for the Host Filesystem Loader")
}

// rebuildSession constructs a brand-new session and inserts path as
// its sole CLI source. A session's VFS is immutable once populated —
// entries are never removed or overwritten during a session — so
// "watch" rebuilds from scratch on every change rather than mutating a
// live VFS in place, the same thing a real compiler invocation does
// when asked to watch-and-rebuild.
func rebuildSession(cmd *cobra.Command, path string) error {
	sess := session.New(basePath)
	sun, err := sess.AddCLISource(path)
	if err != nil {
		return err
	}
	content, _ := sess.VFS.Get(sun)
	fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %s (%d bytes)\n", sun, len(content))
	return nil
}

func watchLoop(cmd *cobra.Command, watcher *fsnotify.Watcher, path, abs string) error {
	ctx := context.Background()
	var debounce *time.Timer

	reload := func() {
		if err := rebuildSession(cmd, path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "rebuild error: %v\n", err)
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || !event.Has(fsnotify.Write) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceInterval, reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)

		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil
		}
	}
}
