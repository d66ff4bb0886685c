package commands

import (
	"bufio"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

const interactiveHelp = `Commands:
  inspect (i) --pdes DES | --name NAME [--verbose]   look up one NEO
  query (q) [filter flags] [--limit N] [--outfile F] filter close approaches
  help (h)                                           show this help
  quit (x)                                           leave the shell`

func newInteractiveCmd(a *app) *cobra.Command {
	var aggressive bool

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Run an interactive query shell",
		Long: `Load the data set once and run inspect and query commands against it in
a read-eval-print loop. The shell watches the data files and warns when they
change on disk; with --aggressive it exits instead, so a fresh session never
serves stale data.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Load eagerly so the first command is fast and load errors
			// surface before the prompt.
			if _, err := a.database(); err != nil {
				return err
			}

			changed, stopWatch, err := watchDataFiles(a)
			if err != nil {
				a.logger.Warn("data file watch unavailable", "error", err)
			} else {
				defer stopWatch()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, `Explore close approaches of near-Earth objects. Type "help" for commands.`)

			warned := false
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "(neoq) ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}

				if changed != nil && changed.Load() {
					if aggressive {
						fmt.Fprintln(out, "Data files changed on disk; exiting.")
						return nil
					}
					if !warned {
						fmt.Fprintln(out, "Warning: data files changed on disk; results may be stale. Restart to reload.")
						warned = true
					}
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				args, err := shellquote.Split(line)
				if err != nil {
					// Unbalanced quotes; a plain split is the best we can do.
					args = strings.Fields(line)
				}

				switch args[0] {
				case "inspect", "i":
					runSubcommand(cmd, newInspectCmd(a), args[1:])
				case "query", "q":
					runSubcommand(cmd, newQueryCmd(a), args[1:])
				case "help", "h":
					fmt.Fprintln(out, interactiveHelp)
				case "quit", "exit", "x":
					return nil
				default:
					fmt.Fprintf(out, "Unknown command %q. Type \"help\" for commands.\n", args[0])
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&aggressive, "aggressive", "a", false, "exit the shell when the data files change on disk")

	return cmd
}

// runSubcommand executes a freshly built command so flag state never leaks
// between shell invocations. Errors are printed, not fatal to the shell.
func runSubcommand(parent *cobra.Command, sub *cobra.Command, args []string) {
	sub.SetArgs(args)
	sub.SetIn(parent.InOrStdin())
	sub.SetOut(parent.OutOrStdout())
	sub.SetErr(parent.ErrOrStderr())
	sub.SilenceUsage = true
	sub.SilenceErrors = true
	if err := sub.ExecuteContext(parent.Context()); err != nil {
		fmt.Fprintf(parent.OutOrStdout(), "Error: %v\n", err)
	}
}

// watchDataFiles flags a shared bool when either data file is written,
// created, renamed, or removed.
func watchDataFiles(a *app) (*atomic.Bool, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}

	for _, path := range []string{a.neoPath(), a.cadPath()} {
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return nil, nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}

	changed := &atomic.Bool{}
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					a.logger.Warn("data file changed", "file", event.Name, "op", event.Op.String())
					changed.Store(true)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.logger.Warn("data file watch error", "error", err)
			}
		}
	}()

	return changed, func() { _ = watcher.Close() }, nil
}
