package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/docscan/internal/cache"
	"github.com/nao1215/docscan/internal/model"
	"github.com/nao1215/docscan/internal/report"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command.
// It inspects or empties the response cache shared by every scan.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
		Long: `Cache shows what the local response cache holds.

Every successful fetch is stored in a SQLite database under the XDG cache
directory and served from there on later runs. Without flags this command
prints the number of cached responses, their total size and the time range
they were fetched in.

Examples:
  # Show cache statistics
  docscan cache

  # List every cached URL
  docscan cache --list

  # Empty the cache
  docscan cache --clear`,
		Args: cobra.NoArgs,
		RunE: runCacheCmd,
	}

	cmd.Flags().BoolP("list", "l", false, "List every cached URL")
	cmd.Flags().Bool("clear", false, "Remove every cached response")
	cmd.Flags().String("config", "",
		"Configuration file path (default: .docscan in current or home directory)")
	cmd.Flags().String("cache-dir", "",
		"Directory of the response cache (default: XDG cache directory)")
	cmd.MarkFlagsMutuallyExclusive("list", "clear")

	return cmd
}

// runCacheCmd executes the cache command.
func runCacheCmd(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("cache-dir") {
		if cfg.CacheDir, err = cmd.Flags().GetString("cache-dir"); err != nil {
			return err
		}
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	clearAll, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}

	store, err := cache.Open(cfg.CacheDir, cache.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open response cache: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case clearAll:
		n, err := store.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d cached responses from %s\n", n, store.Path())
		return nil
	case list:
		entries, err := store.List(ctx)
		if err != nil {
			return err
		}
		return printCacheEntries(out, entries)
	default:
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		printCacheStats(out, store.Path(), stats)
		return nil
	}
}

// printCacheEntries renders the cached responses as a table.
func printCacheEntries(w io.Writer, entries []cache.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "The response cache is empty.")
		return nil
	}

	t := model.NewTable("cache", "URL", "Status", "Content-Type", "Bytes", "Fetched")
	for _, e := range entries {
		if err := t.Append(
			e.URL,
			strconv.Itoa(e.StatusCode),
			e.ContentType,
			strconv.FormatInt(e.Size, 10),
			e.FetchedAt.Format(time.DateTime),
		); err != nil {
			return err
		}
	}

	_, err := report.NewPrettyWriter(w).Write(t)
	return err
}

// printCacheStats prints a short summary of the cache.
func printCacheStats(w io.Writer, path string, stats cache.Stats) {
	fmt.Fprintf(w, "Cache:     %s\n", path)
	fmt.Fprintf(w, "Entries:   %d\n", stats.Entries)
	fmt.Fprintf(w, "Size:      %d bytes\n", stats.Bytes)
	if stats.Entries == 0 {
		return
	}
	fmt.Fprintf(w, "Oldest:    %s\n", stats.Oldest.Format(time.DateTime))
	fmt.Fprintf(w, "Newest:    %s\n", stats.Newest.Format(time.DateTime))
}
