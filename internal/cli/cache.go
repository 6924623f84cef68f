package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dshills/critic/internal/cache"
	"github.com/dshills/critic/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagCacheJSON    bool
	flagCacheEntries bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain cached review replies",
	Long: `Replies are cached per provider, model, sampling settings, system prompt
and document, so re-running a review on unchanged files costs nothing.`,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache location, TTL and usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache(true)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !c.Enabled() {
			fmt.Fprintln(out, "Cache is disabled (set cache.enabled to true to turn it on).")
			return nil
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		if flagCacheJSON {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		ttl := "never expires"
		if stats.TTLSeconds > 0 {
			ttl = (time.Duration(stats.TTLSeconds) * time.Second).String()
		}
		fmt.Fprintf(out, "Directory: %s\n", stats.Dir)
		fmt.Fprintf(out, "TTL:       %s\n", ttl)
		fmt.Fprintf(out, "Replies:   %d (%d expired)\n", stats.Entries, stats.Expired)
		fmt.Fprintf(out, "Size:      %s\n", formatBytes(stats.TotalBytes))

		if flagCacheEntries {
			entries, err := c.List()
			if err != nil {
				return fmt.Errorf("listing cache: %w", err)
			}
			writeCacheEntries(out, c, entries, time.Now())
		}
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired and unreadable replies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache(false)
		if err != nil {
			return err
		}
		removed, err := c.Prune()
		if err != nil {
			return fmt.Errorf("pruning cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired replies from %s\n", removed, c.Dir())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached reply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache(false)
		if err != nil {
			return err
		}
		removed, err := c.Clear()
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared (%d entries removed).\n", removed)
		return nil
	},
}

func init() {
	cacheShowCmd.Flags().BoolVar(&flagCacheJSON, "json", false, "Print statistics as JSON")
	cacheShowCmd.Flags().BoolVar(&flagCacheEntries, "entries", false, "List cached replies, newest first")
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// openCache opens the configured cache directory. With respectEnabled false
// the directory is opened even when caching is turned off for reviews, so
// prune and clear still reach old replies.
func openCache(respectEnabled bool) (*cache.Cache, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, err
	}
	enabled := cfg.Cache.Enabled || !respectEnabled
	c, err := cache.New(enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return c, nil
}

func writeCacheEntries(w io.Writer, c *cache.Cache, entries []cache.Entry, now time.Time) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, e := range entries {
		key := e.Key
		if len(key) > 12 {
			key = key[:12]
		}
		age := now.Sub(e.CreatedAt).Truncate(time.Second)
		fmt.Fprintf(w, "  %s  %s/%s  %s ago  %d tokens", key, e.Provider, e.Model, age, e.TokensUsed)
		if c.Expired(e) {
			fmt.Fprint(w, "  (expired)")
		}
		fmt.Fprintln(w)
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
