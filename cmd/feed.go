package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxcast/internal/feed"
)

const entryContentWidth = 80

func newFeedCmd() *cobra.Command {
	var (
		maxEntries int
		discover   bool
	)

	cmd := &cobra.Command{
		Use:   "feed <url>",
		Short: "Print an RSS or Atom feed summary and its newest entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			fetcher := feed.NewFetcher(
				feed.WithUserAgent(cfg.Feed.UserAgent),
				feed.WithTimeout(cfg.Feed.Timeout),
				feed.WithLogger(logger),
			)

			url := args[0]
			if discover {
				found, err := feed.NewDiscoverer(fetcher, logger).Discover(cmd.Context(), url)
				if err != nil {
					return fmt.Errorf("feed discovery failed for %s: %w", url, err)
				}
				url = found
			}

			res, err := feed.NewService(fetcher, nil).Fetch(cmd.Context(), url, maxEntries)
			if err != nil {
				return err
			}
			renderFeed(cmd.OutOrStdout(), url, res)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxEntries, "max", feed.DefaultMaxEntries, "Maximum number of entries to print")
	cmd.Flags().BoolVar(&discover, "discover", false, "Treat the URL as a website and look for its feed first")
	return cmd
}

func renderFeed(out io.Writer, url string, res *feed.Result) {
	summary := table.NewWriter()
	summary.SetOutputMirror(out)
	summary.SetTitle("FEED SUMMARY")
	summary.AppendRows([]table.Row{
		{"URL", url},
		{"Title", res.Summary.Title},
		{"Description", text.Trim(res.Summary.Description, entryContentWidth)},
		{"Link", res.Summary.Link},
		{"Language", res.Summary.Language},
		{"Last Updated", res.Summary.LastUpdated},
		{"Total Entries", res.Summary.TotalEntries},
	})
	summary.SetStyle(table.StyleLight)
	summary.Render()

	if len(res.Items) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return
	}

	entries := table.NewWriter()
	entries.SetOutputMirror(out)
	entries.SetTitle(fmt.Sprintf("ENTRIES (%d of %d)", len(res.Items), res.Summary.TotalEntries))
	entries.AppendHeader(table.Row{"#", "Title", "Author", "Published", "Content"})
	for i, item := range res.Items {
		entries.AppendRow(table.Row{
			i + 1,
			item.TitleOr(feed.DefaultTitle),
			item.AuthorOr(feed.DefaultAuthor),
			item.MetadataString(feed.MetaPublished),
			text.Trim(item.ContentOr(""), entryContentWidth),
		})
	}
	entries.SetStyle(table.StyleLight)
	entries.Render()
}
