package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/reader"
	"github.com/spf13/cobra"
)

func newPageCmd(a *app) *cobra.Command {
	var (
		page  int
		limit int
		after int64
		info  bool
	)
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Read one page of users sorted by key and print it as JSON lines",
		Long: "Reads one page of users sorted by key and prints each record as one JSON line on stdout. " +
			"With --info the page summary is printed as a JSON line on stderr.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("page") {
				a.cfg.Reader.Page = page
			}
			if cmd.Flags().Changed("limit") {
				a.cfg.Reader.PageSize = limit
			}

			ctx := cmd.Context()
			b, err := a.open(ctx, a.cfg, a.log, false)
			if err != nil {
				return err
			}
			defer b.Close()

			rd := reader.New(b.repo, a.log)
			var items []model.Record
			switch {
			case cmd.Flags().Changed("after"):
				items, err = rd.FetchAfter(ctx, after, a.cfg.Reader.PageSize)
			case info:
				var pi model.PageInfo
				items, pi, err = rd.FetchPageInfo(ctx, a.cfg.Reader.Page, a.cfg.Reader.PageSize)
				if err == nil {
					err = json.NewEncoder(cmd.ErrOrStderr()).Encode(pi)
				}
			default:
				items, err = rd.FetchPage(ctx, a.cfg.Reader.Page, a.cfg.Reader.PageSize)
			}
			if err != nil {
				return fmt.Errorf("read page: %w", err)
			}
			return writeRecords(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "1-based page number; defaults to reader.page")
	cmd.Flags().IntVarP(&limit, "limit", "l", 100, "Records per page; defaults to reader.page_size")
	cmd.Flags().Int64Var(&after, "after", 0, "Keyset mode: records with key greater than this")
	cmd.Flags().BoolVar(&info, "info", false, "Also print total records and pages on stderr")
	return cmd
}

// writeRecords prints one JSON object per line, in order.
func writeRecords(w io.Writer, items []model.Record) error {
	enc := json.NewEncoder(w)
	for _, rec := range items {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
