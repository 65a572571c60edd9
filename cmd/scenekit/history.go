package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
)

func historyCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "生成履歴を操作します",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "履歴を新しい順に表示します",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
					return printHistory(cmd.OutOrStdout(), a.history.Entries())
				})
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "指定した履歴を削除します",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
					return a.history.Delete(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "すべての履歴を削除します",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
					return a.history.Clear(ctx)
				})
			},
		},
	)
	return cmd
}

func withApp(ctx context.Context, opts *globalOptions, fn func(context.Context, *app) error) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printHistory(w io.Writer, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "履歴はありません")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRATIO\tCREATED\tPROMPT")
	for _, e := range entries {
		created := time.UnixMilli(e.Timestamp).Format(time.DateTime)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.AspectRatio, created, truncate(e.Prompt, 60))
	}
	return tw.Flush()
}

func printPresets(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE")
	for i, p := range domain.StylePresets {
		fmt.Fprintf(tw, "%d\t%s\n", i, p.Title)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
