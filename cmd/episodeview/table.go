package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"episodeview/internal/episode"
	"episodeview/internal/infra/logx"
	"episodeview/internal/render"
	"episodeview/internal/view"
)

type tableOptions struct {
	sort   string
	desc   bool
	filter string
	format string
}

func newTableCommand(ctx *commandContext) *cobra.Command {
	opts := tableOptions{}
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the episode table once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd, ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.sort, "sort", "rank", "Sort field ("+fieldNames()+")")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort descending")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Only show titles containing this text")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, html, markdown, csv)")
	return cmd
}

func runTable(cmd *cobra.Command, ctx *commandContext, opts tableOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	field := episode.Field(strings.ToLower(strings.TrimSpace(opts.sort)))
	if !field.Known() {
		return fmt.Errorf("unknown sort field %q (want one of %s)", opts.sort, fieldNames())
	}
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	mode, err := view.ParseFilterMode(cfg.Display.FilterMode)
	if err != nil {
		return err
	}

	l, client := newLoader(cfg, false)
	st := view.New()
	st.LoadEpisodes(cmd.Context(), l)
	logx.Debug().Str("source", st.DataSource().String()).Msg(client.Metrics().Snapshot().Summary())

	st.SetFuzzyConfig(fuzzyConfig(cfg))
	st.SetFilterMode(mode)
	st.SetSort(field, !opts.desc)
	st.SetNameFilter(opts.filter)

	sort := st.Sort()
	if err := render.Table(cmd.OutOrStdout(), st.Filtered(), render.Options{
		Format:    format,
		SortField: sort.Field,
		Ascending: sort.Ascending,
	}); err != nil {
		return err
	}
	if st.Total() == 0 && st.Status() != "" {
		return errors.New(st.Status())
	}
	return nil
}

func fieldNames() string {
	names := make([]string, len(episode.Fields))
	for i, f := range episode.Fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
