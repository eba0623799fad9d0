package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"unsound/internal/rule"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List known rules and their default levels",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().Bool("all", false, "include removed rules")
}

func runRules(cmd *cobra.Command, args []string) error {
	showAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	if _, err := useColor(cmd); err != nil {
		return err
	}

	registry := rule.DefaultRegistry()
	out := cmd.OutOrStdout()

	// Registration order is the catalog's canonical order.
	ids := registry.Rules()

	aliasesOf := make(map[string][]string)
	for alias, id := range registry.Aliases() {
		name := registry.Metadata(id).Name
		aliasesOf[name] = append(aliasesOf[name], alias)
	}
	for _, list := range aliasesOf {
		sort.Strings(list)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"rule", "default", "categories", "since", "summary"})
	for _, id := range ids {
		meta := registry.Metadata(id)
		name := meta.Name
		if aliases := aliasesOf[name]; len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		cats := make([]string, 0, len(meta.Categories))
		for _, c := range meta.Categories {
			cats = append(cats, c.Name)
		}
		t.AppendRow(table.Row{name, meta.DefaultLevel, strings.Join(cats, ", "), meta.Status.Since, meta.Summary})
	}
	t.Render()
	fmt.Fprintf(out, "%d rules\n", len(ids))

	if !showAll {
		return nil
	}

	removed := registry.RemovedRules()
	if len(removed) == 0 {
		return nil
	}
	sort.Slice(removed, func(i, j int) bool {
		return registry.Metadata(removed[i]).Name < registry.Metadata(removed[j]).Name
	})
	fmt.Fprintln(out)
	rt := table.NewWriter()
	rt.SetOutputMirror(out)
	rt.SetStyle(table.StyleLight)
	rt.AppendHeader(table.Row{"removed rule", "since", "reason"})
	for _, id := range removed {
		meta := registry.Metadata(id)
		rt.AppendRow(table.Row{meta.Name, meta.Status.Since, meta.Status.Reason})
	}
	rt.Render()
	return nil
}
