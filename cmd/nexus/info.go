package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/scoring"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/service"
)

func menuCmd() *cobra.Command {
	var choice int

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the available tools, or resolve one menu number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("choice") {
				return printChoice(cmd, choice)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTOOL\tLABEL\tSTATUS")
			for _, item := range service.Menu() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.Choice, item.Tool, item.Label, statusText(item.Status))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&choice, "choice", 0, "menu number to resolve")
	return cmd
}

func printChoice(cmd *cobra.Command, choice int) error {
	tool, err := service.ToolForChoice(choice)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tool.Status() == domain.ToolNotImplemented {
		fmt.Fprintf(out, "%d. %s (%s): %s\n", choice, tool.Label(), tool, statusText(tool.Status()))
		return nil
	}

	run := "nexus score " + string(tool)
	if tool == domain.ToolReferenceRanges {
		run = "nexus ranges"
	}
	fmt.Fprintf(out, "%d. %s (%s): %s\n", choice, tool.Label(), tool, run)
	return nil
}

func statusText(s domain.ToolStatus) string {
	if s == domain.ToolNotImplemented {
		return "not implemented"
	}
	return ""
}

func rangesCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "ranges [category]",
		Short:     "Print reference ranges, all categories by default",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := scoring.Categories()
			if len(args) == 1 {
				categories = []scoring.Category{scoring.Category(args[0])}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, c := range categories {
				entries, err := scoring.ReferenceRanges(c)
				if err != nil {
					return fmt.Errorf("%w %q", err, c)
				}
				fmt.Fprintf(w, "[%s]\n", c)
				for _, e := range entries {
					fmt.Fprintf(w, "  %s\t%g - %g\t%s\n", e.Parameter, e.Min, e.Max, e.Unit)
				}
			}
			return w.Flush()
		},
	}
}

func categoryNames() []string {
	var names []string
	for _, c := range scoring.Categories() {
		names = append(names, string(c))
	}
	return names
}
