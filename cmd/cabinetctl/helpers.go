package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"cabinets/internal/domain/models"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes tab-separated rows aligned in columns
func printTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// printTree writes one line per node, indented by depth
func printTree(w io.Writer, nodes []*models.CabinetTreeNode, depth int) {
	for _, node := range nodes {
		fmt.Fprintf(w, "%s%s  (%s, %d documents)\n",
			strings.Repeat("  ", depth), node.Label, node.ID, node.DocumentCount)
		printTree(w, node.Children, depth+1)
	}
}

// output prints v as JSON with --json, otherwise calls text
func output(w io.Writer, v any, text func() error) error {
	if flagJSON {
		return printJSON(w, v)
	}
	return text()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
