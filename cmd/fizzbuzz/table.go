package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	// Packages
	table "github.com/jedib0t/go-pretty/v6/table"
	text "github.com/jedib0t/go-pretty/v6/text"
	isatty "github.com/mattn/go-isatty"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// isTerminal reports whether output is to a terminal, in which case
// tasks are rendered as a table rather than JSON
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeTasks writes tasks to w as a table or as JSON
func writeTasks(w io.Writer, v any, tasks ...schema.Task) error {
	if !isTerminal(w) {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, renderTasks(tasks))
	return err
}

func renderTasks(tasks []schema.Task) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "TYPE", "STATE", "EXECUTION TIME", "UPDATED"})
	for _, task := range tasks {
		tw.AppendRow(table.Row{
			task.Id,
			task.Kind.String(),
			task.State.String(),
			task.ExecutionTime.Local().Format(time.DateTime),
			task.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
