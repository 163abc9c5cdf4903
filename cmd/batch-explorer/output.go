package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/spf13/cobra"
	"github.com/target/batch-explorer/internal/domain/model"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutputFormat(output string) error {
	switch output {
	case "", outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: use 'table', 'json' or 'yaml'", output)
	}
}

// render writes v in the selected format. A --query projects the JSON form of v;
// projected results have no table layout and print as JSON unless yaml is selected.
func (a *app) render(cmd *cobra.Command, v any, table func(tw *tabwriter.Writer)) error {
	w := cmd.OutOrStdout()

	if a.query == "" && (a.output == "" || a.output == outputTable) {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}

	var data any = v
	if a.query != "" || a.output == outputYAML {
		generic, err := toGeneric(v)
		if err != nil {
			return err
		}
		data = generic
	}
	if a.query != "" {
		projected, err := jmespath.Search(a.query, data)
		if err != nil {
			return fmt.Errorf("evaluate --query: %w", err)
		}
		data = projected
	}

	if a.output == outputYAML {
		return writeYAML(w, integralNumbers(data))
	}
	return writeJSON(w, data)
}

// toGeneric converts v to the maps and slices of its JSON form.
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}

// integralNumbers turns whole float64 values back into int64 so ids do not print
// in exponent form.
func integralNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = integralNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = integralNumbers(item)
		}
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	default:
		return v
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func formatDuration(e *model.JobExecution, now time.Time) string {
	if e.StartTime == nil {
		return "-"
	}
	return e.Duration(now).Truncate(time.Second).String()
}

func formatVersion(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

const executionHeader = "ID\tJOB\tSTATUS\tEXIT CODE\tSTART\tEND\tDURATION"

func executionRow(e *model.JobExecution, now time.Time) string {
	return fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s\t%s",
		e.ID, e.JobName(), e.Status, e.ExitStatus.ExitCode,
		formatTime(e.StartTime), formatTime(e.EndTime), formatDuration(e, now))
}

func executionTable(tw *tabwriter.Writer, execs []*model.JobExecution) {
	now := time.Now()
	_, _ = fmt.Fprintln(tw, executionHeader)
	for _, e := range execs {
		_, _ = fmt.Fprintln(tw, executionRow(e, now))
	}
}

func stepCountTable(tw *tabwriter.Writer, execs []*model.JobExecutionWithStepCount) {
	now := time.Now()
	_, _ = fmt.Fprintln(tw, executionHeader+"\tSTEPS")
	for _, e := range execs {
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", executionRow(&e.JobExecution, now), e.StepCount)
	}
}

func pageFooter(tw *tabwriter.Writer, start, shown, total int, more bool) {
	if shown == 0 {
		_, _ = fmt.Fprintf(tw, "\nno executions in window (total %d)\n", total)
		return
	}
	if more {
		_, _ = fmt.Fprintf(tw, "\n%d-%d of %d (next: --start %d)\n", start+1, start+shown, total, start+shown)
		return
	}
	_, _ = fmt.Fprintf(tw, "\n%d-%d of %d\n", start+1, start+shown, total)
}

func executionDetail(tw *tabwriter.Writer, e *model.JobExecution) {
	_, _ = fmt.Fprintf(tw, "ID\t%d\n", e.ID)
	if e.Instance != nil {
		_, _ = fmt.Fprintf(tw, "JOB\t%s (instance %d)\n", e.Instance.Name, e.Instance.ID)
	}
	_, _ = fmt.Fprintf(tw, "STATUS\t%s\n", e.Status)
	_, _ = fmt.Fprintf(tw, "EXIT CODE\t%s\n", e.ExitStatus.ExitCode)
	if e.ExitStatus.ExitDescription != "" {
		_, _ = fmt.Fprintf(tw, "EXIT MESSAGE\t%s\n", e.ExitStatus.ExitDescription)
	}
	_, _ = fmt.Fprintf(tw, "CREATED\t%s\n", formatTime(e.CreateTime))
	_, _ = fmt.Fprintf(tw, "START\t%s\n", formatTime(e.StartTime))
	_, _ = fmt.Fprintf(tw, "END\t%s\n", formatTime(e.EndTime))
	_, _ = fmt.Fprintf(tw, "LAST UPDATED\t%s\n", formatTime(e.LastUpdated))
	_, _ = fmt.Fprintf(tw, "VERSION\t%s\n", formatVersion(e.Version))
	if e.ConfigurationLocation != nil {
		_, _ = fmt.Fprintf(tw, "CONFIGURATION\t%s\n", *e.ConfigurationLocation)
	}

	if len(e.Parameters) == 0 {
		return
	}
	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintln(tw, "PARAMETER\tTYPE\tVALUE\tIDENTIFYING")
	for _, p := range e.Parameters {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", p.Name, p.Type, p.Display(), p.Identifying)
	}
}

func instanceTable(tw *tabwriter.Writer, inst *model.JobInstance) {
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tVERSION")
	_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", inst.ID, inst.Name, formatVersion(inst.Version))
}
