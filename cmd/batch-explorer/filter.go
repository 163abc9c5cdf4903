package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/target/batch-explorer/internal/domain/model"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

// filterFlags are the selection flags shared by count and list.
type filterFlags struct {
	name          string
	status        string
	from          string
	to            string
	instance      int64
	taskExecution int64
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Job name")
	fs.StringVar(&f.status, "status", "", "Batch status (COMPLETED, FAILED, STARTED, ...)")
	fs.StringVar(&f.from, "from", "", "Start of the start-time window, RFC 3339 (requires --to)")
	fs.StringVar(&f.to, "to", "", "End of the start-time window, RFC 3339 (requires --from)")
	fs.Int64Var(&f.instance, "instance", 0, "Job instance id")
	fs.Int64Var(&f.taskExecution, "task-execution", 0, "Task execution id")
}

// build maps the flags that were set onto exactly one filter shape.
// Name and status combine; every other flag stands alone.
func (f *filterFlags) build(cmd *cobra.Command) (model.ExecutionFilter, error) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	exclusive := 0
	for _, name := range []string{"instance", "task-execution"} {
		if set(name) {
			exclusive++
		}
	}
	dated := set("from") || set("to")
	named := set("name") || set("status")
	if dated {
		exclusive++
	}
	if named {
		exclusive++
	}
	if exclusive > 1 {
		return model.ExecutionFilter{}, apperrors.Validation(
			"--instance, --task-execution, --from/--to and --name/--status cannot be combined")
	}

	switch {
	case set("instance"):
		return model.ByJobInstanceID(f.instance), nil
	case set("task-execution"):
		return model.ByTaskExecutionID(f.taskExecution), nil
	case dated:
		return f.dateRange()
	case named:
		return f.nameAndStatus(set("name"), set("status"))
	default:
		return model.AllExecutions(), nil
	}
}

func (f *filterFlags) dateRange() (model.ExecutionFilter, error) {
	if f.from == "" || f.to == "" {
		return model.ExecutionFilter{}, apperrors.Validation("--from and --to must be given together")
	}
	from, err := time.Parse(time.RFC3339, f.from)
	if err != nil {
		return model.ExecutionFilter{}, apperrors.ValidationField("from", "--from must be an RFC 3339 time")
	}
	to, err := time.Parse(time.RFC3339, f.to)
	if err != nil {
		return model.ExecutionFilter{}, apperrors.ValidationField("to", "--to must be an RFC 3339 time")
	}
	return model.ByDateRange(from, to), nil
}

func (f *filterFlags) nameAndStatus(hasName, hasStatus bool) (model.ExecutionFilter, error) {
	var status model.BatchStatus
	if hasStatus {
		parsed, err := model.ParseBatchStatus(f.status)
		if err != nil {
			return model.ExecutionFilter{}, apperrors.ValidationField("status", err.Error())
		}
		status = parsed
	}
	switch {
	case hasName && hasStatus:
		return model.ByJobNameAndStatus(f.name, status), nil
	case hasName:
		return model.ByJobName(f.name), nil
	default:
		return model.ByStatus(status), nil
	}
}
