package github

import "fmt"

// batchOutcome records the result of applying an operation to one batch
// input. Key preserves the caller-supplied identity of the input (an issue
// number, an item ID) so failures are attributable. SecondaryError records a
// failed follow-up effect whose primary action already succeeded; it does not
// void the outcome's success.
type batchOutcome struct {
	Key            string `json:"key"`
	Success        bool   `json:"success"`
	Value          any    `json:"value,omitempty"`
	Error          string `json:"error,omitempty"`
	SecondaryError string `json:"secondary_error,omitempty"`
}

// batchReport aggregates the per-input outcomes of one batch run. Outcomes
// are in input order and there is exactly one per input.
type batchReport struct {
	Outcomes     []batchOutcome `json:"outcomes"`
	SuccessCount int            `json:"success_count"`
	Total        int            `json:"total"`
}

func (r batchReport) summary() string {
	return fmt.Sprintf("%d of %d succeeded", r.SuccessCount, r.Total)
}

// resultItems renders the report into the normalized envelope: a summary
// line followed by one structured item per outcome. Per-item failures are
// reported as data, not as an error envelope; a batch with zero successes is
// still a success envelope.
func (r batchReport) resultItems() []resultItem {
	items := make([]resultItem, 0, len(r.Outcomes)+1)
	items = append(items, resultItem{Kind: itemKindText, Text: r.summary()})
	for _, outcome := range r.Outcomes {
		items = append(items, structuredItem(outcome))
	}
	return items
}

// batchOp applies the operation to one input. A non-nil err marks the input
// failed. secondaryErr reports a failed optional follow-up effect on an input
// whose primary action succeeded; it is recorded on the outcome without
// rolling back or failing the input.
type batchOp[T any] func(input T) (value any, secondaryErr error, err error)

// runBatch drives op across inputs sequentially, best-effort: a failure on
// one input is recorded and execution continues with the next, never aborting
// the batch. Sequential on purpose: the remote API sees a predictable,
// low-burst load pattern and per-item attribution stays trivial.
func runBatch[T any](inputs []T, key func(T) string, op batchOp[T]) batchReport {
	report := batchReport{
		Outcomes: make([]batchOutcome, 0, len(inputs)),
		Total:    len(inputs),
	}

	for _, input := range inputs {
		outcome := batchOutcome{Key: key(input)}

		value, secondaryErr, err := op(input)
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Success = true
			outcome.Value = value
			if secondaryErr != nil {
				outcome.SecondaryError = secondaryErr.Error()
			}
			report.SuccessCount++
		}

		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report
}
