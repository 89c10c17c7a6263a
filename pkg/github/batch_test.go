package github

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_runBatch_allSucceed(t *testing.T) {
	report := runBatch([]int{1, 2, 3},
		func(n int) string { return fmt.Sprintf("#%d", n) },
		func(n int) (any, error, error) {
			return n * 10, nil, nil
		})

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.SuccessCount)
	require.Len(t, report.Outcomes, 3)
	for i, outcome := range report.Outcomes {
		assert.Equal(t, fmt.Sprintf("#%d", i+1), outcome.Key)
		assert.True(t, outcome.Success)
		assert.Equal(t, (i+1)*10, outcome.Value)
		assert.Empty(t, outcome.Error)
	}
	assert.Equal(t, "3 of 3 succeeded", report.summary())
}

func Test_runBatch_continuesPastFailures(t *testing.T) {
	report := runBatch([]int{1, 2, 3, 4},
		func(n int) string { return fmt.Sprintf("#%d", n) },
		func(n int) (any, error, error) {
			if n%2 == 0 {
				return nil, nil, fmt.Errorf("item %d exploded", n)
			}
			return "ok", nil, nil
		})

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.SuccessCount)
	require.Len(t, report.Outcomes, 4)

	assert.True(t, report.Outcomes[0].Success)
	assert.False(t, report.Outcomes[1].Success)
	assert.Equal(t, "item 2 exploded", report.Outcomes[1].Error)
	assert.True(t, report.Outcomes[2].Success)
	assert.False(t, report.Outcomes[3].Success)

	assert.Equal(t, "2 of 4 succeeded", report.summary())
}

func Test_runBatch_secondaryFailure(t *testing.T) {
	report := runBatch([]string{"a", "b"},
		func(s string) string { return s },
		func(s string) (any, error, error) {
			if s == "b" {
				return "done", errors.New("comment failed"), nil
			}
			return "done", nil, nil
		})

	// A secondary failure does not void the outcome's success.
	assert.Equal(t, 2, report.SuccessCount)
	assert.True(t, report.Outcomes[1].Success)
	assert.Equal(t, "comment failed", report.Outcomes[1].SecondaryError)
	assert.Empty(t, report.Outcomes[1].Error)
}

func Test_runBatch_empty(t *testing.T) {
	report := runBatch(nil,
		func(n int) string { return "" },
		func(n int) (any, error, error) { return nil, nil, nil })

	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, report.SuccessCount)
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, "0 of 0 succeeded", report.summary())
}

func Test_batchReport_resultItems(t *testing.T) {
	report := runBatch([]int{1, 2},
		func(n int) string { return fmt.Sprintf("#%d", n) },
		func(n int) (any, error, error) {
			if n == 2 {
				return nil, nil, errors.New("nope")
			}
			return map[string]any{"item_id": "ITEM_1"}, nil, nil
		})

	items := report.resultItems()
	require.Len(t, items, 3)
	assert.Equal(t, "1 of 2 succeeded", items[0].Text)

	// Per-item failures are data, not an error envelope.
	for _, item := range items {
		assert.Equal(t, itemKindText, item.Kind)
	}
	assert.Contains(t, items[2].Text, `"nope"`)
	assert.Contains(t, items[2].Text, `"key":"#2"`)
}
