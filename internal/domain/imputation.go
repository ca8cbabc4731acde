package domain

import (
	"fmt"
	"strings"
)

// Statistic is the aggregate used to fill a group
type Statistic int

const (
	StatisticMean Statistic = iota + 1
	StatisticMedian
	StatisticMode
)

// Condition selects which cells of the target column are replaced
type Condition int

const (
	ConditionNull Condition = iota + 1
	ConditionNegative
	ConditionZero
)

var statisticNames = map[string]Statistic{
	"mean":    StatisticMean,
	"media":   StatisticMean,
	"median":  StatisticMedian,
	"mediana": StatisticMedian,
	"mode":    StatisticMode,
	"moda":    StatisticMode,
}

var conditionNames = map[string]Condition{
	"null":     ConditionNull,
	"nulo":     ConditionNull,
	"negative": ConditionNegative,
	"negativo": ConditionNegative,
	"zero":     ConditionZero,
	"cero":     ConditionZero,
}

// ParseStatistic reads a statistic name (English or Spanish)
func ParseStatistic(s string) (Statistic, error) {
	if st, ok := statisticNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return 0, fmt.Errorf("%w: statistic %q", ErrUnsupportedImputation, s)
}

// ParseCondition reads a condition name (English or Spanish)
func ParseCondition(s string) (Condition, error) {
	if c, ok := conditionNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: condition %q", ErrUnsupportedImputation, s)
}

func (s Statistic) String() string {
	switch s {
	case StatisticMean:
		return "mean"
	case StatisticMedian:
		return "median"
	case StatisticMode:
		return "mode"
	}
	return fmt.Sprintf("statistic(%d)", int(s))
}

func (c Condition) String() string {
	switch c {
	case ConditionNull:
		return "null"
	case ConditionNegative:
		return "negative"
	case ConditionZero:
		return "zero"
	}
	return fmt.Sprintf("condition(%d)", int(c))
}

// Matches reports whether a cell satisfies the condition and must be replaced
func (c Condition) Matches(v Value) bool {
	switch c {
	case ConditionNull:
		return v.IsNull()
	case ConditionNegative:
		f, ok := v.Float()
		return ok && f < 0
	case ConditionZero:
		f, ok := v.Float()
		return ok && f == 0
	}
	return false
}

// ImputationRequest describes one segmented fill
type ImputationRequest struct {
	Target    string
	Condition Condition
	GroupBy   [2]string
	Statistic Statistic
}

// FrequencyEntry is one distinct value and its count
type FrequencyEntry struct {
	Value Value `json:"value"`
	Count int   `json:"count"`
}

// FrequencyTable counts distinct values of a column, sorted by value
type FrequencyTable struct {
	Column  string           `json:"column"`
	Entries []FrequencyEntry `json:"entries"`
	Missing int              `json:"missing"`
}

// Total returns the number of counted rows including missing cells
func (f FrequencyTable) Total() int {
	total := f.Missing
	for _, e := range f.Entries {
		total += e.Count
	}
	return total
}

// ImputationResult is the outcome of a segmented fill
type ImputationResult struct {
	Table    *Table            `json:"-"`
	Request  ImputationRequest `json:"-"`
	Before   FrequencyTable    `json:"before"`
	After    FrequencyTable    `json:"after"`
	Replaced int               `json:"replaced"`
	// Unfilled counts replaced cells whose group had no valid values
	Unfilled int `json:"unfilled"`
}
