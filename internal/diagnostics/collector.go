package diagnostics

import (
	"errors"
)

var (
	COMPILER_ERROR_FOUND = errors.New("compiler error found")
)

// Collector accumulates diags for one evaluation. Every pass receives it
// explicitly, so independent evaluations never share one.
type Collector struct {
	Diags []Diag
}

func New() *Collector {
	return &Collector{
		Diags: nil,
	}
}

func (collector *Collector) ReportAndSave(diag Diag) {
	collector.Diags = append(collector.Diags, diag)
}

// Count is used by passes to know whether they themselves saved diags,
// independently of what earlier passes left in the collector.
func (collector *Collector) Count() int {
	return len(collector.Diags)
}

func (collector *Collector) Since(mark int) []Diag {
	if mark >= len(collector.Diags) {
		return nil
	}
	return collector.Diags[mark:]
}
