// Package aggregate computes and persists per-replicate metrics as a
// columnar aggregates.parquet table, and recomputes it idempotently from
// the round event log.
package aggregate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentgamelab/pdbench/internal/core"
	"github.com/agentgamelab/pdbench/internal/roundlog"
	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
	"github.com/rs/zerolog"
)

// Writer builds and persists the aggregates.parquet table.
type Writer struct {
	logger zerolog.Logger
}

// NewWriter constructs a Writer.
func NewWriter(logger zerolog.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteAggregates writes metrics as <outputDir>/aggregates.parquet. A nil or
// empty metrics slice is a no-op, matching the reference writer's "nothing
// to aggregate yet" behavior.
func (w *Writer) WriteAggregates(outputDir string, metrics []core.ConditionMetrics) error {
	if len(metrics) == 0 {
		return nil
	}

	pool := memory.NewGoAllocator()
	record := buildRecord(pool, metrics)
	defer record.Release()

	table := array.NewTableFromRecords(Schema, []arrow.Record{record})
	defer table.Release()

	path := filepath.Join(outputDir, "aggregates.parquet")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("aggregate: create %s: %w", path, err)
	}
	defer f.Close()

	props := parquet.NewWriterProperties()
	writerProps := pqarrow.DefaultWriterProps()
	if err := pqarrow.WriteTable(table, f, int64(table.NumRows()), props, writerProps); err != nil {
		return fmt.Errorf("aggregate: write parquet table to %s: %w", path, err)
	}

	w.logger.Debug().Str("path", path).Int("rows", len(metrics)).Msg("wrote aggregates")
	return nil
}

func buildRecord(pool memory.Allocator, metrics []core.ConditionMetrics) arrow.Record {
	b := array.NewRecordBuilder(pool, Schema)
	defer b.Release()

	condition := b.Field(0).(*array.StringBuilder)
	replicate := b.Field(1).(*array.Int64Builder)
	totalRounds := b.Field(2).(*array.Int64Builder)
	coopA := b.Field(3).(*array.Float64Builder)
	coopB := b.Field(4).(*array.Float64Builder)
	retalA := b.Field(5).(*array.Float64Builder)
	retalB := b.Field(6).(*array.Float64Builder)
	forgiveA := b.Field(7).(*array.Float64Builder)
	forgiveB := b.Field(8).(*array.Float64Builder)
	payoffA := b.Field(9).(*array.Int64Builder)
	payoffB := b.Field(10).(*array.Int64Builder)
	gapA := b.Field(11).(*array.Int64Builder)
	gapB := b.Field(12).(*array.Int64Builder)
	collapse := b.Field(13).(*array.Int64Builder)
	trajectory := b.Field(14).(*array.ListBuilder)
	trajectoryValues := trajectory.ValueBuilder().(*array.Float64Builder)

	for _, m := range metrics {
		condition.Append(m.Condition)
		replicate.Append(int64(m.Replicate))
		totalRounds.Append(int64(m.TotalRounds))
		coopA.Append(m.AgentACooperationRate)
		coopB.Append(m.AgentBCooperationRate)
		appendNullableFloat(retalA, m.AgentARetaliationRate)
		appendNullableFloat(retalB, m.AgentBRetaliationRate)
		appendNullableFloat(forgiveA, m.AgentAForgivenessRate)
		appendNullableFloat(forgiveB, m.AgentBForgivenessRate)
		payoffA.Append(int64(m.AgentATotalPayoff))
		payoffB.Append(int64(m.AgentBTotalPayoff))
		gapA.Append(int64(m.ExploitabilityGapA))
		gapB.Append(int64(m.ExploitabilityGapB))
		appendNullableInt(collapse, m.TimeToCollapse)

		trajectory.Append(true)
		for _, v := range m.CooperationRateOverTime {
			trajectoryValues.Append(v)
		}
	}

	return b.NewRecord()
}

func appendNullableFloat(b *array.Float64Builder, v *float64) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

func appendNullableInt(b *array.Int64Builder, v *int) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(int64(*v))
}

// RecomputeFromRoundLog rebuilds aggregates.parquet from scratch by reading
// rounds.jsonl, grouping by (condition, replicate), and recomputing metrics.
// Idempotent: running it twice on an unchanged log produces byte-identical
// output.
func (w *Writer) RecomputeFromRoundLog(outputDir string, collapseK int, collapseThreshold float64) error {
	events, err := roundlog.ReadAll(filepath.Join(outputDir, "rounds.jsonl"))
	if err != nil {
		return fmt.Errorf("aggregate: read round log: %w", err)
	}

	type groupKey struct {
		condition string
		replicate int
	}
	grouped := map[groupKey][]roundlog.RoundEvent{}
	for _, e := range events {
		k := groupKey{e.Condition, e.Replicate}
		grouped[k] = append(grouped[k], e)
	}

	keys := make([]groupKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].condition != keys[j].condition {
			return keys[i].condition < keys[j].condition
		}
		return keys[i].replicate < keys[j].replicate
	})

	metrics := make([]core.ConditionMetrics, 0, len(keys))
	for _, k := range keys {
		group := grouped[k]
		sort.Slice(group, func(i, j int) bool { return group[i].RoundIndex < group[j].RoundIndex })

		rounds := make([]core.RoundRecord, len(group))
		for i, e := range group {
			actionA, err := core.ParseActionStrict(e.AgentAAction)
			if err != nil {
				return fmt.Errorf("aggregate: condition %q replicate %d: invalid agent_a_action %q at rounds.jsonl line %d: %w",
					k.condition, k.replicate, e.AgentAAction, e.Line, err)
			}
			actionB, err := core.ParseActionStrict(e.AgentBAction)
			if err != nil {
				return fmt.Errorf("aggregate: condition %q replicate %d: invalid agent_b_action %q at rounds.jsonl line %d: %w",
					k.condition, k.replicate, e.AgentBAction, e.Line, err)
			}
			rounds[i] = core.RoundRecord{
				RoundIndex: e.RoundIndex,
				ActionA:    actionA,
				ActionB:    actionB,
				PayoffA:    e.AgentAPayoff,
				PayoffB:    e.AgentBPayoff,
				CumPayoffA: e.AgentACumPayoff,
				CumPayoffB: e.AgentBCumPayoff,
			}
		}
		metrics = append(metrics, core.ComputeConditionMetrics(k.condition, k.replicate, rounds, collapseK, collapseThreshold))
	}

	return w.WriteAggregates(outputDir, metrics)
}
