package aggregate

import "github.com/apache/arrow/go/v14/arrow"

// Schema is the fixed column layout of aggregates.parquet, one row per
// (condition, replicate).
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "condition", Type: arrow.BinaryTypes.String},
	{Name: "replicate", Type: arrow.PrimitiveTypes.Int64},
	{Name: "total_rounds", Type: arrow.PrimitiveTypes.Int64},
	{Name: "agent_a_cooperation_rate", Type: arrow.PrimitiveTypes.Float64},
	{Name: "agent_b_cooperation_rate", Type: arrow.PrimitiveTypes.Float64},
	{Name: "agent_a_retaliation_rate", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "agent_b_retaliation_rate", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "agent_a_forgiveness_rate", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "agent_b_forgiveness_rate", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "agent_a_total_payoff", Type: arrow.PrimitiveTypes.Int64},
	{Name: "agent_b_total_payoff", Type: arrow.PrimitiveTypes.Int64},
	{Name: "exploitability_gap_a", Type: arrow.PrimitiveTypes.Int64},
	{Name: "exploitability_gap_b", Type: arrow.PrimitiveTypes.Int64},
	{Name: "time_to_collapse", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	{Name: "cooperation_rate_over_time", Type: arrow.ListOf(arrow.PrimitiveTypes.Float64)},
}, nil)
