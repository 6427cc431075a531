// Package telemetry encodes a Decision's scalar search statistics into a
// compact flatbuffers table, for hosts that want to sample nodes/depth/
// timing at a frequency too high to pay JSON decode cost for every
// search.
package telemetry

import (
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/kestrelforge/duelcore/ai"
)

// vtable slot indices of the DecisionSnapshot table's fields, in
// declaration order.
const (
	fieldEvaluation = iota
	fieldDepthReached
	fieldNodes
	fieldTimedOut
	fieldDurationMs
	fieldStrategy
	fieldHasAction
	fieldCount
)

// EncodeDecision serializes the scalar telemetry fields of a Decision
// into a flatbuffers table: evaluation score, search depth reached, nodes
// visited, whether it timed out, wall-clock duration, the strategy used,
// and whether an action was actually chosen. The action's own payload
// isn't encoded here — callers that need it have the JSON-tagged
// GameAction for that; this snapshot is telemetry, not a replayable move.
func EncodeDecision(decision ai.Decision) []byte {
	builder := flatbuffers.NewBuilder(64)

	builder.StartObject(fieldCount)
	builder.PrependFloat64Slot(fieldEvaluation, decision.Evaluation, 0)
	builder.PrependByteSlot(fieldDepthReached, decision.DepthReached, 0)
	builder.PrependUint64Slot(fieldNodes, decision.Nodes, 0)
	builder.PrependBoolSlot(fieldTimedOut, decision.TimedOut, false)
	builder.PrependInt64Slot(fieldDurationMs, decision.Duration.Milliseconds(), 0)
	builder.PrependByteSlot(fieldStrategy, byte(decision.Strategy), 0)
	builder.PrependBoolSlot(fieldHasAction, decision.Action != nil, false)
	snapshot := builder.EndObject()

	builder.Finish(snapshot)
	return builder.FinishedBytes()
}

// DecisionSnapshot is the decoded form of EncodeDecision's output.
type DecisionSnapshot struct {
	Evaluation   float64
	DepthReached uint8
	Nodes        uint64
	TimedOut     bool
	DurationMs   int64
	Strategy     ai.Strategy
	HasAction    bool
}

// DecodeDecision reads a DecisionSnapshot out of bytes produced by
// EncodeDecision, using the flatbuffers table accessor pattern directly
// (no generated reader type, since every field here is a fixed-width
// scalar).
func DecodeDecision(data []byte) DecisionSnapshot {
	table := &flatbuffers.Table{
		Bytes: data,
		Pos:   flatbuffers.GetUOffsetT(data),
	}

	snapshot := DecisionSnapshot{}

	if o := table.Offset(flatbuffers.VOffsetT((fieldEvaluation + 2) * 2)); o != 0 {
		snapshot.Evaluation = table.GetFloat64(o + table.Pos)
	}
	if o := table.Offset(flatbuffers.VOffsetT((fieldDepthReached + 2) * 2)); o != 0 {
		snapshot.DepthReached = table.GetByte(o + table.Pos)
	}
	if o := table.Offset(flatbuffers.VOffsetT((fieldNodes + 2) * 2)); o != 0 {
		snapshot.Nodes = table.GetUint64(o + table.Pos)
	}
	if o := table.Offset(flatbuffers.VOffsetT((fieldTimedOut + 2) * 2)); o != 0 {
		snapshot.TimedOut = table.GetBool(o + table.Pos)
	}
	if o := table.Offset(flatbuffers.VOffsetT((fieldDurationMs + 2) * 2)); o != 0 {
		snapshot.DurationMs = table.GetInt64(o + table.Pos)
	}
	if o := table.Offset(flatbuffers.VOffsetT((fieldStrategy + 2) * 2)); o != 0 {
		snapshot.Strategy = ai.Strategy(table.GetByte(o + table.Pos))
	}
	if o := table.Offset(flatbuffers.VOffsetT((fieldHasAction + 2) * 2)); o != 0 {
		snapshot.HasAction = table.GetBool(o + table.Pos)
	}

	return snapshot
}
