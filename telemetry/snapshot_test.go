package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/kestrelforge/duelcore/ai"
)

func TestEncodeDecisionRoundTrips(t *testing.T) {
	action := ai.EndTurnGameAction()
	decision := ai.Decision{
		Action:       &action,
		Evaluation:   12.5,
		DepthReached: 3,
		Nodes:        4821,
		TimedOut:     true,
		Duration:     275 * time.Millisecond,
		Strategy:     ai.StrategyAggressive,
	}

	data := EncodeDecision(decision)
	require.NotEmpty(t, data)

	snapshot := DecodeDecision(data)
	require.Equal(t, decision.Evaluation, snapshot.Evaluation)
	require.Equal(t, decision.DepthReached, snapshot.DepthReached)
	require.Equal(t, decision.Nodes, snapshot.Nodes)
	require.Equal(t, decision.TimedOut, snapshot.TimedOut)
	require.Equal(t, decision.Duration.Milliseconds(), snapshot.DurationMs)
	require.Equal(t, decision.Strategy, snapshot.Strategy)
	require.True(t, snapshot.HasAction)
}

func TestEncodeDecisionWithoutActionReportsHasActionFalse(t *testing.T) {
	decision := ai.Decision{
		Evaluation: -4.0,
		Strategy:   ai.StrategyControl,
	}

	snapshot := DecodeDecision(EncodeDecision(decision))
	require.False(t, snapshot.HasAction)
	require.Equal(t, ai.StrategyControl, snapshot.Strategy)
}

func TestEncodeDecisionZeroValueFieldsDecodeAsZero(t *testing.T) {
	snapshot := DecodeDecision(EncodeDecision(ai.Decision{}))
	require.Equal(t, 0.0, snapshot.Evaluation)
	require.Equal(t, uint8(0), snapshot.DepthReached)
	require.Equal(t, uint64(0), snapshot.Nodes)
	require.False(t, snapshot.TimedOut)
	require.Equal(t, int64(0), snapshot.DurationMs)
	require.False(t, snapshot.HasAction)
}
