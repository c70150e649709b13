// ABOUTME: Tests for the Strategic Gate batch driver's handler orchestration and summary formatting

package handler

import (
	"context"
	"errors"
	"testing"

	"strategic-news-pipeline/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGateHandlerRunReturnsSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	gate := NewMockGate(ctrl)
	gate.EXPECT().
		Run(gomock.Any(), 500, 20).
		Return(&service.GateRunResult{TotalProcessed: 100, Kept: 40, ActorHits: 40, BelowThreshold: 60}, nil)

	h := NewGateHandler(gate, nil, nil)
	result, err := h.Run(context.Background(), 500, 20)
	require.NoError(t, err)

	assert.Equal(t, "GATE_RESULT: 40/100 kept, 40 actor_hit, 60 below_threshold", result.Summary())
}

func TestGateHandlerRunPropagatesBatchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	gate := NewMockGate(ctrl)
	gate.EXPECT().
		Run(gomock.Any(), 500, 20).
		Return(&service.GateRunResult{Errors: 1}, errors.New("persisting gate results: deadline exceeded"))

	h := NewGateHandler(gate, nil, nil)
	result, err := h.Run(context.Background(), 500, 20)

	assert.Error(t, err)
	assert.Nil(t, result)
}
