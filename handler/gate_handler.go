// ABOUTME: Handler layer for the Strategic Gate batch driver
// ABOUTME: Orchestrates a multi-batch gate run and renders its CLI summary line

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"strategic-news-pipeline/service"
	"strategic-news-pipeline/utils"
)

// Gate is the subset of StrategicGate the gate handler depends on.
type Gate interface {
	Run(ctx context.Context, batchSize, maxBatches int) (*service.GateRunResult, error)
}

// GateHandler orchestrates one Strategic Gate run across many batches.
type GateHandler struct {
	gate    Gate
	monitor *utils.Monitor
	logger  *slog.Logger
}

// NewGateHandler constructs a GateHandler over the given gate.
func NewGateHandler(gate Gate, monitor *utils.Monitor, logger *slog.Logger) *GateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GateHandler{gate: gate, monitor: monitor, logger: logger}
}

// GateRunResult carries the outcome of one gate driver run.
type GateRunResult struct {
	*service.GateRunResult
	Duration time.Duration
}

// Run processes up to maxBatches batches of batchSize pending titles.
func (h *GateHandler) Run(ctx context.Context, batchSize, maxBatches int) (*GateRunResult, error) {
	start := time.Now()

	gateResult, err := h.gate.Run(ctx, batchSize, maxBatches)
	duration := time.Since(start)

	if gateResult != nil && h.monitor != nil {
		h.monitor.LogPipelineStage(ctx, "gate", gateResult.TotalProcessed, err == nil, duration, err)
	}

	if err != nil {
		return nil, fmt.Errorf("running strategic gate batch: %w", err)
	}

	h.logger.Info("strategic gate run complete",
		"total_processed", gateResult.TotalProcessed,
		"kept", gateResult.Kept,
		"actor_hits", gateResult.ActorHits,
		"below_threshold", gateResult.BelowThreshold,
		"errors", gateResult.Errors,
		"duration", duration)

	return &GateRunResult{GateRunResult: gateResult, Duration: duration}, nil
}

// Summary renders the single-line CLI summary for a gate run.
func (r *GateRunResult) Summary() string {
	return fmt.Sprintf("GATE_RESULT: %d/%d kept, %d actor_hit, %d below_threshold",
		r.Kept, r.TotalProcessed, r.ActorHits, r.BelowThreshold)
}
