package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls counts handled tool invocations per tool name and result.
	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mgba_mcp",
		Name:      "tool_calls_total",
		Help:      "Total number of handled MCP tool calls.",
	}, []string{"tool", "result"})

	// FramesRun counts emulated frames.
	FramesRun = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mgba_mcp",
		Name:      "frames_run_total",
		Help:      "Total number of frames run by the emulator core.",
	})

	// ToolSeconds tracks handler latency per tool.
	ToolSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mgba_mcp",
		Name:      "tool_seconds",
		Help:      "Tool call handling time in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tool"})
)
