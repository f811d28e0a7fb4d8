package publish

import (
	"time"

	"github.com/skskillls/thesis-benchmark/internal/results"
)

// Gatherer receives progress notifications for a single measured build run.
// Implementations must never fail the run; delivery problems are logged and
// dropped.
type Gatherer interface {
	StartRun(id results.Identity)
	FinishRun(rec *results.Record)
}

// MsgType is a message type for published run progress messages
type MsgType string

const (
	StartedRunMsg  MsgType = "started_run"
	FinishedRunMsg MsgType = "finished_run"
)

// Header is the common header for all published run progress messages
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// StartedRun message sent when a measured build begins
type StartedRun struct {
	Header
	Tool           string `json:"tool"`
	Service        string `json:"service"`
	DockerfileType string `json:"dockerfile_type"`
	CacheScenario  string `json:"cache_scenario"`
	RunNumber      int    `json:"run_number"`
	StartedTime    string `json:"started_time"`
}

// FinishedRun message sent when a measured build completes, whatever its
// exit code
type FinishedRun struct {
	Header
	Record *results.Record `json:"record"`
}

// NewHeader creates a header for a run progress message
func NewHeader(runUuid string, msgType MsgType) Header {
	return Header{
		RunUuid: runUuid,
		MsgType: msgType,
	}
}

func NewStartedRun(runUuid string, id results.Identity) StartedRun {
	return StartedRun{
		Header:         NewHeader(runUuid, StartedRunMsg),
		Tool:           id.Tool,
		Service:        id.Service,
		DockerfileType: id.DockerfileType,
		CacheScenario:  id.CacheScenario,
		RunNumber:      id.RunNumber,
		StartedTime:    time.Now().Format(time.RFC3339),
	}
}

func NewFinishedRun(runUuid string, rec *results.Record) FinishedRun {
	return FinishedRun{
		Header: NewHeader(runUuid, FinishedRunMsg),
		Record: rec,
	}
}
