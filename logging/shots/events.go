// Package shots defines the structured events the shot engine emits.
package shots

import (
	"context"

	"shotline/server/logging"
)

const (
	// EventResolved is emitted once per completed resolution pass.
	EventResolved logging.EventType = "shot.resolved"
	// EventHalted is emitted when a segment stops the pass early.
	EventHalted logging.EventType = "shot.halted"
	// EventUnknownSegment is emitted when a payload carries a segment kind
	// the resolver cannot dispatch. The shot halts.
	EventUnknownSegment logging.EventType = "shot.unknown_segment"
)

// ResolvedPayload summarizes a finished shot.
type ResolvedPayload struct {
	Segments int `json:"segments"`
	Paths    int `json:"paths"`
	Hits     int `json:"hits"`
}

// HaltedPayload records where a shot stopped early.
type HaltedPayload struct {
	SegmentIndex int    `json:"segmentIndex"`
	SegmentKind  string `json:"segmentKind"`
}

// UnknownSegmentPayload names the unhandled segment kind.
type UnknownSegmentPayload struct {
	SegmentIndex int    `json:"segmentIndex"`
	SegmentKind  string `json:"segmentKind"`
}

func Resolved(ctx context.Context, pub logging.Publisher, uid string, actor logging.EntityRef, segments, paths, hits int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventResolved,
		Shot:     uid,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryShot,
		Payload:  ResolvedPayload{Segments: segments, Paths: paths, Hits: hits},
	})
}

func Halted(ctx context.Context, pub logging.Publisher, uid string, actor logging.EntityRef, index int, kind string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHalted,
		Shot:     uid,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryShot,
		Payload:  HaltedPayload{SegmentIndex: index, SegmentKind: kind},
	})
}

func UnknownSegment(ctx context.Context, pub logging.Publisher, uid string, actor logging.EntityRef, index int, kind string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventUnknownSegment,
		Shot:     uid,
		Actor:    actor,
		Severity: logging.SeverityError,
		Category: logging.CategoryShot,
		Payload:  UnknownSegmentPayload{SegmentIndex: index, SegmentKind: kind},
	})
}
