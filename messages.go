package server

import (
	"shotline/server/internal/field"
	"shotline/server/internal/shot"
)

// Message type tags for hub broadcasts.
const (
	msgScene = "scene"
	msgShot  = "shot"
)

type sceneMessage struct {
	Type  string      `json:"type"`
	Scene field.Scene `json:"scene"`
}

type shotMessage struct {
	Type       string      `json:"type"`
	UID        string      `json:"uid"`
	Result     shot.Result `json:"shotResult"`
	ActualHits []shot.Hit  `json:"actualHits,omitempty"`
}
