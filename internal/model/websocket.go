package model

// WebSocket message types
const (
	WSMessageTypeQueueChanged = "queue_changed"
	WSMessageTypePing         = "ping"
	WSMessageTypePong         = "pong"
)

// WSMessage is the basic WebSocket message envelope.
type WSMessage struct {
	Type string `json:"type"`
}

// WSQueueChangedMessage tells observers the job set changed; each observer
// re-queries the ordered views rather than receiving precomputed positions.
type WSQueueChangedMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}
