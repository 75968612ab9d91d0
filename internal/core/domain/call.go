package domain

// CallAction is a step of the provider's call-acceptance handshake.
type CallAction string

const (
	ActionPreAccept CallAction = "pre_accept"
	ActionAccept    CallAction = "accept"
)

type CallStage string

const (
	StageAccepted   CallStage = "accepted"
	StageTerminated CallStage = "terminated"
	StagePeerClosed CallStage = "peer_closed"
)

// CallUpdate is a lifecycle notification published to event stream clients.
type CallUpdate struct {
	CallID string    `json:"call_id"`
	Stage  CallStage `json:"stage"`
	From   string    `json:"from,omitempty"`
}
