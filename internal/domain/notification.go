package domain

type NotificationPhase int

const (
	PhaseIdle NotificationPhase = iota
	PhaseShowing
	PhaseFadingOut
)

func (p NotificationPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShowing:
		return "showing"
	case PhaseFadingOut:
		return "fading_out"
	default:
		return "unknown"
	}
}

type NotificationState struct {
	Phase   NotificationPhase
	Current *ChatMessage
	Visible bool
}
