package security

import "time"

// Incident kinds published to the alert bridge.
const (
	IncidentQuarantineEnter = "quarantine_enter"
	IncidentQuarantineExit  = "quarantine_exit"
	IncidentBurstDetected   = "burst_detected"
	IncidentRaidGate        = "raid_gate"
)

// Incident is the packet a detector or lifecycle transition emits when it
// fires. Consumers (MQTT bridge, live web feed, webhook) only read it.
type Incident struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	GuildID   string    `json:"guildId"`
	UserID    string    `json:"userId,omitempty"`
	ActorID   string    `json:"actorId,omitempty"`
	Action    string    `json:"action,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RiskScore int       `json:"riskScore,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives incidents as they happen. Implementations must not block
// the calling detector.
type Notifier interface {
	Notify(inc Incident)
}

// MultiNotifier fans an incident out to several sinks.
type MultiNotifier []Notifier

// Notify implements Notifier.
func (m MultiNotifier) Notify(inc Incident) {
	for _, n := range m {
		if n != nil {
			n.Notify(inc)
		}
	}
}
