package mqtt

import (
	"fmt"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
)

// incidentTopic is where every security incident is published. External
// consumers (dashboards, the moderation panel) subscribe here.
const incidentTopic = "centinela/security/incidents"

// AlertPublisher bridges the security pipeline to the MQTT broker. It
// implements security.Notifier; publishing happens on its own goroutine so a
// slow broker never blocks a detector.
type AlertPublisher struct {
	comm *MqttCommunicator
}

// NewAlertPublisher wraps a communicator as an alert sink.
func NewAlertPublisher(comm *MqttCommunicator) *AlertPublisher {
	return &AlertPublisher{comm: comm}
}

// Notify implements security.Notifier.
func (p *AlertPublisher) Notify(inc security.Incident) {
	if p.comm == nil || !p.comm.IsConnected() {
		return
	}
	go func() {
		if err := p.comm.Publish(incidentTopic, inc); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo publicar el incidente %s: %v", inc.ID, err), "MQTT")
		}
	}()
}
