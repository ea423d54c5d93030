package security

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

var incidentTitles = map[string]string{
	IncidentQuarantineEnter: "🔒 Usuario en cuarentena",
	IncidentQuarantineExit:  "🔓 Cuarentena levantada",
	IncidentBurstDetected:   "💣 Ráfaga de acciones detectada",
	IncidentRaidGate:        "🚪 Puerta antiraid activada",
}

var incidentColors = map[string]int{
	IncidentQuarantineEnter: 0xFFA500,
	IncidentQuarantineExit:  0x00FF00,
	IncidentBurstDetected:   0xFF0000,
	IncidentRaidGate:        0xFF4500,
}

// WebhookNotifier posts each incident as an embed to a Discord webhook.
// Sending happens on its own goroutine so a slow webhook never blocks a
// detector.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier for a Discord webhook URL. An empty
// URL yields a notifier that drops everything.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify implements Notifier.
func (w *WebhookNotifier) Notify(inc Incident) {
	if w.url == "" {
		return
	}
	go w.send(inc)
}

func (w *WebhookNotifier) send(inc Incident) {
	title, ok := incidentTitles[inc.Kind]
	if !ok {
		title = "⚠️ Incidente de seguridad"
	}

	description := fmt.Sprintf("**Servidor:** %s", inc.GuildID)
	if inc.UserID != "" {
		description += fmt.Sprintf("\n**Usuario:** <@%s>", inc.UserID)
	}
	if inc.ActorID != "" {
		description += fmt.Sprintf("\n**Actor:** <@%s>", inc.ActorID)
	}
	if inc.Action != "" {
		description += fmt.Sprintf("\n**Acción:** %s", inc.Action)
	}
	if inc.Reason != "" {
		description += fmt.Sprintf("\n**Razón:** %s", inc.Reason)
	}
	if inc.RiskScore > 0 {
		description += fmt.Sprintf("\n**Puntuación de riesgo:** %d", inc.RiskScore)
	}

	embed := map[string]interface{}{
		"title":       title,
		"description": description,
		"color":       incidentColors[inc.Kind],
		"timestamp":   inc.Timestamp.Format(time.RFC3339),
		"footer": map[string]string{
			"text": "🛡️ CentinelaBot Go | CentinelaStudios",
		},
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest("POST", w.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}
