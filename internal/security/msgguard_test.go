package security

import (
	"fmt"
	"testing"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
)

const testChannel = "900000000000000001"

func TestContainsLink(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"hola a todos", false},
		{"visita https://ejemplo.com ya", true},
		{"http://ejemplo.com", true},
		{"www.ejemplo.com", true},
		{"mira ejemplo.com", true},
		{"discord.gg/abc", true},
		{"son las 12.3", false},
		{"versión 12.30", true},
	}
	for _, tc := range cases {
		if got := ContainsLink(tc.content); got != tc.want {
			t.Errorf("ContainsLink(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}

func messageEvent(userID, messageID, content string, ts time.Time) *Event {
	return &Event{
		Kind:      EventMessagePosted,
		GuildID:   testGuild,
		UserID:    userID,
		ChannelID: testChannel,
		MessageID: messageID,
		Content:   content,
		Timestamp: ts,
	}
}

func TestAntilinkDeletesAndWarns(t *testing.T) {
	svc, _, gateway, _ := serviceFixture(t, func(c *models.GuildSecurityConfig) {
		c.AntilinkEnabled = true
	})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Dispatch(messageEvent(testUser, "msg1", "entra a www.estafa.com", now))

	deleted := gateway.deletedIn(testChannel)
	if !equalStrings(deleted, []string{"msg1"}) {
		t.Errorf("mensajes eliminados = %v, want [msg1]", deleted)
	}
	if len(gateway.sent) != 1 {
		t.Errorf("avisos enviados = %d, want 1", len(gateway.sent))
	}
	// El mensaje eliminado no cuenta para la ventana de antispam
	if got := svc.messages.Len(testGuild, testUser); got != 0 {
		t.Errorf("ventana de mensajes tras el enlace = %d, want 0", got)
	}
}

func TestAntilinkDisabledLetsLinksThrough(t *testing.T) {
	svc, _, gateway, _ := serviceFixture(t, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Dispatch(messageEvent(testUser, "msg1", "entra a www.estafa.com", now))

	if deleted := gateway.deletedIn(testChannel); len(deleted) != 0 {
		t.Errorf("mensajes eliminados = %v, want ninguno", deleted)
	}
	if got := svc.messages.Len(testGuild, testUser); got != 1 {
		t.Errorf("ventana de mensajes = %d, want 1", got)
	}
}

func TestAntispamDeletesBurstAndResetsWindow(t *testing.T) {
	svc, _, gateway, _ := serviceFixture(t, nil)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Cinco mensajes quedan dentro del límite
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("msg%d", i)
		gateway.addHistory(testChannel, id)
		svc.Dispatch(messageEvent(testUser, id, "spam", base.Add(time.Duration(i)*time.Second)))
	}
	if deleted := gateway.deletedIn(testChannel); len(deleted) != 0 {
		t.Fatalf("mensajes eliminados antes de superar el límite = %v", deleted)
	}

	// El sexto supera el límite: se borran como máximo límite+1 mensajes
	svc.Dispatch(messageEvent(testUser, "msg6", "spam", base.Add(6*time.Second)))

	deleted := gateway.deletedIn(testChannel)
	if len(deleted) != 6 {
		t.Errorf("mensajes eliminados = %d, want 6 (límite+1)", len(deleted))
	}
	if got := svc.messages.Len(testGuild, testUser); got != 0 {
		t.Errorf("ventana tras la sanción = %d, want 0", got)
	}
	if len(gateway.sent) != 1 {
		t.Errorf("avisos enviados = %d, want 1", len(gateway.sent))
	}
}

func TestAntispamDeletesMostRecentMessages(t *testing.T) {
	svc, _, gateway, _ := serviceFixture(t, func(c *models.GuildSecurityConfig) {
		c.AntispamLimit = 2
	})

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Mensajes antiguos del mismo usuario que siguen en el canal
	gateway.addHistory(testChannel, "viejo1", "viejo2")

	gateway.addHistory(testChannel, "msg1")
	svc.Dispatch(messageEvent(testUser, "msg1", "spam", base.Add(1*time.Second)))
	gateway.addHistory(testChannel, "msg2")
	svc.Dispatch(messageEvent(testUser, "msg2", "spam", base.Add(2*time.Second)))
	svc.Dispatch(messageEvent(testUser, "msg3", "spam", base.Add(3*time.Second)))

	// La ráfaga borra el detonante y los límite más recientes; la cola vieja
	// del canal queda intacta
	deleted := sorted(gateway.deletedIn(testChannel))
	want := sorted([]string{"msg1", "msg2", "msg3"})
	if !equalStrings(deleted, want) {
		t.Errorf("mensajes eliminados = %v, want %v", deleted, want)
	}
}

func TestEditedMessageSkipsSpamWindow(t *testing.T) {
	svc, _, gateway, _ := serviceFixture(t, func(c *models.GuildSecurityConfig) {
		c.AntilinkEnabled = true
	})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// El anti-link sí actúa sobre una edición que introduce un enlace
	edit := messageEvent(testUser, "msg1", "edición con www.estafa.com", now)
	edit.Edited = true
	svc.Dispatch(edit)
	if deleted := gateway.deletedIn(testChannel); !equalStrings(deleted, []string{"msg1"}) {
		t.Errorf("mensajes eliminados = %v, want [msg1]", deleted)
	}

	// Una edición sin enlace nunca suma a la ventana de antispam
	plain := messageEvent(testUser, "msg2", "texto corregido", now)
	plain.Edited = true
	svc.Dispatch(plain)
	if got := svc.messages.Len(testGuild, testUser); got != 0 {
		t.Errorf("ventana tras la edición = %d, want 0", got)
	}
}

func TestAntispamSpreadMessagesAreFine(t *testing.T) {
	svc, _, gateway, _ := serviceFixture(t, nil)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Un mensaje cada 20 segundos nunca acumula más de 3 en el minuto
	for i := 1; i <= 10; i++ {
		svc.Dispatch(messageEvent(testUser, fmt.Sprintf("msg%d", i), "hola", base.Add(time.Duration(i*20)*time.Second)))
	}

	if deleted := gateway.deletedIn(testChannel); len(deleted) != 0 {
		t.Errorf("mensajes eliminados = %v, want ninguno", deleted)
	}
}

func TestMessageGuardIgnoresBotsAndDMs(t *testing.T) {
	svc, _, gateway, _ := serviceFixture(t, func(c *models.GuildSecurityConfig) {
		c.AntilinkEnabled = true
	})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	botEvent := messageEvent(testUser, "msg1", "www.estafa.com", now)
	botEvent.Bot = true
	svc.Dispatch(botEvent)

	dmEvent := messageEvent(testUser, "msg2", "www.estafa.com", now)
	dmEvent.GuildID = ""
	svc.Dispatch(dmEvent)

	if deleted := gateway.deletedIn(testChannel); len(deleted) != 0 {
		t.Errorf("mensajes eliminados = %v, want ninguno", deleted)
	}
}

func TestMessageTrackerWindowSlides(t *testing.T) {
	tracker := NewMessageTracker()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		tracker.Record("g1", "u1", base.Add(time.Duration(i)*time.Second))
	}
	// 70 segundos después solo queda el mensaje nuevo
	if got := tracker.Record("g1", "u1", base.Add(70*time.Second)); got != 1 {
		t.Errorf("ventana deslizada = %d, want 1", got)
	}
}
