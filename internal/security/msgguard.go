package security

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
)

// urlPattern matches http(s) URLs, www-prefixed hosts and bare domains.
var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+|\S+\.\S{2,}`)

// ContainsLink reports whether a message body matches the URL pattern used by
// the anti-link filter.
func ContainsLink(content string) bool {
	return urlPattern.MatchString(content)
}

// messageRateWindow is the trailing interval the anti-spam limit applies to.
const messageRateWindow = time.Minute

// MessageTracker keeps a rolling window of message timestamps per
// (guild, user). Process-local and volatile, same as BurstTracker.
type MessageTracker struct {
	mu       sync.Mutex
	messages map[trackerKey][]time.Time
}

// NewMessageTracker creates an empty tracker.
func NewMessageTracker() *MessageTracker {
	return &MessageTracker{messages: make(map[trackerKey][]time.Time)}
}

// Record appends "now" to the user's window, prunes entries older than the
// trailing minute, and returns the resulting window size.
func (t *MessageTracker) Record(guildID, userID string, now time.Time) int {
	key := trackerKey{GuildID: guildID, UserID: userID}
	cutoff := now.Add(-messageRateWindow)

	t.mu.Lock()
	defer t.mu.Unlock()

	stamps := append(t.messages[key], now)
	pruned := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}
	t.messages[key] = pruned
	return len(pruned)
}

// Reset clears the user's window after a spam remediation.
func (t *MessageTracker) Reset(guildID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.messages, trackerKey{GuildID: guildID, UserID: userID})
}

// Len returns the current window size. Test helper.
func (t *MessageTracker) Len(guildID, userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages[trackerKey{GuildID: guildID, UserID: userID}])
}

// messageGuard runs the anti-link and anti-spam checks, in that fixed order,
// for every inbound text message. A link violation deletes the message and
// short-circuits the spam check.
type messageGuard struct {
	configs *ConfigService
	tracker *MessageTracker
	gateway Gateway
}

func (g *messageGuard) Name() string { return "antispam-antilink" }

func (g *messageGuard) OnEvent(ev *Event) {
	if ev.Kind != EventMessagePosted || ev.Bot || ev.GuildID == "" {
		return
	}

	cfg, err := g.configs.Get(ev.GuildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer la configuración de seguridad de %s: %v", ev.GuildID, err), "MessageGuard")
		return
	}

	// Anti-link primero: un mensaje eliminado ya no cuenta para el anti-spam
	if cfg.AntilinkEnabled && ContainsLink(ev.Content) {
		if err := g.gateway.DeleteMessage(ev.ChannelID, ev.MessageID); err != nil && !IsTargetNotFound(err) {
			logger.Warn(fmt.Sprintf("No se pudo eliminar el mensaje con enlace de %s: %v", ev.UserID, err), "MessageGuard")
		}
		g.gateway.SendTransient(ev.ChannelID, fmt.Sprintf("❌ <@%s>, los enlaces no están permitidos en este servidor.", ev.UserID))
		return
	}

	if ev.Edited || cfg.AntispamLimit <= 0 {
		return
	}

	count := g.tracker.Record(ev.GuildID, ev.UserID, ev.Timestamp)
	if count <= cfg.AntispamLimit {
		return
	}

	// Borrado acotado: como máximo las últimas limit+1 del usuario
	ids, err := g.gateway.RecentUserMessages(ev.ChannelID, ev.UserID, ev.MessageID, cfg.AntispamLimit+1)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo listar los mensajes recientes de %s: %v", ev.UserID, err), "MessageGuard")
	}
	// RecentUserMessages lista de más nuevo a más viejo; se borra el mensaje
	// detonante más los limit más recientes, nunca la cola vieja del canal
	ids = append([]string{ev.MessageID}, ids...)
	if len(ids) > cfg.AntispamLimit+1 {
		ids = ids[:cfg.AntispamLimit+1]
	}

	if err := g.gateway.BulkDeleteMessages(ev.ChannelID, ids); err != nil && !IsPermissionDenied(err) {
		logger.Warn(fmt.Sprintf("Error eliminando ráfaga de spam de %s: %v", ev.UserID, err), "MessageGuard")
	}

	g.tracker.Reset(ev.GuildID, ev.UserID)
	g.gateway.SendTransient(ev.ChannelID, fmt.Sprintf("🛑 <@%s>, ¡no hagas spam! Tus mensajes han sido eliminados.", ev.UserID))
}
