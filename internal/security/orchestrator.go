package security

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
)

// EventKind classifies the inbound platform events the pipeline reacts to.
type EventKind int

const (
	// EventMemberJoined fires when a member joins a guild.
	EventMemberJoined EventKind = iota
	// EventActionPerformed fires when a privileged action (channel delete,
	// role delete, member ban) is attributed to an actor.
	EventActionPerformed
	// EventMessagePosted fires for every created text message.
	EventMessagePosted
)

// Event is the normalized form a platform event reaches the detectors in.
type Event struct {
	Kind      EventKind
	GuildID   string
	UserID    string
	ActorID   string
	Action    string
	ChannelID string
	MessageID string
	Content   string
	Member    MemberProfile
	Bot       bool
	// Edited marks a message re-entering the pipeline after an edit; it only
	// passes the anti-link check and never counts toward the spam window.
	Edited    bool
	Timestamp time.Time
}

// Detector is one link of the defense pipeline. Implementations never return
// errors to the router; everything recoverable is logged and absorbed.
type Detector interface {
	Name() string
	OnEvent(ev *Event)
}

// Orchestrator routes inbound events through a fixed list of detectors,
// composed explicitly at startup. It is the sole owner of the transient
// burst/message trackers; they are never exposed outside the pipeline.
type Orchestrator struct {
	detectors []Detector
}

// NewOrchestrator composes the detector chain.
func NewOrchestrator(detectors ...Detector) *Orchestrator {
	return &Orchestrator{detectors: detectors}
}

// Dispatch hands the event to every detector in order. A panicking detector
// is isolated so the remaining detectors still run.
func (o *Orchestrator) Dispatch(ev *Event) {
	for _, d := range o.detectors {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(fmt.Sprintf("Pánico en el detector %s: %v", d.Name(), r), "Orchestrator")
				}
			}()
			d.OnEvent(ev)
		}()
	}
}

// joinGate screens new members: the antiraid account-age gate first, then the
// risk scorer with automatic quarantine.
type joinGate struct {
	configs    *ConfigService
	quarantine *Quarantine
	gateway    Gateway
	notifier   Notifier
}

func (j *joinGate) Name() string { return "join-gate" }

func (j *joinGate) OnEvent(ev *Event) {
	if ev.Kind != EventMemberJoined || ev.Bot {
		return
	}

	cfg, err := j.configs.Get(ev.GuildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer la configuración de seguridad de %s: %v", ev.GuildID, err), "JoinGate")
		return
	}

	// Puerta antiraid: contas demasiado nuevas se expulsan o banean
	if cfg.IsActive && cfg.RequiredAccountAgeDays > 0 {
		minAge := time.Duration(cfg.RequiredAccountAgeDays) * 24 * time.Hour
		if ev.Timestamp.Sub(ev.Member.AccountCreatedAt) < minAge {
			j.applyRaidGate(ev, cfg.BanNewMembers, cfg.KickNewMembers)
			return
		}
	}

	score := Score(ev.Member, ev.Timestamp)
	if score < cfg.RiskThreshold {
		return
	}

	logger.Info(fmt.Sprintf("Miembro %s (%s) con puntuación de riesgo %d (límite: %d)",
		ev.Member.Username, ev.UserID, score, cfg.RiskThreshold), "JoinGate")

	reason := fmt.Sprintf("Cuarentena automática: puntuación de riesgo %d", score)
	_, err = j.quarantine.enter(ev.GuildID, ev.UserID, reason, score)
	if err != nil {
		if err == ErrNotConfigured {
			logger.Warn(fmt.Sprintf("Miembro de riesgo %s detectado pero el servidor %s no tiene cuarentena configurada", ev.UserID, ev.GuildID), "JoinGate")
		} else {
			logger.Error(fmt.Sprintf("Error en la cuarentena automática de %s: %v", ev.UserID, err), "JoinGate")
		}
		return
	}

	if cfg.QuarantineChannelID != "" {
		j.gateway.Announce(cfg.QuarantineChannelID, fmt.Sprintf(
			"🚨 Alerta de Seguridad: <@%s> ha sido puesto en cuarentena automáticamente por ser una cuenta sospechosa (puntuación de riesgo: **%d**). La cuarentena durará **%d horas**.",
			ev.UserID, score, cfg.QuarantineDurationHours))
	}
}

func (j *joinGate) applyRaidGate(ev *Event, ban, kick bool) {
	const reason = "Protección antiraid: cuenta demasiado nueva"

	var err error
	var action string
	switch {
	case ban:
		action = "ban"
		err = j.gateway.Ban(ev.GuildID, ev.UserID, reason)
	case kick:
		action = "kick"
		err = j.gateway.Kick(ev.GuildID, ev.UserID, reason)
	default:
		return
	}

	if err != nil {
		logger.Warn(fmt.Sprintf("La puerta antiraid no pudo aplicar %s a %s: %v", action, ev.UserID, err), "JoinGate")
		return
	}

	logger.Info(fmt.Sprintf("Puerta antiraid: %s aplicado a %s en %s", action, ev.UserID, ev.GuildID), "JoinGate")
	if j.notifier != nil {
		j.notifier.Notify(Incident{
			ID:        uuid.New().String(),
			Kind:      IncidentRaidGate,
			GuildID:   ev.GuildID,
			UserID:    ev.UserID,
			Action:    action,
			Timestamp: ev.Timestamp,
		})
	}
}

// burstDetector watches privileged actions per actor. Detection and logging
// always run; the remediation (strip roles, kick) short-circuits only for
// the configured bot owner, never silently for anyone else.
type burstDetector struct {
	configs  *ConfigService
	tracker  *BurstTracker
	gateway  Gateway
	notifier Notifier
	ownerID  string
}

func (b *burstDetector) Name() string { return "action-burst" }

func (b *burstDetector) OnEvent(ev *Event) {
	// Otros bots no quedan exentos: un bot comprometido es el vector
	// clásico de un 'nuke'
	if ev.Kind != EventActionPerformed || ev.ActorID == "" {
		return
	}

	cfg, err := b.configs.Get(ev.GuildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer la configuración de seguridad de %s: %v", ev.GuildID, err), "BurstDetector")
		return
	}

	window := time.Duration(cfg.ActionBurstWindowSeconds) * time.Second
	if !b.tracker.RecordAndCheck(ev.GuildID, ev.ActorID, cfg.ActionBurstThreshold, window, ev.Timestamp) {
		return
	}

	logger.Warn(fmt.Sprintf("¡Atención! Posible ataque de 'nuke' detectado por %s en %s (acción: %s)",
		ev.ActorID, ev.GuildID, ev.Action), "BurstDetector")

	if b.notifier != nil {
		b.notifier.Notify(Incident{
			ID:        uuid.New().String(),
			Kind:      IncidentBurstDetected,
			GuildID:   ev.GuildID,
			ActorID:   ev.ActorID,
			Action:    ev.Action,
			Timestamp: ev.Timestamp,
		})
	}

	if b.ownerID != "" && ev.ActorID == b.ownerID {
		logger.Info("El dueño del bot está realizando acciones sospechosas, se omite la sanción", "BurstDetector")
		return
	}

	b.remediate(ev, cfg.ActionBurstThreshold, cfg.ActionBurstWindowSeconds)
}

func (b *burstDetector) remediate(ev *Event, threshold, windowSeconds int) {
	roleIDs, err := b.gateway.MemberRoleIDs(ev.GuildID, ev.ActorID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudieron leer los roles de %s: %v", ev.ActorID, err), "BurstDetector")
	}
	for _, roleID := range roleIDs {
		if roleID == ev.GuildID {
			continue
		}
		if err := b.gateway.RemoveRole(ev.GuildID, ev.ActorID, roleID); err != nil && !IsTargetNotFound(err) {
			logger.Warn(fmt.Sprintf("No se pudo quitar el rol %s de %s: %v", roleID, ev.ActorID, err), "BurstDetector")
		}
	}

	reason := fmt.Sprintf("Sistema antinuke: %d acciones de moderación en %d segundos", threshold, windowSeconds)
	if err := b.gateway.Kick(ev.GuildID, ev.ActorID, reason); err != nil {
		logger.Error(fmt.Sprintf("No se pudo expulsar a %s tras la detección de ráfaga: %v", ev.ActorID, err), "BurstDetector")
		return
	}
	logger.Info(fmt.Sprintf("El usuario %s fue expulsado por activar el antinuke", ev.ActorID), "BurstDetector")
}
