package security

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
)

// Quarantine owns the NORMAL → QUARANTINED → NORMAL lifecycle. The persisted
// record is the single source of truth for "is this user quarantined": every
// transition is a conditional read-modify-write against it, serialized per
// (guild, user) by a process-local lock and guarded by a record re-check
// immediately before the role mutations (the persistence layer offers no
// transactions).
type Quarantine struct {
	store    QuarantineStore
	configs  *ConfigService
	gateway  Gateway
	notifier Notifier
	locks    *keyedMutex
	now      func() time.Time
}

// NewQuarantine wires the quarantine lifecycle. notifier may be nil.
func NewQuarantine(store QuarantineStore, configs *ConfigService, gateway Gateway, notifier Notifier) *Quarantine {
	return &Quarantine{
		store:    store,
		configs:  configs,
		gateway:  gateway,
		notifier: notifier,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

func lockKey(guildID, userID string) string {
	return guildID + ":" + userID
}

// Enter puts a user into quarantine. Re-entering refreshes the timer and the
// reason but keeps the role snapshot taken at the first entry: a
// re-quarantined member only holds the quarantine role, so snapshotting again
// would lose what Exit has to restore. Role removal and the quarantine-role
// grant are best-effort: each step's failure is captured in the report and
// never aborts the remaining steps.
func (q *Quarantine) Enter(guildID, userID, reason string) (*RemediationReport, error) {
	return q.enter(guildID, userID, reason, 0)
}

// enter carries the risk score that triggered an automatic quarantine so the
// single quarantine_enter incident published here reaches every sink enriched.
func (q *Quarantine) enter(guildID, userID, reason string, score int) (*RemediationReport, error) {
	unlock := q.locks.Lock(lockKey(guildID, userID))
	defer unlock()

	cfg, err := q.configs.Get(guildID)
	if err != nil {
		return nil, err
	}
	if cfg.QuarantineRoleID == "" {
		return nil, ErrNotConfigured
	}

	prev, err := q.store.Get(guildID, userID)
	if err != nil {
		return nil, err
	}

	currentRoles, err := q.gateway.MemberRoleIDs(guildID, userID)
	if err != nil {
		return nil, err
	}

	// El rol @everyone comparte ID con el servidor; nunca se guarda ni se quita
	strip := make([]string, 0, len(currentRoles))
	for _, id := range currentRoles {
		if id == cfg.QuarantineRoleID || id == guildID {
			continue
		}
		strip = append(strip, id)
	}

	// La instantánea de la primera entrada es la que Exit restaura; los roles
	// actuales de un miembro ya en cuarentena son solo el rol de cuarentena
	original := strip
	if prev != nil {
		original = prev.OriginalRoleIDs
	}

	rec := &models.QuarantineRecord{
		GuildID:         guildID,
		UserID:          userID,
		OriginalRoleIDs: original,
		QuarantinedAt:   q.now(),
		Reason:          reason,
		IncidentID:      uuid.New().String(),
	}
	if err := q.store.Upsert(rec); err != nil {
		return nil, err
	}

	report := &RemediationReport{IncidentID: rec.IncidentID}

	for _, roleID := range strip {
		err := q.gateway.RemoveRole(guildID, userID, roleID)
		if err != nil && IsTargetNotFound(err) {
			err = nil
		}
		report.Record("remove-role", roleID, err)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo quitar el rol %s de %s: %v", roleID, userID, err), "Quarantine")
		}
	}

	err = q.gateway.AddRole(guildID, userID, cfg.QuarantineRoleID)
	report.Record("grant-quarantine-role", cfg.QuarantineRoleID, err)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo asignar el rol de cuarentena a %s: %v", userID, err), "Quarantine")
	}

	q.notify(Incident{
		ID:        rec.IncidentID,
		Kind:      IncidentQuarantineEnter,
		GuildID:   guildID,
		UserID:    userID,
		Reason:    reason,
		RiskScore: score,
		Timestamp: rec.QuarantinedAt,
	})

	return report, nil
}

// Exit lifts a quarantine: remove the quarantine role if held, re-grant every
// original role that still resolves (deleted roles are silently dropped),
// delete the record. Without a record it reports ErrNotQuarantined, a no-op.
func (q *Quarantine) Exit(guildID, userID string) (*RemediationReport, error) {
	unlock := q.locks.Lock(lockKey(guildID, userID))
	defer unlock()
	return q.release(guildID, userID, "manual")
}

// expire is Exit triggered by the sweeper. The caller already checked the
// eligibility predicate; release re-checks record existence so a manual exit
// that won the race turns this into a reported no-op instead of a double
// restore.
func (q *Quarantine) expire(guildID, userID string) (*RemediationReport, error) {
	unlock := q.locks.Lock(lockKey(guildID, userID))
	defer unlock()
	return q.release(guildID, userID, "expiración")
}

func (q *Quarantine) release(guildID, userID, trigger string) (*RemediationReport, error) {
	// Re-verificación optimista: el registro es la única fuente de verdad
	rec, err := q.store.Get(guildID, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotQuarantined
	}

	cfg, err := q.configs.Get(guildID)
	if err != nil {
		return nil, err
	}

	report := &RemediationReport{IncidentID: rec.IncidentID}

	if cfg.QuarantineRoleID != "" {
		err := q.gateway.RemoveRole(guildID, userID, cfg.QuarantineRoleID)
		if err != nil && IsTargetNotFound(err) {
			err = nil
		}
		report.Record("remove-quarantine-role", cfg.QuarantineRoleID, err)
	}

	for _, roleID := range rec.OriginalRoleIDs {
		// Un rol eliminado durante la cuarentena se descarta en silencio
		if !q.gateway.RoleExists(guildID, roleID) {
			continue
		}
		err := q.gateway.AddRole(guildID, userID, roleID)
		if err != nil && IsTargetNotFound(err) {
			err = nil
		}
		report.Record("restore-role", roleID, err)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo restaurar el rol %s a %s: %v", roleID, userID, err), "Quarantine")
		}
	}

	if err := q.store.Delete(guildID, userID); err != nil {
		return report, err
	}

	q.notify(Incident{
		ID:        rec.IncidentID,
		Kind:      IncidentQuarantineExit,
		GuildID:   guildID,
		UserID:    userID,
		Reason:    trigger,
		Timestamp: q.now(),
	})

	return report, nil
}

// Record returns the quarantine record for a user, nil when not quarantined.
func (q *Quarantine) Record(guildID, userID string) (*models.QuarantineRecord, error) {
	return q.store.Get(guildID, userID)
}

// Active returns every live quarantine record across all guilds.
func (q *Quarantine) Active() ([]*models.QuarantineRecord, error) {
	return q.store.All()
}

func (q *Quarantine) notify(inc Incident) {
	if q.notifier != nil {
		q.notifier.Notify(inc)
	}
}
