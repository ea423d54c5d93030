package models

import "time"

// QuarantineRecord representa el documento de cuarentena en la colección
// "quarantines". La existencia del documento es la única fuente de verdad
// sobre si un usuario está en cuarentena: un (guildId, userId) tiene como
// máximo un documento (semántica de upsert).
type QuarantineRecord struct {
	GuildID         string    `bson:"guildId" json:"guildId"`
	UserID          string    `bson:"userId" json:"userId"`
	OriginalRoleIDs []string  `bson:"originalRoleIds" json:"originalRoleIds"`
	QuarantinedAt   time.Time `bson:"quarantinedAt" json:"quarantinedAt"`
	Reason          string    `bson:"reason,omitempty" json:"reason,omitempty"`
	IncidentID      string    `bson:"incidentId,omitempty" json:"incidentId,omitempty"`
}

// ExpiresAt returns the instant at which the record becomes eligible for the
// expiry sweep, given the guild's configured duration.
func (q *QuarantineRecord) ExpiresAt(durationHours int) time.Time {
	return q.QuarantinedAt.Add(time.Duration(durationHours) * time.Hour)
}

// Expired reports whether the record is eligible for expiry at "now".
func (q *QuarantineRecord) Expired(durationHours int, now time.Time) bool {
	return !q.ExpiresAt(durationHours).After(now)
}
