package models

// GuildSecurityConfig representa el documento de configuración de seguridad
// de un servidor en la colección "security_configs". Se crea de forma
// perezosa con los valores por defecto la primera vez que se consulta.
type GuildSecurityConfig struct {
	GuildID string `bson:"guildId" json:"guildId"`

	// Antiraid
	IsActive               bool `bson:"isActive" json:"isActive"`
	KickNewMembers         bool `bson:"kickNewMembers" json:"kickNewMembers"`
	BanNewMembers          bool `bson:"banNewMembers" json:"banNewMembers"`
	RequiredAccountAgeDays int  `bson:"requiredAccountAgeDays" json:"requiredAccountAgeDays"`

	// Antinuke
	ActionBurstThreshold     int `bson:"actionBurstThreshold" json:"actionBurstThreshold"`
	ActionBurstWindowSeconds int `bson:"actionBurstWindowSeconds" json:"actionBurstWindowSeconds"`

	// Cuarentena
	RiskThreshold           int    `bson:"riskThreshold" json:"riskThreshold"`
	QuarantineDurationHours int    `bson:"quarantineDurationHours" json:"quarantineDurationHours"`
	QuarantineRoleID        string `bson:"quarantineRoleId" json:"quarantineRoleId"`
	QuarantineChannelID     string `bson:"quarantineChannelId" json:"quarantineChannelId"`

	// Antispam / Antilink
	AntispamLimit   int  `bson:"antispamLimit" json:"antispamLimit"`
	AntilinkEnabled bool `bson:"antilinkEnabled" json:"antilinkEnabled"`
}

// DefaultSecurityConfig returns the documented defaults for a guild that has
// no stored configuration yet. A missing document is never an error.
func DefaultSecurityConfig(guildID string) *GuildSecurityConfig {
	return &GuildSecurityConfig{
		GuildID:                  guildID,
		IsActive:                 false,
		KickNewMembers:           false,
		BanNewMembers:            false,
		RequiredAccountAgeDays:   0,
		ActionBurstThreshold:     5,
		ActionBurstWindowSeconds: 10,
		RiskThreshold:            50,
		QuarantineDurationHours:  24,
		QuarantineRoleID:         "",
		QuarantineChannelID:      "",
		AntispamLimit:            5,
		AntilinkEnabled:          false,
	}
}
