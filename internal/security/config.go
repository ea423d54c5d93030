package security

import (
	"fmt"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
)

// Validation bounds for configurable values. Anything outside is rejected at
// the configuration boundary before persistence.
const (
	maxAccountAgeDays      = 365
	maxBurstThreshold      = 100
	maxBurstWindowSeconds  = 3600
	maxRiskThreshold       = 1000
	maxQuarantineHours     = 24 * 365
	maxAntispamLimit       = 120
	snowflakeMinLen        = 17
	snowflakeMaxLen        = 20
)

// ConfigService resolves and persists per-guild security configuration.
// A guild without a stored document gets the documented defaults; that is
// never surfaced as an error.
type ConfigService struct {
	store ConfigStore
}

// NewConfigService creates a ConfigService over a store.
func NewConfigService(store ConfigStore) *ConfigService {
	return &ConfigService{store: store}
}

// Get returns the guild's configuration, falling back to defaults when no
// document exists yet.
func (c *ConfigService) Get(guildID string) (*models.GuildSecurityConfig, error) {
	cfg, err := c.store.Get(guildID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return models.DefaultSecurityConfig(guildID), nil
	}
	return cfg, nil
}

// Save validates the whole configuration and persists it. A rejected value
// leaves the stored document untouched: nothing is ever partially persisted.
func (c *ConfigService) Save(guildID string, cfg *models.GuildSecurityConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	return c.store.Set(guildID, cfg)
}

// Update reads the current configuration, applies mutate, validates and
// persists the result. This is how command handlers change single fields.
func (c *ConfigService) Update(guildID string, mutate func(*models.GuildSecurityConfig)) (*models.GuildSecurityConfig, error) {
	cfg, err := c.Get(guildID)
	if err != nil {
		return nil, err
	}
	mutate(cfg)
	if err := c.Save(guildID, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every configurable value against its documented bounds.
func Validate(cfg *models.GuildSecurityConfig) error {
	if cfg.RequiredAccountAgeDays < 0 || cfg.RequiredAccountAgeDays > maxAccountAgeDays {
		return InvalidInputError("requiredAccountAgeDays", fmt.Sprintf("debe estar entre 0 y %d", maxAccountAgeDays))
	}
	if cfg.ActionBurstThreshold < 1 || cfg.ActionBurstThreshold > maxBurstThreshold {
		return InvalidInputError("actionBurstThreshold", fmt.Sprintf("debe estar entre 1 y %d", maxBurstThreshold))
	}
	if cfg.ActionBurstWindowSeconds < 1 || cfg.ActionBurstWindowSeconds > maxBurstWindowSeconds {
		return InvalidInputError("actionBurstWindowSeconds", fmt.Sprintf("debe estar entre 1 y %d", maxBurstWindowSeconds))
	}
	if cfg.RiskThreshold < 1 || cfg.RiskThreshold > maxRiskThreshold {
		return InvalidInputError("riskThreshold", fmt.Sprintf("debe estar entre 1 y %d", maxRiskThreshold))
	}
	if cfg.QuarantineDurationHours < 1 || cfg.QuarantineDurationHours > maxQuarantineHours {
		return InvalidInputError("quarantineDurationHours", fmt.Sprintf("debe estar entre 1 y %d", maxQuarantineHours))
	}
	if cfg.AntispamLimit < 1 || cfg.AntispamLimit > maxAntispamLimit {
		return InvalidInputError("antispamLimit", fmt.Sprintf("debe estar entre 1 y %d", maxAntispamLimit))
	}
	if cfg.QuarantineRoleID != "" && !validSnowflake(cfg.QuarantineRoleID) {
		return InvalidInputError("quarantineRoleId", "no es un ID válido")
	}
	if cfg.QuarantineChannelID != "" && !validSnowflake(cfg.QuarantineChannelID) {
		return InvalidInputError("quarantineChannelId", "no es un ID válido")
	}
	return nil
}

// validSnowflake checks the shape of a Discord snowflake ID without calling
// the platform.
func validSnowflake(id string) bool {
	if len(id) < snowflakeMinLen || len(id) > snowflakeMaxLen {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
