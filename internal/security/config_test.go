package security

import (
	"errors"
	"testing"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
)

func TestConfigDefaultsWhenMissing(t *testing.T) {
	svc := NewConfigService(newMemConfigStore())

	cfg, err := svc.Get("g1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cfg.ActionBurstThreshold != 5 || cfg.ActionBurstWindowSeconds != 10 {
		t.Errorf("umbral antinuke por defecto = %d/%ds, want 5/10s", cfg.ActionBurstThreshold, cfg.ActionBurstWindowSeconds)
	}
	if cfg.RiskThreshold != 50 || cfg.QuarantineDurationHours != 24 {
		t.Errorf("cuarentena por defecto = %d/%dh, want 50/24h", cfg.RiskThreshold, cfg.QuarantineDurationHours)
	}
	if cfg.IsActive {
		t.Error("el antiraid debe estar desactivado por defecto")
	}
}

func TestConfigSaveRejectsOutOfBounds(t *testing.T) {
	store := newMemConfigStore()
	svc := NewConfigService(store)

	cases := []struct {
		name   string
		mutate func(*models.GuildSecurityConfig)
	}{
		{"umbral de ráfaga cero", func(c *models.GuildSecurityConfig) { c.ActionBurstThreshold = 0 }},
		{"ventana negativa", func(c *models.GuildSecurityConfig) { c.ActionBurstWindowSeconds = -1 }},
		{"riesgo excesivo", func(c *models.GuildSecurityConfig) { c.RiskThreshold = 5000 }},
		{"duración cero", func(c *models.GuildSecurityConfig) { c.QuarantineDurationHours = 0 }},
		{"límite antispam excesivo", func(c *models.GuildSecurityConfig) { c.AntispamLimit = 999 }},
		{"rol con ID malformado", func(c *models.GuildSecurityConfig) { c.QuarantineRoleID = "abc" }},
		{"canal con ID corto", func(c *models.GuildSecurityConfig) { c.QuarantineChannelID = "12345" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := models.DefaultSecurityConfig("g1")
			tc.mutate(cfg)
			err := svc.Save("g1", cfg)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Save() error = %v, want ErrInvalidInput", err)
			}
		})
	}

	// Nada se persistió a medias
	stored, _ := store.Get("g1")
	if stored != nil {
		t.Error("un valor rechazado no debe dejar documento persistido")
	}
}

func TestConfigUpdateRoundTrip(t *testing.T) {
	svc := NewConfigService(newMemConfigStore())

	updated, err := svc.Update("g1", func(c *models.GuildSecurityConfig) {
		c.IsActive = true
		c.RequiredAccountAgeDays = 7
		c.QuarantineRoleID = "100000000000000001"
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.IsActive || updated.RequiredAccountAgeDays != 7 {
		t.Errorf("Update() no aplicó la mutación: %+v", updated)
	}

	reread, err := svc.Get("g1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if reread.QuarantineRoleID != "100000000000000001" {
		t.Errorf("rol de cuarentena persistido = %q, want %q", reread.QuarantineRoleID, "100000000000000001")
	}
	// El resto de campos conserva los valores por defecto
	if reread.ActionBurstThreshold != 5 {
		t.Errorf("umbral de ráfaga = %d, want 5", reread.ActionBurstThreshold)
	}
}

func TestConfigUpdateRejectedLeavesStored(t *testing.T) {
	svc := NewConfigService(newMemConfigStore())

	if _, err := svc.Update("g1", func(c *models.GuildSecurityConfig) { c.AntispamLimit = 10 }); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := svc.Update("g1", func(c *models.GuildSecurityConfig) { c.AntispamLimit = -3 }); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Update() error = %v, want ErrInvalidInput", err)
	}

	cfg, err := svc.Get("g1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cfg.AntispamLimit != 10 {
		t.Errorf("límite antispam tras el rechazo = %d, want 10", cfg.AntispamLimit)
	}
}
