package security

import (
	"testing"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
)

func sweeperFixture(t *testing.T) (*Sweeper, *Quarantine, *memQuarantineStore, *fakeGateway) {
	t.Helper()

	configs := NewConfigService(newMemConfigStore())
	cfg := models.DefaultSecurityConfig(testGuild)
	cfg.QuarantineRoleID = testQRole
	if err := configs.Save(testGuild, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	gateway := newFakeGateway()
	gateway.addGuild(testGuild, testQRole, testRoleA)

	store := newMemQuarantineStore()
	q := NewQuarantine(store, configs, gateway, nil)
	s := NewSweeper(q, configs, gateway)
	return s, q, store, gateway
}

func TestSweepExpiresEligibleRecord(t *testing.T) {
	s, q, store, gateway := sweeperFixture(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gateway.addMember(testGuild, testUser, testRoleA)
	q.now = func() time.Time { return start }
	if _, err := q.Enter(testGuild, testUser, "prueba"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}

	// 25 horas después, con duración de 24: elegible
	s.now = func() time.Time { return start.Add(25 * time.Hour) }
	s.Sweep()

	rec, _ := store.Get(testGuild, testUser)
	if rec != nil {
		t.Error("el registro expirado debe eliminarse tras el barrido")
	}
	roles := sorted(gateway.roles(testGuild, testUser))
	if !equalStrings(roles, []string{testRoleA}) {
		t.Errorf("roles tras el barrido = %v, want %v", roles, []string{testRoleA})
	}
}

func TestSweepLeavesUnexpiredRecord(t *testing.T) {
	s, q, store, gateway := sweeperFixture(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gateway.addMember(testGuild, testUser, testRoleA)
	q.now = func() time.Time { return start }
	if _, err := q.Enter(testGuild, testUser, "prueba"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}

	// 23 horas: una hora por debajo del umbral de 24
	s.now = func() time.Time { return start.Add(23 * time.Hour) }
	s.Sweep()

	rec, _ := store.Get(testGuild, testUser)
	if rec == nil {
		t.Fatal("un registro sin expirar no debe tocarse")
	}
	roles := sorted(gateway.roles(testGuild, testUser))
	if !equalStrings(roles, []string{testQRole}) {
		t.Errorf("roles durante la cuarentena = %v, want %v", roles, []string{testQRole})
	}
}

func TestSweepExactBoundaryIsEligible(t *testing.T) {
	s, q, store, gateway := sweeperFixture(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gateway.addMember(testGuild, testUser)
	q.now = func() time.Time { return start }
	if _, err := q.Enter(testGuild, testUser, "prueba"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}

	s.now = func() time.Time { return start.Add(24 * time.Hour) }
	s.Sweep()

	if rec, _ := store.Get(testGuild, testUser); rec != nil {
		t.Error("en el instante exacto de expiración el registro ya es elegible")
	}
}

func TestSweepPrunesOrphanWithoutTouchingRoles(t *testing.T) {
	s, q, store, gateway := sweeperFixture(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gateway.addMember(testGuild, testUser, testRoleA)
	q.now = func() time.Time { return start }
	if _, err := q.Enter(testGuild, testUser, "prueba"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}

	// El miembro abandona el servidor durante la cuarentena
	gateway.removeMember(testGuild, testUser)

	s.now = func() time.Time { return start.Add(time.Hour) }
	s.Sweep()

	if rec, _ := store.Get(testGuild, testUser); rec != nil {
		t.Error("el registro huérfano debe podarse aunque no haya expirado")
	}
	// La poda no restaura ni quita roles
	roles := sorted(gateway.roles(testGuild, testUser))
	if !equalStrings(roles, []string{testQRole}) {
		t.Errorf("la poda tocó los roles: %v", roles)
	}
}

func TestSweepPerGuildDurations(t *testing.T) {
	configs := NewConfigService(newMemConfigStore())

	shortGuild := "200000000000000002"
	cfgA := models.DefaultSecurityConfig(testGuild)
	cfgA.QuarantineRoleID = testQRole
	if err := configs.Save(testGuild, cfgA); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	cfgB := models.DefaultSecurityConfig(shortGuild)
	cfgB.QuarantineRoleID = testQRole
	cfgB.QuarantineDurationHours = 2
	if err := configs.Save(shortGuild, cfgB); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	gateway := newFakeGateway()
	gateway.addGuild(testGuild, testQRole)
	gateway.addGuild(shortGuild, testQRole)
	gateway.addMember(testGuild, testUser)
	gateway.addMember(shortGuild, testUser)

	store := newMemQuarantineStore()
	q := NewQuarantine(store, configs, gateway, nil)
	s := NewSweeper(q, configs, gateway)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return start }
	if _, err := q.Enter(testGuild, testUser, "prueba"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	if _, err := q.Enter(shortGuild, testUser, "prueba"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}

	// A las 3 horas solo expira la cuarentena del servidor con duración corta
	s.now = func() time.Time { return start.Add(3 * time.Hour) }
	s.Sweep()

	if rec, _ := store.Get(shortGuild, testUser); rec != nil {
		t.Error("la cuarentena de duración corta debería haber expirado")
	}
	if rec, _ := store.Get(testGuild, testUser); rec == nil {
		t.Error("la cuarentena de 24 horas no debería expirar a las 3")
	}
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	s, _, _, _ := sweeperFixture(t)
	s.Start()
	s.Stop()
	s.Stop()
}
