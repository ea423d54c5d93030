package security

import (
	"testing"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
)

func serviceFixture(t *testing.T, mutate func(*models.GuildSecurityConfig)) (*Service, *memQuarantineStore, *fakeGateway, *recordingNotifier) {
	t.Helper()

	configStore := newMemConfigStore()
	cfg := models.DefaultSecurityConfig(testGuild)
	cfg.QuarantineRoleID = testQRole
	cfg.QuarantineChannelID = "600000000000000001"
	if mutate != nil {
		mutate(cfg)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("configuración de prueba inválida: %v", err)
	}
	if err := configStore.Set(testGuild, cfg); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	gateway := newFakeGateway()
	gateway.addGuild(testGuild, testQRole, testRoleA)

	store := newMemQuarantineStore()
	notifier := &recordingNotifier{}
	svc := NewService(Options{
		ConfigStore:     configStore,
		QuarantineStore: store,
		Gateway:         gateway,
		Notifier:        notifier,
		OwnerID:         "700000000000000001",
	})
	return svc, store, gateway, notifier
}

func TestJoinGateAutoQuarantinesFreshAccount(t *testing.T) {
	svc, store, gateway, notifier := serviceFixture(t, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gateway.addMember(testGuild, testUser)

	svc.Dispatch(&Event{
		Kind:    EventMemberJoined,
		GuildID: testGuild,
		UserID:  testUser,
		Member: MemberProfile{
			AccountCreatedAt: now.Add(-3 * time.Hour),
			HasAvatar:        false,
			Username:         "1raid",
		},
		Timestamp: now,
	})

	rec, _ := store.Get(testGuild, testUser)
	if rec == nil {
		t.Fatal("una cuenta recién creada y sin avatar debe entrar en cuarentena")
	}
	if len(rec.OriginalRoleIDs) != 0 {
		t.Errorf("instantánea de roles = %v, want vacía", rec.OriginalRoleIDs)
	}
	if !gateway.memberRoles[recKey(testGuild, testUser)][testQRole] {
		t.Error("el rol de cuarentena debe asignarse al miembro")
	}
	if len(gateway.sent) == 0 {
		t.Error("debe anunciarse la cuarentena en el canal configurado")
	}

	kinds := notifier.kinds()
	found := false
	for _, k := range kinds {
		if k == IncidentQuarantineEnter {
			found = true
		}
	}
	if !found {
		t.Errorf("incidentes = %v, want quarantine_enter", kinds)
	}
}

func TestJoinGateAutoQuarantinePublishesSingleIncident(t *testing.T) {
	svc, _, gateway, notifier := serviceFixture(t, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gateway.addMember(testGuild, testUser)

	svc.Dispatch(&Event{
		Kind:    EventMemberJoined,
		GuildID: testGuild,
		UserID:  testUser,
		Member: MemberProfile{
			AccountCreatedAt: now.Add(-3 * time.Hour),
			HasAvatar:        false,
			Username:         "1raid",
		},
		Timestamp: now,
	})

	// Cada sumidero (MQTT, websocket, webhook) recibe exactamente una
	// entrada en cuarentena, enriquecida con la puntuación que la disparó
	enters := notifier.ofKind(IncidentQuarantineEnter)
	if len(enters) != 1 {
		t.Fatalf("incidentes quarantine_enter = %d, want 1", len(enters))
	}
	if enters[0].RiskScore == 0 {
		t.Error("el incidente debe llevar la puntuación de riesgo que lo disparó")
	}
}

func TestJoinGateIgnoresSafeMember(t *testing.T) {
	svc, store, gateway, _ := serviceFixture(t, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gateway.addMember(testGuild, testUser, testRoleA)

	svc.Dispatch(&Event{
		Kind:    EventMemberJoined,
		GuildID: testGuild,
		UserID:  testUser,
		Member: MemberProfile{
			AccountCreatedAt: now.Add(-400 * 24 * time.Hour),
			HasAvatar:        true,
			Username:         "Margarita",
		},
		Timestamp: now,
	})

	if rec, _ := store.Get(testGuild, testUser); rec != nil {
		t.Error("un miembro establecido no debe entrar en cuarentena")
	}
}

func TestJoinGateIgnoresBots(t *testing.T) {
	svc, store, _, _ := serviceFixture(t, nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Dispatch(&Event{
		Kind:    EventMemberJoined,
		GuildID: testGuild,
		UserID:  testUser,
		Bot:     true,
		Member: MemberProfile{
			AccountCreatedAt: now.Add(-time.Hour),
			HasAvatar:        false,
			Username:         "1raid",
		},
		Timestamp: now,
	})

	if rec, _ := store.Get(testGuild, testUser); rec != nil {
		t.Error("los bots no pasan por la puerta de entrada")
	}
}

func TestRaidGateBanTakesPrecedenceOverKick(t *testing.T) {
	svc, _, gateway, notifier := serviceFixture(t, func(c *models.GuildSecurityConfig) {
		c.IsActive = true
		c.RequiredAccountAgeDays = 7
		c.KickNewMembers = true
		c.BanNewMembers = true
	})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gateway.addMember(testGuild, testUser)

	svc.Dispatch(&Event{
		Kind:    EventMemberJoined,
		GuildID: testGuild,
		UserID:  testUser,
		Member: MemberProfile{
			AccountCreatedAt: now.Add(-24 * time.Hour),
			HasAvatar:        true,
			Username:         "Margarita",
		},
		Timestamp: now,
	})

	if len(gateway.banned) != 1 {
		t.Errorf("baneados = %v, want uno", gateway.banned)
	}
	if len(gateway.kicked) != 0 {
		t.Errorf("expulsados = %v, want ninguno (el ban tiene prioridad)", gateway.kicked)
	}

	kinds := notifier.kinds()
	if len(kinds) != 1 || kinds[0] != IncidentRaidGate {
		t.Errorf("incidentes = %v, want [raid_gate]", kinds)
	}
}

func TestBurstDetectorKicksAndStripsActor(t *testing.T) {
	svc, _, gateway, notifier := serviceFixture(t, nil)

	actor := "800000000000000001"
	gateway.addMember(testGuild, actor, testRoleA, testGuild)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		svc.Dispatch(&Event{
			Kind:      EventActionPerformed,
			GuildID:   testGuild,
			ActorID:   actor,
			Action:    "channel_delete",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	if len(gateway.kicked) != 1 || gateway.kicked[0] != recKey(testGuild, actor) {
		t.Errorf("expulsados = %v, want [%s]", gateway.kicked, recKey(testGuild, actor))
	}
	// Se quitan todos los roles menos @everyone antes de expulsar
	if gateway.memberRoles[recKey(testGuild, actor)][testRoleA] {
		t.Error("los roles del actor deben quitarse antes de la expulsión")
	}

	kinds := notifier.kinds()
	if len(kinds) != 1 || kinds[0] != IncidentBurstDetected {
		t.Errorf("incidentes = %v, want [burst_detected]", kinds)
	}
}

func TestBurstDetectorExemptsOwnerFromRemediation(t *testing.T) {
	owner := "700000000000000001"
	svc, _, gateway, notifier := serviceFixture(t, nil)
	gateway.addMember(testGuild, owner, testRoleA)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		svc.Dispatch(&Event{
			Kind:      EventActionPerformed,
			GuildID:   testGuild,
			ActorID:   owner,
			Action:    "role_delete",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	// La detección y la alerta se emiten igualmente
	kinds := notifier.kinds()
	if len(kinds) != 1 || kinds[0] != IncidentBurstDetected {
		t.Errorf("incidentes = %v, want [burst_detected]", kinds)
	}
	// Pero el dueño no se sanciona
	if len(gateway.kicked) != 0 {
		t.Errorf("expulsados = %v, want ninguno", gateway.kicked)
	}
	if !gateway.memberRoles[recKey(testGuild, owner)][testRoleA] {
		t.Error("los roles del dueño deben quedar intactos")
	}
}

func TestBurstDetectorSpreadActionsDoNotFire(t *testing.T) {
	svc, _, gateway, notifier := serviceFixture(t, nil)

	actor := "800000000000000001"
	gateway.addMember(testGuild, actor, testRoleA)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		svc.Dispatch(&Event{
			Kind:      EventActionPerformed,
			GuildID:   testGuild,
			ActorID:   actor,
			Action:    "ban",
			Timestamp: base.Add(time.Duration(i*3) * time.Second),
		})
	}

	if len(gateway.kicked) != 0 {
		t.Errorf("expulsados = %v, want ninguno", gateway.kicked)
	}
	if kinds := notifier.kinds(); len(kinds) != 0 {
		t.Errorf("incidentes = %v, want ninguno", kinds)
	}
}

func TestOrchestratorIsolatesPanickingDetector(t *testing.T) {
	var reached bool
	o := NewOrchestrator(
		detectorFunc{name: "explosivo", fn: func(*Event) { panic("boom") }},
		detectorFunc{name: "testigo", fn: func(*Event) { reached = true }},
	)

	o.Dispatch(&Event{Kind: EventMessagePosted})

	if !reached {
		t.Error("un detector que entra en pánico no debe frenar a los demás")
	}
}

type detectorFunc struct {
	name string
	fn   func(*Event)
}

func (d detectorFunc) Name() string      { return d.name }
func (d detectorFunc) OnEvent(ev *Event) { d.fn(ev) }
