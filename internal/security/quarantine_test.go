package security

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
)

const (
	testGuild   = "200000000000000001"
	testUser    = "300000000000000001"
	testQRole   = "400000000000000001"
	testRoleA   = "500000000000000001"
	testRoleB   = "500000000000000002"
)

func quarantineFixture(t *testing.T) (*Quarantine, *memQuarantineStore, *fakeGateway, *recordingNotifier) {
	t.Helper()

	configs := NewConfigService(newMemConfigStore())
	cfg := models.DefaultSecurityConfig(testGuild)
	cfg.QuarantineRoleID = testQRole
	if err := configs.Save(testGuild, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	gateway := newFakeGateway()
	gateway.addGuild(testGuild, testQRole, testRoleA, testRoleB)
	gateway.addMember(testGuild, testUser, testRoleA, testRoleB, testGuild)

	store := newMemQuarantineStore()
	notifier := &recordingNotifier{}
	q := NewQuarantine(store, configs, gateway, notifier)
	return q, store, gateway, notifier
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQuarantineEnterStripsAndRecords(t *testing.T) {
	q, store, gateway, notifier := quarantineFixture(t)

	report, err := q.Enter(testGuild, testUser, "prueba")
	if err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	if report.IncidentID == "" {
		t.Error("Enter() debe asignar un ID de incidente")
	}
	if failed := report.Failed(); len(failed) != 0 {
		t.Errorf("pasos fallidos = %v, want ninguno", failed)
	}

	roles := sorted(gateway.roles(testGuild, testUser))
	want := sorted([]string{testGuild, testQRole})
	if !equalStrings(roles, want) {
		t.Errorf("roles tras la cuarentena = %v, want %v", roles, want)
	}

	rec, err := store.Get(testGuild, testUser)
	if err != nil || rec == nil {
		t.Fatalf("registro tras Enter() = %v, %v", rec, err)
	}
	// @everyone comparte ID con el servidor y nunca entra en la instantánea
	wantSnapshot := sorted([]string{testRoleA, testRoleB})
	if got := sorted(rec.OriginalRoleIDs); !equalStrings(got, wantSnapshot) {
		t.Errorf("instantánea de roles = %v, want %v", got, wantSnapshot)
	}

	kinds := notifier.kinds()
	if len(kinds) != 1 || kinds[0] != IncidentQuarantineEnter {
		t.Errorf("incidentes = %v, want [quarantine_enter]", kinds)
	}
}

func TestQuarantineExitRestoresRoles(t *testing.T) {
	q, store, gateway, _ := quarantineFixture(t)

	if _, err := q.Enter(testGuild, testUser, "prueba"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	if _, err := q.Exit(testGuild, testUser); err != nil {
		t.Fatalf("Exit() error = %v", err)
	}

	roles := sorted(gateway.roles(testGuild, testUser))
	want := sorted([]string{testGuild, testRoleA, testRoleB})
	if !equalStrings(roles, want) {
		t.Errorf("roles tras Exit() = %v, want %v", roles, want)
	}

	rec, _ := store.Get(testGuild, testUser)
	if rec != nil {
		t.Error("el registro debe eliminarse al salir de la cuarentena")
	}
}

func TestQuarantineExitSkipsDeletedRole(t *testing.T) {
	q, _, gateway, _ := quarantineFixture(t)

	if _, err := q.Enter(testGuild, testUser, "prueba"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}

	// Un rol eliminado mientras el usuario estaba en cuarentena
	gateway.deleteRole(testGuild, testRoleB)

	report, err := q.Exit(testGuild, testUser)
	if err != nil {
		t.Fatalf("Exit() error = %v", err)
	}
	if failed := report.Failed(); len(failed) != 0 {
		t.Errorf("el rol eliminado debe omitirse en silencio, pasos fallidos = %v", failed)
	}

	roles := sorted(gateway.roles(testGuild, testUser))
	want := sorted([]string{testGuild, testRoleA})
	if !equalStrings(roles, want) {
		t.Errorf("roles tras Exit() = %v, want %v", roles, want)
	}
}

func TestQuarantineDoubleExitIsNoOp(t *testing.T) {
	q, _, _, _ := quarantineFixture(t)

	if _, err := q.Enter(testGuild, testUser, "prueba"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	if _, err := q.Exit(testGuild, testUser); err != nil {
		t.Fatalf("primer Exit() error = %v", err)
	}
	if _, err := q.Exit(testGuild, testUser); !errors.Is(err, ErrNotQuarantined) {
		t.Fatalf("segundo Exit() error = %v, want ErrNotQuarantined", err)
	}
}

func TestQuarantineReenterRefreshesTimer(t *testing.T) {
	q, store, _, _ := quarantineFixture(t)

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return first }
	if _, err := q.Enter(testGuild, testUser, "primera"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}

	second := first.Add(10 * time.Hour)
	q.now = func() time.Time { return second }
	if _, err := q.Enter(testGuild, testUser, "reincidencia"); err != nil {
		t.Fatalf("segundo Enter() error = %v", err)
	}

	rec, _ := store.Get(testGuild, testUser)
	if rec == nil {
		t.Fatal("debe existir un único registro tras reentrar")
	}
	if !rec.QuarantinedAt.Equal(second) {
		t.Errorf("QuarantinedAt = %v, want %v (el temporizador se reinicia)", rec.QuarantinedAt, second)
	}
	if rec.Reason != "reincidencia" {
		t.Errorf("Reason = %q, want %q", rec.Reason, "reincidencia")
	}
}

func TestQuarantineReenterPreservesSnapshot(t *testing.T) {
	q, store, gateway, _ := quarantineFixture(t)

	if _, err := q.Enter(testGuild, testUser, "primera"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	// Tras la primera entrada el usuario solo conserva @everyone y el rol de
	// cuarentena; reentrar no puede fotografiar ese estado vacío
	if _, err := q.Enter(testGuild, testUser, "reincidencia"); err != nil {
		t.Fatalf("segundo Enter() error = %v", err)
	}

	rec, _ := store.Get(testGuild, testUser)
	if rec == nil {
		t.Fatal("debe existir un registro tras reentrar")
	}
	wantSnapshot := sorted([]string{testRoleA, testRoleB})
	if got := sorted(rec.OriginalRoleIDs); !equalStrings(got, wantSnapshot) {
		t.Errorf("instantánea tras reentrar = %v, want %v", got, wantSnapshot)
	}

	if _, err := q.Exit(testGuild, testUser); err != nil {
		t.Fatalf("Exit() error = %v", err)
	}
	roles := sorted(gateway.roles(testGuild, testUser))
	want := sorted([]string{testGuild, testRoleA, testRoleB})
	if !equalStrings(roles, want) {
		t.Errorf("roles tras Exit() = %v, want %v", roles, want)
	}
}

func TestQuarantineEnterWithoutRoleConfigured(t *testing.T) {
	configs := NewConfigService(newMemConfigStore())
	gateway := newFakeGateway()
	gateway.addGuild(testGuild)
	gateway.addMember(testGuild, testUser, testRoleA)

	q := NewQuarantine(newMemQuarantineStore(), configs, gateway, nil)
	if _, err := q.Enter(testGuild, testUser, "prueba"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Enter() error = %v, want ErrNotConfigured", err)
	}
	// Sin rol configurado no se toca ningún rol del usuario
	if roles := gateway.roles(testGuild, testUser); len(roles) != 1 {
		t.Errorf("roles = %v, want intactos", roles)
	}
}

func TestQuarantineEmptyRoleRestore(t *testing.T) {
	q, store, gateway, _ := quarantineFixture(t)

	// Miembro sin roles aparte de @everyone
	gateway.addMember(testGuild, "300000000000000002", testGuild)

	if _, err := q.Enter(testGuild, "300000000000000002", "cuenta sospechosa"); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	rec, _ := store.Get(testGuild, "300000000000000002")
	if rec == nil || len(rec.OriginalRoleIDs) != 0 {
		t.Fatalf("instantánea = %+v, want lista vacía", rec)
	}

	if _, err := q.Exit(testGuild, "300000000000000002"); err != nil {
		t.Fatalf("Exit() error = %v", err)
	}
	roles := gateway.roles(testGuild, "300000000000000002")
	if !equalStrings(sorted(roles), []string{testGuild}) {
		t.Errorf("roles tras Exit() = %v, want solo @everyone", roles)
	}
}
