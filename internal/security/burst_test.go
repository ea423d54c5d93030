package security

import (
	"testing"
	"time"
)

func TestBurstFiresAtThreshold(t *testing.T) {
	tracker := NewBurstTracker()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 10 * time.Second

	for i := 0; i < 4; i++ {
		if tracker.RecordAndCheck("g1", "actor", 5, window, base.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("la acción %d no debería disparar el umbral", i+1)
		}
	}
	if !tracker.RecordAndCheck("g1", "actor", 5, window, base.Add(4*time.Second)) {
		t.Fatal("la quinta acción dentro de la ventana debería disparar el umbral")
	}
}

func TestBurstClearsWindowOnFire(t *testing.T) {
	tracker := NewBurstTracker()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 10 * time.Second

	for i := 0; i < 5; i++ {
		tracker.RecordAndCheck("g1", "actor", 5, window, base.Add(time.Duration(i)*time.Second))
	}
	if got := tracker.Len("g1", "actor"); got != 0 {
		t.Errorf("ventana tras el disparo = %d, want 0", got)
	}
	// La siguiente acción arranca una ventana nueva, no dispara otra vez
	if tracker.RecordAndCheck("g1", "actor", 5, window, base.Add(6*time.Second)) {
		t.Error("una sola acción tras el disparo no debería volver a disparar")
	}
	if got := tracker.Len("g1", "actor"); got != 1 {
		t.Errorf("ventana nueva = %d, want 1", got)
	}
}

func TestBurstSpreadOverWindowNeverFires(t *testing.T) {
	tracker := NewBurstTracker()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 10 * time.Second

	// Cinco acciones separadas 3s: nunca coinciden cinco en la misma ventana
	for i := 0; i < 5; i++ {
		if tracker.RecordAndCheck("g1", "actor", 5, window, base.Add(time.Duration(i*3)*time.Second)) {
			t.Fatalf("la acción %d espaciada no debería disparar el umbral", i+1)
		}
	}
}

func TestBurstTracksActorsIndependently(t *testing.T) {
	tracker := NewBurstTracker()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 10 * time.Second

	for i := 0; i < 4; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		tracker.RecordAndCheck("g1", "actorA", 5, window, ts)
		tracker.RecordAndCheck("g1", "actorB", 5, window, ts)
		tracker.RecordAndCheck("g2", "actorA", 5, window, ts)
	}
	if got := tracker.Len("g1", "actorA"); got != 4 {
		t.Errorf("ventana de actorA en g1 = %d, want 4", got)
	}
	if got := tracker.Len("g2", "actorA"); got != 4 {
		t.Errorf("ventana de actorA en g2 = %d, want 4", got)
	}
	// Solo actorA en g1 alcanza el umbral
	if !tracker.RecordAndCheck("g1", "actorA", 5, window, base.Add(4*time.Second)) {
		t.Error("actorA en g1 debería disparar el umbral")
	}
	if got := tracker.Len("g1", "actorB"); got != 4 {
		t.Errorf("la ventana de actorB no debe verse afectada, = %d, want 4", got)
	}
}

func TestBurstZeroThresholdDisabled(t *testing.T) {
	tracker := NewBurstTracker()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		if tracker.RecordAndCheck("g1", "actor", 0, 10*time.Second, now) {
			t.Fatal("con umbral 0 el detector queda desactivado")
		}
	}
}
