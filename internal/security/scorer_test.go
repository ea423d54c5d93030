package security

import (
	"testing"
	"time"
)

func TestScoreEstablishedMember(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := MemberProfile{
		AccountCreatedAt: now.Add(-400 * 24 * time.Hour),
		HasAvatar:        true,
		Username:         "Margarita",
	}
	if got := Score(p, now); got != 0 {
		t.Errorf("Score() = %d, want 0", got)
	}
}

func TestScoreFreshThrowaway(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := MemberProfile{
		AccountCreatedAt: now.Add(-6 * time.Hour),
		HasAvatar:        false,
		Username:         "9x",
	}
	// 50 (cuenta nueva) + 30 (sin avatar) + 25 (empieza por dígito) + 15 (corto)
	if got := Score(p, now); got != 120 {
		t.Errorf("Score() = %d, want 120", got)
	}
}

func TestScoreAdditiveWeights(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-400 * 24 * time.Hour)

	cases := []struct {
		name string
		p    MemberProfile
		want int
	}{
		{"cuenta de tres dias", MemberProfile{AccountCreatedAt: now.Add(-3 * 24 * time.Hour), HasAvatar: true, Username: "Margarita"}, 20},
		{"cuenta de ocho dias", MemberProfile{AccountCreatedAt: now.Add(-8 * 24 * time.Hour), HasAvatar: true, Username: "Margarita"}, 0},
		{"sin avatar", MemberProfile{AccountCreatedAt: old, HasAvatar: false, Username: "Margarita"}, 30},
		{"racha de simbolos", MemberProfile{AccountCreatedAt: old, HasAvatar: true, Username: "xx$$$$$xx"}, 25},
		{"empieza por digito", MemberProfile{AccountCreatedAt: old, HasAvatar: true, Username: "7Margarita"}, 25},
		{"nombre de dos runas", MemberProfile{AccountCreatedAt: old, HasAvatar: true, Username: "ab"}, 15},
		{"nombre de tres runas", MemberProfile{AccountCreatedAt: old, HasAvatar: true, Username: "abc"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.p, now); got != tc.want {
				t.Errorf("Score() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := MemberProfile{
		AccountCreatedAt: now.Add(-24 * time.Hour),
		HasAvatar:        false,
		Username:         "raider#####",
	}
	first := Score(p, now)
	for i := 0; i < 10; i++ {
		if got := Score(p, now); got != first {
			t.Fatalf("Score() = %d en la iteración %d, want %d", got, i, first)
		}
	}
}
