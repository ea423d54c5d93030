package security

import (
	"regexp"
	"time"
)

// MemberProfile contains the observable attributes a risk score is computed
// from. It is deliberately decoupled from discordgo types so the scorer stays
// a pure function.
type MemberProfile struct {
	AccountCreatedAt time.Time
	HasAvatar        bool
	Username         string
}

var (
	// Una racha de 5+ caracteres que no son letras ni espacios
	suspiciousRunPattern = regexp.MustCompile(`[^a-zA-Z\s]{5,}`)
	// Nombre que empieza por un dígito
	digitPrefixPattern = regexp.MustCompile(`^\d`)
)

// Risk score weights. Additive; the total has no upper bound and is compared
// against the guild's riskThreshold by the caller.
const (
	scoreVeryNewAccount   = 50 // cuenta con ≤ 2 días
	scoreNewAccount       = 20 // cuenta con ≤ 7 días
	scoreNoAvatar         = 30
	scoreSuspiciousName   = 25
	scoreVeryShortName    = 15
	veryNewAccountMaxAge  = 48 * time.Hour
	newAccountMaxAge      = 7 * 24 * time.Hour
	veryShortNameMaxRunes = 2
)

// Score maps a member's observable attributes to an integer risk score.
// Pure and deterministic: same profile and instant, same score.
func Score(p MemberProfile, now time.Time) int {
	score := 0

	age := now.Sub(p.AccountCreatedAt)
	if age <= veryNewAccountMaxAge {
		score += scoreVeryNewAccount
	} else if age <= newAccountMaxAge {
		score += scoreNewAccount
	}

	if !p.HasAvatar {
		score += scoreNoAvatar
	}

	if suspiciousRunPattern.MatchString(p.Username) || digitPrefixPattern.MatchString(p.Username) {
		score += scoreSuspiciousName
	}
	if len([]rune(p.Username)) <= veryShortNameMaxRunes {
		score += scoreVeryShortName
	}

	return score
}
