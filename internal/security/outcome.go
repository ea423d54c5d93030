// Package security implements the raid/abuse-defense pipeline: risk scoring
// for new members, burst detection over privileged actions, the quarantine
// lifecycle with its expiry sweep, and the anti-spam/anti-link message guard.
// All detectors are composed by the Orchestrator; their errors never propagate
// past it.
package security

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Typed outcomes for expected failure modes. Callers render these as warnings,
// never as crashes.
var (
	// ErrNotQuarantined is the no-op outcome of exiting a user that has no
	// quarantine record.
	ErrNotQuarantined = errors.New("el usuario no está en cuarentena")

	// ErrNotConfigured is returned when an operation needs the quarantine
	// role/channel and the guild never configured them.
	ErrNotConfigured = errors.New("el sistema de cuarentena no ha sido configurado para este servidor")

	// ErrInvalidInput rejects malformed configuration values before anything
	// is persisted.
	ErrInvalidInput = errors.New("valor de configuración inválido")
)

// InvalidInputError wraps ErrInvalidInput with the offending field.
func InvalidInputError(field, detail string) error {
	return fmt.Errorf("%w: %s (%s)", ErrInvalidInput, field, detail)
}

// StepResult captures the outcome of one independently-fallible step of a
// multi-step remote mutation (remove role X, add role Y). A failed step never
// aborts the remaining steps.
type StepResult struct {
	Step   string
	RoleID string
	Err    error
}

// RemediationReport aggregates the per-step results of a quarantine
// transition into a single outcome.
type RemediationReport struct {
	IncidentID string
	Steps      []StepResult
}

// Record appends a step result to the report.
func (r *RemediationReport) Record(step, roleID string, err error) {
	r.Steps = append(r.Steps, StepResult{Step: step, RoleID: roleID, Err: err})
}

// Failed returns the steps that reported an error.
func (r *RemediationReport) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

// IsPermissionDenied reports whether err is the platform rejecting a mutation
// for lack of permissions (role hierarchy, missing bot permission).
func IsPermissionDenied(err error) bool {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil {
		return rest.Message.Code == discordgo.ErrCodeMissingPermissions ||
			rest.Message.Code == discordgo.ErrCodeMissingAccess
	}
	return false
}

// IsTargetNotFound reports whether err means the referenced role, channel,
// member or message no longer exists. Treated as "skip and continue".
func IsTargetNotFound(err error) bool {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownRole,
			discordgo.ErrCodeUnknownChannel,
			discordgo.ErrCodeUnknownMember,
			discordgo.ErrCodeUnknownUser,
			discordgo.ErrCodeUnknownMessage:
			return true
		}
	}
	return false
}
