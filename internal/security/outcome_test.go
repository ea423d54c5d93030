package security

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func restError(code int) error {
	return &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: code}}
}

func TestIsTargetNotFound(t *testing.T) {
	for _, code := range []int{
		discordgo.ErrCodeUnknownRole,
		discordgo.ErrCodeUnknownChannel,
		discordgo.ErrCodeUnknownMember,
		discordgo.ErrCodeUnknownUser,
		discordgo.ErrCodeUnknownMessage,
	} {
		if !IsTargetNotFound(restError(code)) {
			t.Errorf("IsTargetNotFound(code %d) = false, want true", code)
		}
	}
	// Envuelto también se reconoce
	wrapped := fmt.Errorf("al quitar el rol: %w", restError(discordgo.ErrCodeUnknownRole))
	if !IsTargetNotFound(wrapped) {
		t.Error("IsTargetNotFound debe atravesar errores envueltos")
	}
	if IsTargetNotFound(restError(discordgo.ErrCodeMissingPermissions)) {
		t.Error("un error de permisos no es un objetivo inexistente")
	}
	if IsTargetNotFound(errors.New("otra cosa")) {
		t.Error("un error genérico no es un objetivo inexistente")
	}
}

func TestIsPermissionDenied(t *testing.T) {
	if !IsPermissionDenied(restError(discordgo.ErrCodeMissingPermissions)) {
		t.Error("IsPermissionDenied(missing permissions) = false, want true")
	}
	if !IsPermissionDenied(restError(discordgo.ErrCodeMissingAccess)) {
		t.Error("IsPermissionDenied(missing access) = false, want true")
	}
	if IsPermissionDenied(restError(discordgo.ErrCodeUnknownRole)) {
		t.Error("un objetivo inexistente no es una denegación de permisos")
	}
}

func TestInvalidInputErrorWraps(t *testing.T) {
	err := InvalidInputError("riskThreshold", "fuera de rango")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("InvalidInputError no envuelve ErrInvalidInput: %v", err)
	}
}
