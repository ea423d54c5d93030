package events

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestGuardableMessage(t *testing.T) {
	cases := []struct {
		mtype discordgo.MessageType
		want  bool
	}{
		{discordgo.MessageTypeDefault, true},
		{discordgo.MessageTypeReply, true},
		{discordgo.MessageTypeChannelPinnedMessage, false},
		{discordgo.MessageTypeGuildMemberJoin, false},
		{discordgo.MessageTypeUserPremiumGuildSubscription, false},
	}
	for _, tc := range cases {
		if got := guardableMessage(tc.mtype); got != tc.want {
			t.Errorf("guardableMessage(%d) = %v, want %v", tc.mtype, got, tc.want)
		}
	}
}
