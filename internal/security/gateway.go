package security

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Gateway is the narrow surface of the platform client the pipeline mutates
// the world through. Every call may fail with a permission-denied or
// not-found outcome; the pipeline treats both as non-fatal. Tests substitute
// an in-memory fake.
type Gateway interface {
	GuildAvailable(guildID string) bool
	MemberPresent(guildID, userID string) bool
	MemberRoleIDs(guildID, userID string) ([]string, error)
	RoleExists(guildID, roleID string) bool
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string) error
	MoveToVoice(guildID, userID, channelID string) error
	DeleteMessage(channelID, messageID string) error
	RecentUserMessages(channelID, userID, beforeID string, limit int) ([]string, error)
	BulkDeleteMessages(channelID string, messageIDs []string) error
	Announce(channelID, content string) error
	SendTransient(channelID, content string) error
}

// transientMessageTTL is how long a warning posted by the message guard or a
// detector stays before self-deleting.
const transientMessageTTL = 5 * time.Second

// sessionGateway implements Gateway over a live discordgo session.
type sessionGateway struct {
	session *discordgo.Session
}

// NewSessionGateway wraps a discordgo session as the pipeline's Gateway.
func NewSessionGateway(s *discordgo.Session) Gateway {
	return &sessionGateway{session: s}
}

func (g *sessionGateway) GuildAvailable(guildID string) bool {
	guild, err := g.session.State.Guild(guildID)
	return err == nil && guild != nil && !guild.Unavailable
}

func (g *sessionGateway) MemberPresent(guildID, userID string) bool {
	if member, err := g.session.State.Member(guildID, userID); err == nil && member != nil {
		return true
	}
	member, err := g.session.GuildMember(guildID, userID)
	return err == nil && member != nil
}

func (g *sessionGateway) MemberRoleIDs(guildID, userID string) ([]string, error) {
	if member, err := g.session.State.Member(guildID, userID); err == nil && member != nil {
		return append([]string(nil), member.Roles...), nil
	}
	member, err := g.session.GuildMember(guildID, userID)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), member.Roles...), nil
}

func (g *sessionGateway) RoleExists(guildID, roleID string) bool {
	role, err := g.session.State.Role(guildID, roleID)
	return err == nil && role != nil
}

func (g *sessionGateway) AddRole(guildID, userID, roleID string) error {
	return g.session.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (g *sessionGateway) RemoveRole(guildID, userID, roleID string) error {
	return g.session.GuildMemberRoleRemove(guildID, userID, roleID)
}

func (g *sessionGateway) Kick(guildID, userID, reason string) error {
	return g.session.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (g *sessionGateway) Ban(guildID, userID, reason string) error {
	return g.session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

func (g *sessionGateway) MoveToVoice(guildID, userID, channelID string) error {
	return g.session.GuildMemberMove(guildID, userID, &channelID)
}

func (g *sessionGateway) DeleteMessage(channelID, messageID string) error {
	return g.session.ChannelMessageDelete(channelID, messageID)
}

func (g *sessionGateway) RecentUserMessages(channelID, userID, beforeID string, limit int) ([]string, error) {
	msgs, err := g.session.ChannelMessages(channelID, limit, beforeID, "", "")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Author != nil && m.Author.ID == userID {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

func (g *sessionGateway) BulkDeleteMessages(channelID string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	if len(messageIDs) == 1 {
		return g.session.ChannelMessageDelete(channelID, messageIDs[0])
	}
	return g.session.ChannelMessagesBulkDelete(channelID, messageIDs)
}

func (g *sessionGateway) Announce(channelID, content string) error {
	_, err := g.session.ChannelMessageSend(channelID, content)
	return err
}

// SendTransient posts a warning that deletes itself shortly after, mirroring
// the delete_after behaviour moderation replies use.
func (g *sessionGateway) SendTransient(channelID, content string) error {
	msg, err := g.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return err
	}
	go func() {
		time.Sleep(transientMessageTTL)
		_ = g.session.ChannelMessageDelete(channelID, msg.ID)
	}()
	return nil
}
