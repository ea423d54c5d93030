package security

import (
	"sync"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
)

// memConfigStore is an in-memory ConfigStore.
type memConfigStore struct {
	mu   sync.Mutex
	cfgs map[string]*models.GuildSecurityConfig
}

func newMemConfigStore() *memConfigStore {
	return &memConfigStore{cfgs: make(map[string]*models.GuildSecurityConfig)}
}

func (s *memConfigStore) Get(guildID string) (*models.GuildSecurityConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.cfgs[guildID]
	if !ok {
		return nil, nil
	}
	copied := *cfg
	return &copied, nil
}

func (s *memConfigStore) Set(guildID string, cfg *models.GuildSecurityConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cfg
	s.cfgs[guildID] = &copied
	return nil
}

// memQuarantineStore is an in-memory QuarantineStore with upsert semantics.
type memQuarantineStore struct {
	mu      sync.Mutex
	records map[string]*models.QuarantineRecord
}

func newMemQuarantineStore() *memQuarantineStore {
	return &memQuarantineStore{records: make(map[string]*models.QuarantineRecord)}
}

func recKey(guildID, userID string) string { return guildID + ":" + userID }

func (s *memQuarantineStore) Get(guildID, userID string) (*models.QuarantineRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[recKey(guildID, userID)]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (s *memQuarantineStore) Upsert(rec *models.QuarantineRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *rec
	s.records[recKey(rec.GuildID, rec.UserID)] = &copied
	return nil
}

func (s *memQuarantineStore) Delete(guildID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, recKey(guildID, userID))
	return nil
}

func (s *memQuarantineStore) All() ([]*models.QuarantineRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.QuarantineRecord, 0, len(s.records))
	for _, rec := range s.records {
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

// fakeGateway is an in-memory Gateway tracking every mutation.
type fakeGateway struct {
	mu sync.Mutex

	guilds      map[string]bool
	members     map[string]bool            // guild:user presente
	memberRoles map[string]map[string]bool // guild:user -> roles
	guildRoles  map[string]map[string]bool // guild -> roles existentes

	kicked  []string
	banned  []string
	deleted map[string][]string // canal -> mensajes borrados
	history map[string][]string // canal -> ids de mensajes del usuario
	sent    []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		guilds:      make(map[string]bool),
		members:     make(map[string]bool),
		memberRoles: make(map[string]map[string]bool),
		guildRoles:  make(map[string]map[string]bool),
		deleted:     make(map[string][]string),
		history:     make(map[string][]string),
	}
}

func (g *fakeGateway) addGuild(guildID string, roleIDs ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guilds[guildID] = true
	roles := make(map[string]bool)
	for _, id := range roleIDs {
		roles[id] = true
	}
	g.guildRoles[guildID] = roles
}

func (g *fakeGateway) addMember(guildID, userID string, roleIDs ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.members[recKey(guildID, userID)] = true
	roles := make(map[string]bool)
	for _, id := range roleIDs {
		roles[id] = true
	}
	g.memberRoles[recKey(guildID, userID)] = roles
}

func (g *fakeGateway) removeMember(guildID, userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.members, recKey(guildID, userID))
}

func (g *fakeGateway) deleteRole(guildID, roleID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.guildRoles[guildID], roleID)
}

func (g *fakeGateway) addHistory(channelID string, messageIDs ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.history[channelID] = append(g.history[channelID], messageIDs...)
}

func (g *fakeGateway) deletedIn(channelID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.deleted[channelID]...)
}

func (g *fakeGateway) roles(guildID, userID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for id := range g.memberRoles[recKey(guildID, userID)] {
		out = append(out, id)
	}
	return out
}

func (g *fakeGateway) GuildAvailable(guildID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.guilds[guildID]
}

func (g *fakeGateway) MemberPresent(guildID, userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.members[recKey(guildID, userID)]
}

func (g *fakeGateway) MemberRoleIDs(guildID, userID string) ([]string, error) {
	return g.roles(guildID, userID), nil
}

func (g *fakeGateway) RoleExists(guildID, roleID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.guildRoles[guildID][roleID]
}

func (g *fakeGateway) AddRole(guildID, userID, roleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if roles, ok := g.memberRoles[recKey(guildID, userID)]; ok {
		roles[roleID] = true
	}
	return nil
}

func (g *fakeGateway) RemoveRole(guildID, userID, roleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.memberRoles[recKey(guildID, userID)], roleID)
	return nil
}

func (g *fakeGateway) Kick(guildID, userID, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.kicked = append(g.kicked, recKey(guildID, userID))
	delete(g.members, recKey(guildID, userID))
	return nil
}

func (g *fakeGateway) Ban(guildID, userID, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.banned = append(g.banned, recKey(guildID, userID))
	delete(g.members, recKey(guildID, userID))
	return nil
}

func (g *fakeGateway) MoveToVoice(guildID, userID, channelID string) error { return nil }

func (g *fakeGateway) DeleteMessage(channelID, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted[channelID] = append(g.deleted[channelID], messageID)
	return nil
}

func (g *fakeGateway) RecentUserMessages(channelID, userID, beforeID string, limit int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	// El historial se registra en orden cronológico; el contrato entrega de
	// más nuevo a más viejo, igual que la API de Discord
	ids := g.history[channelID]
	if len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	out := make([]string, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, ids[i])
	}
	return out, nil
}

func (g *fakeGateway) BulkDeleteMessages(channelID string, messageIDs []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted[channelID] = append(g.deleted[channelID], messageIDs...)
	return nil
}

func (g *fakeGateway) Announce(channelID, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, content)
	return nil
}

func (g *fakeGateway) SendTransient(channelID, content string) error {
	return g.Announce(channelID, content)
}

// recordingNotifier captures every incident it receives.
type recordingNotifier struct {
	mu        sync.Mutex
	incidents []Incident
}

func (n *recordingNotifier) Notify(inc Incident) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.incidents = append(n.incidents, inc)
}

func (n *recordingNotifier) ofKind(kind string) []Incident {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Incident
	for _, inc := range n.incidents {
		if inc.Kind == kind {
			out = append(out, inc)
		}
	}
	return out
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, inc := range n.incidents {
		out = append(out, inc.Kind)
	}
	return out
}
