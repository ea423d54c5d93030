package security

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/database"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/models"
)

// ConfigStore persists one GuildSecurityConfig document per guild.
// Get returns (nil, nil) when the guild has no document yet.
type ConfigStore interface {
	Get(guildID string) (*models.GuildSecurityConfig, error)
	Set(guildID string, cfg *models.GuildSecurityConfig) error
}

// QuarantineStore persists one QuarantineRecord per actively-quarantined
// (guild, user) pair with upsert semantics. No transactions are assumed; the
// quarantine lifecycle compensates with its re-check-before-mutate policy.
type QuarantineStore interface {
	Get(guildID, userID string) (*models.QuarantineRecord, error)
	Upsert(rec *models.QuarantineRecord) error
	Delete(guildID, userID string) error
	All() ([]*models.QuarantineRecord, error)
}

// mongoConfigStore backs ConfigStore with the shared security_configs
// DataManager.
type mongoConfigStore struct {
	dm *database.DataManager[models.GuildSecurityConfig]
}

// NewMongoConfigStore builds the production ConfigStore.
func NewMongoConfigStore(dm *database.DataManager[models.GuildSecurityConfig]) ConfigStore {
	return &mongoConfigStore{dm: dm}
}

func (s *mongoConfigStore) Get(guildID string) (*models.GuildSecurityConfig, error) {
	return s.dm.Get(bson.M{"guildId": guildID})
}

func (s *mongoConfigStore) Set(guildID string, cfg *models.GuildSecurityConfig) error {
	cfg.GuildID = guildID
	_, err := s.dm.Set(bson.M{"guildId": guildID}, cfg)
	return err
}

// mongoQuarantineStore backs QuarantineStore with the shared quarantines
// DataManager.
type mongoQuarantineStore struct {
	dm *database.DataManager[models.QuarantineRecord]
}

// NewMongoQuarantineStore builds the production QuarantineStore.
func NewMongoQuarantineStore(dm *database.DataManager[models.QuarantineRecord]) QuarantineStore {
	return &mongoQuarantineStore{dm: dm}
}

func (s *mongoQuarantineStore) Get(guildID, userID string) (*models.QuarantineRecord, error) {
	return s.dm.Get(bson.M{"guildId": guildID, "userId": userID})
}

func (s *mongoQuarantineStore) Upsert(rec *models.QuarantineRecord) error {
	_, err := s.dm.Set(bson.M{"guildId": rec.GuildID, "userId": rec.UserID}, rec)
	return err
}

func (s *mongoQuarantineStore) Delete(guildID, userID string) error {
	return s.dm.Delete(bson.M{"guildId": guildID, "userId": userID})
}

func (s *mongoQuarantineStore) All() ([]*models.QuarantineRecord, error) {
	return s.dm.GetAll(bson.M{})
}
