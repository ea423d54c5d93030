package security

import (
	"fmt"
	"sync"
	"time"

	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
)

// defaultSweepInterval is how often the expiry sweep runs, independent of
// guild count.
const defaultSweepInterval = time.Minute

// Sweeper periodically finds expired quarantine records and reverses them.
// It is the only component that acts without an inbound event. Stop is
// idempotent; an in-flight sweep runs to completion so a user is never left
// with roles half-removed and nothing restored.
type Sweeper struct {
	quarantine *Quarantine
	configs    *ConfigService
	gateway    Gateway
	interval   time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	now        func() time.Time
}

// NewSweeper creates a sweeper with the default interval.
func NewSweeper(quarantine *Quarantine, configs *ConfigService, gateway Gateway) *Sweeper {
	return &Sweeper{
		quarantine: quarantine,
		configs:    configs,
		gateway:    gateway,
		interval:   defaultSweepInterval,
		stop:       make(chan struct{}),
		now:        time.Now,
	}
}

// Start launches the periodic sweep goroutine.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		logger.System(fmt.Sprintf("Barrido de cuarentenas iniciado (cada %s)", s.interval), "Sweeper")

		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				logger.System("Barrido de cuarentenas detenido", "Sweeper")
				return
			}
		}
	}()
}

// Stop cancels the periodic task and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// Sweep runs one pass over all quarantine records. A failure on one record
// never aborts the remaining records.
func (s *Sweeper) Sweep() {
	records, err := s.quarantine.store.All()
	if err != nil {
		logger.Error(fmt.Sprintf("Error consultando cuarentenas activas: %v", err), "Sweeper")
		return
	}

	now := s.now()
	for _, rec := range records {
		s.sweepRecord(rec.GuildID, rec.UserID, now)
	}
}

func (s *Sweeper) sweepRecord(guildID, userID string, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Pánico procesando cuarentena %s/%s: %v", guildID, userID, r), "Sweeper")
		}
	}()

	// Registro huérfano: servidor o miembro ya no existen, se poda sin
	// tocar roles
	if !s.gateway.GuildAvailable(guildID) || !s.gateway.MemberPresent(guildID, userID) {
		if err := s.quarantine.store.Delete(guildID, userID); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo podar la cuarentena huérfana %s/%s: %v", guildID, userID, err), "Sweeper")
		} else {
			logger.Info(fmt.Sprintf("Cuarentena huérfana podada: %s/%s", guildID, userID), "Sweeper")
		}
		return
	}

	cfg, err := s.configs.Get(guildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer la configuración de %s: %v", guildID, err), "Sweeper")
		return
	}

	// La elegibilidad se evalúa contra el registro actual, no contra la
	// instantánea del listado
	rec, err := s.quarantine.Record(guildID, userID)
	if err != nil || rec == nil {
		return
	}
	if !rec.Expired(cfg.QuarantineDurationHours, now) {
		return
	}

	if _, err := s.quarantine.expire(guildID, userID); err != nil && err != ErrNotQuarantined {
		logger.Warn(fmt.Sprintf("Error expirando la cuarentena de %s/%s: %v", guildID, userID, err), "Sweeper")
		return
	}
	logger.Info(fmt.Sprintf("Cuarentena de %s en %s expirada y revertida", userID, guildID), "Sweeper")
}
