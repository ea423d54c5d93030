package security

import (
	"sync"
	"time"
)

// Service is the surface the command/UI layer talks to. It owns every moving
// part of the pipeline: the config service, the quarantine lifecycle, the
// expiry sweeper and the orchestrator with its transient trackers.
type Service struct {
	Configs    *ConfigService
	Quarantine *Quarantine
	Sweeper    *Sweeper

	orchestrator *Orchestrator
	burst        *BurstTracker
	messages     *MessageTracker
	gateway      Gateway
}

// Options configures Service construction.
type Options struct {
	ConfigStore     ConfigStore
	QuarantineStore QuarantineStore
	Gateway         Gateway
	Notifier        Notifier
	OwnerID         string
}

var (
	service     *Service
	serviceOnce sync.Once
)

// Init initializes the global security service.
func Init(opts Options) *Service {
	serviceOnce.Do(func() {
		service = NewService(opts)
	})
	return service
}

// Get returns the global security service.
func Get() *Service {
	return service
}

// NewService wires the whole pipeline from its collaborators.
func NewService(opts Options) *Service {
	configs := NewConfigService(opts.ConfigStore)
	quarantine := NewQuarantine(opts.QuarantineStore, configs, opts.Gateway, opts.Notifier)

	s := &Service{
		Configs:    configs,
		Quarantine: quarantine,
		Sweeper:    NewSweeper(quarantine, configs, opts.Gateway),
		burst:      NewBurstTracker(),
		messages:   NewMessageTracker(),
		gateway:    opts.Gateway,
	}

	s.orchestrator = NewOrchestrator(
		&joinGate{configs: configs, quarantine: quarantine, gateway: opts.Gateway, notifier: opts.Notifier},
		&burstDetector{configs: configs, tracker: s.burst, gateway: opts.Gateway, notifier: opts.Notifier, ownerID: opts.OwnerID},
		&messageGuard{configs: configs, tracker: s.messages, gateway: opts.Gateway},
	)

	return s
}

// Dispatch routes a normalized event through the detector chain.
func (s *Service) Dispatch(ev *Event) {
	s.orchestrator.Dispatch(ev)
}

// ScoreMember evaluates a member's risk score against the current instant.
func (s *Service) ScoreMember(p MemberProfile) int {
	return Score(p, time.Now())
}

// RecordAction feeds one privileged action into the burst window without the
// remediation path. Exposed for the command layer's bookkeeping.
func (s *Service) RecordAction(guildID, actorID, action string) bool {
	cfg, err := s.Configs.Get(guildID)
	if err != nil {
		return false
	}
	window := time.Duration(cfg.ActionBurstWindowSeconds) * time.Second
	return s.burst.RecordAndCheck(guildID, actorID, cfg.ActionBurstThreshold, window, time.Now())
}

// Start launches the background expiry sweep.
func (s *Service) Start() {
	s.Sweeper.Start()
}

// Stop cancels the background sweep, waiting for an in-flight pass.
func (s *Service) Stop() {
	s.Sweeper.Stop()
}
