package ai

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/combat"
)

// Registry builds AI strategies by name and indexes planner domains by ID.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	cfg     config.AIConfig
	caller  ScriptCaller
	logger  *zap.Logger
	domains map[string]*Domain
}

// NewRegistry returns a Registry with no domains. caller may be nil.
//
// Precondition: logger must be non-nil.
func NewRegistry(cfg config.AIConfig, caller ScriptCaller, logger *zap.Logger) *Registry {
	if logger == nil {
		panic("ai: NewRegistry precondition violated: logger must be non-nil")
	}
	return &Registry{cfg: cfg, caller: caller, logger: logger, domains: make(map[string]*Domain)}
}

// Register stores domain.
//
// Precondition: domain must be non-nil and valid.
// Postcondition: returns error on domain ID collision.
func (r *Registry) Register(domain *Domain) error {
	if _, exists := r.domains[domain.ID]; exists {
		return fmt.Errorf("ai.Registry: domain %q already registered", domain.ID)
	}
	r.domains[domain.ID] = domain
	return nil
}

// DomainFor returns the domain with domainID, or false if not registered.
func (r *Registry) DomainFor(domainID string) (*Domain, bool) {
	d, ok := r.domains[domainID]
	return d, ok
}

// Names returns every strategy name New accepts, sorted.
func (r *Registry) Names() []string {
	names := []string{StrategyDummy, StrategyGeneric, StrategyMimic, StrategySwordFirst, StrategyFootsies}
	sort.Strings(names)
	return names
}

// New returns a fresh AI for the named strategy; names are case-insensitive.
// Every call returns a new instance so no cache is shared between fighters.
//
// Postcondition: returns an error for an unknown name, or for footsies when
// no "footsies" domain is registered.
func (r *Registry) New(name string) (combat.AI, error) {
	logger := r.logger.With(zap.String("ai", name))
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyGeneric:
		return NewGeneric(r.cfg, logger), nil
	case StrategyDummy:
		return Dummy{}, nil
	case StrategyMimic:
		return NewMimic(NewGeneric(r.cfg, logger)), nil
	case StrategySwordFirst:
		return NewSwordFirst(NewGeneric(r.cfg, logger)), nil
	case StrategyFootsies:
		d, ok := r.domains[StrategyFootsies]
		if !ok {
			return nil, fmt.Errorf("ai.Registry: strategy %q needs domain %q", name, StrategyFootsies)
		}
		return NewFootsies(NewGeneric(r.cfg, logger), d, r.caller), nil
	default:
		return nil, fmt.Errorf("ai.Registry: unknown strategy %q (known: %s)", name, strings.Join(r.Names(), ", "))
	}
}
