package signals

import (
	"fmt"
	"sync"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// ErrPackNotFound is returned by Get for an unregistered policy area.
var ErrPackNotFound = fmt.Errorf("signal pack not found")

// Registry holds the ten SignalPacks (one per policy area), constructed
// once and safe for concurrent reads (same construct-once/freeze pattern
// as pkg/contracts.Registry).
type Registry struct {
	mu    sync.RWMutex
	packs map[questionnaire.PolicyArea]*SignalPack
}

// NewRegistry builds a Registry from already-loaded packs.
func NewRegistry(packs map[questionnaire.PolicyArea]*SignalPack) *Registry {
	copied := make(map[questionnaire.PolicyArea]*SignalPack, len(packs))
	for k, v := range packs {
		copied[k] = v
	}
	return &Registry{packs: copied}
}

// Get retrieves the SignalPack for a policy area.
func (r *Registry) Get(pa questionnaire.PolicyArea) (*SignalPack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.packs[pa]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPackNotFound, pa)
	}
	return p, nil
}

// Len returns the number of policy areas with a registered pack.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.packs)
}

// Resolve looks up a contract's mandatory/optional signal names
// against the PA's pack, returning the pattern/expected-value
// descriptors of each. A missing mandatory signal is recorded in
// Resolution.Missing rather than returned as an error — the caller (the
// irrigation orchestrator, or plan construction at large) decides
// whether that aborts per the running Mode.
func (r *Registry) Resolve(pa questionnaire.PolicyArea, mandatory, optional []string) (*Resolution, error) {
	pack, err := r.Get(pa)
	if err != nil {
		return nil, err
	}
	byName := pack.ByName()

	res := &Resolution{
		Mandatory: make(map[string]*SignalDescriptor, len(mandatory)),
		Optional:  make(map[string]*SignalDescriptor, len(optional)),
	}
	for _, name := range mandatory {
		if d, ok := byName[name]; ok {
			res.Mandatory[name] = d
		} else {
			res.Missing = append(res.Missing, name)
		}
	}
	for _, name := range optional {
		if d, ok := byName[name]; ok {
			res.Optional[name] = d
		}
	}
	return res, nil
}
