package keyframer

// Snapshot is a plain data view of a Keyframer's process-wide state, taken
// for inspection tooling and structured export. It copies names and shapes,
// never live references.
type Snapshot struct {
	Globals   []ScopeSnapshot    `json:"globals"`
	Scopes    []ScopeSnapshot    `json:"scopes"`
	Keyframes []KeyframeSnapshot `json:"keyframes"`
	Bindings  []BindingSnapshot  `json:"bindings"`
}

// ScopeSnapshot describes one live stylesheet instance.
type ScopeSnapshot struct {
	ScopeID string         `json:"scope_id"`
	Rules   []RuleSnapshot `json:"rules"`
}

// RuleSnapshot describes one stored rule.
type RuleSnapshot struct {
	Selector   string   `json:"selector"`
	Properties []string `json:"properties"`
	Nested     []string `json:"nested,omitempty"`
}

// KeyframeSnapshot describes one registered keyframe set.
type KeyframeSnapshot struct {
	Name      string    `json:"name"`
	Waypoints []float64 `json:"waypoints"`
}

// BindingSnapshot describes one live trigger binding.
type BindingSnapshot struct {
	ID        uint32 `json:"id"`
	Trigger   string `json:"trigger"`
	Selector  string `json:"selector"`
	Event     string `json:"event,omitempty"`
	KeyPhase  string `json:"key_phase,omitempty"`
	State     string `json:"state"`
	Animation string `json:"animation"`
}

// Snapshot captures the current registries and bindings.
func (k *Keyframer) Snapshot() Snapshot {
	snap := Snapshot{}
	for _, s := range k.reg.globalsInOrder() {
		snap.Globals = append(snap.Globals, snapshotScope(s))
	}
	for _, s := range k.reg.scopedInOrder() {
		snap.Scopes = append(snap.Scopes, snapshotScope(s))
	}
	for _, name := range k.kfs.names() {
		set, _ := k.kfs.get(name)
		ks := KeyframeSnapshot{Name: name}
		for _, wp := range set.Waypoints {
			ks.Waypoints = append(ks.Waypoints, wp.Percent)
		}
		snap.Keyframes = append(snap.Keyframes, ks)
	}
	for _, b := range k.eng.bindings {
		snap.Bindings = append(snap.Bindings, BindingSnapshot{
			ID:        b.id,
			Trigger:   b.kind.String(),
			Selector:  b.selector,
			Event:     b.eventName,
			KeyPhase:  string(b.phase),
			State:     b.state.String(),
			Animation: b.desc.CSS(),
		})
	}
	return snap
}

func snapshotScope(s *Stylesheet) ScopeSnapshot {
	ss := ScopeSnapshot{ScopeID: s.scopeID}
	for _, selector := range s.order {
		decl := s.rules[selector]
		ss.Rules = append(ss.Rules, RuleSnapshot{
			Selector:   selector,
			Properties: decl.scalarKeys(),
			Nested:     decl.nestedKeys(),
		})
	}
	return ss
}
