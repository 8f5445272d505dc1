// match/matchmaker.go
package match

// QuickJoinResult tags whether quick-join entered an existing match
// or opened a new one, so the caller can emit the right event shape.
type QuickJoinResult struct {
	Match  *Match
	Joined bool // true: joined an existing waiting match
}

// Matchmaker 匹配策略层: 优先加入等待中的对局, 没有就新开一局.
type Matchmaker struct {
	registry *Registry
}

func NewMatchmaker(registry *Registry) *Matchmaker {
	return &Matchmaker{registry: registry}
}

// QuickJoin pairs the participant into some waiting match, or creates
// a fresh one when none fits.
func (mm *Matchmaker) QuickJoin(participantID, name, avatar string) QuickJoinResult {
	if m := mm.registry.FindJoinable(); m != nil {
		hostID, _ := m.PlayerIDs()
		if hostID != participantID {
			joined, err := mm.registry.Join(m.ID(), participantID, name, avatar)
			if err == nil {
				return QuickJoinResult{Match: joined, Joined: true}
			}
			// The match filled or closed between lookup and join; fall
			// through and open a new one.
		}
	}
	return QuickJoinResult{Match: mm.registry.Create(participantID, name, avatar)}
}
