package ai

// Outcome classifies how a battle ended for one side.
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeDraw    Outcome = "draw"
)

// learningCapacity bounds each learning log. Oldest entries are evicted
// ring-buffer style past this size.
const learningCapacity = 50

// TacticRecord is one labeled tactic outcome with its context.
type TacticRecord struct {
	Label   string `json:"label"`
	Context string `json:"context"`
	Turn    int    `json:"turn"`
}

// PerformanceSummary is one battle's end-of-battle record.
type PerformanceSummary struct {
	Outcome             Outcome `json:"outcome"`
	Turns               int     `json:"turns"`
	CasualtiesInflicted int     `json:"casualtiesInflicted"`
	CasualtiesTaken     int     `json:"casualtiesTaken"`
	ObjectivesHeld      int     `json:"objectivesHeld"`
	ResourceEfficiency  float64 `json:"resourceEfficiency"`
}

// PlayerPatterns are the derived opponent estimates that bias future
// personality-modulated scoring.
type PlayerPatterns struct {
	RiskTolerance  float64 `json:"riskTolerance"`
	AdaptationRate float64 `json:"adaptationRate"`
}

// LearningData is the serializable learning record. It round-trips through
// JSON so an external collaborator can persist it between battles.
type LearningData struct {
	PerformanceHistory []PerformanceSummary `json:"performanceHistory"`
	SuccessfulTactics  []TacticRecord       `json:"successfulTactics"`
	FailedTactics      []TacticRecord       `json:"failedTactics"`
	AdaptationTriggers []string             `json:"adaptationTriggers"`
	PlayerPatterns     PlayerPatterns       `json:"playerPatterns"`
}

// LearningStore accumulates tactic outcomes and performance history for one
// controller and derives the player-pattern estimates. Entries are never
// mutated after append, aside from ring-buffer eviction.
type LearningStore struct {
	data LearningData
	step float64 // EMA step, derived from foresight
}

// NewLearningStore creates a store whose adaptation step grows with the
// personality's foresight: far-sighted profiles update their opponent model
// faster.
func NewLearningStore(foresight int) *LearningStore {
	return &LearningStore{
		step: 0.1 + float64(clampTrait(foresight))*0.04,
		data: LearningData{
			PlayerPatterns: PlayerPatterns{RiskTolerance: 0.5, AdaptationRate: 0.5},
		},
	}
}

// RecordSuccess appends a successful tactic entry.
func (ls *LearningStore) RecordSuccess(label, context string, turn int) {
	ls.data.SuccessfulTactics = appendBounded(ls.data.SuccessfulTactics, TacticRecord{Label: label, Context: context, Turn: turn})
}

// RecordFailure appends a failed tactic entry.
func (ls *LearningStore) RecordFailure(label, context string, turn int) {
	ls.data.FailedTactics = appendBounded(ls.data.FailedTactics, TacticRecord{Label: label, Context: context, Turn: turn})
}

// RecordTrigger appends a textual adaptation-trigger event, such as a
// behavioral state transition.
func (ls *LearningStore) RecordTrigger(event string) {
	ls.data.AdaptationTriggers = appendBounded(ls.data.AdaptationTriggers, event)
}

// RecordPerformance appends a battle performance summary.
func (ls *LearningStore) RecordPerformance(s PerformanceSummary) {
	ls.data.PerformanceHistory = appendBounded(ls.data.PerformanceHistory, s)
}

// recentWindow is how many of the newest tactic records Adapt considers.
const recentWindow = 10

// Adapt recomputes the player patterns from the most recent window of
// history using a bounded exponential moving average:
// new = old + step * (signal - old). Returns the updated patterns.
func (ls *LearningStore) Adapt() PlayerPatterns {
	recentFails := tail(ls.data.FailedTactics, recentWindow)
	recentWins := tail(ls.data.SuccessfulTactics, recentWindow)

	observed := len(recentFails) + len(recentWins)
	if observed > 0 {
		failRate := float64(len(recentFails)) / float64(observed)
		ls.data.PlayerPatterns.RiskTolerance = ema(ls.data.PlayerPatterns.RiskTolerance, failRate, ls.step)
	}

	if n := len(ls.data.PerformanceHistory); n > 0 {
		losses := 0
		window := ls.data.PerformanceHistory
		if n > recentWindow {
			window = window[n-recentWindow:]
		}
		for _, s := range window {
			if s.Outcome == OutcomeDefeat {
				losses++
			}
		}
		lossRate := float64(losses) / float64(len(window))
		ls.data.PlayerPatterns.AdaptationRate = ema(ls.data.PlayerPatterns.AdaptationRate, 0.3+lossRate*0.7, ls.step)
	}

	return ls.data.PlayerPatterns
}

// NudgeRisk moves risk tolerance toward a target by one half-step. Used by
// per-action feedback, which should move the needle less than a full Adapt.
func (ls *LearningStore) NudgeRisk(target float64) {
	ls.data.PlayerPatterns.RiskTolerance = ema(ls.data.PlayerPatterns.RiskTolerance, target, ls.step/2)
}

// Patterns returns the current player-pattern estimates.
func (ls *LearningStore) Patterns() PlayerPatterns {
	return ls.data.PlayerPatterns
}

// Data returns a deep copy of the learning record for introspection or
// persistence.
func (ls *LearningStore) Data() LearningData {
	out := LearningData{PlayerPatterns: ls.data.PlayerPatterns}
	out.PerformanceHistory = append(out.PerformanceHistory, ls.data.PerformanceHistory...)
	out.SuccessfulTactics = append(out.SuccessfulTactics, ls.data.SuccessfulTactics...)
	out.FailedTactics = append(out.FailedTactics, ls.data.FailedTactics...)
	out.AdaptationTriggers = append(out.AdaptationTriggers, ls.data.AdaptationTriggers...)
	return out
}

// Restore replaces the learning record with a previously serialized one.
func (ls *LearningStore) Restore(data LearningData) {
	ls.data = LearningData{PlayerPatterns: data.PlayerPatterns}
	ls.data.PerformanceHistory = append(ls.data.PerformanceHistory, data.PerformanceHistory...)
	ls.data.SuccessfulTactics = append(ls.data.SuccessfulTactics, data.SuccessfulTactics...)
	ls.data.FailedTactics = append(ls.data.FailedTactics, data.FailedTactics...)
	ls.data.AdaptationTriggers = append(ls.data.AdaptationTriggers, data.AdaptationTriggers...)
}

// Reset clears every log and restores the neutral player patterns.
func (ls *LearningStore) Reset() {
	ls.data = LearningData{
		PlayerPatterns: PlayerPatterns{RiskTolerance: 0.5, AdaptationRate: 0.5},
	}
}

func appendBounded[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > learningCapacity {
		s = s[len(s)-learningCapacity:]
	}
	return s
}

func tail[T any](s []T, n int) []T {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

func ema(old, signal, step float64) float64 {
	return clamp01(old + step*(signal-old))
}
