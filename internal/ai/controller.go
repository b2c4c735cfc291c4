package ai

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kwestra/hexfront/pkg/wargame"
)

// BehaviorState is the controller's battle posture. It drives which
// tactical goals receive priority boosts during scoring.
type BehaviorState string

const (
	StatePreparation      BehaviorState = "preparation"
	StateActiveEngagement BehaviorState = "active_engagement"
	StateActiveDefense    BehaviorState = "active_defense"
	StatePursuit          BehaviorState = "pursuit"
	StateFinalStand       BehaviorState = "final_stand"
)

// PerformanceMetrics tracks one side's running battle performance. Reset at
// battle start, mutated incrementally by the feedback entry points.
type PerformanceMetrics struct {
	CasualtiesInflicted int     `json:"casualtiesInflicted"`
	CasualtiesTaken     int     `json:"casualtiesTaken"`
	ObjectivesHeld      int     `json:"objectivesHeld"`
	SuccessfulAmbushes  int     `json:"successfulAmbushes"`
	ResourceEfficiency  float64 `json:"resourceEfficiency"`

	// Baselines captured at first contact with a snapshot.
	OwnStartingHP   int `json:"ownStartingHp"`
	EnemyStartingHP int `json:"enemyStartingHp"`
}

// AIStatus is the read-only introspection view used by tooling and tests.
type AIStatus struct {
	Side    wargame.Side       `json:"side"`
	State   BehaviorState      `json:"state"`
	Metrics PerformanceMetrics `json:"metrics"`
}

// Controller is the per-side AI: it owns its personality, behavioral state,
// performance metrics, and learning data. Not safe for concurrent use; the
// turn driver must serialize calls.
type Controller struct {
	side        wargame.Side
	personality PersonalityModel
	state       BehaviorState
	metrics     PerformanceMetrics
	learning    *LearningStore
	maker       *DecisionMaker
	transitions *TransitionTable
	log         zerolog.Logger

	baselined bool
	turn      int
}

// Option configures a Controller.
type Option func(*controllerConfig)

type controllerConfig struct {
	seed        int64
	evaluator   Evaluator
	transitions *TransitionTable
}

// WithSeed fixes the mistake-noise RNG seed for reproducible decisions.
func WithSeed(seed int64) Option {
	return func(c *controllerConfig) { c.seed = seed }
}

// WithEvaluator attaches a position evaluator (e.g. the ONNX model).
func WithEvaluator(e Evaluator) Option {
	return func(c *controllerConfig) { c.evaluator = e }
}

// WithTransitions replaces the default behavioral transition rules.
func WithTransitions(t *TransitionTable) Option {
	return func(c *controllerConfig) { c.transitions = t }
}

// NewController creates the AI for one side.
func NewController(side wargame.Side, personality PersonalityModel, opts ...Option) *Controller {
	cfg := controllerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.transitions == nil {
		cfg.transitions = MustCompileTransitions(DefaultTransitionRules())
	}

	scorer := NewScorer(cfg.seed)
	return &Controller{
		side:        side,
		personality: personality,
		state:       StatePreparation,
		learning:    NewLearningStore(personality.Foresight),
		maker:       NewDecisionMaker(scorer, cfg.evaluator),
		transitions: cfg.transitions,
		log: log.With().
			Str("component", "controller").
			Str("side", string(side)).
			Str("personality", personality.Name).
			Logger(),
	}
}

// Decide produces the ranked action proposals for one decision pass. The
// returned list is sorted by descending priority with at most one proposal
// per unit. An empty battlefield yields an empty list.
func (c *Controller) Decide(ctx *Context) []Proposal {
	c.ensureBaseline(ctx)

	profile := AnalyzeOpponent(ctx.RecentEnemyActions)
	plan := GenerateCounterTactics(profile)

	// Learned caution shifts the whole pass toward force preservation.
	if rt := c.learning.Patterns().RiskTolerance; rt > 0.6 {
		plan.GoalBias[GoalPreserveForce] += rt - 0.6
	}

	props := c.maker.MakeDecisions(ctx, c.personality, c.state, plan)

	c.log.Debug().
		Int("turn", ctx.State.Turn).
		Str("state", string(c.state)).
		Int("proposals", len(props)).
		Strs("counterNotes", plan.Notes).
		Msg("Decision pass complete")
	return props
}

// ProcessActionResults consumes the executor's results for the proposals of
// one pass, matched by index. Failures become failed-tactic entries and
// nudge risk tolerance toward caution; successes are recorded likewise.
func (c *Controller) ProcessActionResults(proposals []Proposal, results []wargame.ActionResult) {
	for i, res := range results {
		if i >= len(proposals) {
			break
		}
		prop := proposals[i]
		label := fmt.Sprintf("%s/%s", prop.Kind, prop.Goal)

		if res.Success {
			c.learning.RecordSuccess(label, prop.Reason, c.turn)
			c.metrics.CasualtiesInflicted += res.Damage
			if prop.Goal == GoalHiddenOperations && res.Damage > 0 {
				c.metrics.SuccessfulAmbushes++
			}
		} else {
			c.learning.RecordFailure(label, res.Message, c.turn)
			c.learning.NudgeRisk(0.9)
		}
	}
}

// ProcessEndOfTurn updates metrics from the snapshot, re-evaluates the
// behavioral state machine, and applies the per-turn adaptation.
func (c *Controller) ProcessEndOfTurn(turn int, ctx *Context) {
	c.ensureBaseline(ctx)
	c.turn = turn
	c.refreshMetrics(ctx)

	env := c.transitionEnv(turn, ctx)
	if next, reason, ok := c.transitions.Next(c.state, env); ok {
		event := fmt.Sprintf("%s -> %s (%s)", c.state, next, reason)
		c.learning.RecordTrigger(event)
		c.log.Info().Str("transition", event).Int("turn", turn).Msg("Behavioral state transition")
		c.state = next
	}

	c.learning.Adapt()
}

// ProcessBattleEnd records the battle summary and applies a larger
// adaptation nudge than per-turn processing.
func (c *Controller) ProcessBattleEnd(ctx *Context, outcome Outcome) {
	c.refreshMetrics(ctx)
	c.learning.RecordPerformance(PerformanceSummary{
		Outcome:             outcome,
		Turns:               ctx.State.Turn,
		CasualtiesInflicted: c.metrics.CasualtiesInflicted,
		CasualtiesTaken:     c.metrics.CasualtiesTaken,
		ObjectivesHeld:      c.metrics.ObjectivesHeld,
		ResourceEfficiency:  c.metrics.ResourceEfficiency,
	})

	c.learning.Adapt()
	switch outcome {
	case OutcomeDefeat:
		c.learning.NudgeRisk(0.9)
		c.learning.NudgeRisk(0.9)
	case OutcomeVictory:
		c.learning.NudgeRisk(0.3)
	}

	c.log.Info().
		Str("outcome", string(outcome)).
		Int("inflicted", c.metrics.CasualtiesInflicted).
		Int("taken", c.metrics.CasualtiesTaken).
		Msg("Battle ended")
}

// ResetLearningData clears learning only; the personality and current
// behavioral state are untouched.
func (c *Controller) ResetLearningData() {
	c.learning.Reset()
}

// RestoreLearningData loads a previously persisted learning record.
func (c *Controller) RestoreLearningData(data LearningData) {
	c.learning.Restore(data)
}

// Personality returns the assigned personality model.
func (c *Controller) Personality() PersonalityModel { return c.personality }

// Status returns the current behavioral state and performance metrics.
func (c *Controller) Status() AIStatus {
	return AIStatus{Side: c.side, State: c.state, Metrics: c.metrics}
}

// LearningData returns a copy of the accumulated learning record.
func (c *Controller) LearningData() LearningData { return c.learning.Data() }

// Side returns the side this controller plays.
func (c *Controller) Side() wargame.Side { return c.side }

func (c *Controller) ensureBaseline(ctx *Context) {
	if c.baselined {
		return
	}
	c.metrics.OwnStartingHP = ctx.State.TotalHP(c.side)
	c.metrics.EnemyStartingHP = ctx.State.TotalHP(c.side.Opponent())
	c.baselined = true
}

func (c *Controller) refreshMetrics(ctx *Context) {
	c.metrics.ObjectivesHeld = ctx.State.ObjectivesHeld(c.side)
	if c.metrics.OwnStartingHP > 0 {
		c.metrics.CasualtiesTaken = c.metrics.OwnStartingHP - ctx.State.TotalHP(c.side)
	}
	if spent := c.metrics.CasualtiesInflicted; spent > 0 && c.metrics.EnemyStartingHP > 0 {
		c.metrics.ResourceEfficiency = float64(spent) / float64(c.metrics.EnemyStartingHP)
	}
}

func (c *Controller) transitionEnv(turn int, ctx *Context) TransitionEnv {
	ownHP := ctx.State.TotalHP(c.side)
	enemyHP := ctx.State.TotalHP(c.side.Opponent())

	env := TransitionEnv{
		Turn:           turn,
		UnitsLeft:      ctx.State.UnitCount(c.side),
		EnemiesLeft:    ctx.State.UnitCount(c.side.Opponent()),
		ObjectivesHeld: ctx.State.ObjectivesHeld(c.side),
		Aggression:     float64(c.personality.Aggression),
		Foresight:      float64(c.personality.Foresight),
		Precision:      float64(c.personality.Precision),
	}
	if c.metrics.OwnStartingHP > 0 {
		env.LossRatio = 1 - float64(ownHP)/float64(c.metrics.OwnStartingHP)
	}
	if c.metrics.EnemyStartingHP > 0 {
		env.EnemyLossRatio = 1 - float64(enemyHP)/float64(c.metrics.EnemyStartingHP)
	}
	if enemyHP > 0 {
		env.StrengthRatio = float64(ownHP) / float64(enemyHP)
	} else {
		env.StrengthRatio = float64(ownHP)
	}
	return env
}
