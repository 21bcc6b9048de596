package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cognigate/internal/adapters/repository"
	"github.com/okian/cognigate/internal/domain/antirep"
	"github.com/okian/cognigate/internal/domain/baseline"
	"github.com/okian/cognigate/internal/domain/decay"
	"github.com/okian/cognigate/internal/domain/dedupe"
	"github.com/okian/cognigate/internal/domain/difficulty"
	"github.com/okian/cognigate/internal/domain/gating"
	"github.com/okian/cognigate/internal/domain/model"
	"github.com/okian/cognigate/internal/domain/scoring"
	"github.com/okian/cognigate/internal/domain/types"
	"github.com/okian/cognigate/internal/domain/window"
	"github.com/okian/cognigate/pkg/logger"
	"github.com/okian/cognigate/pkg/metrics"
)

// skillBlendFactor is how strongly one session score moves the routed skill:
// new = (1-f)*old + f*score.
const skillBlendFactor = 0.2

// consistencyHistory is how many recent S2 scores feed the aggregator.
const consistencyHistory = 10

// SessionInput describes one completed game session to record.
type SessionInput struct {
	UserID      string
	ExerciseID  string
	Class       types.GameClass
	Skill       string // AE/RA/CT/IN routing key, or "insight"
	Score       float64
	XP          float64
	Duration    time.Duration
	CompletedAt time.Time
}

// RecordGameSession inserts a scoring game session and folds its score into
// the routed skill. The insert is idempotent on (user, exercise, week): a
// client retry of an already-recorded session awards no second XP.
func (s *Service) RecordGameSession(ctx context.Context, in SessionInput) error {
	at := in.CompletedAt
	if at.IsZero() {
		at = now()
	}

	key := dedupe.Key{UserID: in.UserID, ExerciseID: in.ExerciseID, Week: window.WeekKey(at)}
	if s.guard.SeenAndRecord(ctx, key) {
		metrics.RecordDuplicateSession()
		s.log.Info(ctx, "duplicate session suppressed",
			logger.String("user", in.UserID), logger.String("exercise", in.ExerciseID))
		return nil
	}

	skill := in.Skill
	if in.Class == types.GameInsight {
		// Fold the "in" alias into the canonical skill name so the weekly
		// insight cap counts every insight session.
		skill = "insight"
	}

	rec := model.ActivityRecord{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Timestamp: at,
		Kind:      types.KindGameSession,
		System:    in.Class.SystemType(),
		Skill:     skill,
		Score:     in.Score,
		XP:        in.XP,
		Duration:  in.Duration,
	}
	if err := s.write(ctx, func(ctx context.Context) error {
		return s.store.AppendActivity(ctx, rec)
	}); err != nil {
		// Let a later retry re-attempt the insert.
		s.guard.Unrecord(ctx, key)
		metrics.RecordStoreFailure()
		return fmt.Errorf("record game session: %w", err)
	}
	metrics.RecordSessionRecorded(string(types.KindGameSession))

	if err := s.updateSkill(ctx, in.UserID, skill, in.Score, at); err != nil {
		return fmt.Errorf("update skill state: %w", err)
	}
	return nil
}

// updateSkill folds a session score into the routed skill, read-modify-write
// on the single live SkillState.
func (s *Service) updateSkill(ctx context.Context, userID, skill string, score float64, at time.Time) error {
	state, err := s.store.Skills(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		state = model.SkillState{UserID: userID}
	}

	blend := func(old float64) float64 {
		if state.UpdatedAt.IsZero() {
			return score // first session seeds the skill directly
		}
		return (1-skillBlendFactor)*old + skillBlendFactor*score
	}
	switch skill {
	case "ae":
		state.AE = blend(state.AE)
	case "ra":
		state.RA = blend(state.RA)
	case "ct":
		state.CT = blend(state.CT)
	case "in", "insight":
		state.IN = blend(state.IN)
	default:
		s.log.Warn(ctx, "session routed to unknown skill", logger.String("skill", skill))
		return nil
	}
	state.UpdatedAt = at

	if err := s.write(ctx, func(ctx context.Context) error {
		return s.store.PutSkills(ctx, state)
	}); err != nil {
		metrics.RecordStoreFailure()
		return err
	}
	return nil
}

// RecordRecoverySession inserts a recovery session.
func (s *Service) RecordRecoverySession(ctx context.Context, userID string, duration time.Duration, at time.Time) error {
	if at.IsZero() {
		at = now()
	}
	rec := model.ActivityRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Timestamp: at,
		Kind:      types.KindRecoverySession,
		System:    types.SystemS1,
		Duration:  duration,
	}
	if err := s.write(ctx, func(ctx context.Context) error {
		return s.store.AppendActivity(ctx, rec)
	}); err != nil {
		metrics.RecordStoreFailure()
		return fmt.Errorf("record recovery session: %w", err)
	}
	metrics.RecordSessionRecorded(string(types.KindRecoverySession))
	return nil
}

// RecordContentCompletion inserts a content/task completion.
func (s *Service) RecordContentCompletion(ctx context.Context, userID string, contentType types.ContentType, duration time.Duration, at time.Time) error {
	if at.IsZero() {
		at = now()
	}
	rec := model.ActivityRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Timestamp:   at,
		Kind:        types.KindContentCompletion,
		System:      types.SystemS2,
		ContentType: contentType,
		Duration:    duration,
	}
	if err := s.write(ctx, func(ctx context.Context) error {
		return s.store.AppendActivity(ctx, rec)
	}); err != nil {
		metrics.RecordStoreFailure()
		return fmt.Errorf("record content completion: %w", err)
	}
	metrics.RecordSessionRecorded(string(types.KindContentCompletion))
	return nil
}

// Snapshot is the daily composite result surfaced to the presentation layer.
type Snapshot struct {
	model.DerivedScoreSnapshot
	PaceRatio float64
	Pace      types.AgingPace
}

// ComputeDailySnapshot derives and stores the day's composite indices for a
// user. Physio, when present, is a wearable-derived score in [0,100].
func (s *Service) ComputeDailySnapshot(ctx context.Context, userID string, planID types.PlanID, chronoAge float64, physio types.Maybe[float64]) (Snapshot, error) {
	started := time.Now()
	defer func() {
		metrics.RecordSnapshotLatency(time.Since(started).Seconds())
	}()

	at := now()
	plan := s.plan(planID)

	skills, err := s.store.Skills(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return Snapshot{}, fmt.Errorf("read skills: %w", err)
		}
		skills = model.SkillState{UserID: userID}
	}

	composite := scoring.Aggregate(s.scoringInputs(ctx, userID, skills, plan, physio, at))

	bl := s.baselineFor(ctx, userID, chronoAge, at)
	reference := baseline.Reference(bl)

	history := s.dayAverages(ctx, userID, at)
	today := decay.DayAverage{Date: window.StartOfDay(at), Average: composite.CognitivePerformance}
	history = append(history, today)

	_, risk := s.tracker.Streak(history, reference)
	penalty := s.tracker.PenaltyYears(history, reference)
	paceRatio, pace := s.tracker.PaceOfAging(history, at)

	daysInactive, err := s.quotas.DaysInactive(ctx, userID, at)
	if err != nil {
		// Advisory input; a stale zero only delays decay by one evaluation.
		s.log.Warn(ctx, "inactivity lookup failed; assuming active", logger.Error(err))
		daysInactive = 0
	}
	rq, decayed := s.tracker.ApplyRQDecay(composite.ReasoningQuality, skills.S2Core(), daysInactive)
	if decayed {
		metrics.RecordDecayApplied()
	}

	snap := model.DerivedScoreSnapshot{
		UserID:               userID,
		Date:                 window.StartOfDay(at),
		NetworkIndex:         composite.NetworkIndex,
		ReasoningQuality:     rq,
		CognitivePerformance: composite.CognitivePerformance,
		CognitiveAge:         s.tracker.CognitiveAge(chronoAge, composite.CognitivePerformance, reference, penalty),
		DecayApplied:         decayed,
		RegressionRisk:       risk,
	}.Rounded()
	s.checkInvariants(ctx, snap)

	if err := s.write(ctx, func(ctx context.Context) error {
		return s.store.PutSnapshot(ctx, snap)
	}); err != nil {
		metrics.RecordStoreFailure()
		return Snapshot{}, fmt.Errorf("store snapshot: %w", err)
	}
	metrics.RecordSnapshotComputed()

	return Snapshot{DerivedScoreSnapshot: snap, PaceRatio: paceRatio, Pace: pace}, nil
}

// scoringInputs assembles aggregator inputs from fresh windowed queries.
// Non-essential aggregate failures degrade to zero values rather than
// blocking the snapshot.
func (s *Service) scoringInputs(ctx context.Context, userID string, skills model.SkillState, plan model.Plan, physio types.Maybe[float64], at time.Time) scoring.Inputs {
	in := scoring.Inputs{
		Skills:             skills,
		WeeklyXPTarget:     plan.WeeklyXPTarget,
		RecoveryTargetMins: plan.RecoveryTargetMinutes,
		Physio:             physio,
		Now:                at,
	}

	var err error
	if in.WeeklyGameXP, err = s.quotas.WeeklyGameXP(ctx, userID, at); err != nil {
		s.log.Warn(ctx, "weekly xp lookup failed; treating as zero", logger.Error(err))
	}
	if in.WeeklyRecoveryMinutes, err = s.quotas.WeeklyRecoveryMinutes(ctx, userID, at); err != nil {
		s.log.Warn(ctx, "recovery minutes lookup failed; treating as zero", logger.Error(err))
	}
	if in.RecentS2Scores, err = s.quotas.RecentS2Scores(ctx, userID, consistencyHistory, at); err != nil {
		s.log.Warn(ctx, "s2 score history lookup failed; using neutral consistency", logger.Error(err))
	}
	if in.Completions, err = s.quotas.PrimingCompletions(ctx, userID, at); err != nil {
		s.log.Warn(ctx, "priming lookup failed; treating as zero", logger.Error(err))
	}
	if in.CustomSessionMinutes, err = s.quotas.CustomSessionMinutes(ctx, userID, at); err != nil {
		s.log.Warn(ctx, "custom session lookup failed; treating as absent", logger.Error(err))
		in.CustomSessionMinutes = types.None[float64]()
	}
	return in
}

// baselineFor reads the stored baseline, attempting calibration from snapshot
// history when none exists yet. Callers always get a usable value: before
// calibration the zero-value baseline routes consumers to the neutral
// reference.
func (s *Service) baselineFor(ctx context.Context, userID string, chronoAge float64, at time.Time) model.Baseline {
	bl, err := s.store.Baseline(ctx, userID)
	if err == nil && bl.IsCalibrated {
		return bl
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn(ctx, "baseline read failed; using neutral reference", logger.Error(err))
		return model.Baseline{UserID: userID}
	}

	snaps, err := s.store.SnapshotsBetween(ctx, userID, time.Time{}, at)
	if err != nil {
		s.log.Warn(ctx, "snapshot history read failed; using neutral reference", logger.Error(err))
		return model.Baseline{UserID: userID}
	}
	points := make([]baseline.DailyPoint, 0, len(snaps))
	for _, snap := range snaps {
		points = append(points, baseline.DailyPoint{
			Date:      snap.Date,
			Composite: snap.CognitivePerformance,
			RQ:        snap.ReasoningQuality,
		})
	}

	calibrated, err := s.calibrator.Calibrate(userID, points, chronoAge, at)
	if err != nil {
		// Not enough data: report neutral, never fabricate a baseline.
		return model.Baseline{UserID: userID}
	}
	if werr := s.write(ctx, func(ctx context.Context) error {
		return s.store.PutBaseline(ctx, calibrated)
	}); werr != nil {
		s.log.Warn(ctx, "baseline write failed", logger.Error(werr))
	}
	return calibrated
}

// dayAverages builds the regression history from stored snapshots.
func (s *Service) dayAverages(ctx context.Context, userID string, at time.Time) []decay.DayAverage {
	snaps, err := s.store.SnapshotsBetween(ctx, userID, window.Start(at, window.BaselineTrendDays), at)
	if err != nil {
		s.log.Warn(ctx, "snapshot history read failed; regression history empty", logger.Error(err))
		return nil
	}
	out := make([]decay.DayAverage, 0, len(snaps))
	for _, snap := range snaps {
		if window.SameDay(snap.Date, at) {
			continue // today is appended fresh by the caller
		}
		out = append(out, decay.DayAverage{Date: snap.Date, Average: snap.CognitivePerformance})
	}
	return out
}

// checkInvariants flags composite scores outside their declared range. The
// values are already clamped; a violation here is a programming defect.
func (s *Service) checkInvariants(ctx context.Context, snap model.DerivedScoreSnapshot) {
	for name, v := range map[string]float64{
		"network_index":         snap.NetworkIndex,
		"reasoning_quality":     snap.ReasoningQuality,
		"cognitive_performance": snap.CognitivePerformance,
	} {
		if v < 0 || v > 100 {
			metrics.RecordInvariantViolation()
			s.log.Error(ctx, "score outside declared range",
				logger.String("score", name), logger.Float64("value", v))
		}
	}
}

// EvaluateGame gates one game class for a user. Cap counts are recounted
// from raw records on every call; an unavailable counter degrades to zero so
// the gate stays computable.
func (s *Service) EvaluateGame(ctx context.Context, userID string, class types.GameClass, planID types.PlanID, m gating.Metrics) (gating.Decision, error) {
	counts := s.counts(ctx, userID)
	d := gating.EvaluateGame(class, m, counts, s.plan(planID))
	metrics.RecordGateDecision(string(d.Status), string(d.Reason))
	return d, nil
}

// SuggestContent evaluates every candidate item and returns all decisions
// plus the ranked suggested subset.
func (s *Service) SuggestContent(ctx context.Context, userID string, items []gating.ContentItem, m gating.Metrics) (all, ranked []gating.ContentDecision) {
	counts := s.counts(ctx, userID)
	all, ranked = gating.RankContent(items, m, counts)
	metrics.RecordContentRanking()
	return all, ranked
}

// counts recounts rolling caps, degrading to zero on store failure.
func (s *Service) counts(ctx context.Context, userID string) gating.Counts {
	started := time.Now()
	counts, err := s.quotas.Counts(ctx, userID, now())
	metrics.RecordQuotaLatency(time.Since(started).Seconds())
	if err != nil {
		s.log.Warn(ctx, "cap recount failed; treating counts as zero", logger.Error(err))
		return gating.Counts{}
	}
	return counts
}

// AdviseDifficulty computes the difficulty advisory.
func (s *Service) AdviseDifficulty(in difficulty.Inputs) difficulty.Advice {
	advice := difficulty.Advise(in)
	metrics.RecordDifficultyAdvice(string(advice.Recommended))
	return advice
}

// GenerateSession produces an anti-repetition-checked session for a game.
func (s *Service) GenerateSession(ctx context.Context, userID, gameName string, gen antirep.Generator) (antirep.Result, error) {
	res, err := s.engine.Generate(ctx, userID, gameName, gen)
	if err != nil {
		return antirep.Result{}, err
	}
	metrics.RecordComboGenerated()
	if res.DuplicatesRejected > 0 {
		metrics.RecordComboDuplicateRejected(res.DuplicatesRejected)
	}
	if res.FallbackUsed {
		metrics.RecordComboFallback()
	}
	return res, nil
}

// PaceOfAging reports the 30d/180d trend classification from stored history.
func (s *Service) PaceOfAging(ctx context.Context, userID string) (float64, types.AgingPace) {
	at := now()
	return s.tracker.PaceOfAging(s.dayAverages(ctx, userID, at), at)
}
