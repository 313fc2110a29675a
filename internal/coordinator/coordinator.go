/*
Package coordinator decides which specialists handle a request and
threads nutrition findings into the fitness path via the Health Memo
protocol.
*/
package coordinator

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"healthbutler/internal/fitness"
	"healthbutler/internal/memo"
	"healthbutler/internal/nutrition"
)

// specialistTimeout bounds each model-backed specialist call. The local
// filtering core is CPU-bound and needs no timeout of its own.
const specialistTimeout = 10 * time.Second

// Request is one user query: free text, an optional meal photo, and the
// stored profile resolved by the transport layer.
type Request struct {
	Text      string
	Image     []byte
	ImageMime string
	Profile   fitness.Profile
}

// Response aggregates whatever specialists ran.
type Response struct {
	Nutrition *nutrition.MealAnalysis `json:"nutrition,omitempty"`
	Fitness   *fitness.Advice         `json:"fitness,omitempty"`

	// Degraded notes that a specialist failed and its contribution is
	// missing or generic.
	Degraded bool `json:"degraded,omitempty"`
}

// Coordinator wires the two specialists together.
type Coordinator struct {
	nutrition *nutrition.Agent
	fitness   *fitness.Agent
}

// New builds a coordinator over the given specialists.
func New(n *nutrition.Agent, f *fitness.Agent) *Coordinator {
	return &Coordinator{nutrition: n, fitness: f}
}

var (
	nutritionIntent = regexp.MustCompile(`(?i)\b(eat|ate|meal|food|calorie|calories|nutrition|dish|snack|breakfast|lunch|dinner)\b`)
	fitnessIntent   = regexp.MustCompile(`(?i)\b(exercise|workout|work out|train|training|run|running|walk|gym|fitness|cardio|stretch|sport)\b`)
)

// wantsNutrition reports whether the request needs the nutrition path. A
// photo always does.
func wantsNutrition(req Request) bool {
	return len(req.Image) > 0 || nutritionIntent.MatchString(req.Text)
}

// wantsFitness reports whether the request needs the fitness path. When
// neither intent matches we default to fitness so the user always gets
// some actionable advice.
func wantsFitness(req Request) bool {
	if fitnessIntent.MatchString(req.Text) {
		return true
	}
	return !wantsNutrition(req)
}

// Handle runs the specialists a request calls for. Nutrition runs first
// when both are needed because its result feeds the fitness task; a
// nutrition failure degrades to "no nutrition signal" and the fitness
// path still answers.
func (c *Coordinator) Handle(ctx context.Context, req Request) Response {
	var resp Response

	var nutritionInfo string
	task := req.Text

	if wantsNutrition(req) {
		nctx, cancel := context.WithTimeout(ctx, specialistTimeout)
		analysis, err := c.nutrition.AnalyzeMeal(nctx, req.Image, req.ImageMime, req.Text)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("Nutrition specialist failed, continuing without nutrition context")
			resp.Degraded = true
		} else {
			resp.Nutrition = &analysis

			if m := c.nutrition.Memo(analysis); m != nil {
				task = m.RenderTask(task)
				log.Info().Str("dish", m.DishName).Msg("Fitness task enhanced with health memo")
			}
			if raw, err := json.Marshal(analysis); err == nil {
				nutritionInfo = string(raw)
			}
		}
	}

	if wantsFitness(req) || resp.Nutrition == nil {
		fctx, cancel := context.WithTimeout(ctx, specialistTimeout)
		advice := c.fitness.Advise(fctx, task, req.Profile, nutritionInfo)
		cancel()
		resp.Fitness = &advice
	}

	return resp
}

// BuildFitnessTask exposes memo injection for callers that already hold a
// nutrition result payload (e.g. a stored meal log) and only want the
// enhanced task text.
func BuildFitnessTask(baseTask string, nutritionResult []byte) string {
	m := memo.FromNutritionResult(nutritionResult)
	return m.RenderTask(baseTask)
}
