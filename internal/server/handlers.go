package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"healthbutler/internal/coordinator"
	"healthbutler/internal/database"
	"healthbutler/internal/fitness"
	"healthbutler/internal/nutrition"
	"healthbutler/internal/safety"
	"healthbutler/internal/utility"
)

/* ====================================================================
                        Assistant Handlers
==================================================================== */

type assistantQueryRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
	ImageMime   string `json:"image_mime"`
}

// assistantQueryHandler is the main conversational entry point. The
// coordinator decides which specialists run; results are persisted best
// effort and pushed to the user's websocket.
func (s *Server) assistantQueryHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req assistantQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Text == "" && req.ImageBase64 == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Provide text, an image, or both"})
	}

	image, err := decodeImage(req.ImageBase64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid image encoding"})
	}

	ctx := c.Request().Context()
	profile := s.loadProfile(ctx, userID)

	resp := s.coord.Handle(ctx, coordinator.Request{
		Text:      req.Text,
		Image:     image,
		ImageMime: req.ImageMime,
		Profile:   profile,
	})

	if resp.Nutrition != nil {
		s.recordMealLog(ctx, userID, *resp.Nutrition)
	}
	if resp.Fitness != nil {
		s.recordWorkoutPlan(ctx, userID, *resp.Fitness)
	}
	utility.TriggerRefresh(userID)

	return c.JSON(http.StatusOK, resp)
}

// analyzeMealHandler runs only the nutrition specialist and logs the meal.
func (s *Server) analyzeMealHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req assistantQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.ImageBase64 == "" && req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Provide a meal photo or description"})
	}

	image, err := decodeImage(req.ImageBase64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid image encoding"})
	}

	ctx := c.Request().Context()
	analysis, err := s.nutrition.AnalyzeMeal(ctx, image, req.ImageMime, req.Text)
	if err != nil {
		log.Error().Err(err).Msg("Meal analysis failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Meal analysis unavailable, try again later"})
	}

	s.recordMealLog(ctx, userID, analysis)
	utility.TriggerRefresh(userID)

	return c.JSON(http.StatusOK, analysis)
}

type fitnessRequest struct {
	Task string `json:"task"`
}

// fitnessRecommendationsHandler runs only the fitness specialist. Recent
// meal logs are folded in so a workout asked for right after a logged
// fried meal still gets the intensity adjustment.
func (s *Server) fitnessRecommendationsHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req fitnessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Task == "" {
		req.Task = "Suggest a workout for today."
	}

	ctx := c.Request().Context()
	profile := s.loadProfile(ctx, userID)

	task := req.Task
	nutritionInfo := ""
	if raw := s.latestMealPayload(ctx, userID); raw != nil {
		task = coordinator.BuildFitnessTask(task, raw)
		nutritionInfo = string(raw)
	}

	advice := s.fitness.Advise(ctx, task, profile, nutritionInfo)

	s.recordWorkoutPlan(ctx, userID, advice)
	utility.TriggerRefresh(userID)

	return c.JSON(http.StatusOK, advice)
}

/* ====================================================================
                      Exercise Catalog Handlers
==================================================================== */

// searchExercisesHandler searches the catalog snapshot, with the caller's
// stored contraindications applied so unsafe items never surface.
func (s *Server) searchExercisesHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	query := c.QueryParam("q")
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	ctx := c.Request().Context()
	profile := s.loadProfile(ctx, userID)

	result := safety.Filter(safety.Query{
		Text:             query,
		StaticConditions: profile.Conditions,
		DynamicRisks:     safety.ExtractRisks(query),
		Limit:            limit,
	}, s.store.Snapshot())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"exercises":       result.SafeExercises,
		"safety_warnings": result.SafetyWarnings,
		"adjustments":     result.Adjustments,
	})
}

// refreshCatalogHandler forces a re-hydration from the remote catalog and
// notifies connected clients.
func (s *Server) refreshCatalogHandler(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	exercises, err := s.client.Hydrate(ctx, true)
	if err != nil {
		log.Error().Err(err).Msg("Forced catalog refresh failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Catalog refresh failed, previous snapshot kept"})
	}
	s.store.Replace(exercises)
	utility.BroadcastRefresh()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":         "refreshed",
		"exercise_count": s.store.Len(),
	})
}

/* ====================================================================
                      User Health Data Handlers
==================================================================== */

type healthProfileRequest struct {
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
	WeightKg      float64  `json:"weight_kg"`
	HeightCm      float64  `json:"height_cm"`
	Goal          string   `json:"goal"`
	ActivityLevel string   `json:"activity_level"`
	CalorieTarget int      `json:"daily_calorie_target"`
	Conditions    []string `json:"conditions"`
}

func (s *Server) getHealthProfileHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	row, err := s.db.Queries().GetUserHealthProfile(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No health profile found"})
	}

	return c.JSON(http.StatusOK, profileFromRow(row))
}

func (s *Server) upsertHealthProfileHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req healthProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Age < 0 || req.Age > 130 || req.WeightKg < 0 || req.HeightCm < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Profile values out of range"})
	}

	row := database.UserHealthProfile{
		UserID:        userID,
		Age:           int32(req.Age),
		Gender:        pgtype.Text{String: req.Gender, Valid: req.Gender != ""},
		WeightKg:      utility.FloatToNumeric(req.WeightKg),
		HeightCm:      utility.FloatToNumeric(req.HeightCm),
		Goal:          pgtype.Text{String: req.Goal, Valid: req.Goal != ""},
		ActivityLevel: pgtype.Text{String: req.ActivityLevel, Valid: req.ActivityLevel != ""},
		CalorieTarget: pgtype.Int4{Int32: int32(req.CalorieTarget), Valid: req.CalorieTarget > 0},
		Conditions:    req.Conditions,
	}

	if err := s.db.Queries().UpsertUserHealthProfile(c.Request().Context(), row); err != nil {
		log.Error().Err(err).Msg("Failed to upsert health profile")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save profile"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) listMealLogsHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil || days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	logs, err := s.db.Queries().ListMealLogs(c.Request().Context(), userID, since)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list meal logs")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load meal logs"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"meals": mealLogsToJSON(logs)})
}

func (s *Server) listWorkoutPlansHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 50 {
		limit = 10
	}

	plans, err := s.db.Queries().ListWorkoutPlans(c.Request().Context(), userID, int32(limit))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list workout plans")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load plans"})
	}

	out := make([]map[string]interface{}, 0, len(plans))
	for _, p := range plans {
		planID, _ := utility.PgtypeUUIDToString(p.PlanID)
		out = append(out, map[string]interface{}{
			"plan_id":    planID,
			"advice":     json.RawMessage(p.Advice),
			"created_at": p.CreatedAt.Time,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"plans": out})
}

/* ====================================================================
                         Websocket Handler
==================================================================== */

// assistantSocketHandler upgrades the connection and parks it in the hub
// until the client disconnects. The server only pushes REFRESH signals;
// inbound frames are drained and discarded.
func (s *Server) assistantSocketHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	conn, err := utility.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("Websocket upgrade failed")
		return err
	}

	utility.RegisterClient(userID, conn)
	defer utility.UnregisterClient(userID)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	return nil
}

/* ====================================================================
                             Helpers
==================================================================== */

func decodeImage(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// loadProfile resolves the stored profile, falling back to the default so
// users without one still get advice.
func (s *Server) loadProfile(ctx context.Context, userID string) fitness.Profile {
	row, err := s.db.Queries().GetUserHealthProfile(ctx, userID)
	if err != nil {
		log.Debug().Str("user_id", userID).Msg("No stored health profile, using defaults")
		return fitness.DefaultProfile
	}
	return profileFromRow(row)
}

func profileFromRow(row database.UserHealthProfile) fitness.Profile {
	p := fitness.Profile{
		Age:           int(row.Age),
		Gender:        row.Gender.String,
		WeightKg:      utility.NumericToFloat(row.WeightKg),
		HeightCm:      utility.NumericToFloat(row.HeightCm),
		Goal:          row.Goal.String,
		ActivityLevel: row.ActivityLevel.String,
		Conditions:    row.Conditions,
	}
	if row.CalorieTarget.Valid {
		p.CalorieTarget = int(row.CalorieTarget.Int32)
	}
	return p
}

// recordMealLog persists an analysis. Failures are logged and swallowed;
// the user still gets their answer.
func (s *Server) recordMealLog(ctx context.Context, userID string, analysis nutrition.MealAnalysis) {
	m := database.MealLog{
		MealID:         utility.NewUUID(),
		UserID:         userID,
		DishName:       analysis.DishName,
		Calories:       utility.FloatToNumeric(analysis.TotalMacros.Calories),
		ProteinGrams:   utility.FloatToNumeric(analysis.TotalMacros.Protein),
		CarbsGrams:     utility.FloatToNumeric(analysis.TotalMacros.Carbs),
		FatGrams:       utility.FloatToNumeric(analysis.TotalMacros.Fat),
		VisualWarnings: analysis.VisualWarnings,
		HealthScore:    pgtype.Int4{Int32: int32(analysis.HealthScore), Valid: true},
	}
	if err := s.db.Queries().InsertMealLog(ctx, m); err != nil {
		log.Error().Err(err).Msg("Failed to record meal log")
	}
}

// recordWorkoutPlan persists generated advice as a JSON blob, best effort.
func (s *Server) recordWorkoutPlan(ctx context.Context, userID string, advice fitness.Advice) {
	raw, err := json.Marshal(advice)
	if err != nil {
		return
	}
	p := database.WorkoutPlan{
		PlanID: utility.NewUUID(),
		UserID: userID,
		Advice: raw,
	}
	if err := s.db.Queries().SaveWorkoutPlan(ctx, p); err != nil {
		log.Error().Err(err).Msg("Failed to save workout plan")
	}
}

// latestMealPayload rebuilds a nutrition payload from the newest meal log
// in the last day, or nil when there is none.
func (s *Server) latestMealPayload(ctx context.Context, userID string) []byte {
	since := time.Now().UTC().AddDate(0, 0, -1)
	logs, err := s.db.Queries().ListMealLogs(ctx, userID, since)
	if err != nil || len(logs) == 0 {
		return nil
	}

	latest := logs[0]
	healthScore := 10
	if latest.HealthScore.Valid {
		healthScore = int(latest.HealthScore.Int32)
	}
	payload := nutrition.MealAnalysis{
		DishName:       latest.DishName,
		VisualWarnings: latest.VisualWarnings,
		HealthScore:    healthScore,
	}
	payload.TotalMacros.Calories = utility.NumericToFloat(latest.Calories)
	payload.TotalMacros.Protein = utility.NumericToFloat(latest.ProteinGrams)
	payload.TotalMacros.Carbs = utility.NumericToFloat(latest.CarbsGrams)
	payload.TotalMacros.Fat = utility.NumericToFloat(latest.FatGrams)

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return raw
}

func mealLogsToJSON(logs []database.MealLog) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(logs))
	for _, m := range logs {
		mealID, _ := utility.PgtypeUUIDToString(m.MealID)
		entry := map[string]interface{}{
			"meal_id":         mealID,
			"dish_name":       m.DishName,
			"calories":        utility.NumericToFloat(m.Calories),
			"protein_grams":   utility.NumericToFloat(m.ProteinGrams),
			"carbs_grams":     utility.NumericToFloat(m.CarbsGrams),
			"fat_grams":       utility.NumericToFloat(m.FatGrams),
			"visual_warnings": m.VisualWarnings,
			"logged_at":       m.LoggedAt.Time,
		}
		if m.HealthScore.Valid {
			entry["health_score"] = m.HealthScore.Int32
		}
		out = append(out, entry)
	}
	return out
}
