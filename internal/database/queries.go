package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries bundles the hand-written SQL this service needs: health
// profiles, meal logs and saved workout plans.
type Queries struct {
	pool *pgxpool.Pool
}

// New constructs the query layer over a connection pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// UserHealthProfile mirrors the user_health_profiles table.
type UserHealthProfile struct {
	UserID        string
	Age           int32
	Gender        pgtype.Text
	WeightKg      pgtype.Numeric
	HeightCm      pgtype.Numeric
	Goal          pgtype.Text
	ActivityLevel pgtype.Text
	CalorieTarget pgtype.Int4
	Conditions    []string
	UpdatedAt     pgtype.Timestamptz
}

// MealLog mirrors the meal_logs table: one analyzed meal per row.
type MealLog struct {
	MealID         pgtype.UUID
	UserID         string
	DishName       string
	Calories       pgtype.Numeric
	ProteinGrams   pgtype.Numeric
	CarbsGrams     pgtype.Numeric
	FatGrams       pgtype.Numeric
	VisualWarnings []string
	HealthScore    pgtype.Int4
	LoggedAt       pgtype.Timestamptz
}

// WorkoutPlan mirrors the workout_plans table; the advice payload is
// stored as JSON.
type WorkoutPlan struct {
	PlanID    pgtype.UUID
	UserID    string
	Advice    []byte
	CreatedAt pgtype.Timestamptz
}

const getUserHealthProfile = `
SELECT user_id, age, gender, weight_kg, height_cm, goal, activity_level, calorie_target, conditions, updated_at
FROM user_health_profiles
WHERE user_id = $1
`

// GetUserHealthProfile fetches the stored profile for a user.
func (q *Queries) GetUserHealthProfile(ctx context.Context, userID string) (UserHealthProfile, error) {
	row := q.pool.QueryRow(ctx, getUserHealthProfile, userID)
	var p UserHealthProfile
	err := row.Scan(&p.UserID, &p.Age, &p.Gender, &p.WeightKg, &p.HeightCm, &p.Goal, &p.ActivityLevel, &p.CalorieTarget, &p.Conditions, &p.UpdatedAt)
	return p, err
}

const upsertUserHealthProfile = `
INSERT INTO user_health_profiles (user_id, age, gender, weight_kg, height_cm, goal, activity_level, calorie_target, conditions, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (user_id) DO UPDATE SET
	age = EXCLUDED.age,
	gender = EXCLUDED.gender,
	weight_kg = EXCLUDED.weight_kg,
	height_cm = EXCLUDED.height_cm,
	goal = EXCLUDED.goal,
	activity_level = EXCLUDED.activity_level,
	calorie_target = EXCLUDED.calorie_target,
	conditions = EXCLUDED.conditions,
	updated_at = now()
`

// UpsertUserHealthProfile creates or replaces a profile.
func (q *Queries) UpsertUserHealthProfile(ctx context.Context, p UserHealthProfile) error {
	_, err := q.pool.Exec(ctx, upsertUserHealthProfile,
		p.UserID, p.Age, p.Gender, p.WeightKg, p.HeightCm, p.Goal, p.ActivityLevel, p.CalorieTarget, p.Conditions)
	return err
}

const insertMealLog = `
INSERT INTO meal_logs (meal_id, user_id, dish_name, calories, protein_grams, carbs_grams, fat_grams, visual_warnings, health_score, logged_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// InsertMealLog records one analyzed meal.
func (q *Queries) InsertMealLog(ctx context.Context, m MealLog) error {
	if !m.LoggedAt.Valid {
		m.LoggedAt = pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
	}
	_, err := q.pool.Exec(ctx, insertMealLog,
		m.MealID, m.UserID, m.DishName, m.Calories, m.ProteinGrams, m.CarbsGrams, m.FatGrams, m.VisualWarnings, m.HealthScore, m.LoggedAt)
	return err
}

const listMealLogs = `
SELECT meal_id, user_id, dish_name, calories, protein_grams, carbs_grams, fat_grams, visual_warnings, health_score, logged_at
FROM meal_logs
WHERE user_id = $1 AND logged_at >= $2
ORDER BY logged_at DESC
`

// ListMealLogs returns a user's meals since the given time, newest first.
func (q *Queries) ListMealLogs(ctx context.Context, userID string, since time.Time) ([]MealLog, error) {
	rows, err := q.pool.Query(ctx, listMealLogs, userID, pgtype.Timestamptz{Time: since, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MealLog
	for rows.Next() {
		var m MealLog
		if err := rows.Scan(&m.MealID, &m.UserID, &m.DishName, &m.Calories, &m.ProteinGrams, &m.CarbsGrams, &m.FatGrams, &m.VisualWarnings, &m.HealthScore, &m.LoggedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const saveWorkoutPlan = `
INSERT INTO workout_plans (plan_id, user_id, advice, created_at)
VALUES ($1, $2, $3, now())
`

// SaveWorkoutPlan stores a generated advice payload for later retrieval.
func (q *Queries) SaveWorkoutPlan(ctx context.Context, p WorkoutPlan) error {
	_, err := q.pool.Exec(ctx, saveWorkoutPlan, p.PlanID, p.UserID, p.Advice)
	return err
}

const listWorkoutPlans = `
SELECT plan_id, user_id, advice, created_at
FROM workout_plans
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`

// ListWorkoutPlans returns a user's recent saved plans.
func (q *Queries) ListWorkoutPlans(ctx context.Context, userID string, limit int32) ([]WorkoutPlan, error) {
	rows, err := q.pool.Query(ctx, listWorkoutPlans, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkoutPlan
	for rows.Next() {
		var p WorkoutPlan
		if err := rows.Scan(&p.PlanID, &p.UserID, &p.Advice, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
