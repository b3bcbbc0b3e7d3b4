package e2etest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ScenarioUser is the part of a user profile the scenarios need.
type ScenarioUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type scenarioPlan struct {
	ID   string `json:"id"`
	Plan struct {
		Exercises []struct {
			ID int `json:"id"`
		} `json:"exercises"`
		Summary struct {
			CyclePhase string `json:"cycle_phase"`
		} `json:"summary"`
	} `json:"plan"`
}

// CreateUser registers a user named username with a general fitness goal.
func CreateUser(ctx context.Context, client *Client, username string, level int) (ScenarioUser, error) {
	var user ScenarioUser
	err := client.PostJSON(ctx, "/api/users", map[string]any{
		"username":            username,
		"email":               username + "@example.com",
		"fitness_goal":        "General Fitness",
		"fitness_level":       level,
		"available_equipment": []string{"dumbbell", "mat", "jump rope"},
	}, http.StatusCreated, &user)
	if err != nil {
		return ScenarioUser{}, fmt.Errorf("create user %s: %w", username, err)
	}
	return user, nil
}

// LogCycle records a period that started daysAgo days before today.
func LogCycle(ctx context.Context, client *Client, userID int, daysAgo int) error {
	start := time.Now().AddDate(0, 0, -daysAgo).Format(time.DateOnly)
	if err := client.PostJSON(ctx, fmt.Sprintf("/api/users/%d/cycle-logs", userID),
		map[string]any{"start_date": start}, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("log cycle: %w", err)
	}
	return nil
}

// WorkoutScenario generates a plan for the user, completes the first exercise and rates the session.
func WorkoutScenario(ctx context.Context, client *Client, userID int, rating int) error {
	var phase struct {
		CyclePhase string `json:"cycle_phase"`
	}
	if err := client.GetJSON(ctx, fmt.Sprintf("/api/users/%d/cycle-phase", userID), &phase); err != nil {
		return fmt.Errorf("get cycle phase: %w", err)
	}

	var plan scenarioPlan
	if err := client.PostJSON(ctx, "/api/generate-workout", map[string]any{"user_id": userID},
		http.StatusCreated, &plan); err != nil {
		return fmt.Errorf("generate workout: %w", err)
	}
	if plan.Plan.Summary.CyclePhase != phase.CyclePhase {
		return fmt.Errorf("plan tuned for %q, want %q", plan.Plan.Summary.CyclePhase, phase.CyclePhase)
	}
	if len(plan.Plan.Exercises) == 0 {
		return errors.New("generated plan has no exercises")
	}

	if err := client.PostJSON(ctx, "/api/workout-feedback", map[string]any{
		"workout_id":          plan.ID,
		"completed_exercises": []int{plan.Plan.Exercises[0].ID},
		"difficulty_rating":   rating,
		"energy_level":        rating * 2, //nolint:mnd // ratings are 1-5, energy 1-10
	}, http.StatusOK, nil); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}

	if err := client.GetJSON(ctx, "/api/workouts/"+plan.ID, nil); err != nil {
		return fmt.Errorf("get workout: %w", err)
	}
	return nil
}
