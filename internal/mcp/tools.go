package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
	"github.com/blackwell-systems/liftwatch/internal/report"
	"github.com/blackwell-systems/liftwatch/internal/suggest"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// --- Tool definitions ---

var (
	sinceArg = mcp.WithString("since", mcp.Description("Only records on or after this date (YYYY-MM-DD or RFC 3339)."))
	untilArg = mcp.WithString("until", mcp.Description("Only records on or before this date (YYYY-MM-DD or RFC 3339)."))
)

var toolGetCategoryMetrics = mcp.NewTool("get_category_metrics",
	mcp.WithDescription("Per-muscle-group training metrics: volume, frequency, estimated 1RM, progression, intensity/efficiency/consistency scores, trend and strength level."),
	mcp.WithString("category", mcp.Description("Restrict to one muscle group (e.g. Pecho). Case-insensitive.")),
	sinceArg,
	untilArg,
)

var toolGetMuscleBalance = mcp.NewTool("get_muscle_balance",
	mcp.WithDescription("Muscle balance against the ideal volume distribution and each group's antagonist, with priority, development stage, recommendations and warnings."),
	mcp.WithString("category", mcp.Description("Restrict to one muscle group. Percentages stay relative to all groups.")),
	sinceArg,
	untilArg,
)

var toolGetStrengthProgress = mcp.NewTool("get_strength_progress",
	mcp.WithDescription("Whole-history strength progress: overall progress and rate, plateaus, predictions, strength phase, training zone, rep-range effectiveness and quality metrics."),
	mcp.WithString("exercise", mcp.Description("Restrict to one exercise, by id or name.")),
	sinceArg,
	untilArg,
)

var toolGetSuggestions = mcp.NewTool("get_suggestions",
	mcp.WithDescription("Ranked training suggestions across all muscle groups, most impactful first."),
	mcp.WithNumber("limit", mcp.Description("Maximum suggestions to return (default 10).")),
	mcp.WithString("category", mcp.Description("Restrict to one muscle group.")),
)

// StrengthResult wraps the strength analysis; Available is false when no
// records matched.
type StrengthResult struct {
	Available bool                               `json:"available"`
	Analysis  *analyzer.StrengthProgressAnalysis `json:"analysis,omitempty"`
	Warnings  []string                           `json:"warnings"`
}

// SuggestionsResult holds ranked suggestions.
type SuggestionsResult struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
	Total       int                  `json:"total"`
}

const defaultSuggestionLimit = 10

// --- Tool handlers ---

func (h *handlers) getCategoryMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, errResult := h.build(ctx, req, nil)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(r.Categories)
}

func (h *handlers) getMuscleBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, errResult := h.build(ctx, req, nil)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(r.Balance)
}

func (h *handlers) getStrengthProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var narrow func(workout.Dataset) workout.Dataset
	if ex := req.GetString("exercise", ""); ex != "" {
		narrow = func(ds workout.Dataset) workout.Dataset { return ds.FilterByExercise(ex) }
	}
	r, errResult := h.build(ctx, req, narrow)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(StrengthResult{
		Available: r.StrengthAvailable,
		Analysis:  r.Strength,
		Warnings:  r.StrengthWarnings,
	})
}

func (h *handlers) getSuggestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultSuggestionLimit)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	r, errResult := h.build(ctx, req, nil)
	if errResult != nil {
		return errResult, nil
	}
	res := SuggestionsResult{Suggestions: r.Suggestions, Total: len(r.Suggestions)}
	if len(res.Suggestions) > limit {
		res.Suggestions = res.Suggestions[:limit]
	}
	return jsonResult(res)
}

// build loads the dataset and runs the report with the call's arguments.
// A non-nil result is a tool error to return to the client.
func (h *handlers) build(ctx context.Context, req mcp.CallToolRequest, narrow func(workout.Dataset) workout.Dataset) (*report.Report, *mcp.CallToolResult) {
	opts := h.opts
	var err error
	if opts.Since, err = workout.ParseBound(req.GetString("since", ""), false); err != nil {
		return nil, mcp.NewToolResultError("invalid since: " + err.Error())
	}
	if opts.Until, err = workout.ParseBound(req.GetString("until", ""), true); err != nil {
		return nil, mcp.NewToolResultError("invalid until: " + err.Error())
	}
	if !opts.Since.IsZero() && !opts.Until.IsZero() && opts.Until.Before(opts.Since) {
		return nil, mcp.NewToolResultError("until is before since")
	}
	opts.Analysis.Category = req.GetString("category", "")

	ds, err := h.src.Dataset(ctx)
	if err != nil {
		logrus.WithError(err).WithField("tool", req.Params.Name).Error("mcp: loading dataset")
		return nil, mcp.NewToolResultError("loading data failed: " + err.Error())
	}
	if narrow != nil {
		ds = narrow(ds)
	}
	r, err := report.Build(ctx, ds, opts)
	if err != nil {
		return nil, mcp.NewToolResultError("analysis failed: " + err.Error())
	}
	if opts.Analysis.Category != "" && len(r.Categories.Metrics) == 0 {
		return nil, mcp.NewToolResultError(fmt.Sprintf("unknown category %q", opts.Analysis.Category))
	}
	return r, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
