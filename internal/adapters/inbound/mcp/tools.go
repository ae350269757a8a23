package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	configAdapter "github.com/donegate/donegate/internal/adapters/outbound/config"
	"github.com/donegate/donegate/internal/adapters/outbound/executors"
	"github.com/donegate/donegate/internal/adapters/outbound/gitinfo"
	"github.com/donegate/donegate/internal/adapters/outbound/reportstore"
	"github.com/donegate/donegate/internal/adapters/outbound/runtimemetrics"
	"github.com/donegate/donegate/internal/application"
	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/alerting"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/monitor"
	"github.com/donegate/donegate/internal/domain/predict"
)

// registerTools registers all Donegate MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. donegate_validate
	s.AddTool(
		mcplib.NewTool("donegate_validate",
			mcplib.WithDescription("Run the quality gate battery for a validation category and return the full report as JSON"),
			mcplib.WithString("category",
				mcplib.Required(),
				mcplib.Description("Validation category: task, feature, project, or commit"),
			),
			mcplib.WithString("task_id",
				mcplib.Description("Optional identifier of the task or feature being validated"),
			),
		),
		handleValidate(projectPath),
	)

	// 2. donegate_last_report
	s.AddTool(
		mcplib.NewTool("donegate_last_report",
			mcplib.WithDescription("Returns the most recent validation report for the project"),
		),
		handleLastReport(projectPath),
	)

	// 3. donegate_history
	s.AddTool(
		mcplib.NewTool("donegate_history",
			mcplib.WithDescription("Returns the persisted validation history, oldest first"),
			mcplib.WithNumber("limit",
				mcplib.Description("Return only the newest N entries (default: all)"),
			),
		),
		handleHistory(projectPath),
	)

	// 4. donegate_recommendations
	s.AddTool(
		mcplib.NewTool("donegate_recommendations",
			mcplib.WithDescription("Analyze accumulated history and return detected bottlenecks with ranked optimization recommendations"),
		),
		handleRecommendations(projectPath),
	)

	// 5. donegate_alerts
	s.AddTool(
		mcplib.NewTool("donegate_alerts",
			mcplib.WithDescription("Run one monitor and predictive evaluation cycle over accumulated history and return the alerts that fire"),
		),
		handleAlerts(projectPath),
	)
}

// seededHistory loads the project config and the persisted history snapshot.
func seededHistory(projectPath string) (domain.Config, *history.Store, error) {
	cfg, err := configAdapter.New().Load(projectPath)
	if err != nil {
		return domain.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}
	hist := history.New(cfg.History)
	if err := reportstore.New().Seed(projectPath, hist); err != nil {
		return domain.Config{}, nil, fmt.Errorf("loading history: %w", err)
	}
	return cfg, hist, nil
}

func handleValidate(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		categoryStr, err := request.RequireString("category")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		category, err := domain.ParseCategory(categoryStr)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		taskID, _ := request.GetArguments()["task_id"].(string)

		cfg, hist, err := seededHistory(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		git := gitinfo.New()
		svc := application.NewValidateService(
			cfg,
			executors.DefaultRegistry(git),
			git,
			executors.NewFileContextFetcher(),
			runtimemetrics.New(),
			hist,
		)

		report := svc.Validate(ctx, application.ValidateRequest{
			Category:    category,
			SessionID:   uuid.NewString(),
			TaskID:      taskID,
			ProjectRoot: projectPath,
		})

		if err := reportstore.New().AppendReport(projectPath, report, cfg.History.MaxEntries); err != nil {
			return errorResult(fmt.Sprintf("persisting report failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleLastReport(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		entries, err := reportstore.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading history failed: %v", err)), nil
		}
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].Report != nil {
				return jsonResult(entries[i].Report)
			}
		}
		return errorResult("no validation reports recorded yet"), nil
	}
}

func handleHistory(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		entries, err := reportstore.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading history failed: %v", err)), nil
		}

		if limit, ok := request.GetArguments()["limit"].(float64); ok && int(limit) > 0 && int(limit) < len(entries) {
			entries = entries[len(entries)-int(limit):]
		}
		return jsonResult(entries)
	}
}

func handleRecommendations(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, hist, err := seededHistory(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(application.NewAnalyzeService(cfg, hist).Analyze())
	}
}

func handleAlerts(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, hist, err := seededHistory(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		feed := alerting.NewFeed()
		alerts := monitor.New(cfg.Monitor, runtimemetrics.New(), hist, feed).Tick()
		alerts = append(alerts, predict.NewEngine(cfg.Predict, hist, feed).Evaluate()...)

		if alerts == nil {
			alerts = []alerting.Alert{}
		}
		return jsonResult(alerts)
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
