package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/donegate/donegate/internal/adapters/outbound/reportstore"
	"github.com/donegate/donegate/internal/application"
)

// registerResources registers all Donegate MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	// 1. donegate://report/latest - most recent validation report
	s.AddResource(
		mcplib.NewResource(
			"donegate://report/latest",
			"Latest Report",
			mcplib.WithResourceDescription("Most recent validation report for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleLatestReportResource(projectPath),
	)

	// 2. donegate://analysis - bottlenecks, recommendations, predictions
	s.AddResource(
		mcplib.NewResource(
			"donegate://analysis",
			"Analysis",
			mcplib.WithResourceDescription("Bottlenecks, ranked recommendations, and model predictions over accumulated history"),
			mcplib.WithMIMEType("application/json"),
		),
		handleAnalysisResource(projectPath),
	)
}

func handleLatestReportResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := reportstore.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}

		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].Report == nil {
				continue
			}
			data, err := json.MarshalIndent(entries[i].Report, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("marshaling report: %w", err)
			}
			return []mcplib.ResourceContents{
				mcplib.TextResourceContents{
					URI:      "donegate://report/latest",
					MIMEType: "application/json",
					Text:     string(data),
				},
			}, nil
		}
		return nil, fmt.Errorf("no validation reports recorded yet")
	}
}

func handleAnalysisResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, hist, err := seededHistory(projectPath)
		if err != nil {
			return nil, err
		}

		analysis := application.NewAnalyzeService(cfg, hist).Analyze()
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling analysis: %w", err)
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "donegate://analysis",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
