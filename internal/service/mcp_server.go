package service

import (
	"sort"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/config"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
)

type MCPServerService struct {
	name      string
	version   string
	transport string
	mcpPath   string
}

func NewMCPServerService(cfg *config.Config) *MCPServerService {
	return &MCPServerService{
		name:      cfg.ServerName,
		version:   cfg.ServerVersion,
		transport: cfg.Transport,
		mcpPath:   cfg.MCPPath,
	}
}

func (s *MCPServerService) Name() string    { return s.name }
func (s *MCPServerService) Version() string { return s.version }

// GetServerInfo describes the server and the tools it registered.
func (s *MCPServerService) GetServerInfo(tools []models.ToolInfo) *models.ServerInfo {
	sorted := append([]models.ToolInfo(nil), tools...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	endpoints := map[string]string{
		"health":   "/health",
		"mcp_info": "/mcp-info",
	}
	if s.transport == config.TransportHTTP {
		endpoints["mcp"] = s.mcpPath
		endpoints["metrics"] = "/metrics"
	}

	return &models.ServerInfo{
		Name:      s.name,
		Version:   s.version,
		Transport: s.transport,
		Capabilities: []string{
			"vector_stores",
			"vector_store_files",
			"file_batches",
			"files",
			"uploads",
			"api_key_validation",
		},
		Tools:     sorted,
		Endpoints: endpoints,
	}
}
