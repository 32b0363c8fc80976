package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"github.com/Rarebox/kalorify-ai/apimodels"
)

type LocalizeAnalysisParams struct {
	Response string `json:"response" description:"Raw JSON returned by the analysis service"`
}

type AnalyzeImageParams struct {
	ImageBase64 string `json:"image_base64" description:"Base64 encoded meal photo"`
	Filename    string `json:"filename,omitempty" description:"Original file name"`
	ContentType string `json:"content_type,omitempty" description:"MIME type of the photo"`
}

// handleMCP answers tool calls from MCP clients over plain HTTP.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %v", err))
		return
	}

	var result *protocol.CallToolResult
	var err error

	switch request.Name {
	case "localize_analysis":
		result, err = s.toolLocalizeAnalysis(r, &request)
	case "analyze_image":
		result, err = s.toolAnalyzeImage(r, &request)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown tool: %s", request.Name))
		return
	}

	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) toolLocalizeAnalysis(_ *http.Request, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LocalizeAnalysisParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.Response == "" {
		return nil, fmt.Errorf("response is required")
	}

	resp, err := s.analyzer.Localize([]byte(params.Response))
	if err != nil {
		return toolResult(s.analyzer.Failure(err), true)
	}
	return toolResult(resp, false)
}

func (s *Server) toolAnalyzeImage(r *http.Request, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalyzeImageParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(params.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("image_base64 is not valid base64: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image_base64 is required")
	}

	resp, err := s.analyzer.Analyze(r.Context(), apimodels.AnalysisRequest{
		Filename:    params.Filename,
		ContentType: params.ContentType,
		Image:       data,
	})
	if err != nil {
		return toolResult(s.analyzer.Failure(err), true)
	}
	return toolResult(resp, false)
}

func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	return nil
}

func toolResult(data interface{}, isError bool) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
		IsError: isError,
	}, nil
}
