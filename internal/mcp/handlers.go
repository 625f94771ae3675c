package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/strlens/strlens/internal/analysis"
	"github.com/strlens/strlens/internal/config"
	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/filter"
	"github.com/strlens/strlens/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// AnalyzeRequest represents the arguments for string_analyze.
type AnalyzeRequest struct {
	Value *string `json:"value"`
}

// StoreRequest represents the arguments for string_store.
type StoreRequest struct {
	Value *string `json:"value"`
}

// FetchRequest represents the arguments for string_fetch.
type FetchRequest struct {
	Identifier string `json:"identifier"`
}

// ListRequest represents the arguments for string_list.
type ListRequest struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	MinWordCount      *int    `json:"min_word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
	Limit             int     `json:"limit,omitempty"`
	Offset            int     `json:"offset,omitempty"`
}

// QueryRequest represents the arguments for string_query.
type QueryRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// DeleteRequest represents the arguments for string_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ExportRequest represents the arguments for string_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for string_import.
type ImportRequest struct {
	Path string `json:"path"`
}

// Handler implementations

// HandleAnalyze handles the string_analyze tool call (pure analysis, no store).
func (h *Handlers) HandleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AnalyzeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Value == nil {
		return errorResult(errors.NewInvalidRequest("missing 'value' argument")), nil
	}

	return successResult(analysis.Analyze(*input.Value))
}

// HandleStore handles the string_store tool call.
func (h *Handlers) HandleStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Value == nil {
		return errorResult(errors.NewInvalidRequest("missing 'value' argument")), nil
	}

	result, err := ops.Store(ctx, h.db, h.cfg, ops.StoreInput{Value: *input.Value})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the string_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(ctx, h.db, ops.FetchInput{Identifier: input.Identifier})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the string_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		Predicates: filter.Predicates{
			IsPalindrome:      input.IsPalindrome,
			MinLength:         input.MinLength,
			MaxLength:         input.MaxLength,
			WordCount:         input.WordCount,
			MinWordCount:      input.MinWordCount,
			ContainsCharacter: input.ContainsCharacter,
		},
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleQuery handles the string_query tool call.
func (h *Handlers) HandleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[QueryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Query(ctx, h.db, ops.QueryInput{
		Query:  input.Query,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the string_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the string_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the string_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.db, h.cfg, ops.ImportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult builds a structured error payload for a tool call.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.StrlensError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	result, jsonErr := mcp.NewToolResultJSON(payload)
	if jsonErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	result.IsError = true
	return result
}

func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
