// Package mcpserver exposes cost comment generation via MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finops-claw-gang/infracost-comment/internal/comment"
	"github.com/finops-claw-gang/infracost-comment/internal/period"
	"github.com/finops-claw-gang/infracost-comment/internal/report"
	"github.com/finops-claw-gang/infracost-comment/internal/storage"
	"github.com/finops-claw-gang/infracost-comment/internal/totals"
)

// RegisterTools registers the comment tools on the given server. Documents
// are read, and comments written, through g.
func RegisterTools(server *mcp.Server, g *comment.Generator) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "resolve_totals",
			Description: "Resolve past, future and delta monthly cost from infracost JSON files (paths or s3:// URLs)",
		},
		resolveTotalsHandler(g),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "render_comment",
			Description: "Render the infracost pull request comment as Markdown, optionally writing it to output",
		},
		renderCommentHandler(g),
	)
}

type documentsInput struct {
	Diff string `json:"diff,omitempty" jsonschema:"location of the infracost diff JSON"`
	Base string `json:"base,omitempty" jsonschema:"location of the base branch breakdown JSON"`
	PR   string `json:"pr,omitempty" jsonschema:"location of the pull request breakdown JSON"`
}

func (in documentsInput) request() comment.Request {
	return comment.Request{
		Diff: storage.ParseLocations(in.Diff),
		Base: storage.ParseLocations(in.Base),
		PR:   storage.ParseLocations(in.PR),
	}
}

type totalsOutput struct {
	Totals   totals.Totals   `json:"totals"`
	Strategy string          `json:"strategy"`
	Periods  period.Table    `json:"periods"`
	Inputs   []comment.Input `json:"inputs"`
}

func resolveTotalsHandler(g *comment.Generator) mcp.ToolHandlerFor[documentsInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input documentsInput) (*mcp.CallToolResult, any, error) {
		req := input.request()
		inputs, err := g.Load(ctx, req)
		if errors.Is(err, comment.ErrNoInput) {
			return errorResult(err.Error()), nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("resolve_totals: %w", err)
		}

		out := comment.Build(inputs, req)
		return textResult(totalsOutput{
			Totals:   out.Totals,
			Strategy: out.Strategy,
			Periods:  period.ProjectTotals(out.Totals),
			Inputs:   out.Inputs,
		})
	}
}

type renderInput struct {
	Diff           string `json:"diff,omitempty" jsonschema:"location of the infracost diff JSON"`
	Base           string `json:"base,omitempty" jsonschema:"location of the base branch breakdown JSON"`
	PR             string `json:"pr,omitempty" jsonschema:"location of the pull request breakdown JSON"`
	Output         string `json:"output,omitempty" jsonschema:"where to write the comment; empty renders without writing"`
	Currency       string `json:"currency,omitempty" jsonschema:"ISO currency code; defaults to the document currency"`
	CurrencyFlag   string `json:"currency_flag,omitempty"`
	Title          string `json:"title,omitempty"`
	Author         string `json:"author,omitempty" jsonschema:"pull request author to mention"`
	MentionHandles string `json:"mention_handles,omitempty"`
	MentionAuthor  *bool  `json:"mention_author,omitempty"`
	MentionList    bool   `json:"mention_list,omitempty"`
	Marker         string `json:"marker,omitempty"`
}

func (in renderInput) request() comment.Request {
	req := documentsInput{Diff: in.Diff, Base: in.Base, PR: in.PR}.request()
	req.Output = storage.ParseLocation(in.Output)
	req.Currency = in.Currency
	req.CurrencyFlag = in.CurrencyFlag
	req.Options = report.DefaultOptions()
	req.Options.Author = in.Author
	req.Options.MentionHandles = in.MentionHandles
	req.Options.MentionList = in.MentionList
	if in.MentionAuthor != nil {
		req.Options.MentionAuthor = *in.MentionAuthor
	}
	if in.Title != "" {
		req.Options.Title = in.Title
	}
	if in.Marker != "" {
		req.Options.Marker = in.Marker
	}
	return req
}

func renderCommentHandler(g *comment.Generator) mcp.ToolHandlerFor[renderInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input renderInput) (*mcp.CallToolResult, any, error) {
		req := input.request()

		var out comment.Outcome
		var err error
		if req.Output.IsZero() {
			var inputs []comment.Input
			inputs, err = g.Load(ctx, req)
			if err == nil {
				out = comment.Build(inputs, req)
				out.Output = storage.Location{}
			}
		} else {
			out, err = g.Run(ctx, req)
		}
		if errors.Is(err, comment.ErrNoInput) {
			return errorResult(err.Error()), nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("render_comment: %w", err)
		}

		return textResult(out)
	}
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
