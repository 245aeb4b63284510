package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"dupfinder/internal/ports"
	"dupfinder/internal/scan"
)

// RegisterTools adds the duplicate inspection tools to the MCP server.
// All tools are read-only; nothing registered here moves or copies files.
func RegisterTools(s *server.MCPServer, fp ports.Fingerprinter) {
	s.AddTool(findDuplicatesTool(), findDuplicatesHandler(fp))
	s.AddTool(supportedFormatsTool(), supportedFormatsHandler())
}

// --- find_duplicates ---

func findDuplicatesTool() mcp.Tool {
	return mcp.NewTool("find_duplicates",
		mcp.WithDescription("Scan a folder for visually duplicate photos. Returns duplicate groups with the photo worth keeping marked. Read-only: no files are moved."),
		mcp.WithString("source",
			mcp.Description("Folder to scan recursively"),
			mcp.Required(),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Similarity threshold in hash bits, 0-256. Lower is stricter. Defaults to 20."),
		),
	)
}

func findDuplicatesHandler(fp ports.Fingerprinter) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source := req.GetString("source", "")
		if source == "" {
			return toolError(fmt.Errorf("source is required"))
		}
		threshold := req.GetInt("threshold", scan.DefaultThreshold)

		job := scan.New(fp, scan.Discard, scan.Options{
			Source:    source,
			Threshold: threshold,
		})
		det, err := job.Detect(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(formatDetection(det)), nil
	}
}

func formatDetection(det *scan.Detection) string {
	if det.Discovered == 0 {
		return "No supported image files found."
	}
	if len(det.Groups) == 0 {
		return fmt.Sprintf("Scanned %d images. No duplicates found.", len(det.Records))
	}

	var sb strings.Builder
	duplicates := 0
	for i, g := range det.Groups {
		original := g.Original()
		fmt.Fprintf(&sb, "Group %d:\n", i+1)
		fmt.Fprintf(&sb, "  keep       %s (%d bytes)\n", original.Path, original.Size)
		for _, r := range g.Duplicates() {
			fmt.Fprintf(&sb, "  duplicate  %s (%d bytes)\n", r.Path, r.Size)
			duplicates++
		}
	}
	fmt.Fprintf(&sb, "%d duplicate group(s), %d duplicate file(s).", len(det.Groups), duplicates)
	if det.Errors > 0 {
		fmt.Fprintf(&sb, " %d file(s) could not be read.", det.Errors)
	}
	return sb.String()
}

// --- supported_formats ---

func supportedFormatsTool() mcp.Tool {
	return mcp.NewTool("supported_formats",
		mcp.WithDescription("List the image file extensions the scanner recognizes."),
	)
}

func supportedFormatsHandler() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(strings.Join(scan.SupportedExtensions(), " ")), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
