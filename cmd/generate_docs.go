package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxcast/internal/config"
	"github.com/teemow/inboxcast/internal/resources"
	"github.com/teemow/inboxcast/internal/server"
)

// toolCategories orders the reference by pipeline stage: sources first,
// then rewriting, then narration.
var toolCategories = []struct {
	prefix string
	title  string
}{
	{prefix: "rss_", title: "RSS Tools"},
	{prefix: "gmail_", title: "Gmail Tools"},
	{prefix: "content_", title: "Content Tools"},
	{prefix: "audio_", title: "Audio Tools"},
}

const otherCategory = "Other"

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate the MCP tool and resource reference",
		Long: `Build the MCP server with default settings and write a markdown
reference of every registered tool and resource.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(cmd.OutOrStdout(), outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(stdout io.Writer, outputFile string) error {
	// No credentials are needed to build the tool definitions.
	def := config.Default()
	sc, err := server.NewServerContext(context.Background(), server.Options{Config: &def})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	mcpSrv, err := newMCPServer(sc)
	if err != nil {
		return err
	}

	tools := make([]mcp.Tool, 0)
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}
	doc := referenceMarkdown(tools, resources.Definitions())

	if outputFile == "" {
		_, err := io.WriteString(stdout, doc)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

// referenceMarkdown renders tools grouped by category, followed by the
// resources.
func referenceMarkdown(tools []mcp.Tool, res []mcp.Resource) string {
	grouped := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		c := toolCategory(tool.Name)
		grouped[c] = append(grouped[c], tool)
	}

	order := make([]string, 0, len(toolCategories)+1)
	for _, c := range toolCategories {
		order = append(order, c.title)
	}
	order = append(order, otherCategory)

	var sb strings.Builder
	sb.WriteString("# InboxCast MCP Reference\n\n")
	sb.WriteString("Tools and resources served by `inboxcast serve`. Generated by `inboxcast generate-docs`.\n\n")

	sb.WriteString("## Contents\n\n")
	for _, title := range order {
		if len(grouped[title]) > 0 {
			fmt.Fprintf(&sb, "- [%s](#%s)\n", title, anchor(title))
		}
	}
	if len(res) > 0 {
		sb.WriteString("- [Resources](#resources)\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Credentials\n\n")
	sb.WriteString("| Tools | Needs |\n| --- | --- |\n")
	sb.WriteString("| `gmail_*` | a stored Gmail token, or consent through the URL printed to stderr |\n")
	sb.WriteString("| `content_*` | `GEMINI_API_KEY`, or `ANTHROPIC_API_KEY` with `AI_PROVIDER=anthropic` |\n")
	sb.WriteString("| `audio_*` | `MINIMAX_API_KEY` |\n\n")

	for _, title := range order {
		group := grouped[title]
		if len(group) == 0 {
			continue
		}
		slices.SortFunc(group, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })

		fmt.Fprintf(&sb, "## %s\n\n", title)
		for _, tool := range group {
			writeTool(&sb, tool)
		}
	}

	if len(res) > 0 {
		sb.WriteString("## Resources\n\n")
		t := table.NewWriter()
		t.AppendHeader(table.Row{"URI", "Name", "MIME type", "Description"})
		for _, r := range res {
			t.AppendRow(table.Row{"`" + r.URI + "`", r.Name, r.MIMEType, r.Description})
		}
		sb.WriteString(t.RenderMarkdown())
		sb.WriteString("\n")
	}

	return sb.String()
}

func toolCategory(name string) string {
	for _, c := range toolCategories {
		if strings.HasPrefix(name, c.prefix) {
			return c.title
		}
	}
	return otherCategory
}

func anchor(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}

func writeTool(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "### `%s`\n\n", tool.Name)
	if tool.Description != "" {
		sb.WriteString(tool.Description)
		sb.WriteString("\n\n")
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		sb.WriteString("No arguments.\n\n")
		return
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	// Required arguments first, each group by name.
	slices.SortFunc(names, func(a, b string) int {
		ra, rb := slices.Contains(tool.InputSchema.Required, a), slices.Contains(tool.InputSchema.Required, b)
		if ra != rb {
			if ra {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Argument", "Type", "Required", "Description"})
	for _, name := range names {
		prop, _ := props[name].(map[string]any)
		required := "no"
		if slices.Contains(tool.InputSchema.Required, name) {
			required = "yes"
		}
		t.AppendRow(table.Row{"`" + name + "`", propertyType(prop), required, propertyDescription(prop)})
	}
	sb.WriteString(t.RenderMarkdown())
	sb.WriteString("\n\n")
}

func propertyType(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

func propertyDescription(prop map[string]any) string {
	desc, _ := prop["description"].(string)

	var values []string
	switch enum := prop["enum"].(type) {
	case []string:
		values = enum
	case []any:
		for _, v := range enum {
			values = append(values, fmt.Sprint(v))
		}
	}
	if len(values) == 0 {
		return desc
	}

	oneOf := "One of: " + strings.Join(values, ", ") + "."
	if desc == "" {
		return oneOf
	}
	return strings.TrimSuffix(desc, ".") + ". " + oneOf
}
