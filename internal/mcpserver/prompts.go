package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptFrontmatter is parsed from YAML frontmatter in prompt files.
type promptFrontmatter struct {
	Description string           `yaml:"description"`
	Arguments   []promptArgument `yaml:"arguments"`
}

type promptArgument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default"`
}

// promptTemplate is a parsed prompt file.
type promptTemplate struct {
	name string
	promptFrontmatter
	body string
}

// loadPrompts reads every embedded prompt, sorted by name.
func loadPrompts() []promptTemplate {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil
	}

	var prompts []promptTemplate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := promptFiles.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			continue
		}
		fm, body := parseFrontmatter(content)
		prompts = append(prompts, promptTemplate{
			name:              strings.TrimSuffix(entry.Name(), ".md"),
			promptFrontmatter: fm,
			body:              body,
		})
	}
	sort.Slice(prompts, func(i, j int) bool { return prompts[i].name < prompts[j].name })
	return prompts
}

// registerPrompts registers all embedded prompts.
func (s *Server) registerPrompts() {
	for _, p := range loadPrompts() {
		prompt := &mcp.Prompt{
			Name:        p.name,
			Description: p.Description,
		}
		for _, a := range p.Arguments {
			prompt.Arguments = append(prompt.Arguments, &mcp.PromptArgument{
				Name:        a.Name,
				Description: a.Description,
				Required:    a.Required,
			})
		}
		s.server.AddPrompt(prompt, makePromptHandler(p))
	}
}

// parseFrontmatter extracts YAML frontmatter and returns it with the body.
func parseFrontmatter(content []byte) (promptFrontmatter, string) {
	var fm promptFrontmatter
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return fm, string(content)
	}

	rest := content[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 {
		return fm, string(content)
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return promptFrontmatter{}, string(content)
	}

	return fm, strings.TrimPrefix(string(rest[end+5:]), "\n")
}

// render substitutes {{name}} placeholders with argument values, falling
// back to each argument's default.
func (p promptTemplate) render(args map[string]string) string {
	pairs := make([]string, 0, 2*len(p.Arguments))
	for _, a := range p.Arguments {
		v, ok := args[a.Name]
		if !ok || v == "" {
			v = a.Default
		}
		pairs = append(pairs, "{{"+a.Name+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(p.body)
}

func makePromptHandler(p promptTemplate) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		return &mcp.GetPromptResult{
			Description: p.Description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: p.render(args)},
				},
			},
		}, nil
	}
}
