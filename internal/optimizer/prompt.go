package optimizer

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/deliverai/deliverai/internal/campaign"
)

//go:embed prompt.yaml
var defaultPrompt []byte

// Prompt is the instruction set sent with every optimization request.
type Prompt struct {
	tmpl              *template.Template
	Model             string `yaml:"model"`
	SystemInstruction string `yaml:"system_instruction"`
	UserTemplate      string `yaml:"user_template"`
}

var promptFuncs = template.FuncMap{
	"join": strings.Join,
}

// DefaultPrompt returns the built-in prompt.
func DefaultPrompt() *Prompt {
	p, err := ParsePrompt(defaultPrompt)
	if err != nil {
		panic(fmt.Sprintf("optimizer: embedded prompt: %v", err))
	}
	return p
}

// LoadPrompt reads a prompt file. An empty path returns DefaultPrompt.
// Fields missing from the file fall back to the built-in values.
func LoadPrompt(path string) (*Prompt, error) {
	if path == "" {
		return DefaultPrompt(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidPrompt, err)
	}

	p, err := ParsePrompt(data)
	if err != nil {
		return nil, err
	}

	def := DefaultPrompt()
	if p.Model == "" {
		p.Model = def.Model
	}
	if p.SystemInstruction == "" {
		p.SystemInstruction = def.SystemInstruction
	}
	if p.UserTemplate == "" {
		p.UserTemplate = def.UserTemplate
		p.tmpl = def.tmpl
	}
	return p, nil
}

// ParsePrompt decodes a YAML prompt and compiles its user template.
func ParsePrompt(data []byte) (*Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Join(ErrInvalidPrompt, err)
	}

	p.Model = strings.TrimSpace(p.Model)
	if p.UserTemplate == "" {
		return &p, nil
	}

	tmpl, err := template.New("prompt").Funcs(promptFuncs).Option("missingkey=error").Parse(p.UserTemplate)
	if err != nil {
		return nil, errors.Join(ErrInvalidPrompt, err)
	}
	p.tmpl = tmpl
	return &p, nil
}

// Render builds the user message for draft.
func (p *Prompt) Render(draft campaign.EmailDraft) (string, error) {
	if p.tmpl == nil {
		return "", errors.Join(ErrInvalidPrompt, errors.New("user template is empty"))
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, draft); err != nil {
		return "", errors.Join(ErrInvalidPrompt, err)
	}
	return buf.String(), nil
}
