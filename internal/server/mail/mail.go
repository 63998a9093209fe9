// Package mail delivers the transactional emails of the users service.
package mail

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

// ActivationTemplate renders the activation code email. It expects the
// "name" and "activationCode" keys in Message.Data.
const ActivationTemplate = "activation-mail"

// Message is a single templated email.
type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Dispatcher sends a message. Implementations honour ctx cancellation.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a template name and data into an HTML body.
type Renderer struct {
	t *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

// Render executes the named template. "./activation-mail" and
// "activation-mail.html" both resolve to the same file.
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimSuffix(name, ".html")

	t := r.t.Lookup(name + ".html")
	if t == nil {
		return "", fmt.Errorf("unknown mail template %q", name)
	}

	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}

	return b.String(), nil
}
