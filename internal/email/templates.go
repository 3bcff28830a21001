package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Built-in transactional templates. Kept deliberately plain; branding
// lives in the frontend, not here.
var builtinTemplates = map[string]string{
	"verification": `
<html><body>
<h2>Confirm your email address</h2>
<p>Hello{{if .Name}} {{.Name}}{{end}},</p>
<p>Please confirm your email address to activate your account:</p>
<p><a href="{{.Link}}">Confirm email</a></p>
<p>If you did not create an account, you can ignore this message.</p>
</body></html>`,

	"password_reset": `
<html><body>
<h2>Reset your password</h2>
<p>We received a request to reset the password for your account.</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>The link expires in one hour. If you did not request a reset, you can
ignore this message.</p>
</body></html>`,
}

// TemplateManager renders the built-in templates.
type TemplateManager struct {
	templates map[string]*template.Template
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, body := range builtinTemplates {
		t, err := template.New(name).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
		}
		tm.templates[name] = t
	}
	return tm, nil
}

// Render executes the named template with data.
func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	t, ok := tm.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return buf.String(), nil
}
