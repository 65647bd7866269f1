package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Template names used by the services.
const (
	TemplateInvitation          = "invitation"
	TemplatePaymentConfirmation = "payment_confirmation"
	TemplateAdminNewPlayer      = "admin_new_player"
	TemplatePasswordReset       = "password_reset"
)

// TemplateManager implements TemplateRenderer.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager returns a manager preloaded with the built-in templates.
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	for name, body := range builtinTemplates {
		// Built-ins are compile-time constants; a parse failure is a bug.
		if err := tm.AddTemplate(name, body); err != nil {
			panic(fmt.Sprintf("builtin email template %q: %v", name, err))
		}
	}

	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

var builtinTemplates = map[string]string{
	TemplateInvitation: `
<h2>Welcome to the club, {{.ParentFirstName}}!</h2>
<p>You started a registration for <strong>{{.PlayerName}}</strong>.
Click the link below to confirm your email and finish setting up the account.</p>
<p><a href="{{.InviteURL}}">Complete your registration</a></p>
<p>This link is single-use and expires on {{.ExpiresAt}}.</p>`,

	TemplatePaymentConfirmation: `
<h2>Payment received</h2>
<p>Thanks, {{.ParentFirstName}}! We received your {{.PaymentType}} payment of
<strong>${{printf "%.2f" .Amount}}</strong> for {{.PlayerName}}.</p>
<p>{{.PlayerName}} is now an active player. See you on the field!</p>`,

	TemplateAdminNewPlayer: `
<h2>New player registered</h2>
<p><strong>{{.PlayerName}}</strong> ({{.PlayerBirthdate}}) was just registered
by {{.ParentName}} ({{.ParentEmail}}).</p>
<p>The player is pending until the first payment clears.</p>`,

	TemplatePasswordReset: `
<h2>Password reset</h2>
<p>Someone requested a password reset for this account. If that was you,
use the link below.</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>This link is single-use and expires in {{.TTLMinutes}} minutes.
If you did not request a reset, you can ignore this message.</p>`,
}
