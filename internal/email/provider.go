package email

// Provider is the notification collaborator. Delivery is best-effort: callers
// log failures and never let them fail the primary operation.
type Provider interface {
	// Send delivers a prepared message.
	Send(email *Email) error

	// SendWithTemplate renders a named template into the HTML body and sends.
	SendWithTemplate(templateName string, data TemplateData, email *Email) error

	// Validate checks the provider configuration.
	Validate() error
}

// TemplateRenderer renders named HTML templates.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
