package email

// Email is one outbound message.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData feeds a named template.
type TemplateData map[string]interface{}

// SMTPConfig configures the SMTP provider.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	// SandboxRedirect reroutes every message to one dev inbox when set.
	// Environment behavior belongs here, never in domain logic.
	SandboxRedirect string
}
