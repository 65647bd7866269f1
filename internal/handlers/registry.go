package handlers

// AppHandlers holds all application handlers.
type AppHandlers struct {
	RegistrationHandler *RegistrationHandler
	CheckoutHandler     *CheckoutHandler
	WebhookHandler      *WebhookHandler
}
