package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"clubreg_backend/internal/email"
	"clubreg_backend/internal/gateway"
	"clubreg_backend/internal/geo"
	"clubreg_backend/internal/models"
	"clubreg_backend/internal/repositories"

	"github.com/google/uuid"
)

// In-memory repository fakes. Each guards its state with a mutex and keeps
// the conditional-update semantics of the real implementations, so the
// concurrency tests exercise the same single-winner guarantees.

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*models.Token{}}
}

func (r *fakeTokenRepo) Create(token *models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	cp := *token
	r.tokens[token.Value] = &cp
	return nil
}

func (r *fakeTokenRepo) FindByValue(value string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[value]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	cp := *token
	return &cp, nil
}

func (r *fakeTokenRepo) Consume(value string, purpose models.TokenPurpose, now time.Time) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[value]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	if token.Purpose != purpose || token.UsedAt != nil || !token.ExpiresAt.After(now) {
		return nil, repositories.ErrTokenUsedOrExpired
	}
	used := now
	token.UsedAt = &used
	cp := *token
	return &cp, nil
}

func (r *fakeTokenRepo) RevokeBySubject(purpose models.TokenPurpose, subjectID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.Purpose == purpose && token.SubjectID == subjectID && token.UsedAt == nil {
			used := now
			token.UsedAt = &used
		}
	}
	return nil
}

func (r *fakeTokenRepo) unusedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, token := range r.tokens {
		if token.UsedAt == nil {
			n++
		}
	}
	return n
}

type fakeRegistrationRepo struct {
	mu   sync.Mutex
	regs map[string]*models.PendingRegistration
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{regs: map[string]*models.PendingRegistration{}}
}

func (r *fakeRegistrationRepo) Create(reg *models.PendingRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	cp := *reg
	r.regs[reg.ID] = &cp
	return nil
}

func (r *fakeRegistrationRepo) Update(reg *models.PendingRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.regs[reg.ID]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	cp := *reg
	r.regs[reg.ID] = &cp
	return nil
}

func (r *fakeRegistrationRepo) FindByID(id string) (*models.PendingRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r *fakeRegistrationRepo) FindActiveByEmail(emailAddr string) (*models.PendingRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.Email == emailAddr && reg.MergedAt == nil {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) MarkMerged(id, parentID, playerID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok || reg.MergedAt != nil {
		return false, nil
	}
	merged := now
	reg.MergedAt = &merged
	reg.ParentID = &parentID
	reg.PlayerID = &playerID
	return true, nil
}

func (r *fakeRegistrationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs)
}

type fakeParentRepo struct {
	mu      sync.Mutex
	parents map[string]*models.Parent
}

func newFakeParentRepo() *fakeParentRepo {
	return &fakeParentRepo{parents: map[string]*models.Parent{}}
}

func (r *fakeParentRepo) Create(parent *models.Parent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if parent.ID == "" {
		parent.ID = uuid.NewString()
	}
	cp := *parent
	r.parents[parent.ID] = &cp
	return nil
}

func (r *fakeParentRepo) Update(parent *models.Parent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parents[parent.ID]; !ok {
		return repositories.ErrParentNotFound
	}
	cp := *parent
	r.parents[parent.ID] = &cp
	return nil
}

func (r *fakeParentRepo) FindByID(id string) (*models.Parent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent, ok := r.parents[id]
	if !ok {
		return nil, repositories.ErrParentNotFound
	}
	cp := *parent
	return &cp, nil
}

func (r *fakeParentRepo) FindByEmail(emailAddr string) (*models.Parent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, parent := range r.parents {
		if parent.Email == emailAddr {
			cp := *parent
			return &cp, nil
		}
	}
	return nil, repositories.ErrParentNotFound
}

func (r *fakeParentRepo) UpdatePasswordHash(id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent, ok := r.parents[id]
	if !ok {
		return repositories.ErrParentNotFound
	}
	parent.PasswordHash = hash
	return nil
}

func (r *fakeParentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.parents)
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[string]*models.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: map[string]*models.Player{}}
}

func (r *fakePlayerRepo) Create(player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	cp := *player
	r.players[player.ID] = &cp
	return nil
}

func (r *fakePlayerRepo) FindByID(id string) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[id]
	if !ok || player.IsDeleted {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *player
	return &cp, nil
}

func (r *fakePlayerRepo) FindByParentNameDOB(parentID, firstName, lastName string, dob time.Time) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, player := range r.players {
		if player.ParentID == parentID && player.FirstName == firstName &&
			player.LastName == lastName && player.DateOfBirth.Equal(dob) && !player.IsDeleted {
			cp := *player
			return &cp, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) UpdateStatus(id string, status models.PlayerStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Status = status
	return nil
}

func (r *fakePlayerRepo) SetGatewayCustomerID(id, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[id]
	if !ok {
		return nil
	}
	if player.GatewayCustomerID == "" {
		player.GatewayCustomerID = customerID
	}
	return nil
}

func (r *fakePlayerRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{}
}

func (r *fakePaymentRepo) Create(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *fakePaymentRepo) FindByGatewaySessionID(sessionID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.GatewaySessionID == sessionID {
			cp := *payment
			return &cp, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) FindLatestByPlayerID(playerID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.payments) - 1; i >= 0; i-- {
		if r.payments[i].PlayerID == playerID {
			cp := *r.payments[i]
			return &cp, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) MarkPaid(sessionID string, paidAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.GatewaySessionID == sessionID && payment.Status == models.PaymentStatusPending {
			payment.Status = models.PaymentStatusPaid
			at := paidAt
			payment.PaidAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) MarkFailed(sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.GatewaySessionID == sessionID && payment.Status == models.PaymentStatusPending {
			payment.Status = models.PaymentStatusFailed
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) countByStatus(status models.PaymentStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, payment := range r.payments {
		if payment.Status == status {
			n++
		}
	}
	return n
}

// fakeGateway scripts the payment provider. Session statuses are set per
// session id; creation failures are toggled for error-path tests.
type fakeGateway struct {
	mu              sync.Mutex
	sessionStatus   map[string]gateway.SessionStatus
	sessionCounter  int
	customerCounter int
	statusCalls     int
	createErr       error
	statusErr       error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessionStatus: map[string]gateway.SessionStatus{}}
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, emailAddr, name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.customerCounter++
	return "cus_fake_" + name, nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params gateway.CreateSessionParams) (*gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.sessionCounter++
	id := "cs_fake_" + uuid.NewString()
	g.sessionStatus[id] = gateway.SessionStatusUnpaid
	return &gateway.Session{ID: id, URL: "https://pay.example.com/" + id}, nil
}

func (g *fakeGateway) GetSessionStatus(ctx context.Context, sessionID string) (gateway.SessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls++
	if g.statusErr != nil {
		return "", g.statusErr
	}
	status, ok := g.sessionStatus[sessionID]
	if !ok {
		return "", errors.New("unknown session")
	}
	return status, nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, signature string) (*gateway.WebhookEvent, error) {
	return &gateway.WebhookEvent{SessionID: string(payload), Relevant: true}, nil
}

func (g *fakeGateway) setStatus(sessionID string, status gateway.SessionStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessionStatus[sessionID] = status
}

func (g *fakeGateway) sessions() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessionCounter
}

// fakeEmailProvider records sent messages; failAll makes every send error to
// prove delivery failures never fail the primary operation.
type fakeEmailProvider struct {
	mu      sync.Mutex
	sent    []sentEmail
	failAll bool
}

type sentEmail struct {
	template string
	to       []string
	subject  string
}

func (p *fakeEmailProvider) Send(msg *email.Email) error {
	return p.record("", msg)
}

func (p *fakeEmailProvider) SendWithTemplate(templateName string, data email.TemplateData, msg *email.Email) error {
	return p.record(templateName, msg)
}

func (p *fakeEmailProvider) Validate() error { return nil }

func (p *fakeEmailProvider) record(templateName string, msg *email.Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAll {
		return errors.New("smtp unreachable")
	}
	p.sent = append(p.sent, sentEmail{template: templateName, to: msg.To, subject: msg.Subject})
	return nil
}

func (p *fakeEmailProvider) sentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func (p *fakeEmailProvider) sentTemplates() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.sent))
	for _, s := range p.sent {
		names = append(names, s.template)
	}
	return names
}

// fakeGeoVerifier answers with a fixed verdict.
type fakeGeoVerifier struct {
	allowed bool
}

func (v *fakeGeoVerifier) Verify(zip string) geo.Result {
	if v.allowed {
		return geo.Result{Allowed: true}
	}
	return geo.Result{Allowed: false, Reason: "zip code is outside the club's service area"}
}

var _ repositories.TokenRepository = (*fakeTokenRepo)(nil)
var _ repositories.RegistrationRepository = (*fakeRegistrationRepo)(nil)
var _ repositories.ParentRepository = (*fakeParentRepo)(nil)
var _ repositories.PlayerRepository = (*fakePlayerRepo)(nil)
var _ repositories.PaymentRepository = (*fakePaymentRepo)(nil)
var _ gateway.PaymentGateway = (*fakeGateway)(nil)
var _ email.Provider = (*fakeEmailProvider)(nil)
var _ geo.Verifier = (*fakeGeoVerifier)(nil)
