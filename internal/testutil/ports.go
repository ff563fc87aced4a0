package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/cartelera-api/internal/application/ports"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
)

var (
	_ ports.IdentityProvider     = (*IdentityProvider)(nil)
	_ ports.Notifier             = (*Notifier)(nil)
	_ ports.ProvisioningObserver = (*Observer)(nil)
)

// IdentityProvider doble de Keycloak con respuestas configurables.
type IdentityProvider struct {
	mu sync.Mutex

	Token     string
	TokenErr  error
	Ref       string
	CreateErr error

	TokenCalls  int
	CreateCalls int
	LastToken   string
	LastProfile entity.UserProfile
}

func (p *IdentityProvider) FetchServiceToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TokenCalls++
	if p.TokenErr != nil {
		return "", p.TokenErr
	}
	return p.Token, ctx.Err()
}

func (p *IdentityProvider) CreateRemoteUser(ctx context.Context, profile entity.UserProfile, token string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CreateCalls++
	p.LastToken = token
	p.LastProfile = profile
	if p.CreateErr != nil {
		return "", p.CreateErr
	}
	return p.Ref, ctx.Err()
}

// RemoteCalls total de llamadas al proveedor.
func (p *IdentityProvider) RemoteCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.TokenCalls + p.CreateCalls
}

// Published evento registrado por Notifier.
type Published struct {
	Event  string
	Action string
	Data   any
}

// Notifier registra las publicaciones en memoria.
type Notifier struct {
	mu     sync.Mutex
	Err    error
	Events []Published
}

func (n *Notifier) Publish(_ context.Context, event, action string, data any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, Published{Event: event, Action: action, Data: data})
	return n.Err
}

// Observer registra los resultados de alta.
type Observer struct {
	mu      sync.Mutex
	Results []string
}

func (o *Observer) ObserveProvisioning(result string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Results = append(o.Results, result)
}
