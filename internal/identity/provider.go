package identity

import (
	"context"
	"strings"

	"github.com/invenx-app/invenx-backend/pkg/config"
	"github.com/invenx-app/invenx-backend/pkg/db/models"
)

// Provider resolves the actor whose actions the history attributes. The real
// identity system lives outside this process; the ledger only needs an opaque
// user handle.
type Provider interface {
	CurrentUser(ctx context.Context) (models.User, bool)
}

type staticProvider struct {
	user models.User
}

// NewStaticProvider returns a provider pinned to the configured device
// operator, matching the fixed attribution of the original app.
func NewStaticProvider(cfg config.IdentityConfig) Provider {
	name := strings.TrimSpace(cfg.UserName)
	if name == "" {
		name = "Admin"
	}
	id := strings.TrimSpace(cfg.UserID)
	if id == "" {
		id = "user-1"
	}
	return &staticProvider{user: models.User{ID: id, Name: name}}
}

func (p *staticProvider) CurrentUser(context.Context) (models.User, bool) {
	return p.user, true
}
