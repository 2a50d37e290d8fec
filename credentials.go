package jwtauth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// CredentialResolver turns a verified token payload into a local user
// record, creating the account on first sight and keeping mapped profile
// attributes in sync with the token.
type CredentialResolver struct {
	store      UserStore
	reconciler *AttributeReconciler
	config     Config
	logger     Logger

	// Validator runs against the user after reconciliation and before the
	// save. A non nil error aborts resolution.
	Validator func(ctx context.Context, user *User) error
}

// NewCredentialResolver wires a resolver against the given store and config.
func NewCredentialResolver(store UserStore, config Config) *CredentialResolver {
	return &CredentialResolver{
		store:      store,
		config:     config,
		reconciler: NewAttributeReconciler(config.GetMergeableUserAttributes()),
		logger:     &defLogger{},
	}
}

// WithLogger replaces the resolver's logger.
func (c *CredentialResolver) WithLogger(logger Logger) *CredentialResolver {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithValidator installs a post reconciliation user validator.
func (c *CredentialResolver) WithValidator(fn func(ctx context.Context, user *User) error) *CredentialResolver {
	c.Validator = fn
	return c
}

// Resolve finds or creates the user named by the payload and reconciles
// mapped claims onto it. The record is saved only when something changed.
func (c *CredentialResolver) Resolve(ctx context.Context, payload TokenPayload) (*User, error) {
	username, ok := payload.Username()
	if !ok {
		return nil, ErrMissingUsernameClaim
	}

	user, err := c.store.GetOrCreateByUsername(ctx, username)
	if err != nil {
		c.logger.Error("User retrieval failed for username %s.", username)
		return nil, errors.Wrap(err, errors.CategoryAuth, "user retrieval failed").
			WithCode(errors.CodeUnauthorized).
			WithMetadata(map[string]any{"username": username})
	}

	mapping := c.config.GetUserAttributeMapping()
	if len(mapping) == 0 {
		mapping = DefaultAttributeMapping
	}

	changed := c.reconciler.Reconcile(user, payload, mapping)

	if c.Validator != nil {
		if err := c.Validator(ctx, user); err != nil {
			c.logger.Error("User validation failed for username %s.", username)
			return nil, errors.Wrap(err, errors.CategoryAuth, "user validation failed").
				WithCode(errors.CodeUnauthorized).
				WithMetadata(map[string]any{"username": username})
		}
	}

	if changed {
		user, err = c.store.Save(ctx, user)
		if err != nil {
			c.logger.Error("User save failed for username %s.", username)
			return nil, errors.Wrap(err, errors.CategoryAuth, "user save failed").
				WithCode(errors.CodeUnauthorized).
				WithMetadata(map[string]any{"username": username})
		}
	}

	return user, nil
}
