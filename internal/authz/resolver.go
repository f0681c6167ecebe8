package authz

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/complyhub/complyhub/internal/db/models"
	"github.com/complyhub/complyhub/internal/logger"
)

// Principal is an authorized user with the privileges resolved for the request.
type Principal struct {
	User       *models.User
	Privileges PrivilegeSet
}

// Resolver answers whether a user may invoke a privilege.
type Resolver struct {
	store Store
	cache *Cache
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache reuses resolved privilege sets from cache. A nil cache disables caching.
func WithCache(cache *Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// New returns a resolver reading through store.
func New(store Store, opts ...Option) *Resolver {
	r := &Resolver{store: store}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ResolvePrivileges returns the ids of every system function the user holds in its company.
func (r *Resolver) ResolvePrivileges(ctx context.Context, username string) (PrivilegeSet, error) {
	_, held, why, err := r.resolve(ctx, username)
	if err != nil {
		r.deny(username, "", why, err)

		return nil, ErrNotAuthorized
	}

	return held, nil
}

// PrivilegeNames returns the names of the active system functions the user holds.
func (r *Resolver) PrivilegeNames(ctx context.Context, username string) ([]string, error) {
	held, err := r.ResolvePrivileges(ctx, username)
	if err != nil {
		return nil, err
	}

	names, err := r.store.ActiveFunctionNames(ctx, held.IDs())
	if err != nil {
		r.deny(username, "", reasonStorageFailure, err)

		return nil, ErrNotAuthorized
	}

	return names, nil
}

// Authorize fails with ErrNotAuthorized unless the user holds the privilege.
func (r *Resolver) Authorize(ctx context.Context, username, privilege string) error {
	_, err := r.Require(ctx, username, privilege)

	return err
}

// Require authorizes like Authorize and returns the principal on success.
func (r *Resolver) Require(ctx context.Context, username, privilege string) (*Principal, error) {
	function, err := r.store.ActiveFunctionByName(ctx, privilege)
	if err != nil {
		if errors.Is(err, ErrFunctionNotFound) {
			// the caller names a privilege the catalog does not know
			log.Error().
				Str("user", username).
				Str("privilege", privilege).
				Msg("configuration defect: privilege has no active system function")
			r.deny(username, privilege, reasonUnknownPrivilege, nil)
		} else {
			r.deny(username, privilege, reasonStorageFailure, err)
		}

		return nil, ErrNotAuthorized
	}

	user, held, why, err := r.resolve(ctx, username)
	if err != nil {
		r.deny(username, privilege, why, err)

		return nil, ErrNotAuthorized
	}

	if !held.Has(function.ID) {
		r.deny(username, privilege, reasonPrivilegeNotHeld, nil)

		return nil, ErrNotAuthorized
	}

	decisions.WithLabelValues("granted", string(reasonGranted)).Inc()
	logger.AuditEvent(zerolog.DebugLevel).
		Str("user", username).
		Uint("company", user.CompanyID).
		Str("privilege", privilege).
		Str("outcome", "granted").
		Str("reason", string(reasonGranted)).
		Msg("authorization")

	return &Principal{User: user, Privileges: held}, nil
}

// resolve returns the user and its privilege set, or the reason it can not be resolved.
func (r *Resolver) resolve(ctx context.Context, username string) (*models.User, PrivilegeSet, reason, error) {
	if username == "" {
		return nil, nil, reasonEmptyUsername, ErrUserNotFound
	}

	user, err := r.store.UserByUsername(ctx, username)

	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil, nil, reasonUnknownUser, err
	case err != nil:
		return nil, nil, reasonStorageFailure, err
	case !user.Active:
		return nil, nil, reasonInactiveUser, errInactive
	}

	load := func(ctx context.Context) (PrivilegeSet, error) {
		g, err := r.store.Graph(ctx, user.ID, user.CompanyID)
		if err != nil {
			return nil, err
		}

		return Privileges(g, user.ID), nil
	}

	var held PrivilegeSet
	if r.cache != nil {
		held, err = r.cache.Get(ctx, user.Username, user.CompanyID, load)
	} else {
		held, err = load(ctx)
	}

	if err != nil {
		return nil, nil, reasonStorageFailure, err
	}

	return user, held, reasonGranted, nil
}

// deny audits and counts a refused decision.
func (r *Resolver) deny(username, privilege string, why reason, cause error) {
	decisions.WithLabelValues("denied", string(why)).Inc()

	var event *zerolog.Event
	if why == reasonStorageFailure {
		event = logger.AuditEvent(zerolog.ErrorLevel).Err(cause)
	} else {
		event = logger.AuditEvent(zerolog.InfoLevel)
	}

	event.
		Str("user", username).
		Str("privilege", privilege).
		Str("outcome", "denied").
		Str("reason", string(why)).
		Msg("authorization")
}
