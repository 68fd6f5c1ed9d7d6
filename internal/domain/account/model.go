// Package account describes who is calling: an owner id plus the kind of
// marketplace account it belongs to.
package account

import (
	"context"
	"strings"
)

// Kind is the type of marketplace account.
type Kind string

const (
	KindClient     Kind = "client"
	KindFreelancer Kind = "freelancer"
)

// DefaultKind applies to accounts registered without a kind.
const DefaultKind = KindFreelancer

// ParseKind accepts "client"/"freelancer" and the short forms "CL"/"FL",
// case-insensitively. An empty string yields DefaultKind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultKind, nil
	case "client", "cl":
		return KindClient, nil
	case "freelancer", "fl":
		return KindFreelancer, nil
	default:
		return "", ErrInvalidKind
	}
}

// Identity is a resolved caller.
type Identity struct {
	Owner string
	Kind  Kind
}

func (i Identity) IsClient() bool {
	return i.Kind == KindClient
}

func (i Identity) IsFreelancer() bool {
	return i.Kind == KindFreelancer
}

// Validate checks that the identity is usable as a caller.
func (i Identity) Validate() error {
	if i.Owner == "" || strings.ContainsRune(i.Owner, 0) {
		return ErrInvalidOwner
	}
	if i.Kind != KindClient && i.Kind != KindFreelancer {
		return ErrInvalidKind
	}
	return nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
