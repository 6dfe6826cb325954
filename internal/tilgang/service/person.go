package service

import (
	"context"
	"slices"

	id "supstonad/pkg/domain"
)

// BeskyttetPersonStore answers whether a person has a protected address.
type BeskyttetPersonStore interface {
	ErBeskyttet(ctx context.Context, fnr id.Fnr) (bool, error)
}

// RegisterTilgang grants access to every person except protected ones, which
// require the StrengtFortrolig role.
type RegisterTilgang struct {
	store BeskyttetPersonStore
}

func NewRegisterTilgang(store BeskyttetPersonStore) *RegisterTilgang {
	return &RegisterTilgang{store: store}
}

func (t *RegisterTilgang) HarTilgang(ctx context.Context, _ id.NavIdent, roller []id.Rolle, fnr id.Fnr) (bool, error) {
	beskyttet, err := t.store.ErBeskyttet(ctx, fnr)
	if err != nil {
		return false, err
	}
	if !beskyttet {
		return true, nil
	}
	return slices.Contains(roller, id.RolleStrengtFortrolig), nil
}
