package accounts

import (
	"context"
	"log/slog"

	"surreality-auth/internal/auth"
)

// Outcome is the result class of a store lookup.
type Outcome int

const (
	OutcomeEmpty Outcome = iota
	OutcomeFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeFailed:
		return "failed"
	default:
		return "empty"
	}
}

// Lookup keeps absence and store failure apart. Err is set only for OutcomeFailed.
type Lookup struct {
	Outcome Outcome
	Record  Record
	Err     error
}

type GatewayOptions struct {
	Table    string
	IDColumn string
	Logger   *slog.Logger
}

// Gateway performs privileged, RLS-bypassing lookups against the account store.
//
// It is intentionally unscoped: it filters by whatever id it is handed and never checks
// that id belongs to the current request. Pass only ids returned by auth.Authenticate.
type Gateway struct {
	store    Store
	table    string
	idColumn string
	log      *slog.Logger
}

func NewGateway(store Store, opts GatewayOptions) *Gateway {
	if opts.Table == "" {
		opts.Table = "users"
	}
	if opts.IDColumn == "" {
		opts.IDColumn = "account_id"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Gateway{
		store:    store,
		table:    opts.Table,
		idColumn: opts.IDColumn,
		log:      opts.Logger,
	}
}

// Raw returns the privileged store for custom queries, bypassing any cache layer.
// Every query issued through it MUST filter on the caller's account id; nothing here enforces that.
func (g *Gateway) Raw() Store {
	s := g.store
	for {
		u, ok := s.(interface{ Unwrap() Store })
		if !ok {
			return s
		}
		s = u.Unwrap()
	}
}

// Lookup checks for at least one row whose id column equals id.
func (g *Gateway) Lookup(ctx context.Context, id auth.AccountID) Lookup {
	if g.store == nil {
		return Lookup{Outcome: OutcomeFailed, Err: ErrStoreNotReady}
	}
	q := Query{Table: g.table, Columns: []string{g.idColumn}, Limit: 1}.Eq(g.idColumn, id.String())
	rows, err := g.store.Select(ctx, q)
	switch {
	case err != nil:
		return Lookup{Outcome: OutcomeFailed, Err: err}
	case len(rows) == 0:
		return Lookup{Outcome: OutcomeEmpty}
	default:
		return Lookup{Outcome: OutcomeFound, Record: rows[0]}
	}
}

// LookupOne fetches exactly one full row for id. More than one match is a failure.
func (g *Gateway) LookupOne(ctx context.Context, id auth.AccountID) Lookup {
	if g.store == nil {
		return Lookup{Outcome: OutcomeFailed, Err: ErrStoreNotReady}
	}
	q := Query{Table: g.table, Limit: 2}.Eq(g.idColumn, id.String())
	rows, err := g.store.Select(ctx, q)
	switch {
	case err != nil:
		return Lookup{Outcome: OutcomeFailed, Err: err}
	case len(rows) == 0:
		return Lookup{Outcome: OutcomeEmpty}
	case len(rows) > 1:
		return Lookup{Outcome: OutcomeFailed, Err: ErrNotUnique}
	default:
		return Lookup{Outcome: OutcomeFound, Record: rows[0]}
	}
}

// AccountExists reports whether the account has a row. Store failures read as false.
func (g *Gateway) AccountExists(ctx context.Context, id auth.AccountID) bool {
	return g.collapse("account_exists", id, g.Lookup(ctx, id)).Outcome == OutcomeFound
}

// GetUserInfo returns the account's row. Absence and store failures both read as (nil, false).
func (g *Gateway) GetUserInfo(ctx context.Context, id auth.AccountID) (Record, bool) {
	l := g.collapse("get_user_info", id, g.LookupOne(ctx, id))
	if l.Outcome != OutcomeFound {
		return nil, false
	}
	return l.Record, true
}

// collapse folds OutcomeFailed into OutcomeEmpty. This is the only place store
// errors are dropped; they are logged so an outage is still visible in ops.
func (g *Gateway) collapse(op string, id auth.AccountID, l Lookup) Lookup {
	if l.Outcome != OutcomeFailed {
		return l
	}
	g.log.Warn("account store lookup failed; treating as absent", "op", op, "account_id", id.String(), "err", l.Err)
	return Lookup{Outcome: OutcomeEmpty}
}
