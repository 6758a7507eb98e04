package auth

import (
	"context"
	"errors"
)

type ctxKey int

const ctxAccountID ctxKey = iota

func WithAccountID(ctx context.Context, id AccountID) context.Context {
	return context.WithValue(ctx, ctxAccountID, id)
}

func AccountIDFrom(ctx context.Context) (AccountID, error) {
	v := ctx.Value(ctxAccountID)
	if id, ok := v.(AccountID); ok && id != "" {
		return id, nil
	}
	return "", errors.New("account_id not in context")
}
