// Package txn runs multi-document writes inside a MongoDB transaction when
// the server supports one, falling back to plain sequential execution when
// it does not (standalone servers without a replica set).
//
// The fallback loses atomicity, so callers must write fn so that a partial
// failure leaves the database in a recoverable state (insert the parent
// document first, memberships after).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn within a session transaction on db's client. If the
// deployment does not support transactions, fn is re-run once outside a
// session and a warning is logged.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("transactions unavailable, running without session", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("transactions unavailable, running without session", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Transaction-unsupported server error codes: IllegalOperation (20),
// CommandNotSupported (51), OperationNotSupportedInTransaction (263).
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// Keyword pairs that mark a driver-side "no transactions here" error when
// no command code is available.
var notSupportedPhrases = [][2]string{
	{"transaction", "replica set"},
	{"session", "not supported"},
	{"transaction", "session"},
	{"illegal operation", "transaction"},
}

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions (as opposed to the transaction failing).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return notSupportedCodes[cmdErr.Code]
	}

	msg := strings.ToLower(err.Error())
	for _, pair := range notSupportedPhrases {
		if strings.Contains(msg, pair[0]) && strings.Contains(msg, pair[1]) {
			return true
		}
	}
	return false
}
