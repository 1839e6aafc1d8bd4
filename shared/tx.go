package shared

import (
	"database/sql"
	"log/slog"
)

// CommitOrRollback finishes a transaction based on the handler's final error.
// Call it deferred with a pointer to a named error return, otherwise it only
// sees the error value from the moment the defer was registered.
func CommitOrRollback(tx *sql.Tx, err *error) {
	if *err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Transaction rollback failed", "err", rbErr)
		}
		return
	}
	if cmErr := tx.Commit(); cmErr != nil {
		*err = cmErr
	}
}
