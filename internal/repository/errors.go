// Package repository implements the persistence layer over MySQL.
// This file defines error values shared across repositories. Sentinel
// values let higher layers distinguish failure scenarios with
// errors.Is instead of string matching. Row-not-found conditions are
// reported as sql.ErrNoRows, the same convention database/sql uses.
package repository

import (
    "errors"

    "github.com/go-sql-driver/mysql"
)

// ErrDuplicate is returned when an insert violates a unique
// constraint, e.g. two requests creating the dinner group for the
// same venue at the same time. The membership service treats a
// duplicate group creation as "group already exists" and re-reads
// the winning row.
var ErrDuplicate = errors.New("duplicate key")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062).
func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}
