package service

import "errors"

// ErrLedgerNotArray marks a stored ledger that decoded to something other
// than a list of records.
var ErrLedgerNotArray = errors.New("stored activity scores are not an array")
