package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeCheckViolation is raised by the wallets balance >= 0 constraint
	PgErrorCodeCheckViolation = "23514"
)

// Error Messages
const (
	ErrMsgFailedToEnsureWallet = "failed to ensure wallet"
	ErrMsgFailedToGetBalance   = "failed to get balance"
	ErrMsgFailedToDebit        = "failed to debit wallet"
	ErrMsgFailedToCredit       = "failed to credit wallet"
	ErrMsgFailedToParseNumeric = "failed to parse numeric column"
	ErrMsgFailedToInsertPlay   = "failed to insert play"
	ErrMsgFailedToListPlays    = "failed to list plays"
	ErrMsgFailedToScanPlay     = "failed to scan play"
	ErrMsgNegativeBalance      = "balance must not be negative"
)
