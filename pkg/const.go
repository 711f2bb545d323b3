package pkg

const (
	HeaderTraceId string = "X-Trace-Id"
)

const (
	TraceId  string = "trace_id"
	UserId   string = "user_id"
	Username string = "username"
)

// Session keys. SessionName is the cookie name issued at login.
const (
	SessionName     string = "momo_session"
	SessionUserId   string = "user_id"
	SessionUsername string = "username"
)

// TransactionType classifies a parsed MoMo SMS message.
type TransactionType string

const (
	TxTypeDeposit    TransactionType = "deposit"
	TxTypeWithdrawal TransactionType = "withdrawal"
	TxTypeTransfer   TransactionType = "transfer"
	TxTypePayment    TransactionType = "payment"
	TxTypeAirtime    TransactionType = "airtime"
)

// Direction records whether money moved into or out of the account.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)
