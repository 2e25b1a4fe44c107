package consts

const (
	LoansCollection = "Loans"
)
