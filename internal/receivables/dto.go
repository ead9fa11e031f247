package receivables

// ListRequest filters the ledger. DuePrefix is an ISO date prefix: "2026",
// "2026-08" or "2026-08-29".
type ListRequest struct {
	Status    string
	DuePrefix string
	Limit     int32
	Offset    int32
}
