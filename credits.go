package openrouter

// CreditsData holds purchased and consumed credits for an account, in USD.
type CreditsData struct {
	TotalCredits float64 `json:"total_credits"`
	TotalUsage   float64 `json:"total_usage"`
}

// Remaining returns the unspent credits.
func (d CreditsData) Remaining() float64 {
	return d.TotalCredits - d.TotalUsage
}

// Credits is the response from the credits endpoint.
type Credits struct {
	Data CreditsData `json:"data"`
}

// Balance returns the remaining credits.
func (c *Credits) Balance() float64 { return c.Data.Remaining() }

// TotalPurchased returns the total credits purchased.
func (c *Credits) TotalPurchased() float64 { return c.Data.TotalCredits }

// TotalUsed returns the total credits consumed.
func (c *Credits) TotalUsed() float64 { return c.Data.TotalUsage }
