package backend

// AssetType classifies an investment.
type AssetType string

const (
	AssetStock      AssetType = "STOCK"
	AssetBond       AssetType = "BOND"
	AssetMutualFund AssetType = "MUTUAL_FUND"
	AssetETF        AssetType = "ETF"
)

// TransactionType is the direction of a recorded trade.
type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	IsActive   bool   `json:"is_active"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Investment struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	Symbol               string    `json:"symbol"`
	Name                 string    `json:"name"`
	AssetType            AssetType `json:"asset_type"`
	Quantity             float64   `json:"quantity"`
	AveragePurchasePrice float64   `json:"average_purchase_price"`
	CurrentPrice         float64   `json:"current_price"`
	CreatedAt            string    `json:"created_at"`
	UpdatedAt            string    `json:"updated_at,omitempty"`
	CurrentValue         float64   `json:"current_value,omitempty"`
	TotalGainLoss        float64   `json:"total_gain_loss,omitempty"`
	GainLossPercentage   float64   `json:"gain_loss_percentage,omitempty"`
}

type InvestmentCreate struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	AssetType     AssetType `json:"asset_type"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
}

type InvestmentUpdate struct {
	Symbol       *string  `json:"symbol,omitempty"`
	Name         *string  `json:"name,omitempty"`
	Quantity     *float64 `json:"quantity,omitempty"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
}

type Transaction struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	InvestmentID     int64           `json:"investment_id"`
	TransactionType  TransactionType `json:"transaction_type"`
	Quantity         float64         `json:"quantity"`
	PricePerUnit     float64         `json:"price_per_unit"`
	TotalAmount      float64         `json:"total_amount"`
	TransactionDate  string          `json:"transaction_date"`
	Notes            string          `json:"notes,omitempty"`
	InvestmentSymbol string          `json:"investment_symbol,omitempty"`
	InvestmentName   string          `json:"investment_name,omitempty"`
}

type TransactionCreate struct {
	InvestmentID    int64           `json:"investment_id"`
	TransactionType TransactionType `json:"transaction_type"`
	Quantity        float64         `json:"quantity"`
	PricePerUnit    float64         `json:"price_per_unit"`
	Notes           string          `json:"notes,omitempty"`
}

type PortfolioSummary struct {
	TotalValue         float64 `json:"total_value"`
	TotalInvested      float64 `json:"total_invested"`
	TotalGainLoss      float64 `json:"total_gain_loss"`
	GainLossPercentage float64 `json:"gain_loss_percentage"`
	InvestmentsCount   int     `json:"investments_count"`
	TransactionsCount  int     `json:"transactions_count"`
}
