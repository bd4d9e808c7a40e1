package models

// User is a demo fixture record. Nothing mutates it after load.
type User struct {
	Profile      Profile       `json:"profile"`
	Accounts     Accounts      `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
}

type Profile struct {
	UserID      string      `json:"userId"`
	Name        string      `json:"name"`
	RiskProfile string      `json:"riskProfile"`
	Preferences Preferences `json:"preferences"`
}

type Preferences struct {
	AutoSavingsRate      float64  `json:"autoSavingsRate"`
	PreferredInvestments []string `json:"preferredInvestments"`
	RiskTolerance        string   `json:"riskTolerance"`
}

type Accounts struct {
	Checking   Account `json:"checking"`
	Savings    Account `json:"savings"`
	Investment Account `json:"investment"`
}

type Account struct {
	ID      string  `json:"id"`
	Balance float64 `json:"balance"`
	Type    string  `json:"type"`
}

type Transaction struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Timestamp int64   `json:"timestamp"`
	Merchant  string  `json:"merchant,omitempty"`
	Status    string  `json:"status,omitempty"`
}
