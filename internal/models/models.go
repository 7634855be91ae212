package models

type GlobalKPIs struct {
	TotalAttacks       int     `json:"total_attacks"`
	TotalFinancialLoss float64 `json:"total_financial_loss"`
	TotalAffectedUsers int64   `json:"total_affected_users"`
	AvgResolutionTime  float64 `json:"avg_resolution_time"`
}

type TopIncident struct {
	Rank          int     `json:"rank"`
	Country       string  `json:"country"`
	Year          int     `json:"year"`
	AttackType    string  `json:"attack_type"`
	FinancialLoss float64 `json:"financial_loss"`
	AffectedUsers int64   `json:"affected_users"`
}

type TopCountry struct {
	Rank        int     `json:"rank"`
	Country     string  `json:"country"`
	TotalLoss   float64 `json:"total_loss"`
	AttackCount int     `json:"attack_count"`
	AvgLoss     float64 `json:"avg_loss"`
}

type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type DatasetInfo struct {
	TotalRecords int       `json:"total_records"`
	Columns      []string  `json:"columns"`
	DateRange    YearRange `json:"date_range"`
	Countries    []string  `json:"countries"`
	AttackTypes  []string  `json:"attack_types"`
}

type Health struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	DatasetLoaded bool   `json:"dataset_loaded"`
	TotalRecords  int    `json:"total_records"`
}
