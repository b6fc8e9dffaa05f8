package models

import "time"

// StageColumn is one column of the pipeline board.
type StageColumn struct {
	Stage      Stage   `json:"stage"`
	Name       string  `json:"name"`
	Deals      []Deal  `json:"deals"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

type PipelineSummary struct {
	TotalValue         float64 `json:"totalValue"`
	DealCount          int     `json:"dealCount"`
	AverageProbability int     `json:"averageProbability"`
	WeightedValue      float64 `json:"weightedValue"`
}

type RecentActivity struct {
	Activity
	ContactName string `json:"contactName"`
}

type MonthlySales struct {
	Month string    `json:"month"` // "Jan 2024"
	Start time.Time `json:"start"`
	Value float64   `json:"value"`
	Deals int       `json:"deals"`
}

// DashboardMetrics: агрегаты для главной страницы.
type DashboardMetrics struct {
	TotalContacts       int              `json:"totalContacts"`
	ActiveDeals         int              `json:"activeDeals"`
	PipelineValue       float64          `json:"pipelineValue"`
	PendingActivities   int              `json:"pendingActivities"`
	CompletedActivities int              `json:"completedActivities"`
	RecentActivities    []RecentActivity `json:"recentActivities"`
	Sales               []MonthlySales   `json:"sales"`
}
