package models

type DashboardStats struct {
	UsersTotal         int   `json:"users_total"`
	TournamentsTotal   int   `json:"tournaments_total"`
	ActiveTournaments  int   `json:"active_tournaments"`
	MatchesTotal       int   `json:"matches_total"`
	CoinsInCirculation int64 `json:"coins_in_circulation"`
	UnackedAlerts      int   `json:"unacked_alerts"`
}
