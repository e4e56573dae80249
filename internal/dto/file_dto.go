package dto

import "time"

type StoredFileResponse struct {
	ID        uint         `json:"id"`
	URL       string       `json:"url"`
	Size      int64        `json:"size"`
	Owner     ProfileShort `json:"owner"`
	CreatedAt time.Time    `json:"created_at"`
}

type GroupCount struct {
	Value string `json:"value"`
	Total int64  `json:"total"`
}

// WorkStats is the per-kind aggregate block computed fresh per request.
type WorkStats struct {
	Total      int64
	ByYear     []GroupCount
	ByType     []GroupCount
	ByLanguage []GroupCount
}

type StatsResponse struct {
	Totals     map[string]int64        `json:"totals"`
	ByYear     map[string][]GroupCount `json:"by_year"`
	ByType     map[string][]GroupCount `json:"by_type"`
	ByLanguage map[string][]GroupCount `json:"by_language"`
}
