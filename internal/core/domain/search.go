package domain

import "time"

// SearchParams is the input of the search_repledge_details procedure.
// Nil filters are sent as SQL NULL.
type SearchParams struct {
	SearchTerm      string     `json:"search_term"`
	PageNum         int        `json:"page_num"`
	PageSize        int        `json:"page_size"`
	BankIDFilter    *string    `json:"bank_id_filter"`
	StartDateFilter *time.Time `json:"start_date_filter"`
	EndDateFilter   *time.Time `json:"end_date_filter"`
	BranchIDFilter  *string    `json:"branch_id_filter"`
}

// SearchRow is one row returned by the search procedure. TotalCount is the
// filtered total replicated on every row of a response.
type SearchRow struct {
	RepledgeRecord
	TotalCount *int64 `json:"total_count"`
}
