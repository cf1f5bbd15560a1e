package domain

// Notice is a historical procurement notice from the static corpus.
// Loaded once at startup and immutable for the process lifetime.
type Notice struct {
	NoticeID           string   `json:"notice_id"`
	Title              string   `json:"title"`
	Buyer              string   `json:"buyer"`
	CPVCodes           []string `json:"cpv_codes"`
	PublishedDate      string   `json:"published_date"`
	DeadlineDate       string   `json:"deadline_date,omitempty"`
	ValueEstimateNOK   float64  `json:"value_estimate_nok,omitempty"`
	ProcedureType      string   `json:"procedure_type,omitempty"`
	DurationMonths     int      `json:"duration_months,omitempty"`
	DescriptionRaw     string   `json:"description_raw,omitempty"`
	DescriptionExcerpt string   `json:"description_excerpt"`
}

// Match pairs a corpus notice with its similarity score in [0,1].
// Produced per query, ordered descending by score.
type Match struct {
	Notice Notice  `json:"notice"`
	Score  float64 `json:"score"`
}
