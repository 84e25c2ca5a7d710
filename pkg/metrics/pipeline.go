package metrics

// PipelineStats captures how long each stage of a chart build took.
type PipelineStats struct {
	Records      int   `json:"records"`
	FetchMillis  int64 `json:"fetchMs"`
	RenderMillis int64 `json:"renderMs"`
}

// IsZero reports whether stats are absent.
func (s PipelineStats) IsZero() bool {
	return s.Records == 0 && s.FetchMillis == 0 && s.RenderMillis == 0
}
