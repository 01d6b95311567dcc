package models

// SearchResult is one row of the search dataset, every cell as a string.
type SearchResult struct {
	BlockNo   string `json:"blockNo"`
	PartNo    string `json:"partNo"`
	Thickness string `json:"thickness"`
	Nos       string `json:"nos"`
	LCm       string `json:"lCm"`
	HCm       string `json:"hCm"`
	WCm       string `json:"wCm"`
	Status    string `json:"status"`
	Date      string `json:"date"`
	MC        string `json:"mc"`
	Color1    string `json:"color1"`
	Color2    string `json:"color2"`
}

// NewSearchResult fills a SearchResult from extracted field values.
func NewSearchResult(v map[string]string) SearchResult {
	return SearchResult{
		BlockNo:   v["blockNo"],
		PartNo:    v["partNo"],
		Thickness: v["thickness"],
		Nos:       v["nos"],
		LCm:       v["lCm"],
		HCm:       v["hCm"],
		WCm:       v["wCm"],
		Status:    v["status"],
		Date:      v["date"],
		MC:        v["mc"],
		Color1:    v["color1"],
		Color2:    v["color2"],
	}
}

// Record returns the result as an ordered record in column order.
func (r SearchResult) Record() Record {
	return Record{
		{"blockNo", r.BlockNo},
		{"partNo", r.PartNo},
		{"thickness", r.Thickness},
		{"nos", r.Nos},
		{"lCm", r.LCm},
		{"hCm", r.HCm},
		{"wCm", r.WCm},
		{"status", r.Status},
		{"date", r.Date},
		{"mc", r.MC},
		{"color1", r.Color1},
		{"color2", r.Color2},
	}
}

// DisReportResult is one row of O:R. OColumn and PColumn repeat BlockNo
// and Thickness.
type DisReportResult struct {
	BlockNo   string `json:"blockNo"`
	Thickness string `json:"thickness"`
	OColumn   string `json:"o_column"`
	PColumn   string `json:"p_column"`
	QColumn   string `json:"q_column"`
	RColumn   string `json:"r_column"`
}

func NewDisReportResult(v map[string]string) DisReportResult {
	return DisReportResult{
		BlockNo:   v["blockNo"],
		Thickness: v["thickness"],
		OColumn:   v["o_column"],
		PColumn:   v["p_column"],
		QColumn:   v["q_column"],
		RColumn:   v["r_column"],
	}
}

type DisRptResult struct {
	BlockNo   string `json:"blockNo"`
	PartNo    string `json:"partNo"`
	Thickness string `json:"thickness"`
	Nos       string `json:"nos"`
	M2        string `json:"m2"`
}

func NewDisRptResult(v map[string]string) DisRptResult {
	return DisRptResult{
		BlockNo:   v["blockNo"],
		PartNo:    v["partNo"],
		Thickness: v["thickness"],
		Nos:       v["nos"],
		M2:        v["m2"],
	}
}
