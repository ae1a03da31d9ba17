package jagriti

import "context"

// compiled-in last-known state list, current as of the portal's 2024
// layout. only ever served by the StaticStates tier, which a deployer
// must opt into; it is never substituted silently.
var staticStates = []State{
	{ID: "AP", CanonicalName: "ANDHRA PRADESH", DisplayName: "Andhra Pradesh"},
	{ID: "AS", CanonicalName: "ASSAM", DisplayName: "Assam"},
	{ID: "BR", CanonicalName: "BIHAR", DisplayName: "Bihar"},
	{ID: "CG", CanonicalName: "CHHATTISGARH", DisplayName: "Chhattisgarh"},
	{ID: "DL", CanonicalName: "DELHI", DisplayName: "Delhi"},
	{ID: "GA", CanonicalName: "GOA", DisplayName: "Goa"},
	{ID: "GJ", CanonicalName: "GUJARAT", DisplayName: "Gujarat"},
	{ID: "HR", CanonicalName: "HARYANA", DisplayName: "Haryana"},
	{ID: "HP", CanonicalName: "HIMACHAL PRADESH", DisplayName: "Himachal Pradesh"},
	{ID: "JH", CanonicalName: "JHARKHAND", DisplayName: "Jharkhand"},
	{ID: "JK", CanonicalName: "JAMMU AND KASHMIR", DisplayName: "Jammu and Kashmir"},
	{ID: "KA", CanonicalName: "KARNATAKA", DisplayName: "Karnataka"},
	{ID: "KL", CanonicalName: "KERALA", DisplayName: "Kerala"},
	{ID: "LD", CanonicalName: "LAKSHADWEEP", DisplayName: "Lakshadweep"},
	{ID: "MP", CanonicalName: "MADHYA PRADESH", DisplayName: "Madhya Pradesh"},
	{ID: "MH", CanonicalName: "MAHARASHTRA", DisplayName: "Maharashtra"},
	{ID: "MN", CanonicalName: "MANIPUR", DisplayName: "Manipur"},
	{ID: "ML", CanonicalName: "MEGHALAYA", DisplayName: "Meghalaya"},
	{ID: "MZ", CanonicalName: "MIZORAM", DisplayName: "Mizoram"},
	{ID: "NL", CanonicalName: "NAGALAND", DisplayName: "Nagaland"},
	{ID: "OR", CanonicalName: "ODISHA", DisplayName: "Odisha"},
	{ID: "PB", CanonicalName: "PUNJAB", DisplayName: "Punjab"},
	{ID: "PY", CanonicalName: "PUDUCHERRY", DisplayName: "Puducherry"},
	{ID: "RJ", CanonicalName: "RAJASTHAN", DisplayName: "Rajasthan"},
	{ID: "SK", CanonicalName: "SIKKIM", DisplayName: "Sikkim"},
	{ID: "TN", CanonicalName: "TAMIL NADU", DisplayName: "Tamil Nadu"},
	{ID: "TG", CanonicalName: "TELANGANA", DisplayName: "Telangana"},
	{ID: "TR", CanonicalName: "TRIPURA", DisplayName: "Tripura"},
	{ID: "UP", CanonicalName: "UTTAR PRADESH", DisplayName: "Uttar Pradesh"},
	{ID: "UT", CanonicalName: "UTTARAKHAND", DisplayName: "Uttarakhand"},
	{ID: "WB", CanonicalName: "WEST BENGAL", DisplayName: "West Bengal"},
}

// StaticStates serves the compiled-in state list for ListStates and
// nothing else. It exists so a deployment can choose degraded catalog
// resolution over total outage when the portal blocks automation.
type StaticStates struct{}

func NewStaticStates() *StaticStates { return &StaticStates{} }

func (*StaticStates) Name() string { return "static_states" }

func (*StaticStates) Probe(ctx context.Context, op Operation) (RawPayload, error) {
	if op.Kind != OpListStates {
		return RawPayload{}, ErrNotSupported
	}
	rows := make([]RawRow, 0, len(staticStates))
	for _, s := range staticStates {
		rows = append(rows, RawRow{Cells: []string{s.ID, s.DisplayName}})
	}
	return RawPayload{Kind: PayloadRows, Rows: rows}, nil
}
