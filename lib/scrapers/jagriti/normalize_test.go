package jagriti

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatesJSON(t *testing.T) {
	for _, body := range []string{
		`[{"id": 11, "name": "KARNATAKA"}]`,
		`{"data": [{"state_id": "11", "state_name": "KARNATAKA"}]}`,
		`{"states": [{"code": "11", "text": "Karnataka"}]}`,
	} {
		states, err := NormalizeStates(RawPayload{Kind: PayloadJSON, Body: []byte(body)})
		require.NoError(t, err, body)
		require.Len(t, states, 1, body)
		require.Equal(t, "11", states[0].ID, body)
		require.Equal(t, "KARNATAKA", states[0].CanonicalName, body)
	}
}

func TestNormalizeStatesRows(t *testing.T) {
	payload := RawPayload{Kind: PayloadRows, Rows: []RawRow{
		{Cells: []string{"11", "Karnataka"}},
		{Cells: []string{"", "Missing ID"}},
		{Cells: []string{"only-one-cell"}},
		{Cells: []string{"22", "Kerala"}},
	}}

	states, err := NormalizeStates(payload)
	require.NoError(t, err)
	diff := cmp.Diff([]State{
		{ID: "11", CanonicalName: "KARNATAKA", DisplayName: "Karnataka"},
		{ID: "22", CanonicalName: "KERALA", DisplayName: "Kerala"},
	}, states)
	require.Empty(t, diff)
}

func TestNormalizeStatesRejectsMalformedJSON(t *testing.T) {
	_, err := NormalizeStates(RawPayload{Kind: PayloadJSON, Body: []byte("{nope")})
	require.Error(t, err)
}

func TestNormalizeCommissionsCarriesStateID(t *testing.T) {
	payload := RawPayload{Kind: PayloadJSON, Body: []byte(
		`{"commissions": [{"commissionId": 7, "commissionName": "Bangalore Urban"}]}`,
	)}

	commissions, err := NormalizeCommissions(payload, "11")
	require.NoError(t, err)
	require.Len(t, commissions, 1)
	require.Equal(t, "7", commissions[0].ID)
	require.Equal(t, "Bangalore Urban", commissions[0].DisplayName)
	require.Equal(t, "11", commissions[0].StateID)
}

func TestNormalizeCasesRows(t *testing.T) {
	base, _ := url.Parse("https://e-jagriti.gov.in")
	payload := RawPayload{Kind: PayloadRows, Rows: []RawRow{
		{
			Cells: []string{"CC/123/2024", "Hearing", "15/01/2024", "A Kumar", "Adv X", "Acme Corp", "Adv Y"},
			Link:  "/orders/123.pdf",
		},
		// missing respondent, must be dropped
		{Cells: []string{"CC/456/2024", "Hearing", "16/01/2024", "B Singh", "Adv Z", ""}},
	}}

	cases, err := NormalizeCases(payload, base)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	got := cases[0]
	require.Equal(t, "CC/123/2024", got.CaseNumber)
	require.Equal(t, "2024-01-15", got.FilingDate)
	require.Equal(t, "Adv Y", got.RespondentAdvocate)
	require.Equal(t, "https://e-jagriti.gov.in/orders/123.pdf", got.DocumentLink)
}

func TestNormalizeCasesJSON(t *testing.T) {
	base, _ := url.Parse("https://e-jagriti.gov.in")
	payload := RawPayload{Kind: PayloadJSON, Body: []byte(`{"cases": [{
		"case_number": "CC/9/2023",
		"stage": "Disposed",
		"filing_date": "2023-03-02",
		"complainant": "C Rao",
		"complainant_advocate": "",
		"respondent": "Retailer Ltd",
		"document_link": "https://files.example/order.pdf"
	}]}`)}

	cases, err := NormalizeCases(payload, base)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, "CC/9/2023", cases[0].CaseNumber)
	require.Equal(t, "2023-03-02", cases[0].FilingDate)
	require.Equal(t, "https://files.example/order.pdf", cases[0].DocumentLink)
}

func TestNormalizeDate(t *testing.T) {
	require.Equal(t, "2024-01-15", normalizeDate("15/01/2024"))
	require.Equal(t, "2024-01-15", normalizeDate("2024-01-15"))
	// unparsable dates pass through untouched
	require.Equal(t, "sometime in 2024", normalizeDate("sometime in 2024"))
	require.Equal(t, "", normalizeDate("  "))
}
