package jagriti

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectAPIStatesFirstWorkingEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte("landing"))
		case "/api/master/states":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id": 11, "name": "KARNATAKA"}, {"id": 22, "name": "KERALA"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})
	strategy := NewDirectAPI(client)

	payload, err := strategy.Probe(context.Background(), ListStatesOp())
	require.NoError(t, err)
	require.Equal(t, PayloadJSON, payload.Kind)

	states, err := NormalizeStates(payload)
	require.NoError(t, err)
	require.Len(t, states, 2)
}

func TestDirectAPIStatesAllUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Write([]byte("landing"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})
	strategy := NewDirectAPI(client)

	_, err := strategy.Probe(context.Background(), ListStatesOp())
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestDirectAPIStatesEmptyAnswerIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte("landing"))
		case "/api/states":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data": []}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})
	strategy := NewDirectAPI(client)

	_, err := strategy.Probe(context.Background(), ListStatesOp())
	require.ErrorIs(t, err, ErrEmpty)
}

func TestDirectAPISearchSendsFormFields(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte("landing"))
		case "/advance-search":
			r.ParseForm()
			gotForm = map[string]string{}
			for k := range r.PostForm {
				gotForm[k] = r.PostForm.Get(k)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"cases": [{
				"caseNumber": "CC/1/2024", "caseStage": "Hearing",
				"filingDate": "01/02/2024", "complainantName": "A",
				"respondentName": "B"
			}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})
	strategy := NewDirectAPI(client)

	query := SearchQuery{
		SearchType:   SearchComplainant,
		StateID:      "11",
		CommissionID: "7",
		SearchValue:  "kumar",
	}
	payload, err := strategy.Probe(context.Background(), SearchOp(query))
	require.NoError(t, err)

	require.Equal(t, "11", gotForm["state_code"])
	require.Equal(t, "7", gotForm["dist_code"])
	require.Equal(t, "DCDRC", gotForm["court_code"])
	require.Equal(t, "DAILY ORDER", gotForm["case_type"])
	require.Equal(t, "case_filing_date", gotForm["date_type"])
	require.Equal(t, "kumar", gotForm[SearchComplainant.FormField()])
	require.NotEmpty(t, gotForm["from_date"])
	require.NotEmpty(t, gotForm["to_date"])

	cases, err := NormalizeCases(payload, client.BaseURL())
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, "2024-02-01", cases[0].FilingDate)
}

func TestDirectAPISearchIgnoresHTMLAnswers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Write([]byte("landing"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>results page</body></html>"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, ClientOptions{})
	strategy := NewDirectAPI(client)

	query := SearchQuery{SearchType: SearchCaseNumber, StateID: "11", CommissionID: "7", SearchValue: "CC/1/2024"}
	_, err := strategy.Probe(context.Background(), SearchOp(query))
	require.ErrorIs(t, err, ErrUnreachable)
}
