package recordstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRemote_RequiresCredentials(t *testing.T) {
	_, err := NewRemote(RemoteConfig{BaseURL: "http://x"}, nil)
	assert.Error(t, err)
	_, err = NewRemote(RemoteConfig{ProjectID: "p", PublicKey: "k"}, nil)
	assert.Error(t, err)
}

func TestRemote_Protocol(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		assert.Equal(t, "proj", r.Header.Get(HeaderProjectID))
		assert.Equal(t, "key", r.Header.Get(HeaderPublicKey))
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/records/deal/query":
			var q Query
			require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
			assert.Equal(t, []string{"title"}, q.Fields)
			_ = json.NewEncoder(w).Encode(FetchResponse{Data: []Record{{"Id": "1", "title": "Acme"}}, Total: 1})
		case r.Method == http.MethodGet && r.URL.Path == "/api/records/deal/1":
			assert.Equal(t, "title,stage", r.URL.Query().Get("fields"))
			_ = json.NewEncoder(w).Encode(map[string]any{"data": Record{"Id": "1", "title": "Acme"}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/records/deal/2":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"record not found"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/records/deal":
			var body recordsBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Len(t, body.Records, 1)
			out := body.Records[0].Clone()
			out[FieldID] = "5"
			_ = json.NewEncoder(w).Encode(MutationResponse{Success: true, Results: []Result{{Success: true, ID: "5", Data: out}}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/records/deal":
			var body deleteBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"5"}, body.RecordIDs)
			_ = json.NewEncoder(w).Encode(MutationResponse{Success: true, Results: []Result{{Success: true, ID: "5"}}})
		case r.URL.Path == "/api/records/broken/query":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()

	c, err := NewRemote(RemoteConfig{BaseURL: srv.URL + "/api/records/", ProjectID: "proj", PublicKey: "key"}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	fetched, err := c.FetchRecords(ctx, "deal", Query{Fields: []string{"title"}})
	require.NoError(t, err)
	require.Len(t, fetched.Data, 1)
	assert.Equal(t, "Acme", fetched.Data[0].String("title"))

	got, err := c.GetRecordByID(ctx, "deal", "1", []string{"title", "stage"})
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID())

	missing, err := c.GetRecordByID(ctx, "deal", "2", nil)
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := c.CreateRecords(ctx, "deal", []Record{{"title": "New"}})
	require.NoError(t, err)
	require.Len(t, created.Succeeded(), 1)
	assert.Equal(t, "5", created.Results[0].ID)

	deleted, err := c.DeleteRecords(ctx, "deal", []string{"5"})
	require.NoError(t, err)
	assert.True(t, deleted.Results[0].Success)

	_, err = c.FetchRecords(ctx, "broken", Query{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)

	assert.Contains(t, seen, "POST /api/records/deal/query")
}

func TestRemote_EscapesPathOnce(t *testing.T) {
	var uris []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uris = append(uris, r.RequestURI)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": Record{"Id": "a b/c"}})
	}))
	defer srv.Close()

	c, err := NewRemote(RemoteConfig{BaseURL: srv.URL + "/api/records", ProjectID: "proj", PublicKey: "key"}, nil)
	require.NoError(t, err)

	got, err := c.GetRecordByID(context.Background(), "my table", "a b/c", nil)
	require.NoError(t, err)
	assert.Equal(t, "a b/c", got.ID())
	require.Len(t, uris, 1)
	assert.Equal(t, "/api/records/my%20table/a%20b%2Fc", uris[0])
}
