package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/logger"
)

type recorded struct {
	method string
	path   string
	query  string
	body   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recorded
	respond  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{r.Method, r.URL.Path, r.URL.RawQuery, string(body)})
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	f.respond(w, r)
}

func (f *fakeAPI) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestGateway(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*Gateway, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{respond: respond}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	g, err := New(context.Background(), logger.Nop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return g, api
}

func TestFindContainer(t *testing.T) {
	g, api := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"files":[{"id":"sheet-1","name":"Tally"}]}`)
	})

	id, found, err := g.FindContainer(context.Background(), "Tally")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "sheet-1", id)

	req := api.last()
	assert.Equal(t, http.MethodGet, req.method)
	assert.True(t, strings.HasSuffix(req.path, "/files"), req.path)
	assert.Contains(t, req.query, "trashed")
}

func TestFindContainer_NoneFound(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"files":[]}`)
	})

	_, found, err := g.FindContainer(context.Background(), "Tally")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReadRange_ConvertsCells(t *testing.T) {
	g, api := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"range":"Sessions!A1:G2","majorDimension":"ROWS","values":[
			["sync_id","name","start_time","end_time","activity_ids","updated_at","deleted_at"],
			["s2","Run",1000,"2000","[\"a1\"]",1500000000000]
		]}`)
	})

	rows, err := g.ReadRange(context.Background(), "sheet-1", "Sessions!A1:G")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"s2", "Run", "1000", "2000", `["a1"]`, "1500000000000"}, rows[1])
	assert.Contains(t, api.last().path, "/values/")
}

func TestWriteRange_SendsRawValues(t *testing.T) {
	g, api := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"updatedRows":2}`)
	})

	err := g.WriteRange(context.Background(), "sheet-1", "Activities!A1:H", [][]string{
		{"sync_id", "name"},
		{"a1", "0012"},
	})
	require.NoError(t, err)

	req := api.last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Contains(t, req.query, "valueInputOption=RAW")

	var body struct {
		Values [][]string `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(req.body), &body))
	assert.Equal(t, [][]string{{"sync_id", "name"}, {"a1", "0012"}}, body.Values)
}

func TestListTablesAndCreateTable(t *testing.T) {
	g, api := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `{"sheets":[{"properties":{"title":"Activities"}}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)
	})
	ctx := context.Background()

	tables, err := g.ListTables(ctx, "sheet-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Activities"}, tables)

	require.NoError(t, g.CreateTable(ctx, "sheet-1", "Sessions"))
	req := api.last()
	assert.True(t, strings.HasSuffix(req.path, ":batchUpdate"), req.path)
	assert.Contains(t, req.body, `"title":"Sessions"`)
}

func TestCreateContainer(t *testing.T) {
	g, api := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"spreadsheetId":"new-sheet"}`)
	})

	id, err := g.CreateContainer(context.Background(), "Tally", []string{"Activities", "Sessions"})
	require.NoError(t, err)
	assert.Equal(t, "new-sheet", id)
	body := api.last().body
	assert.Contains(t, body, `"title":"Tally"`)
	assert.Contains(t, body, `"title":"Activities"`)
	assert.Contains(t, body, `"title":"Sessions"`)
}

func TestErrorsWrapGatewayFailure(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"denied"}}`)
	})
	ctx := context.Background()

	_, err := g.ReadRange(ctx, "sheet-1", "Activities!A1:H")
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.ErrorIs(t, g.ClearRange(ctx, "sheet-1", "Activities!A1:H"), domain.ErrGateway)
	_, _, err = g.FindContainer(ctx, "Tally")
	assert.ErrorIs(t, err, domain.ErrGateway)
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `Bob\'s \\ sheet`, escapeQuery(`Bob's \ sheet`))
}

func TestClientOptions(t *testing.T) {
	assert.Len(t, ClientOptions(""), 1)
	assert.Len(t, ClientOptions(`{"type":"service_account"}`), 2)
	assert.Len(t, ClientOptions("/etc/tally/creds.json"), 2)
}
