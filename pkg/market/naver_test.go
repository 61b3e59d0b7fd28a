package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/pji114/jusik/internal/model"
)

const moversPage = `<!DOCTYPE html>
<html><body>
<table class="type_2">
<tr><th>N</th><th>Name</th><th>Price</th><th>Diff</th><th>Change</th><th>Volume</th></tr>
<tr><td colspan="6"></td></tr>
<tr>
  <td>1</td>
  <td><a href="/item/main.naver?code=000001">Hanbit Software</a></td>
  <td>12,350</td><td>2,850</td><td>+29.97%</td><td>1,234,567</td>
  <td></td><td></td><td></td><td></td>
</tr>
<tr>
  <td>2</td>
  <td><a href="/item/main.naver?code=000002">Daehan Steel</a></td>
  <td>8,990</td><td>1,020</td><td>+12.80%</td><td>456,789</td>
  <td></td><td></td><td></td><td></td>
</tr>
<tr>
  <td>3</td>
  <td><a href="/item/main.naver?code=000002b">Daehan Steel</a></td>
  <td>8,990</td><td>1,020</td><td>+12.80%</td><td>456,789</td>
  <td></td><td></td><td></td><td></td>
</tr>
<tr>
  <td>4</td>
  <td><a href="/item/main.naver?code=000003">Mirae Bio</a></td>
  <td>3,145</td><td>160</td><td>+5.36%</td><td>89,120</td>
  <td></td><td></td><td></td><td></td>
</tr>
</table>
</body></html>`

func newTestClient(srv *httptest.Server) *NaverClient {
	return NewNaverClient(srv.URL, 5*time.Second)
}

func TestFetchMoversParsesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sise/sise_rise.naver", r.URL.Path)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(moversPage))
	}))
	defer srv.Close()

	records, err := newTestClient(srv).FetchMovers(context.Background(), model.DirectionRising, 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(records))

	first := records[0]
	assert.Equal(t, "Hanbit Software", first.Name)
	assert.Equal(t, "12350", first.Price.String())
	assert.Equal(t, "29.97", first.ChangePercent.String())
	assert.Equal(t, int64(1234567), first.Volume)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, srv.URL+"/item/main.naver?code=000001", first.Link)

	// Source order preserved, duplicate name skipped, ranks sequential.
	assert.Equal(t, "Daehan Steel", records[1].Name)
	assert.Equal(t, "Mirae Bio", records[2].Name)
	assert.Equal(t, 2, records[1].Rank)
	assert.Equal(t, 3, records[2].Rank)
}

func TestFetchMoversHonorsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(moversPage))
	}))
	defer srv.Close()

	records, err := newTestClient(srv).FetchMovers(context.Background(), model.DirectionRising, 2)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(records))
}

func TestFetchMoversFallingUsesFallPage(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(moversPage))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchMovers(context.Background(), model.DirectionFalling, 1)

	assert.Equal(t, nil, err)
	assert.Equal(t, "/sise/sise_fall.naver", gotPath)
}

func TestFetchMoversUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchMovers(context.Background(), model.DirectionRising, 5)

	assert.Equal(t, true, errors.Is(err, ErrUpstream))
}

func TestFetchMoversSchemaDrift(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div>redesigned page</div></body></html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchMovers(context.Background(), model.DirectionRising, 5)

	assert.Equal(t, true, errors.Is(err, ErrUpstream))
}

func TestFetchMoversEmptyTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><table class="type_2"><tr><th>Name</th></tr></table></body></html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchMovers(context.Background(), model.DirectionRising, 5)

	assert.Equal(t, true, errors.Is(err, ErrEmpty))
}
