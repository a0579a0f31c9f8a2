package catalog

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"autoparts/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	path   string
	rawURI string
	accept string
	reqID  string
}

func newTestServer(t *testing.T, status int, body string) (*Client, *[]recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		requests = append(requests, recordedRequest{
			path:   r.URL.Path,
			rawURI: r.RequestURI,
			accept: r.Header.Get("Accept"),
			reqID:  r.Header.Get("X-Request-ID"),
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/api/"}), &requests
}

func TestBrandsDecodesArray(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `[{"id":1,"name":"Renault"},{"id":2,"name":"Peugeot"}]`)

	brands, err := client.Brands(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.Brand{{ID: 1, Name: "Renault"}, {ID: 2, Name: "Peugeot"}}, brands)
	require.Len(t, *requests, 1)
	assert.Equal(t, "/api/brands", (*requests)[0].path)
	assert.Equal(t, "application/json", (*requests)[0].accept)
	assert.NotEmpty(t, (*requests)[0].reqID)
}

func TestNonArrayPayloadYieldsEmptyList(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{"error":"not found"}`)

	brands, err := client.Brands(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)
}

func TestNonSuccessStatusIsHTTPError(t *testing.T) {
	client, _ := newTestServer(t, http.StatusServiceUnavailable, `[]`)

	_, err := client.Models(context.Background(), 1)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
}

func TestInvalidJSONIsDecodeError(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `<html>oops</html>`)

	_, err := client.Generations(context.Background(), 10)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestWrongElementShapeIsDecodeError(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `[{"id":"x","name":"IV"}]`)

	_, err := client.Generations(context.Background(), 10)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestStagePaths(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `[]`)
	ctx := context.Background()

	_, err := client.Models(ctx, 1)
	require.NoError(t, err)
	_, err = client.Generations(ctx, 10)
	require.NoError(t, err)
	_, err = client.FuelTypes(ctx, 100)
	require.NoError(t, err)
	_, err = client.CompatibleProducts(ctx, 1000, model.CategoryEngineOil)
	require.NoError(t, err)

	var paths []string
	for _, r := range *requests {
		paths = append(paths, r.path)
	}
	assert.Equal(t, []string{
		"/api/models/1",
		"/api/generations/10",
		"/api/fuel-types/100",
		"/api/products/1000/huiles-moteur",
	}, paths)
}

func TestCategorySegmentIsEscaped(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `[]`)

	_, err := client.CompatibleProducts(context.Background(), 5, "pièces/autres")

	require.NoError(t, err)
	require.Len(t, *requests, 1)
	assert.Equal(t, "/api/products/5/pi%C3%A8ces%2Fautres", (*requests)[0].rawURI)
}

func TestFuelTypesKeepEmbeddedNames(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `[
		{"id":1000,"fuel":"Diesel","brand":"Renault","model":"Clio","generation":"IV"},
		{"id":1001,"fuel":"Essence"}
	]`)

	fuels, err := client.FuelTypes(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, fuels, 2)
	assert.Equal(t, "Diesel", fuels[0].Label)
	require.NotNil(t, fuels[0].Brand)
	assert.Equal(t, "Renault", *fuels[0].Brand)
	assert.Nil(t, fuels[1].Brand)
	assert.Nil(t, fuels[1].Generation)
}

func TestCompatibleProductsSkipsRequestWithoutInputs(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `[]`)

	products, err := client.CompatibleProducts(context.Background(), 0, model.CategoryWipers)
	require.NoError(t, err)
	assert.Empty(t, products)

	products, err = client.CompatibleProducts(context.Background(), 1000, "")
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.Empty(t, *requests)
}

func TestCompatibleProductsNormalizes(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `[
		{"id":1,"name":"Bosch Aerotwin","brand":"Bosch","image":"a.jpg","price":19.9,"specs":["600mm","450mm"]},
		{"id":"2","name":"Valeo","brand":"Valeo","image":"b.jpg","price":" 12.50 ","specs":"none"},
		{"id":3,"name":"Generic","brand":"X","image":"c.jpg","price":"abc"},
		{"id":4,"name":"Null","brand":"Y","image":"d.jpg","price":null,"specs":[null,3,"ok"]}
	]`)

	products, err := client.CompatibleProducts(context.Background(), 1000, model.CategoryWipers)

	require.NoError(t, err)
	require.Len(t, products, 4)

	assert.Equal(t, int64(1), products[0].ID)
	assert.True(t, decimal.RequireFromString("19.9").Equal(products[0].Price))
	assert.Equal(t, []string{"600mm", "450mm"}, products[0].Specs)

	assert.Equal(t, int64(2), products[1].ID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(products[1].Price))
	assert.Equal(t, []string{}, products[1].Specs)

	assert.True(t, products[2].Price.IsZero())
	assert.Equal(t, []string{}, products[2].Specs)

	assert.True(t, products[3].Price.IsZero())
	assert.Equal(t, []string{"3", "ok"}, products[3].Specs)
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`42`, "42"},
		{`4.2e1`, "42"},
		{`"7.30"`, "7.3"},
		{`""`, "0"},
		{`true`, "1"},
		{`false`, "0"},
		{`null`, "0"},
		{`{"amount":3}`, "0"},
		{``, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := normalizePrice([]byte(tt.raw))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestProductImageIsCached(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/static/images/products/wiper.png", r.URL.Path)
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Options{BaseURL: srv.URL + "/api", AssetBaseURL: srv.URL + "/static"})

	first, err := client.ProductImage(context.Background(), "wiper.png")
	require.NoError(t, err)
	second, err := client.ProductImage(context.Background(), "wiper.png")
	require.NoError(t, err)

	assert.Equal(t, 2, first.Bounds().Dx())
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestProductImageWithoutName(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://127.0.0.1:1"})

	_, err := client.ProductImage(context.Background(), "")

	assert.Error(t, err)
}

func TestRateLimitedClientStillServes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Options{BaseURL: srv.URL, RateLimit: 100})

	for i := 0; i < 3; i++ {
		_, err := client.Brands(context.Background())
		require.NoError(t, err)
	}
}
