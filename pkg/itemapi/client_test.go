package itemapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
)

func respond(status int, body string) roundTripFunc {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}, nil
	}
}

func TestClientFetchRequest(t *testing.T) {
	const expectedURL = "http://shop.test/rest/io/variations/1001?template=Ceres%3A%3AItem.SingleItem"
	respBody := `{"documents":[{"id":1001,"data":{"variation":{"id":1001,"minimumOrderQuantity":2},"prices":{"default":{"minimumOrderQuantity":0,"unitPrice":{"value":12.5}}}}}]}`

	var capturedURL string
	var capturedHeaders http.Header
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()
		return respond(http.StatusOK, respBody)(req)
	})

	client, err := NewClient("http://shop.test/", WithHTTPClient(&http.Client{Transport: rt}), WithLanguage("de"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	got, err := client.Fetch(context.Background(), 1001)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("Accept-Language") != "de" {
		t.Fatalf("language header missing")
	}
	if got.VariationID != 1001 {
		t.Fatalf("expected variation id to default to the requested id, got %d", got.VariationID)
	}
	primary := got.Primary()
	if primary == nil || primary.Prices.Default == nil {
		t.Fatalf("expected default price in payload")
	}
	if primary.Prices.Default.UnitPrice.Value.String() != "12.5" {
		t.Fatalf("unexpected default price %s", primary.Prices.Default.UnitPrice.Value)
	}
	if primary.Variation.MinimumOrderQuantity.IntPart() != 2 {
		t.Fatalf("unexpected minimum order quantity %s", primary.Variation.MinimumOrderQuantity)
	}
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name string
		rt   roundTripFunc
		code pkgerrors.Code
	}{
		{"not found", respond(http.StatusNotFound, ""), pkgerrors.CodeNotFound},
		{"server error", respond(http.StatusBadGateway, "upstream down"), pkgerrors.CodeDependency},
		{"bad json", respond(http.StatusOK, "{"), pkgerrors.CodeDependency},
		{"no documents", respond(http.StatusOK, `{"documents":[]}`), pkgerrors.CodeNotFound},
		{"transport", func(*http.Request) (*http.Response, error) { return nil, errors.New("dial tcp: refused") }, pkgerrors.CodeDependency},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient("http://shop.test", WithHTTPClient(&http.Client{Transport: tc.rt}))
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.Fetch(context.Background(), 7)
			if !pkgerrors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestClientFetchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})
	client, err := NewClient("http://shop.test", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Fetch(ctx, 7)
	if !pkgerrors.IsCode(err, pkgerrors.CodeCanceled) {
		t.Fatalf("expected canceled error, got %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
