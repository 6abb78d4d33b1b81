package fiskal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrafiskal "github.com/bringout/fiskal-api/internal/infrastructure/fiskal"
)

func sampleEnvelope() *infrafiskal.InvoiceRequestEnvelope {
	return &infrafiskal.InvoiceRequestEnvelope{
		InvoiceRequest: infrafiskal.InvoiceRequest{
			ErpDocument:     "INV/2025/00001",
			InvoiceType:     infrafiskal.InvoiceTypeNormal,
			TransactionType: infrafiskal.TransactionTypeSale,
			Cashier:         infrafiskal.DefaultCashier,
		},
	}
}

func TestSubmit_Success(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/invoices", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"invoiceNumber": "123", "status": "OK"}`))
	}))
	defer srv.Close()

	client := infrafiskal.NewHTTPFiscalClient(5 * time.Second)
	res, err := client.Submit(context.Background(), srv.URL, "test-key", sampleEnvelope())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "123", res.InvoiceNumber)
	assert.NotEmpty(t, res.Raw)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Contains(t, gotBody, "invoiceRequest")
}

// An HTTP 200 without an invoiceNumber is a business rejection; the device
// message is surfaced verbatim.
func TestSubmit_BusinessFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message": "duplicate"}`))
	}))
	defer srv.Close()

	client := infrafiskal.NewHTTPFiscalClient(5 * time.Second)
	res, err := client.Submit(context.Background(), srv.URL, "test-key", sampleEnvelope())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, "duplicate", res.ErrorMessage)
	assert.Equal(t, infrafiskal.BlockingLevelError, res.BlockingLevel)
}

func TestSubmit_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := infrafiskal.NewHTTPFiscalClient(5 * time.Second)
	res, err := client.Submit(context.Background(), srv.URL, "test-key", sampleEnvelope())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, infrafiskal.ErrMsgFiskalPrint, res.ErrorMessage)
}

func TestDuplicate_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/4200000000001/duplikat/F/123", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "OK"}`))
	}))
	defer srv.Close()

	client := infrafiskal.NewHTTPFiscalClient(5 * time.Second)
	ok, err := client.Duplicate(context.Background(), srv.URL, "4200000000001", "F", "123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDuplicate_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ERROR"}`))
	}))
	defer srv.Close()

	client := infrafiskal.NewHTTPFiscalClient(5 * time.Second)
	ok, err := client.Duplicate(context.Background(), srv.URL, "4200000000001", "R", "55")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, infrafiskal.ErrMsgFiskalDuplikat, err.Error())
}
