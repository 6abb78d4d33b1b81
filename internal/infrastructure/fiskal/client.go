package fiskal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fixed failure messages surfaced to the ERP operator.
const (
	ErrMsgFiskalPrint    = "FPRINT: GREŠKA pri štampanju fiskalnog računa!"
	ErrMsgFiskalDuplikat = "FPRINT: GREŠKA duplikat!"
)

// BlockingLevelError marks a failure that blocks the document in the ERP.
const BlockingLevelError = "error"

// DefaultTimeout bounds the fiscal server round trip. The device can take a
// few seconds to print, so this stays generous.
const DefaultTimeout = 30 * time.Second

// SubmitResult is the interpreted outcome of a submission attempt.
type SubmitResult struct {
	Success       bool
	InvoiceNumber string          // fiscal receipt number, on success
	Raw           json.RawMessage // response body verbatim, persisted as attachment
	ErrorMessage  string          // business rejection or fixed transport message
	BlockingLevel string          // "error" on any failure
}

// FiscalSubmitter is the outbound port to the fiscal server. The concrete
// implementation speaks HTTP; tests inject a fake.
type FiscalSubmitter interface {
	// Submit POSTs the document to {host}/api/invoices with bearer auth.
	// A non-nil error means the call never produced an interpretable
	// response (network failure, cancellation); server rejections come back
	// inside SubmitResult.
	Submit(ctx context.Context, host, apiKey string, req *InvoiceRequestEnvelope) (*SubmitResult, error)

	// Duplicate asks the server to re-print an issued receipt via
	// GET {host}/{pin}/duplikat/{F|R}/{receiptNumber}.
	Duplicate(ctx context.Context, host, pin, receiptType, receiptNumber string) (bool, error)
}

// HTTPFiscalClient implements FiscalSubmitter over net/http. One attempt per
// call; the caller decides whether to re-invoke.
type HTTPFiscalClient struct {
	httpClient *http.Client
}

var _ FiscalSubmitter = (*HTTPFiscalClient)(nil)

// NewHTTPFiscalClient builds the client. timeout <= 0 falls back to
// DefaultTimeout.
func NewHTTPFiscalClient(timeout time.Duration) *HTTPFiscalClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFiscalClient{httpClient: &http.Client{Timeout: timeout}}
}

// fiscalResponse is the subset of the server response the client interprets.
// The raw body is preserved separately.
type fiscalResponse struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Message       string `json:"message"`
	Status        string `json:"status"`
}

// Submit implements FiscalSubmitter.
func (c *HTTPFiscalClient) Submit(ctx context.Context, host, apiKey string, req *InvoiceRequestEnvelope) (*SubmitResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("fiskal: serijalizacija zahtjeva: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, host+"/api/invoices", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("fiskal: kreiranje zahtjeva: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fiskal: timeout ili prekid: %w", ctx.Err())
		}
		return nil, fmt.Errorf("fiskal: HTTP poziv neuspješan: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("fiskal: čitanje odgovora: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &SubmitResult{
			Success:       false,
			Raw:           rawBody,
			ErrorMessage:  ErrMsgFiskalPrint,
			BlockingLevel: BlockingLevelError,
		}, nil
	}

	var parsed fiscalResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return &SubmitResult{
			Success:       false,
			Raw:           rawBody,
			ErrorMessage:  ErrMsgFiskalPrint,
			BlockingLevel: BlockingLevelError,
		}, nil
	}

	if parsed.InvoiceNumber == "" {
		// HTTP 200 but the server declined the document; surface its message.
		msg := parsed.Message
		if msg == "" {
			msg = ErrMsgFiskalPrint
		}
		return &SubmitResult{
			Success:       false,
			Raw:           rawBody,
			ErrorMessage:  msg,
			BlockingLevel: BlockingLevelError,
		}, nil
	}

	return &SubmitResult{
		Success:       true,
		InvoiceNumber: parsed.InvoiceNumber,
		Raw:           rawBody,
	}, nil
}

// Duplicate implements FiscalSubmitter. Success is signaled by the response
// field status == "OK".
func (c *HTTPFiscalClient) Duplicate(ctx context.Context, host, pin, receiptType, receiptNumber string) (bool, error) {
	url := fmt.Sprintf("%s/%s/duplikat/%s/%s", host, pin, receiptType, receiptNumber)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("fiskal: kreiranje zahtjeva: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("fiskal: HTTP poziv neuspješan: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("fiskal: čitanje odgovora: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return false, errors.New(ErrMsgFiskalDuplikat)
	}
	var parsed fiscalResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return false, errors.New(ErrMsgFiskalDuplikat)
	}
	if parsed.Status != "OK" {
		return false, errors.New(ErrMsgFiskalDuplikat)
	}
	return true, nil
}
