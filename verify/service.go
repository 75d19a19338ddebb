// Package verify implements the payment-verification relay: it checks a
// client-claimed payment against the gateway's authoritative record, issues
// tracking numbers for confirmed orders, and handles the audit and
// notification side effects.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"snow-backend/config"
	"snow-backend/models"
	"snow-backend/paystack"
)

const expectedCurrency = "NGN"

// Gateway fetches the authoritative transaction record for a reference.
type Gateway interface {
	Verify(ctx context.Context, reference string) (*paystack.Transaction, error)
}

// Mailer sends the order-confirmation email. Configured reports whether an
// SMTP transport is available at all.
type Mailer interface {
	Configured() bool
	SendOrderEmail(to, reference string, amountKobo int64, trackingNumbers []string) error
}

// Notifier posts a failure entry to the operator webhook.
type Notifier interface {
	Post(entry any) error
}

// AuditLog appends one record to an append-only log.
type AuditLog interface {
	Append(v any) error
}

type Deps struct {
	Config     *config.Config
	Gateway    Gateway
	DB         *gorm.DB
	Mailer     Mailer
	Notifier   Notifier
	SuccessLog AuditLog
	FailureLog AuditLog
	EmailLog   AuditLog
	Logger     *log.Logger
}

// Service is the relay core. All dependencies are injected at startup; the
// service keeps no other state beyond the WaitGroup that tracks in-flight
// best-effort side effects.
type Service struct {
	cfg        *config.Config
	gateway    Gateway
	db         *gorm.DB
	mailer     Mailer
	notifier   Notifier
	successLog AuditLog
	failureLog AuditLog
	emailLog   AuditLog
	logger     *log.Logger

	wg sync.WaitGroup
}

func NewService(d Deps) *Service {
	return &Service{
		cfg:        d.Config,
		gateway:    d.Gateway,
		db:         d.DB,
		mailer:     d.Mailer,
		notifier:   d.Notifier,
		successLog: d.SuccessLog,
		failureLog: d.FailureLog,
		emailLog:   d.EmailLog,
		logger:     d.Logger,
	}
}

// VerifyInput is one verification request. ExpectedAmount is what the client
// believes it charged, in the major currency unit (naira); the service rounds
// it into kobo before comparing with the gateway record.
type VerifyInput struct {
	Reference      string
	ExpectedAmount float64
	EmailHint      string
}

// Result is the relay's answer for a confirmed payment.
type Result struct {
	Reference       string
	Amount          int64
	Currency        string
	CustomerEmail   string
	TrackingNumbers []string
}

// CallerResult is the callable variant's answer: the verified transaction
// summary, with no tracking numbers issued.
type CallerResult struct {
	Reference     string
	Amount        int64
	Currency      string
	PaidAt        string
	CustomerEmail string
}

// FailureReport is a client-reported verification failure, accepted verbatim
// for logging and alerting.
type FailureReport struct {
	Reference        string
	ExpectedAmount   *float64
	ErrorText        string
	OriginalResponse json.RawMessage
}

// Verify runs the full relay pipeline: validate, fetch the gateway record,
// check status/currency/amount, issue the tracking batch, then fan out the
// best-effort side effects (confirmation email, audit entries, failure
// webhook).
func (s *Service) Verify(ctx context.Context, in VerifyInput) (*Result, error) {
	txn, verr := s.check(ctx, in)
	if verr != nil {
		s.recordFailure(strings.TrimSpace(in.Reference), txn, verr)
		return nil, verr
	}

	reference := strings.TrimSpace(in.Reference)
	customerEmail := txn.CustomerEmail
	if customerEmail == "" {
		customerEmail = strings.TrimSpace(in.EmailHint)
	}

	numbers, created, err := s.issueTracking(reference, txn.Amount, customerEmail)
	if err != nil {
		return nil, internal("tracking issuance failed: " + err.Error())
	}

	// The email goes out once per issued batch, not once per verify call.
	if created && customerEmail != "" && s.mailer != nil && s.mailer.Configured() {
		to := customerEmail
		amount := txn.Amount
		batch := numbers
		s.dispatch("order email", func() error {
			sendErr := s.mailer.SendOrderEmail(to, reference, amount, batch)
			entry := map[string]any{
				"time":            time.Now().UTC().Format(time.RFC3339),
				"to":              to,
				"reference":       reference,
				"amountInKobo":    amount,
				"trackingNumbers": batch,
			}
			if sendErr != nil {
				entry["error"] = sendErr.Error()
			}
			if logErr := s.emailLog.Append(entry); logErr != nil {
				s.logger.Printf("sent-email log append failed: %v", logErr)
			}
			return sendErr
		})
	}

	if err := s.successLog.Append(map[string]any{
		"time":            time.Now().UTC().Format(time.RFC3339),
		"reference":       reference,
		"amount":          txn.Amount,
		"customerEmail":   customerEmail,
		"trackingNumbers": numbers,
		"stage":           "verified-success",
	}); err != nil {
		s.logger.Printf("success log append failed: %v", err)
	}

	s.saveRecord(models.VerificationRecord{
		Reference:     reference,
		AmountKobo:    txn.Amount,
		Currency:      currencyOrDefault(txn.Currency),
		GatewayStatus: txn.Status,
		Outcome:       "verified-success",
		CustomerEmail: customerEmail,
	})

	return &Result{
		Reference:       reference,
		Amount:          txn.Amount,
		Currency:        currencyOrDefault(txn.Currency),
		CustomerEmail:   customerEmail,
		TrackingNumbers: numbers,
	}, nil
}

// VerifyForCaller is the trusted-client variant: the same validation and
// gateway checks, but no tracking issuance, no email and no audit writes.
func (s *Service) VerifyForCaller(ctx context.Context, in VerifyInput) (*CallerResult, error) {
	txn, verr := s.check(ctx, in)
	if verr != nil {
		return nil, verr
	}
	return &CallerResult{
		Reference:     strings.TrimSpace(in.Reference),
		Amount:        txn.Amount,
		Currency:      currencyOrDefault(txn.Currency),
		PaidAt:        txn.PaidAt,
		CustomerEmail: txn.CustomerEmail,
	}, nil
}

// ReportFailure records a client-reported verification failure. It succeeds
// once the log write lands; the webhook notification is best-effort.
func (s *Service) ReportFailure(_ context.Context, report FailureReport) error {
	reference := strings.TrimSpace(report.Reference)
	if reference == "" {
		return invalidArgument("missing-reference")
	}

	entry := map[string]any{
		"time":      time.Now().UTC().Format(time.RFC3339),
		"reference": reference,
		"error":     report.ErrorText,
	}
	if report.ExpectedAmount != nil {
		entry["expectedAmount"] = *report.ExpectedAmount
	} else {
		entry["expectedAmount"] = nil
	}
	if len(report.OriginalResponse) > 0 {
		entry["original"] = report.OriginalResponse
	} else {
		entry["original"] = nil
	}

	if err := s.failureLog.Append(entry); err != nil {
		return internal("failure log append failed: " + err.Error())
	}
	s.notifyAsync(entry)
	return nil
}

// Flush waits for all in-flight side effects (emails, webhooks) to finish.
// Tests and shutdown paths use it; request handling never does.
func (s *Service) Flush() {
	s.wg.Wait()
}

// check is the validation pipeline shared by the relay and the callable
// variant. It returns the gateway transaction alongside the failure so the
// relay can log what the gateway actually said.
func (s *Service) check(ctx context.Context, in VerifyInput) (*paystack.Transaction, *Error) {
	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		return nil, invalidArgument("missing-reference")
	}
	if !(in.ExpectedAmount > 0) {
		return nil, invalidArgument("invalid-expectedAmount")
	}
	if s.cfg.PaystackSecretKey == "" {
		return nil, &Error{
			Kind:    KindFailedPrecondition,
			Code:    "missing-env:PAYSTACK_SECRET_KEY",
			Message: "Paystack secret is not configured on the server",
		}
	}

	txn, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		var statusErr *paystack.StatusError
		var contractErr *paystack.ContractError
		switch {
		case errors.As(err, &statusErr):
			return nil, unavailable(statusErr.Message, statusErr.Body)
		case errors.As(err, &contractErr):
			return nil, unavailable(contractErr.Detail, contractErr.Body)
		default:
			return nil, unavailable(err.Error(), nil)
		}
	}

	if txn.Status != "success" {
		return txn, failedPrecondition("payment-not-successful",
			map[string]any{"status": txn.Status}, txn)
	}
	if txn.Currency != "" && txn.Currency != expectedCurrency {
		return txn, failedPrecondition("unexpected-currency",
			map[string]any{"currency": txn.Currency}, txn)
	}

	expected := expectedKobo(in.ExpectedAmount)
	if txn.Amount != expected {
		return txn, failedPrecondition("amount-mismatch",
			map[string]any{"amount": txn.Amount, "expectedAmount": expected}, txn)
	}

	return txn, nil
}

// issueTracking returns the batch for reference, creating it if none exists.
// Races on the same reference resolve at the unique index: the losing insert
// re-reads and returns the winner's batch.
func (s *Service) issueTracking(reference string, amountKobo int64, customerEmail string) ([]string, bool, error) {
	var existing models.TrackingBatch
	err := s.db.Where("reference = ?", reference).First(&existing).Error
	if err == nil {
		numbers, derr := existing.Numbers()
		return numbers, false, derr
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	numbers, err := generateTrackingNumbers(trackingBatchSize, time.Now())
	if err != nil {
		return nil, false, err
	}

	batch := models.TrackingBatch{
		Reference:     reference,
		AmountKobo:    amountKobo,
		CustomerEmail: customerEmail,
	}
	if err := batch.SetNumbers(numbers); err != nil {
		return nil, false, err
	}

	if err := s.db.Create(&batch).Error; err != nil {
		if ferr := s.db.Where("reference = ?", reference).First(&existing).Error; ferr == nil {
			stored, derr := existing.Numbers()
			return stored, false, derr
		}
		return nil, false, err
	}
	return numbers, true, nil
}

// recordFailure handles the relay's failure side effects. Gateway errors and
// unsuccessful payments are appended to the failure log and pushed to the
// webhook for manual follow-up; every post-gateway outcome also lands a
// VerificationRecord row.
func (s *Service) recordFailure(reference string, txn *paystack.Transaction, verr *Error) {
	record := models.VerificationRecord{
		Reference: reference,
		Outcome:   verr.Code,
		Detail:    verr.Message,
	}
	if txn != nil {
		record.AmountKobo = txn.Amount
		record.Currency = txn.Currency
		record.GatewayStatus = txn.Status
		record.CustomerEmail = txn.CustomerEmail
	}

	switch verr.Code {
	case "paystack-verify-failed":
		entry := map[string]any{
			"time":      time.Now().UTC().Format(time.RFC3339),
			"reference": reference,
			"error":     verr.Message,
			"stage":     "paystack-http-error",
			"original":  rawOrNil(verr.original),
		}
		if err := s.failureLog.Append(entry); err != nil {
			s.logger.Printf("failure log append failed: %v", err)
		}
		s.notifyAsync(entry)
		s.saveRecord(record)
	case "payment-not-successful":
		entry := map[string]any{
			"time":      time.Now().UTC().Format(time.RFC3339),
			"reference": reference,
			"status":    record.GatewayStatus,
			"stage":     "payment-not-successful",
			"original":  verr.original,
		}
		if err := s.failureLog.Append(entry); err != nil {
			s.logger.Printf("failure log append failed: %v", err)
		}
		s.notifyAsync(entry)
		s.saveRecord(record)
	case "unexpected-currency", "amount-mismatch":
		s.saveRecord(record)
	}
	// Input and configuration errors never reached the gateway; nothing to
	// record for them.
}

func (s *Service) saveRecord(record models.VerificationRecord) {
	if err := s.db.Create(&record).Error; err != nil {
		s.logger.Printf("verification record save failed: %v", err)
	}
}

func (s *Service) notifyAsync(entry map[string]any) {
	if s.notifier == nil {
		return
	}
	s.dispatch("failure webhook", func() error {
		return s.notifier.Post(entry)
	})
}

// dispatch runs a best-effort side effect on its own goroutine. Failures are
// logged and never reach the caller.
func (s *Service) dispatch(label string, fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(); err != nil {
			s.logger.Printf("%s failed: %v", label, err)
		}
	}()
}

// expectedKobo converts the client's naira amount into the smallest currency
// unit; all comparison against the gateway happens in kobo.
func expectedKobo(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return expectedCurrency
	}
	return currency
}

func rawOrNil(original any) any {
	if b, ok := original.(json.RawMessage); ok {
		if len(b) == 0 || !json.Valid(b) {
			return nil
		}
		return b
	}
	return original
}
