package drive

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/driveaccess/internal/i18n"
	goerrors "github.com/goliatone/go-errors"
	"google.golang.org/api/googleapi"
)

// User-facing failure messages, as i18n catalog keys.
const (
	MsgBadAddress = i18n.MsgBadAddress
	MsgDenied     = i18n.MsgDenied
	MsgNetwork    = i18n.MsgNetwork
	MsgGeneric    = i18n.MsgGeneric
)

type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindTransient
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransient:
		return "transient"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func (k Kind) retryable() bool {
	return k == KindTransient || k == KindUnknown
}

// GrantFailure is the categorized outcome of a failed GrantAccess call.
// UserMessage is safe to show; Cause is for logs only.
type GrantFailure struct {
	Kind        Kind
	Reason      string
	UserMessage string
	Attempts    int
	Status      int
	Cause       error
}

func (f *GrantFailure) Error() string {
	return fmt.Sprintf("drive grant failed: %s/%s after %d attempt(s): %v", f.Kind, f.Reason, f.Attempts, f.Cause)
}

func (f *GrantFailure) Unwrap() error {
	return f.Cause
}

// ToServiceError renders the failure as a go-errors envelope for operator logs.
func (f *GrantFailure) ToServiceError() *goerrors.Error {
	var category goerrors.Category
	code := http.StatusBadGateway
	switch {
	case f.Kind == KindConfiguration:
		category, code = goerrors.CategoryInternal, http.StatusInternalServerError
	case f.Reason == "rate_limited":
		category, code = goerrors.CategoryRateLimit, http.StatusTooManyRequests
	case f.Reason == "bad_address":
		category, code = goerrors.CategoryBadInput, http.StatusBadRequest
	case f.Reason == "forbidden":
		category, code = goerrors.CategoryAuthz, http.StatusForbidden
	default:
		category = goerrors.CategoryExternal
	}

	metadata := map[string]any{
		"kind":     f.Kind.String(),
		"attempts": f.Attempts,
	}
	if f.Status != 0 {
		metadata["status"] = f.Status
	}

	textCode := "DRIVE_" + strings.ToUpper(f.Reason)
	if f.Cause == nil {
		return goerrors.New(f.UserMessage, category).
			WithCode(code).
			WithTextCode(textCode).
			WithMetadata(metadata)
	}
	return goerrors.Wrap(f.Cause, category, f.UserMessage).
		WithCode(code).
		WithTextCode(textCode).
		WithMetadata(metadata)
}

var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":        true,
	"userRateLimitExceeded":    true,
	"sharingRateLimitExceeded": true,
}

func isConflict(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusConflict
}

// classify maps one failed permission-create call to a failure record.
// Attempts is filled in by the caller.
func classify(err error) *GrantFailure {
	f := &GrantFailure{Cause: err}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		f.Status = gerr.Code
		switch {
		case gerr.Code == http.StatusTooManyRequests:
			f.Kind, f.Reason, f.UserMessage = KindTransient, "rate_limited", MsgNetwork
		case gerr.Code >= 500:
			f.Kind, f.Reason, f.UserMessage = KindTransient, "server_error", MsgNetwork
		case gerr.Code == http.StatusForbidden && hasRateLimitReason(gerr):
			f.Kind, f.Reason, f.UserMessage = KindTransient, "rate_limited", MsgNetwork
		case gerr.Code == http.StatusForbidden:
			f.Kind, f.Reason, f.UserMessage = KindRejected, "forbidden", MsgDenied
		case gerr.Code == http.StatusBadRequest, gerr.Code == http.StatusNotFound:
			f.Kind, f.Reason, f.UserMessage = KindRejected, "bad_address", MsgBadAddress
		default:
			f.Kind, f.Reason, f.UserMessage = KindUnknown, "unexpected_status", MsgGeneric
		}
		return f
	}

	if isNetworkError(err) {
		f.Kind, f.Reason, f.UserMessage = KindTransient, "network", MsgNetwork
		return f
	}

	f.Kind, f.Reason, f.UserMessage = KindUnknown, "unexpected", MsgGeneric
	return f
}

func hasRateLimitReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if rateLimitReasons[item.Reason] {
			return true
		}
	}
	return false
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var (
		recordErr tls.RecordHeaderError
		certErr   *tls.CertificateVerificationError
		unknownCA x509.UnknownAuthorityError
	)
	if errors.As(err, &recordErr) || errors.As(err, &certErr) || errors.As(err, &unknownCA) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "timed out")
}
