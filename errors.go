package social

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside the envelope message.
const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeSessionNotFound = "SESSION_NOT_FOUND"
	TextCodeTooManyAttempts = "TOO_MANY_ATTEMPTS"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrMismatchedHashAndPassword is returned on bad credentials. We use the
// same error for unknown identifiers so login does not leak account existence.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when an account is in cool down
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrNoEmptyString rejects empty secrets before they reach bcrypt
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryValidation)

// ErrTokenExpired is returned for tokens whose embedded expiry has passed
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures and undecodable payloads
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is the error when the request carries no credential
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode JWT claims from the request
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToParseData parse error
var ErrUnableToParseData = errors.New("unable to parse data", errors.CategoryBadInput)

// Domain errors. Messages keep the exact strings the original API emitted,
// clients key off them.

var ErrEmailTaken = errors.New("Email already exists", errors.CategoryConflict).
	WithCode(errors.CodeConflict)

var ErrHandleTaken = errors.New("That handle already exists", errors.CategoryConflict).
	WithCode(errors.CodeConflict)

var ErrProfileNotFound = errors.New("There is no profile for this user", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

var ErrPostNotFound = errors.New("No post found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

var ErrEntryNotFound = errors.New("Entry not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

var ErrNotResourceOwner = errors.New("User unauthorized", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden)

var ErrSelfSubscribe = errors.New("Can not subscribe to yourself", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

var ErrAlreadySubscribed = errors.New("User already subscribed", errors.CategoryConflict).
	WithCode(errors.CodeConflict)

var ErrNotSubscribed = errors.New("User is not subscribed", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

var ErrAlreadyLiked = errors.New("User already liked this post", errors.CategoryConflict).
	WithCode(errors.CodeConflict)

var ErrNotLiked = errors.New("User has not yet liked this post", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
