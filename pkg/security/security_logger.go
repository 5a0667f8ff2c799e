package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventMisconfigured      EventType = "auth_misconfigured"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventLoginFailed        EventType = "login_failed"
	EventLoginSuccess       EventType = "login_success"
	EventRegistered         EventType = "user_registered"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time      `json:"timestamp"`
	Event        EventType      `json:"event"`
	SubjectType  string         `json:"subject_type,omitempty"`  // "email", "ip"
	SubjectValue string         `json:"subject_value,omitempty"` // masked for PII
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// SecurityLogger writes security events through zap
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultLogger *SecurityLogger
	defaultMu     sync.Mutex
)

// NewSecurityLogger builds a logger around an existing zap logger.
func NewSecurityLogger(zl *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: zl, serviceName: serviceName, environment: environment}
}

// InitSecurityLogger initializes the process-wide security logger with Zap
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	sl := NewSecurityLogger(logger, serviceName, environment)
	SetDefault(sl)
	return sl
}

// SetDefault replaces the process-wide logger. Tests use it with an observer core.
func SetDefault(sl *SecurityLogger) {
	defaultMu.Lock()
	defaultLogger = sl
	defaultMu.Unlock()
}

// DefaultLogger returns the process-wide logger, creating one on first use
func DefaultLogger() *SecurityLogger {
	defaultMu.Lock()
	sl := defaultLogger
	defaultMu.Unlock()
	if sl == nil {
		return InitSecurityLogger("job-tracker", "development")
	}
	return sl
}

// Log logs a security event
func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.Time("event_time", event.Timestamp),
	}
	for _, f := range [...]struct{ key, value string }{
		{"subject_type", event.SubjectType},
		{"subject_value", event.SubjectValue},
		{"ip", event.IP},
		{"user_agent", event.UserAgent},
		{"request_id", event.RequestID},
	} {
		if f.value != "" {
			fields = append(fields, zap.String(f.key, f.value))
		}
	}
	if len(event.Details) > 0 {
		if details, err := json.Marshal(event.Details); err == nil {
			fields = append(fields, zap.ByteString("details", details))
		}
	}

	sl.zapLogger.Log(eventLevel(event.Event), string(event.Event), fields...)
}

// eventLevel maps successful sign-ins to info and misconfiguration to error.
func eventLevel(event EventType) zapcore.Level {
	switch event {
	case EventLoginSuccess, EventRegistered:
		return zapcore.InfoLevel
	case EventMisconfigured:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// LogUnauthorized records a rejected API request. The presented token is never passed in.
func (sl *SecurityLogger) LogUnauthorized(ctx context.Context, ip, userAgent, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUnauthorizedAccess,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"reason": reason},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"endpoint": endpoint},
	})
}

// LogLoginFailed logs a failed sign-in or sign-up against Supabase Auth
func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, userAgent, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		UserAgent:    userAgent,
		Details:      map[string]any{"reason": reason},
	})
}

// LogLoginSuccess logs a successful sign-in; the user id is hashed.
func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, userID, ip, userAgent string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginSuccess,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		IP:           ip,
		UserAgent:    userAgent,
	})
}

// LogRegistered records a new account created through the UI.
func (sl *SecurityLogger) LogRegistered(ctx context.Context, userID, ip, userAgent string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRegistered,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		IP:           ip,
		UserAgent:    userAgent,
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail keeps the first letter of the local part, e.g. "j***@example.com".
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return "***"
	}
	if len(local) <= 1 {
		return "***@" + domain
	}
	return local[:1] + "***@" + domain
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
