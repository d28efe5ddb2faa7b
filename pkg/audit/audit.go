package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names a marketplace audit event.
type EventType string

const (
	EventProfileUnlocked           EventType = "profile_unlocked"
	EventUnlockRejected            EventType = "unlock_rejected"
	EventCandidateStatusChanged    EventType = "candidate_status_changed"
	EventCandidateAnonymityChanged EventType = "candidate_anonymity_changed"
	EventCandidateExport           EventType = "candidate_export"
	EventCompletionBackfilled      EventType = "completion_backfilled"
)

// RequestIDKey is the gin context key the RequestID middleware sets.
const RequestIDKey = "RequestID"

// Event is one audit record.
type Event struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	ActorID      string                 `json:"actor_id,omitempty"`
	SubjectType  string                 `json:"subject_type,omitempty"` // "candidate", "company", "email"
	SubjectValue string                 `json:"subject_value,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// Logger writes audit events through zap. A nil *Logger discards events.
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// New builds a production zap logger writing JSON to stdout.
func New(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build(zap.AddCaller())
	if err != nil {
		zl, _ = zap.NewProduction()
	}
	return NewWithZap(zl, serviceName, environment)
}

func NewWithZap(zl *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{zapLogger: zl, serviceName: serviceName, environment: environment}
}

func NewNop() *Logger {
	return NewWithZap(zap.NewNop(), "", "")
}

// Log fills service metadata and the request id from ctx, then writes the event.
func (l *Logger) Log(ctx context.Context, event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment
	if event.RequestID == "" && ctx != nil {
		event.RequestID, _ = ctx.Value(RequestIDKey).(string)
	}

	level := zapcore.InfoLevel
	if event.Event == EventUnlockRejected {
		level = zapcore.WarnLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.Time("occurred_at", event.Timestamp),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
		fields = append(fields, zap.String("subject_value", maskValue(event.SubjectType, event.SubjectValue)))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

func (l *Logger) ProfileUnlocked(ctx context.Context, actorID string, companyID int64, candidateID string, spent, balance int) {
	l.Log(ctx, Event{
		Event:        EventProfileUnlocked,
		ActorID:      actorID,
		SubjectType:  "candidate",
		SubjectValue: candidateID,
		Details: map[string]interface{}{
			"company_id":    companyID,
			"credits_spent": spent,
			"balance":       balance,
		},
	})
}

func (l *Logger) UnlockRejected(ctx context.Context, actorID, candidateID, reason string) {
	l.Log(ctx, Event{
		Event:        EventUnlockRejected,
		ActorID:      actorID,
		SubjectType:  "candidate",
		SubjectValue: candidateID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (l *Logger) CandidateFlagChanged(ctx context.Context, event EventType, actorID, candidateID string, flag string, value bool) {
	l.Log(ctx, Event{
		Event:        event,
		ActorID:      actorID,
		SubjectType:  "candidate",
		SubjectValue: candidateID,
		Details:      map[string]interface{}{flag: value},
	})
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns the first 16 hex chars of the SHA-256 of value.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "candidate", "company":
		return value // opaque ids, not PII
	default:
		return HashValue(value)
	}
}
