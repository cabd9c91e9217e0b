package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"

	"document-bot-be/internal/pkg/logger"
	"document-bot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Topic is the in-process bus topic all analytics events are published on.
const Topic = "analytics_events"

// Emitter is the fire-and-forget analytics sink used by the pipeline.
// Implementations must never panic or return errors into pipeline control
// flow; a broken sink only loses events.
type Emitter interface {
	Emit(event string, props map[string]interface{})
	Debug(event string, props map[string]interface{})
	Error(event string, props map[string]interface{})
}

// Bus emits structured events to the analytics log and the in-process
// watermill bus. Both outputs are best-effort.
type Bus struct {
	enabled   bool
	log       logger.ILogger
	publisher message.Publisher
}

// NewBus builds the analytics sink. Either log or publisher may be nil;
// the corresponding output is skipped.
func NewBus(enabled bool, log logger.ILogger, publisher message.Publisher) *Bus {
	return &Bus{
		enabled:   enabled,
		log:       log,
		publisher: publisher,
	}
}

func (b *Bus) Emit(event string, props map[string]interface{}) {
	b.record("info", event, props)
}

func (b *Bus) Debug(event string, props map[string]interface{}) {
	b.record("debug", event, props)
}

func (b *Bus) Error(event string, props map[string]interface{}) {
	b.record("error", event, props)
}

func (b *Bus) record(level, event string, props map[string]interface{}) {
	if b == nil || !b.enabled {
		return
	}
	// Sink boundary: nothing here may escape into the pipeline.
	defer func() {
		_ = recover()
	}()

	if b.log != nil {
		switch level {
		case "debug":
			b.log.Debug("analytics", event, props)
		case "error":
			b.log.Error("analytics", event, props)
		default:
			b.log.Info("analytics", event, props)
		}
	}

	if b.publisher != nil {
		evt := events.New(event, props)
		payload, err := json.Marshal(map[string]interface{}{
			"event":       evt.EventType(),
			"properties":  evt.Payload(),
			"occurred_at": evt.Timestamp(),
		})
		if err != nil {
			return
		}
		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set("event_type", event)
		_ = b.publisher.Publish(Topic, msg)
	}
}

// HashUserKey hashes a session/user identifier so raw identifiers never
// reach logs, traces, or events.
func HashUserKey(userKey string) string {
	if userKey == "" {
		return "anon"
	}
	sum := sha256.Sum256([]byte(userKey))
	return hex.EncodeToString(sum[:])[:12]
}

// TokenUsage carries token counts reported by a model call.
type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

// RecordQuestionAttempt emits the per-question analytics event recorded by
// the orchestrator after the validation stage settles.
func RecordQuestionAttempt(e Emitter, userKey string, flagged bool, isRecovery bool, validatorFailed string) {
	if e == nil {
		return
	}
	props := map[string]interface{}{
		"user":    HashUserKey(userKey),
		"flagged": flagged,
	}
	if flagged {
		props["validator_failed"] = validatorFailed
	} else {
		props["is_recovery"] = isRecovery
	}
	e.Emit("question_attempt", props)
}

// RecordLLMCall emits call-level model telemetry and feeds the latency
// histogram. Called on success and failure alike.
func RecordLLMCall(e Emitter, model string, ok bool, durationMS float64, tokens *TokenUsage) {
	ObserveLLM(durationMS)
	if e == nil {
		return
	}
	props := map[string]interface{}{
		"model":       model,
		"ok":          ok,
		"duration_ms": math.Round(durationMS*100) / 100,
	}
	if tokens != nil {
		props["tokens"] = *tokens
	}
	e.Emit("llm_call", props)
}
