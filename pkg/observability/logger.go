package observability

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrVersion = "version"
	attrCommand = "command"
	attrTarget  = "target"
)

// SecretKeys are attribute keys whose values never reach the log output.
var SecretKeys = []string{"apikey", "etherscan_api_key", "infura_project_id"}

const (
	maskedValue    = "****"
	maskKeepSuffix = 4
	maskMinLength  = 12
)

type targetKey struct{}

// WithTarget returns ctx carrying the file or folder a command works on.
// RunHandler adds it as "target" to records logged with that context.
func WithTarget(ctx context.Context, target string) context.Context {
	return context.WithValue(ctx, targetKey{}, target)
}

// TargetFromContext returns the target stored by WithTarget.
func TargetFromContext(ctx context.Context) (string, bool) {
	target, ok := ctx.Value(targetKey{}).(string)

	return target, ok
}

// RunHandler is the [slog.Handler] behind every solt logger. Records carry
// the service, version and running command, the target from the context and
// the active span ids. Values under SecretKeys are masked.
type RunHandler struct {
	inner slog.Handler
}

// NewRunHandler wraps inner for one invocation of command. The static
// attributes are attached before any group so they stay top level.
func NewRunHandler(inner slog.Handler, cfg Config) *RunHandler {
	attrs := []slog.Attr{slog.String(attrService, cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, slog.String(attrVersion, cfg.ServiceVersion))
	}

	if cfg.Command != "" {
		attrs = append(attrs, slog.String(attrCommand, cfg.Command))
	}

	return &RunHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the inner handler.
func (h *RunHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle rebuilds record with masked attributes and run context, then delegates.
func (h *RunHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)

	record.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(mask(attr))

		return true
	})

	if target, ok := TargetFromContext(ctx); ok {
		out.AddAttrs(slog.String(attrTarget, target))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		out.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	err := h.inner.Handle(ctx, out)
	if err != nil {
		return fmt.Errorf("run handler: %w", err)
	}

	return nil
}

// WithAttrs masks attrs and attaches them to the inner handler.
func (h *RunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		masked[i] = mask(attr)
	}

	return &RunHandler{inner: h.inner.WithAttrs(masked)}
}

// WithGroup opens a group on the inner handler.
func (h *RunHandler) WithGroup(name string) slog.Handler {
	return &RunHandler{inner: h.inner.WithGroup(name)}
}

func mask(attr slog.Attr) slog.Attr {
	value := attr.Value.Resolve()

	if value.Kind() == slog.KindGroup {
		group := value.Group()
		masked := make([]any, len(group))

		for i, member := range group {
			masked[i] = mask(member)
		}

		return slog.Group(attr.Key, masked...)
	}

	if !slices.Contains(SecretKeys, attr.Key) {
		return attr
	}

	return slog.String(attr.Key, MaskSecret(value.String()))
}

// MaskSecret hides secret, keeping the last characters of long values so
// two keys can still be told apart.
func MaskSecret(secret string) string {
	if len(secret) < maskMinLength {
		return maskedValue
	}

	return maskedValue + secret[len(secret)-maskKeepSuffix:]
}
