package logging

import (
	"context"

	"go.viam.com/utils"
)

type debugKey struct{}

// EnableDebugMode tags ctx so the C* logging methods emit debug entries for it whatever the
// logger level. name labels the trace; an empty name is replaced by a random one.
func EnableDebugMode(ctx context.Context, name string) context.Context {
	if name == "" {
		name = utils.RandomAlphaString(6)
	}
	return context.WithValue(ctx, debugKey{}, name)
}

// IsDebugMode reports whether ctx went through EnableDebugMode.
func IsDebugMode(ctx context.Context) bool {
	return GetName(ctx) != ""
}

// GetName returns the trace name given to EnableDebugMode, or "".
func GetName(ctx context.Context) string {
	name, _ := ctx.Value(debugKey{}).(string)
	return name
}
