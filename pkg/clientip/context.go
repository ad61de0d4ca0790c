package clientip

import "context"

type clientIPContextKey struct{}

func SetIPToContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func GetIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

// Extractor adapts GetIPFromContext to the (value, ok) shape used by audit.
func Extractor(ctx context.Context) (string, bool) {
	ip := GetIPFromContext(ctx)
	return ip, ip != ""
}
