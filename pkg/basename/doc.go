// Package basename allocates collision-free file stems shared by an uploaded
// image and its JSON sidecar.
//
// A candidate is free when none of <base>.png, <base>.jpg and <base>.json
// exists in the target directory. Candidates are tried in order: the preferred
// base verbatim, then preferred_XXXXX with a random suffix drawn from an
// alphabet without I, O, 0 and 1, and finally one longer-suffix fallback.
//
//	alloc := basename.New(storage)
//	base, err := alloc.Commit(ctx, "order7", "order7", "png", data, "image/png")
//	// base == "order7" or "order7_AB3KQ"
//
// Commit relies on the store's exclusive create and is race-free; Allocate
// only probes and is kept for callers that reserve names some other way.
package basename
