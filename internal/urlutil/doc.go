// Package urlutil provides URL normalization and classification for the
// discovery engine.
//
// Normalize reduces a raw URL string to a canonical, comparable form: two
// URLs refer to the same resource for deduplication purposes exactly when
// their normalized strings are byte-equal. Normalization is idempotent.
//
// The classification predicates (IsInternal, LikelyHTML, LikelyAsset) are
// pure functions over normalized URLs. They are heuristics driven by
// extension, path, and host tables; they are consistent but not mutually
// exclusive, so callers must route page-likely URLs before consulting
// asset-likeliness.
package urlutil
