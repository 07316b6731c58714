// Package extract scans one HTML document for URL-shaped strings.
//
// Extraction is deliberately greedy: it walks tag attributes, inline styles,
// style and script blocks, and finally sweeps the whole document with a broad
// absolute-URL pattern. The output is raw, unresolved candidates; resolution
// against the document URL and normalization happen in the caller. Malformed
// markup never aborts extraction — the tokenizer simply stops yielding
// tokens and whatever was collected so far is returned.
package extract
