package crawler

// Status is the lifecycle state of a page URL known to the frontier.
type Status uint8

const (
	// StatusPending means the URL is not tracked by the frontier. It is
	// the zero value returned for unknown URLs.
	StatusPending Status = iota

	// StatusQueued means the URL is enqueued and awaiting a fetch.
	StatusQueued

	// StatusVisited means the URL was fetched and its links extracted.
	StatusVisited

	// StatusErrored means the fetch failed. Errored URLs are not retried
	// within a run.
	StatusErrored
)

// String returns the status name for logging.
func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusVisited:
		return "visited"
	case StatusErrored:
		return "errored"
	default:
		return "pending"
	}
}

// Frontier is the crawl work queue. One map keyed by canonical page URL holds
// each URL's status, so a URL can never be simultaneously queued and visited,
// and a visited URL can never re-enter the queue.
//
// Frontier is not safe for concurrent use; each crawl owns its own instance.
type Frontier struct {
	status    map[string]Status
	queue     []string
	processed int
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{status: make(map[string]Status)}
}

// Push enqueues the URL if the frontier has never seen it. It reports whether
// the URL was enqueued.
func (f *Frontier) Push(u string) bool {
	if _, known := f.status[u]; known {
		return false
	}
	f.status[u] = StatusQueued
	f.queue = append(f.queue, u)
	return true
}

// Pop dequeues the oldest queued URL. The URL stays in StatusQueued until the
// caller marks it visited or errored.
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue = f.queue[1:]
	return u, true
}

// MarkVisited records a completed fetch for the URL.
func (f *Frontier) MarkVisited(u string) {
	f.mark(u, StatusVisited)
}

// MarkErrored records a failed fetch for the URL.
func (f *Frontier) MarkErrored(u string) {
	f.mark(u, StatusErrored)
}

func (f *Frontier) mark(u string, s Status) {
	if prev := f.status[u]; prev != StatusVisited && prev != StatusErrored {
		f.processed++
	}
	f.status[u] = s
}

// Status returns the lifecycle state of the URL, StatusPending if unknown.
func (f *Frontier) Status(u string) Status {
	return f.status[u]
}

// Processed counts URLs taken through a fetch attempt, successful or not.
// It increases by exactly one per attempt, which is what bounds the crawl.
func (f *Frontier) Processed() int {
	return f.processed
}

// QueueLen reports how many URLs are awaiting a fetch.
func (f *Frontier) QueueLen() int {
	return len(f.queue)
}
