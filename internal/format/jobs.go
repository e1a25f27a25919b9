package format

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// jobGraceWait is how long runJob waits for a brand-new job before
// substituting the "not ready" placeholder (spec §4.8 "after a 1-second
// grace").
const jobGraceWait = time.Second

// jobStaleAfter is how long an idle job's cached output is kept before
// jobCache.Tidy reclaims it (spec §4.8 "tidied when stale (1 hour)").
const jobStaleAfter = time.Hour

type job struct {
	mu       sync.Mutex
	output   string
	done     chan struct{}
	started  time.Time
	lastUsed time.Time
	cancel   context.CancelFunc
}

// jobCache runs and caches "#(cmd)" job output per (client, format tag,
// command) tuple (spec §4.8 "Jobs"). Create one with newJobCache: the
// zero value has a nil jobs map and panics on the first job.
type jobCache struct {
	mu   sync.Mutex
	jobs map[string]*job
}

func newJobCache() *jobCache { return &jobCache{jobs: map[string]*job{}} }

// globalJobCache backs every Tree's "#(...)" jobs: jobs must outlive a
// single Expand call to be reused across repeated redraws of the same
// format string (spec §4.8 "cached ... and refreshed when inputs
// change"), so the cache lives at package scope rather than on Tree.
var globalJobCache = newJobCache()

func (t *Tree) jobCache() *jobCache { return globalJobCache }

// TidyJobs reclaims stale or orphaned job cache entries (spec §4.8); call
// it periodically (e.g. from the per-session ticker that also drives
// monitor-silence).
func TidyJobs(clientAlive func(id string) bool) { globalJobCache.Tidy(clientAlive) }

// key identifies one job instance: the owning client (if any) plus the
// literal command text doubles as the format-tag discriminator, since a
// client running the same command from two different format strings is
// the same job (spec §4.8 cache key "(client, format tag, command)").
func jobKey(tree *Tree, cmd string) string {
	id := ""
	if tree.Client != nil {
		id = tree.Client.ID
	}
	return id + "\x00" + cmd
}

// runJob launches cmd the first time it's seen for this key, returning
// the previous (or placeholder) output immediately on subsequent calls
// while the job keeps running in the background (spec §4.8).
func runJob(tree *Tree, cmd string) string {
	cache := tree.jobCache()
	if cache == nil {
		return runJobOnce(cmd)
	}

	key := jobKey(tree, cmd)
	cache.mu.Lock()
	j, ok := cache.jobs[key]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		j = &job{done: make(chan struct{}), started: time.Now(), lastUsed: time.Now(), cancel: cancel}
		cache.jobs[key] = j
		go j.run(ctx, cmd)
	}
	j.mu.Lock()
	j.lastUsed = time.Now()
	j.mu.Unlock()
	cache.mu.Unlock()

	select {
	case <-j.done:
	case <-time.After(jobGraceWait):
		return "<'" + cmd + "' not ready>"
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.output
}

func (j *job) run(ctx context.Context, cmd string) {
	out := runJobOnce(cmd)
	j.mu.Lock()
	j.output = out
	j.mu.Unlock()
	select {
	case <-j.done:
	default:
		close(j.done)
	}
}

func runJobOnce(cmd string) string {
	out, err := exec.Command("sh", "-c", cmd).Output()
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\n")
}

// Tidy removes jobs unused for longer than jobStaleAfter, or whose owning
// client is gone (spec §4.8 "tidied when stale (1 hour) or when the
// client disappears").
func (c *jobCache) Tidy(clientAlive func(id string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, j := range c.jobs {
		j.mu.Lock()
		stale := now.Sub(j.lastUsed) > jobStaleAfter
		j.mu.Unlock()
		clientID := strings.SplitN(key, "\x00", 2)[0]
		gone := clientID != "" && clientAlive != nil && !clientAlive(clientID)
		if stale || gone {
			j.cancel()
			delete(c.jobs, key)
		}
	}
}
