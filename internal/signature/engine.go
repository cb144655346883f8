package signature

import (
	"sync"

	"image-service/internal/apperr"
	"image-service/internal/logging"
	"image-service/internal/metrics"
)

// Engine runs the read, ownership-check, compute, embed sequence for
// preset sidecars against a single shared secret.
type Engine struct {
	secret string
	locks  keyedLocks
}

// Result describes a successfully signed sidecar.
type Result struct {
	UserID      string
	ContentHash string
	Signature   string
}

// NewEngine returns an engine signing with the given shared secret.
func NewEngine(secret string) *Engine {
	return &Engine{secret: secret}
}

// Process signs the sidecar at path in place for userID.
//
// If the sidecar already carries a signature owned by a different user
// the file is left untouched and an ownership error is returned. The
// sequence for a given content hash is serialized, so concurrent
// re-uploads of the same preset resolve last-writer-wins instead of
// interleaving partial writes.
func (e *Engine) Process(path, userID string) (*Result, error) {
	contentHash, err := ContentHash(path)
	if err != nil {
		metrics.SignatureOperationsTotal.WithLabelValues("sign", "error").Inc()
		return nil, apperr.Internal(err)
	}

	unlock := e.locks.acquire(contentHash)
	defer unlock()

	doc, status := loadSidecar(path)
	if status == StatusInvalidFormat {
		metrics.SignatureOperationsTotal.WithLabelValues("sign", "error").Inc()
		return nil, apperr.InvalidFormat(nil)
	}

	if existing, status := readEmbedded(doc); status == StatusOK {
		if existing.UserID != userID {
			logging.Audit("Ownership violation: user %s attempted to re-sign preset owned by %s (hash %s)",
				userID, existing.UserID, contentHash)
			metrics.OwnershipViolationsTotal.Inc()
			metrics.SignatureOperationsTotal.WithLabelValues("sign", "error").Inc()
			return nil, apperr.Ownership()
		}
		logging.Debug("Signature: re-signing preset %s for owner %s", contentHash, userID)
	}

	sig := Sign(userID, contentHash, e.secret)
	if err := embed(doc, userID, sig); err != nil {
		metrics.SignatureOperationsTotal.WithLabelValues("sign", "error").Inc()
		return nil, apperr.InvalidStructure(err)
	}
	if err := writeSidecar(doc, path); err != nil {
		metrics.SignatureOperationsTotal.WithLabelValues("sign", "error").Inc()
		return nil, apperr.Internal(err)
	}

	metrics.SignatureOperationsTotal.WithLabelValues("sign", "success").Inc()
	return &Result{UserID: userID, ContentHash: contentHash, Signature: sig}, nil
}

// ReadOwner reports the signature entry currently embedded in the
// sidecar at path, if any.
func (e *Engine) ReadOwner(path string) (Embedded, ReadStatus) {
	doc, status := loadSidecar(path)
	if status != StatusOK {
		return Embedded{}, status
	}
	return readEmbedded(doc)
}

// keyedLocks serializes sections per string key. Entries are dropped
// once the last holder releases, so the table stays small.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedLocks) acquire(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
