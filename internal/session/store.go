// Package session provides the local session store backing the cart flow.
// It stands in for the browser session storage of the storefront: a small
// namespaced key-value store holding the cart id, the staged pending item,
// and the auth token. Every operation is fail-soft; storage trouble degrades
// to no-ops rather than surfacing errors to callers.
package session

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/schema"
)

// Well-known session keys used by the cart flow and the API client.
const (
	KeyCartID      = "cart_id"
	KeyPendingItem = "pending_service_data"
	KeyAuthToken   = "auth_token"
)

// bucketName is the single bucket holding all application keys. The bucket
// is the namespace: Clear touches nothing outside it.
const bucketName = "sprocket_session"

// timestampSuffix marks the companion key recording when a value was last
// written, used to rank entries for eviction. Missing companions rank as 0.
const timestampSuffix = "_timestamp"

// ItemSizeLimit is the per-item ceiling. Writes whose key+value exceed it
// are rejected without touching the store.
const ItemSizeLimit = contract.DefaultItemSizeLimit

// evictFraction is the share of entries dropped when the budget is exceeded.
const evictFraction = 0.2

// Store is a BoltDB-backed session store. A Store with a nil db (open
// failure) is valid and behaves as an empty, read-only store.
type Store struct {
	db     *bolt.DB
	path   string
	budget int64
	now    contract.Clock
}

var _ contract.SessionStore = &Store{} // Compile-time check

// Open opens (or creates) the session store file. Open failures are reported
// once as a warning and produce a degraded no-op store, matching the
// behavior of storefronts running with storage disabled.
func Open(path string, budget int64) *Store {
	if budget <= 0 {
		budget = contract.DefaultSessionBudget
	}
	s := &Store{path: path, budget: budget, now: time.Now}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		contract.LogWarn("session storage unavailable, continuing without persistence", err)
		return s
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		contract.LogWarn("session storage unavailable, continuing without persistence", err)
		_ = db.Close()
		return s
	}
	s.db = db
	return s
}

// Close releases the database file lock.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the raw value for a key, or nil if absent or unreadable.
func (s *Store) Get(key string) []byte {
	if s.db == nil {
		return nil
	}
	var out []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v != nil {
			out = make([]byte, len(v))
			copy(out, v)
		}
		return nil
	})
	return out
}

// GetJSON unmarshals the stored value for key into out. A value that no
// longer parses is removed so the next read starts clean.
func (s *Store) GetJSON(key string, out any) bool {
	raw := s.Get(key)
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		contract.LogWarn("removing malformed session value for "+key, err)
		s.Delete(key)
		return false
	}
	return true
}

// Set writes a value under key. Oversize values are rejected with no write.
// When the write would push the store past its byte budget, the oldest 20%
// of entries are evicted and the write is retried exactly once.
func (s *Store) Set(key string, value []byte) bool {
	if s.db == nil {
		return false
	}
	if int64(len(key)+len(value)) > ItemSizeLimit {
		return false
	}

	// The admission check covers the write in full, companion key included.
	ts := strconv.FormatInt(s.now().UnixNano(), 10)
	incoming := int64(len(key) + len(value) + len(key) + len(timestampSuffix) + len(ts))
	if s.usage()+incoming > s.budget {
		s.evictOldest()
		if s.usage()+incoming > s.budget {
			return false
		}
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if err := b.Put([]byte(key), value); err != nil {
			return err
		}
		return b.Put([]byte(key+timestampSuffix), []byte(ts))
	})
	if err != nil {
		contract.LogWarn("session write failed for "+key, err)
		return false
	}
	return true
}

// SetJSON marshals v and stores it under key.
func (s *Store) SetJSON(key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		contract.LogWarn("session marshal failed for "+key, err)
		return false
	}
	return s.Set(key, data)
}

// Delete removes a key and its timestamp companion. Absent keys are a no-op.
func (s *Store) Delete(key string) {
	if s.db == nil {
		return
	}
	_ = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if err := b.Delete([]byte(key)); err != nil {
			return err
		}
		return b.Delete([]byte(key + timestampSuffix))
	})
}

// Touch refreshes the eviction timestamp of an existing key.
func (s *Store) Touch(key string) {
	if s.db == nil {
		return
	}
	ts := strconv.FormatInt(s.now().UnixNano(), 10)
	_ = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b.Get([]byte(key)) == nil {
			return nil
		}
		return b.Put([]byte(key+timestampSuffix), []byte(ts))
	})
}

// Clear removes every key in the application namespace.
func (s *Store) Clear() {
	if s.db == nil {
		return
	}
	_ = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

// Status reports entry counts and sizes for diagnostics.
func (s *Store) Status() schema.SessionStatus {
	status := schema.SessionStatus{Path: s.path, Available: s.db != nil}
	if s.db == nil {
		return status
	}
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		oldest := int64(math.MaxInt64)
		return b.ForEach(func(k, v []byte) error {
			status.TotalBytes += int64(len(k) + len(v))
			if strings.HasSuffix(string(k), timestampSuffix) {
				if ts, err := strconv.ParseInt(string(v), 10, 64); err == nil && ts < oldest {
					oldest = ts
					status.OldestEntry = time.Unix(0, ts)
				}
				return nil
			}
			status.TotalKeys++
			return nil
		})
	})
	return status
}

// usage returns the total byte size of all keys and values in the bucket.
func (s *Store) usage() int64 {
	var total int64
	_ = s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			total += int64(len(k) + len(v))
			return nil
		})
	})
	return total
}

// evictOldest removes the oldest fifth of entries, ranked by their companion
// timestamps. Entries without a companion rank as 0 and go first.
func (s *Store) evictOldest() {
	type aged struct {
		key string
		ts  int64
	}
	var entries []aged

	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.ForEach(func(k, _ []byte) error {
			key := string(k)
			if strings.HasSuffix(key, timestampSuffix) {
				return nil
			}
			var ts int64
			if raw := b.Get([]byte(key + timestampSuffix)); raw != nil {
				ts, _ = strconv.ParseInt(string(raw), 10, 64)
			}
			entries = append(entries, aged{key: key, ts: ts})
			return nil
		})
	})
	if len(entries) == 0 {
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ts < entries[j].ts })
	count := int(math.Ceil(float64(len(entries)) * evictFraction))

	_ = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		for _, e := range entries[:count] {
			if err := b.Delete([]byte(e.key)); err != nil {
				return err
			}
			if err := b.Delete([]byte(e.key + timestampSuffix)); err != nil {
				return err
			}
		}
		return nil
	})
}
