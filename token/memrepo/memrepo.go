// Package memrepo is the in-memory token.Repo: the client-side analog of
// browser-scoped key-value storage. It backs tests and any embedding that
// does not want credentials on disk.
package memrepo

import (
	"sync"

	"github.com/mosaicms/go-admin-client/token"
)

var _ token.Repo = (*Repo)(nil)

type Repo struct {
	values map[string]string
	lock   sync.RWMutex
}

func New() *Repo {
	return &Repo{values: make(map[string]string)}
}

func (r *Repo) Get(key string) (string, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	value, ok := r.values[key]
	return value, ok, nil
}

func (r *Repo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.values[key] = value
	return nil
}

func (r *Repo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.values, key)
	return nil
}

// Len reports the number of stored keys. Test helper.
func (r *Repo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.values)
}
