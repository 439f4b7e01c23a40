// Package filerepo is a token.Repo persisted to a single encrypted file, for
// CLI use where tokens must survive process restarts. Values are sealed with
// AES-GCM under a key derived from a caller-supplied secret via Argon2id;
// writes go through a temp file and atomic rename.
package filerepo

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/mosaicms/go-admin-client/token"
)

var _ token.Repo = (*Repo)(nil)

var errCorruptFile = errors.New("token file corrupt or wrong secret")

type fileEnvelope struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

type Repo struct {
	path   string
	secret []byte
	lock   sync.Mutex
}

// New creates a file-backed repo at path. The secret protects tokens at
// rest; it must be stable across runs or previously stored tokens read as
// absent.
func New(path string, secret []byte) *Repo {
	return &Repo{path: path, secret: secret}
}

func (r *Repo) Get(key string) (string, bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	values, err := r.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (r *Repo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	values, err := r.load()
	if err != nil {
		// A corrupt or foreign-keyed file is replaced rather than kept
		// around to fail every subsequent write.
		values = map[string]string{}
	}
	values[key] = value
	return r.save(values)
}

func (r *Repo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	values, err := r.load()
	if err != nil {
		return nil
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return r.save(values)
}

func (r *Repo) load() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	var envelope fileEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errCorruptFile
	}

	aesgcm, err := r.cipher(envelope.Salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := aesgcm.Open(nil, envelope.Nonce, envelope.Ciphertext, nil)
	if err != nil {
		return nil, errCorruptFile
	}

	values := map[string]string{}
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return nil, errCorruptFile
	}
	return values, nil
}

func (r *Repo) save(values map[string]string) error {
	plaintext, err := json.Marshal(values)
	if err != nil {
		return err
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	aesgcm, err := r.cipher(salt)
	if err != nil {
		return err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	envelope := fileEnvelope{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aesgcm.Seal(nil, nonce, plaintext, nil),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	// Write to temp file first (atomic write pattern)
	tempFile := r.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tempFile, r.path); err != nil {
		_ = os.Remove(tempFile)
		return err
	}
	return nil
}

func (r *Repo) cipher(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(r.secret, salt, 1, 64*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
