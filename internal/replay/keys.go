package replay

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// KeyBook maps the symbolic names a script uses to account keys. A name is
// either bound explicitly by an operation that derives an address, a base58
// key, or hashed to a stable key on first use.
type KeyBook struct {
	mu    sync.RWMutex
	keys  map[string]solana.PublicKey
	names map[solana.PublicKey]string
}

func NewKeyBook() *KeyBook {
	return &KeyBook{
		keys:  make(map[string]solana.PublicKey),
		names: make(map[solana.PublicKey]string),
	}
}

// Key resolves name, assigning it a key if it has none yet.
func (b *KeyBook) Key(name string) (solana.PublicKey, error) {
	if name == "" {
		return solana.PublicKey{}, fmt.Errorf("empty key name")
	}
	b.mu.RLock()
	key, ok := b.keys[name]
	b.mu.RUnlock()
	if ok {
		return key, nil
	}

	if parsed, err := solana.PublicKeyFromBase58(name); err == nil {
		key = parsed
	} else {
		key = NamedKey(name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.keys[name]; ok {
		return existing, nil
	}
	b.keys[name] = key
	if _, ok := b.names[key]; !ok {
		b.names[key] = name
	}
	return key, nil
}

// Bind ties name to key. Rebinding a name to a different key fails.
func (b *KeyBook) Bind(name string, key solana.PublicKey) error {
	if name == "" {
		return fmt.Errorf("empty key name")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.keys[name]; ok && !existing.Equals(key) {
		return fmt.Errorf("key %q already bound to %s", name, existing)
	}
	b.keys[name] = key
	b.names[key] = name
	return nil
}

// Name returns the first name bound to key.
func (b *KeyBook) Name(key solana.PublicKey) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	name, ok := b.names[key]
	return name, ok
}

// Names lists every bound name in sorted order.
func (b *KeyBook) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.keys))
	for name := range b.keys {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NamedKey is the stable key a script name hashes to.
func NamedKey(name string) solana.PublicKey {
	sum := sha256.Sum256([]byte("replay:" + name))
	return solana.PublicKeyFromBytes(sum[:])
}
