package core

// NonceManager (spec §4.G, §4.K, §5): one instance per EOA/chain pair,
// serializing concurrent submissions from the same wallet. States per
// nonce: vacant -> reserved -> submitted -> consumed|released.

import (
	"context"
	"sync"
)

type nonceState int

const (
	nonceVacant nonceState = iota
	nonceReserved
	nonceSubmitted
	nonceConsumed
	nonceReleased
)

// NonceManager serializes write submissions for one EOA. The zero value
// is not usable; construct with NewNonceManager.
type NonceManager struct {
	mu      sync.Mutex
	writeMu sync.Mutex // held for the whole reserve..consume/release span
	client  ChainClient
	account Address
	next    uint64
	states  map[uint64]nonceState
	primed  bool
}

func NewNonceManager(client ChainClient, account Address) *NonceManager {
	return &NonceManager{client: client, account: account, states: make(map[uint64]nonceState)}
}

// Reserve blocks until any prior reservation for this EOA has been
// consumed or released (single-logical-writer discipline), then
// returns the next nonce. Callers must always follow with Consume or
// Release.
func (m *NonceManager) Reserve(ctx context.Context) (uint64, error) {
	m.writeMu.Lock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.primed {
		n, err := m.client.PendingNonceAt(ctx, m.account.Ethereum())
		if err != nil {
			m.writeMu.Unlock()
			return 0, err
		}
		m.next = n
		m.primed = true
	}
	n := m.next
	m.states[n] = nonceReserved
	return n, nil
}

// MarkSubmitted transitions reserved -> submitted after a successful
// eth_sendRawTransaction.
func (m *NonceManager) MarkSubmitted(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states[n] == nonceReserved {
		m.states[n] = nonceSubmitted
	}
}

// Consume finalizes a nonce (tx mined, any status) and advances the
// counter, releasing the writer lock for the next caller.
func (m *NonceManager) Consume(n uint64) {
	m.mu.Lock()
	m.states[n] = nonceConsumed
	if n == m.next {
		m.next++
	}
	m.mu.Unlock()
	m.writeMu.Unlock()
}

// Release returns a reserved nonce to the pool because submission
// itself failed (network error), without ever reaching the chain.
func (m *NonceManager) Release(n uint64) {
	m.mu.Lock()
	m.states[n] = nonceReleased
	m.mu.Unlock()
	m.writeMu.Unlock()
}
