package node

import "context"

func (n *Node) Peers() []string {
	return n.peers.List()
}

func (n *Node) HasPeer(addr string) bool {
	return n.peers.Has(addr)
}

// AddPeer registers addr and persists the peer set. It reports false for
// empty or already known addresses.
func (n *Node) AddPeer(ctx context.Context, addr string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.peers.Add(addr) {
		return false
	}

	n.persist(ctx)

	return true
}

func (n *Node) RemovePeer(ctx context.Context, addr string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.peers.Remove(addr) {
		return false
	}

	n.persist(ctx)

	return true
}
