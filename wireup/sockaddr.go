package wireup

// SockaddrTransport is one entry in the context's ordered, sockaddr-capable
// transport list (spec.md section 4.7). Reachable reports whether addr
// (opaque to the selector — it never inspects a socket address) is
// reachable over this transport; the caller supplies it because only the
// transport layer itself knows how to resolve a sockaddr.
type SockaddrTransport struct {
	Name      string
	Reachable func(addr any) bool
}

// SelectSockaddr implements spec.md section 4.7: for a client-side
// sockaddr endpoint, walk the context's ordered sockaddr-capable
// transport list and return the first one whose reachability predicate
// accepts addr. It never consults the remote address entries Select
// scans — a socket address carries no UCX capability information to
// evaluate against.
func SelectSockaddr(transports []SockaddrTransport, addr any) (*SockaddrTransport, error) {
	for i := range transports {
		if transports[i].Reachable(addr) {
			return &transports[i], nil
		}
	}
	return nil, newUnreachable("sockaddr", "no sockaddr-capable transport reaches this address")
}
