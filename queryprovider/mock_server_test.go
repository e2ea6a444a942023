package queryprovider_test

import (
	"net"

	"github.com/miekg/dns"
)

// mockServer is a minimal UDP authoritative stand-in, grounded on the same
// shape as the teacher's upstream mock server, trimmed to what the
// provider's retry/eviction tests need: a fixed or per-call answer.
type mockServer struct {
	conn   *net.UDPConn
	answer func(req *dns.Msg) *dns.Msg
	calls  int
}

func newMockServer(answer func(req *dns.Msg) *dns.Msg) *mockServer {
	addr, err := net.ResolveUDPAddr("udp4", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}

	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		panic(err)
	}

	s := &mockServer{conn: conn, answer: answer}
	go s.serve()

	return s
}

func (s *mockServer) serve() {
	buf := make([]byte, 4096)

	for {
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}

		req := new(dns.Msg)
		if err := req.Unpack(buf[:n]); err != nil {
			continue
		}

		s.calls++

		resp := s.answer(req)
		if resp == nil {
			continue
		}

		resp.SetReply(req)

		b, err := resp.Pack()
		if err != nil {
			continue
		}

		_, _ = s.conn.WriteToUDP(b, addr)
	}
}

func (s *mockServer) addr() string { return s.conn.LocalAddr().String() }

func (s *mockServer) close() { _ = s.conn.Close() }
