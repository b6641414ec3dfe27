package netio

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func listenLoopback(t *testing.T) *Server {
	t.Helper()
	s, err := Listen("127.0.0.1", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func (s *Server) addr() string { return s.Addr().String() }

func pollUntil(s *Server, deadline time.Duration) []byte {
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		if data := s.Poll(20 * time.Millisecond); len(data) > 0 {
			return data
		}
	}
	return nil
}

func TestPollReceivesClientBytes(t *testing.T) {
	t.Parallel()

	s := listenLoopback(t)

	client, err := net.Dial("tcp", s.addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)

	require.Equal(t, []byte("ping"), pollUntil(s, time.Second))
}

func TestPollTimeoutReturnsEmpty(t *testing.T) {
	t.Parallel()

	s := listenLoopback(t)
	start := time.Now()
	require.Empty(t, s.Poll(30*time.Millisecond))
	require.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestAcceptReplace(t *testing.T) {
	t.Parallel()

	s := listenLoopback(t)

	first, err := net.Dial("tcp", s.addr())
	require.NoError(t, err)
	defer first.Close()
	_, err = first.Write([]byte("one"))
	require.NoError(t, err)
	require.Equal(t, []byte("one"), pollUntil(s, time.Second))

	second, err := net.Dial("tcp", s.addr())
	require.NoError(t, err)
	defer second.Close()
	_, err = second.Write([]byte("two"))
	require.NoError(t, err)

	// The newer connection replaces the first; its bytes are what Poll sees.
	require.Equal(t, []byte("two"), pollUntil(s, time.Second))

	// The replaced connection was closed under the first client.
	_ = first.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 1)
	_, err = first.Read(buf)
	require.Error(t, err)
}

func TestDisconnectKeepsListening(t *testing.T) {
	t.Parallel()

	s := listenLoopback(t)

	client, err := net.Dial("tcp", s.addr())
	require.NoError(t, err)
	_, err = client.Write([]byte("hi"))
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), pollUntil(s, time.Second))

	require.NoError(t, client.Close())
	// Drain polls until the close is observed and state cleared.
	for i := 0; i < 50 && s.conn != nil; i++ {
		s.Poll(20 * time.Millisecond)
	}
	require.Nil(t, s.conn)
	require.False(t, s.Send([]byte("text")))

	// A new client is accepted afterwards.
	again, err := net.Dial("tcp", s.addr())
	require.NoError(t, err)
	defer again.Close()
	_, err = again.Write([]byte("back"))
	require.NoError(t, err)
	require.Equal(t, []byte("back"), pollUntil(s, time.Second))
}

func TestSendReachesClient(t *testing.T) {
	t.Parallel()

	s := listenLoopback(t)

	client, err := net.Dial("tcp", s.addr())
	require.NoError(t, err)
	defer client.Close()
	_, err = client.Write([]byte("x"))
	require.NoError(t, err)
	require.NotEmpty(t, pollUntil(s, time.Second))

	require.True(t, s.Send([]byte("hello client")))

	buf := make([]byte, 64)
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	n, err := client.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello client", string(buf[:n]))
}

func TestSendWithoutConnection(t *testing.T) {
	t.Parallel()

	s := listenLoopback(t)
	require.False(t, s.Send([]byte("nope")))
}
