package remote

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
)

// testServer accepts one user key and records exec'd commands. Commands
// equal to failCmd exit with status 1.
type testServer struct {
	t        *testing.T
	listener net.Listener
	hostKey  ssh.Signer
	failCmd  string

	mu       sync.Mutex
	commands []string
}

func newSigner(t *testing.T) (ssh.Signer, ed25519.PrivateKey) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)
	return signer, priv
}

func startServer(t *testing.T, userKey ssh.PublicKey) *testServer {
	hostKey, _ := newSigner(t)
	config := &ssh.ServerConfig{
		PublicKeyCallback: func(c ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if c.User() == "sweep" && string(key.Marshal()) == string(userKey.Marshal()) {
				return nil, nil
			}
			return nil, assert.AnError
		},
	}
	config.AddHostKey(hostKey)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &testServer{t: t, listener: l, hostKey: hostKey}
	t.Cleanup(func() { l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go s.serve(conn, config)
		}
	}()
	return s
}

func (s *testServer) serve(conn net.Conn, config *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		conn.Close()
		return
	}
	go ssh.DiscardRequests(reqs)
	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			newCh.Reject(ssh.UnknownChannelType, "session only")
			continue
		}
		ch, requests, err := newCh.Accept()
		if err != nil {
			continue
		}
		go func() {
			for req := range requests {
				if req.Type != "exec" {
					req.Reply(false, nil)
					continue
				}
				var payload struct{ Command string }
				ssh.Unmarshal(req.Payload, &payload)
				s.mu.Lock()
				s.commands = append(s.commands, payload.Command)
				fail := payload.Command == s.failCmd
				s.mu.Unlock()
				req.Reply(true, nil)

				status := uint32(0)
				if fail {
					ch.Stderr().Write([]byte("matlab: command not found\n"))
					status = 1
				}
				ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
				ch.Close()
				return
			}
		}()
	}
}

func (s *testServer) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *testServer) Node() cluster.NodeId {
	return cluster.NodeId(s.listener.Addr().String())
}

func writeKnownHosts(t *testing.T, s *testServer) string {
	path := filepath.Join(t.TempDir(), "known_hosts")
	line := knownhosts.Line([]string{knownhosts.Normalize(s.listener.Addr().String())}, s.hostKey.PublicKey())
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0600))
	return path
}

func writeKeyFile(t *testing.T, priv ed25519.PrivateKey) string {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0600))
	return path
}

func TestSSHLauncher(t *testing.T) {
	userSigner, userPriv := newSigner(t)
	s := startServer(t, userSigner.PublicKey())
	b, err := NewCommandBuilder("launch {{.Tag}}", "", "", "")
	require.NoError(t, err)

	l, err := NewSSHLauncher(SSHConfig{
		User:       "sweep",
		KeyFiles:   []string{writeKeyFile(t, userPriv)},
		KnownHosts: []string{writeKnownHosts(t, s)},
		Timeout:    5 * time.Second,
	}, b)
	require.NoError(t, err)

	require.NoError(t, l.Launch(context.Background(), s.Node(), scene))
	assert.Equal(t, []string{"launch scene_tree_20_f4_l2_k16_c0.05"}, s.Commands())

	s.mu.Lock()
	s.failCmd = "launch scene_tree_20_f4_l2_k16_c0.05"
	s.mu.Unlock()
	err = l.Launch(context.Background(), s.Node(), scene)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matlab: command not found")
}

func TestSSHLauncherRejectsUnknownHost(t *testing.T) {
	userSigner, _ := newSigner(t)
	s := startServer(t, userSigner.PublicKey())
	other := startServer(t, userSigner.PublicKey())
	b, err := NewCommandBuilder("true", "", "", "")
	require.NoError(t, err)

	l, err := NewSSHLauncher(SSHConfig{
		User:       "sweep",
		Signers:    []ssh.Signer{userSigner},
		KnownHosts: []string{writeKnownHosts(t, other)},
		Timeout:    5 * time.Second,
	}, b)
	require.NoError(t, err)
	assert.Error(t, l.Launch(context.Background(), s.Node(), scene))
	assert.Empty(t, s.Commands())

	insecure, err := NewSSHLauncher(SSHConfig{
		User:            "sweep",
		Signers:         []ssh.Signer{userSigner},
		InsecureHostKey: true,
		Timeout:         5 * time.Second,
	}, b)
	require.NoError(t, err)
	assert.NoError(t, insecure.Launch(context.Background(), s.Node(), scene))
	assert.Equal(t, []string{"true"}, s.Commands())
}

func TestSSHLauncherWrongUserKey(t *testing.T) {
	userSigner, _ := newSigner(t)
	wrongSigner, _ := newSigner(t)
	s := startServer(t, userSigner.PublicKey())
	b, err := NewCommandBuilder("true", "", "", "")
	require.NoError(t, err)

	l, err := NewSSHLauncher(SSHConfig{User: "sweep", Signers: []ssh.Signer{wrongSigner}, InsecureHostKey: true, Timeout: 5 * time.Second}, b)
	require.NoError(t, err)
	assert.Error(t, l.Launch(context.Background(), s.Node(), scene))
}

func TestSSHLauncherUnreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	signer, _ := newSigner(t)
	b, err := NewCommandBuilder("true", "", "", "")
	require.NoError(t, err)
	launcher, err := NewSSHLauncher(SSHConfig{User: "sweep", Signers: []ssh.Signer{signer}, InsecureHostKey: true, Timeout: time.Second}, b)
	require.NoError(t, err)
	assert.Error(t, launcher.Launch(context.Background(), cluster.NodeId(addr), scene))
}

func TestSSHLauncherConfigErrors(t *testing.T) {
	b, err := NewCommandBuilder("true", "", "", "")
	require.NoError(t, err)
	_, err = NewSSHLauncher(SSHConfig{User: "sweep", InsecureHostKey: true}, b)
	assert.Error(t, err, "no keys")
	_, err = NewSSHLauncher(SSHConfig{User: "sweep", KeyFiles: []string{"/nonexistent/id_rsa"}, InsecureHostKey: true}, b)
	assert.Error(t, err)

	signer, _ := newSigner(t)
	_, err = NewSSHLauncher(SSHConfig{User: "sweep", Signers: []ssh.Signer{signer}, KnownHosts: []string{"/nonexistent/known_hosts"}}, b)
	assert.Error(t, err)
}

func TestAddr(t *testing.T) {
	l := &SSHLauncher{port: 2222}
	assert.Equal(t, "ukko1:2222", l.addr("ukko1"))
	assert.Equal(t, "ukko1:22", l.addr("ukko1:22"))
}
