package remote

import (
	"context"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/common"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
)

// SSHConfig configures the native ssh client.
type SSHConfig struct {
	User string
	Port int

	// Private key files, "~/" is expanded. Ignored when Signers is set.
	KeyFiles []string
	Signers  []ssh.Signer

	// known_hosts files used to verify nodes, default ~/.ssh/known_hosts.
	KnownHosts []string
	// Accept any host key, like 'ssh -o StrictHostKeyChecking=no'.
	InsecureHostKey bool

	// Bounds dial, handshake and command issuance.
	Timeout time.Duration
}

// SSHLauncher runs the job command over a fresh ssh connection per launch.
type SSHLauncher struct {
	config  *ssh.ClientConfig
	port    int
	timeout time.Duration
	cmds    *CommandBuilder
}

func NewSSHLauncher(c SSHConfig, cmds *CommandBuilder) (*SSHLauncher, error) {
	if c.User == "" {
		u, err := user.Current()
		if err != nil {
			return nil, errors.Wrap(err, "no ssh user configured")
		}
		c.User = u.Username
	}
	if c.Port == 0 {
		c.Port = common.DefaultSSHPort
	}
	if c.Timeout == 0 {
		c.Timeout = common.DefaultLaunchTimeout
	}

	signers := c.Signers
	if len(signers) == 0 {
		var err error
		if signers, err = loadKeys(c.KeyFiles); err != nil {
			return nil, err
		}
	}
	if len(signers) == 0 {
		return nil, errors.New("no ssh private keys configured")
	}

	var hostKeyCallback ssh.HostKeyCallback
	if c.InsecureHostKey {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		files := c.KnownHosts
		if len(files) == 0 {
			files = []string{"~/.ssh/known_hosts"}
		}
		var err error
		if hostKeyCallback, err = knownhosts.New(expandHome(files)...); err != nil {
			return nil, errors.Wrap(err, "loading known_hosts")
		}
	}

	return &SSHLauncher{
		config: &ssh.ClientConfig{
			User:            c.User,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signers...)},
			HostKeyCallback: hostKeyCallback,
			Timeout:         c.Timeout,
		},
		port:    c.Port,
		timeout: c.Timeout,
		cmds:    cmds,
	}, nil
}

func (l *SSHLauncher) Launch(ctx context.Context, node cluster.NodeId, job domain.Job) error {
	cmd, err := l.cmds.Build(job)
	if err != nil {
		return err
	}
	addr := l.addr(node)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "dialing %s", addr)
	}
	// Closing the connection unblocks the handshake and session on cancel.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, l.config)
	if err != nil {
		conn.Close()
		return errors.Wrapf(err, "ssh handshake with %s", addr)
	}
	client := ssh.NewClient(c, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return errors.Wrapf(err, "opening session on %s", addr)
	}
	defer session.Close()

	log.WithFields(log.Fields{"node": node, "seq": job.SequenceID}).Debugf("ssh exec: %s", cmd)
	out, err := session.CombinedOutput(cmd)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return errors.Wrapf(err, "running command on %s: %s", addr, msg)
		}
		return errors.Wrapf(err, "running command on %s", addr)
	}
	return nil
}

// Node ids may carry their own port.
func (l *SSHLauncher) addr(node cluster.NodeId) string {
	host := string(node)
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(l.port))
}

func loadKeys(keyfiles []string) ([]ssh.Signer, error) {
	var keyring []ssh.Signer
	for _, fname := range expandHome(keyfiles) {
		key, err := os.ReadFile(fname)
		if err != nil {
			return nil, errors.Wrap(err, "can't read private key")
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, errors.Wrapf(err, "can't parse private key %s", fname)
		}
		keyring = append(keyring, signer)
	}
	return keyring, nil
}

func expandHome(paths []string) []string {
	out := make([]string, 0, len(paths))
	var home string
	for _, p := range paths {
		if strings.HasPrefix(p, "~/") {
			if home == "" {
				home, _ = os.UserHomeDir()
			}
			p = filepath.Join(home, p[2:])
		}
		out = append(out, p)
	}
	return out
}

var _ Launcher = (*SSHLauncher)(nil)
