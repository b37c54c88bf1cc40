// Package local discovers nodes by running the site's free-node script on
// the submitting host and parsing its output.
package local

import (
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
	"github.com/hongyusu/random-spanning-tree-approximation/common/os/exec"
)

// MakeFetcher returns a Fetcher that runs command (argv form) and reads one
// node per output line. If nodePattern is set it must have exactly one
// capture group, which selects the node id from matching lines; other lines
// are ignored. Without a pattern the first field of each non-blank,
// non-comment line is the id and the rest of the line is its status.
// A failing command is retried up to retries times with exponential backoff;
// with retries <= 0 it runs exactly once.
func MakeFetcher(ex exec.OsExec, command []string, nodePattern string, retries int) (cluster.Fetcher, error) {
	if len(command) == 0 {
		return nil, errors.New("local fetcher: empty discovery command")
	}
	f := &commandFetcher{
		ex:      ex,
		command: command,
		retries: retries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = maxDiscoveryElapsed
			return b
		},
	}
	if nodePattern != "" {
		re, err := regexp.Compile(nodePattern)
		if err != nil {
			return nil, errors.Wrapf(err, "local fetcher: bad node pattern %q", nodePattern)
		}
		if re.NumSubexp() != 1 {
			return nil, errors.Errorf("local fetcher: node pattern %q must have exactly one capture group", nodePattern)
		}
		f.re = re
	}
	return f, nil
}

const maxDiscoveryElapsed = 2 * time.Minute

type commandFetcher struct {
	ex         exec.OsExec
	command    []string
	re         *regexp.Regexp
	retries    int
	newBackOff func() backoff.BackOff
}

func (f *commandFetcher) Fetch() ([]cluster.Node, error) {
	var data []byte
	attempt := 0
	op := func() error {
		attempt++
		var err error
		data, err = f.fetchData()
		if err != nil {
			log.WithFields(log.Fields{
				"cmd":     strings.Join(f.command, " "),
				"attempt": attempt,
				"err":     err,
			}).Warn("Node discovery command failed")
		}
		return err
	}
	// WithMaxRetries treats 0 as unlimited.
	var b backoff.BackOff = &backoff.StopBackOff{}
	if f.retries > 0 {
		b = backoff.WithMaxRetries(f.newBackOff(), uint64(f.retries))
	}
	if err := backoff.Retry(op, b); err != nil {
		return nil, errors.Wrapf(err, "running %q", strings.Join(f.command, " "))
	}
	nodes := cluster.Dedup(f.parseData(data))
	log.WithFields(log.Fields{"nodes": len(nodes), "attempts": attempt}).Info("Discovered nodes")
	return nodes, nil
}

func (f *commandFetcher) fetchData() ([]byte, error) {
	rr := exec.RunKillableCommand(f.ex.Command(f.command[0], f.command[1:]...), nil, time.Second, discard{}, time.Minute)
	if err := rr.Err(); err != nil {
		return nil, err
	}
	return rr.Stdout, nil
}

func (f *commandFetcher) parseData(data []byte) []cluster.Node {
	nodes := []cluster.Node{}
	for _, line := range strings.Split(string(data), "\n") {
		if f.re != nil {
			if matches := f.re.FindStringSubmatch(line); len(matches) == 2 && matches[1] != "" {
				nodes = append(nodes, cluster.NewIdNode(matches[1]))
			}
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		nodes = append(nodes, cluster.NewIdStatusNode(fields[0], strings.Join(fields[1:], " ")))
	}
	return nodes
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
