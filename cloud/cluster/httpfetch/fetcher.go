// Package httpfetch discovers nodes from an HTTP endpoint, for sites where
// free-node status is published by a monitoring service instead of a script.
package httpfetch

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"

	"github.com/hongyusu/random-spanning-tree-approximation/cloud/cluster"
)

const DefaultHttpTries = 5

// Client is the subset of *http.Client and *pester.Client used to fetch.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

func MakePesterClient(tries int) *pester.Client {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	if tries <= 0 {
		tries = DefaultHttpTries
	}
	client.MaxRetries = tries
	client.LogHook = func(e pester.ErrEntry) {
		log.Errorf("Retrying node discovery after failed attempt: %+v", e)
	}
	return client
}

// MakeFetcher returns a Fetcher that GETs url. A JSON body must be either a
// list of hostnames or a list of {"Id": ..., "Status": ...} objects; any other
// body is read as one hostname per line.
func MakeFetcher(url string, client Client) cluster.Fetcher {
	return &httpFetcher{url: url, client: client}
}

type httpFetcher struct {
	url    string
	client Client
}

type jsonNode struct {
	Id     string
	Status string
}

func (f *httpFetcher) Fetch() ([]cluster.Node, error) {
	req, err := http.NewRequest("GET", f.url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "bad discovery url %q", f.url)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching nodes from %s", f.url)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading nodes from %s", f.url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching nodes from %s: %s: %s", f.url, resp.Status, strings.TrimSpace(string(body)))
	}

	nodes, err := parse(body)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing nodes from %s", f.url)
	}
	nodes = cluster.Dedup(nodes)
	log.WithFields(log.Fields{"url": f.url, "nodes": len(nodes)}).Info("Discovered nodes")
	return nodes, nil
}

func parse(body []byte) ([]cluster.Node, error) {
	trimmed := strings.TrimSpace(string(body))
	nodes := []cluster.Node{}
	if !strings.HasPrefix(trimmed, "[") {
		for _, line := range strings.Split(trimmed, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				nodes = append(nodes, cluster.NewIdNode(line))
			}
		}
		return nodes, nil
	}

	var names []string
	if err := json.Unmarshal(body, &names); err == nil {
		for _, n := range names {
			nodes = append(nodes, cluster.NewIdNode(n))
		}
		return nodes, nil
	}
	var objs []jsonNode
	if err := json.Unmarshal(body, &objs); err != nil {
		return nil, err
	}
	for _, o := range objs {
		if o.Id == "" {
			return nil, errors.New("node entry without Id")
		}
		nodes = append(nodes, cluster.NewIdStatusNode(o.Id, o.Status))
	}
	return nodes, nil
}
