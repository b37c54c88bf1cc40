// Package artifacts answers whether a configuration already has a result.
// Results are files written by the remote solver; this package only reads.
package artifacts

//go:generate mockgen -source=checker.go -package=artifacts -destination=checker_mock.go

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
)

const DefaultSuffix = "_RSTAs.log"

// Checker reports whether a result artifact exists for an identity.
type Checker interface {
	// Exists checks the primary location and every legacy location.
	Exists(id domain.Identity) bool

	// ExistsPrimary checks the primary location only.
	ExistsPrimary(id domain.Identity) bool
}

// DirChecker looks for "<dir>/<tag><suffix>" files. Legacy dirs hold the
// results of earlier run phases that wrote elsewhere.
type DirChecker struct {
	Primary string
	Legacy  []string
	Suffix  string
}

func NewDirChecker(primary string, legacy []string, suffix string) *DirChecker {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &DirChecker{Primary: primary, Legacy: legacy, Suffix: suffix}
}

func (c *DirChecker) Name(id domain.Identity) string {
	return id.Tag() + c.Suffix
}

func (c *DirChecker) ExistsPrimary(id domain.Identity) bool {
	return c.existsIn(c.Primary, id)
}

func (c *DirChecker) Exists(id domain.Identity) bool {
	if c.ExistsPrimary(id) {
		return true
	}
	for _, dir := range c.Legacy {
		if c.existsIn(dir, id) {
			return true
		}
	}
	return false
}

// Only regular files count. Stat errors other than not-exist are logged and
// read as absent, which at worst re-dispatches a job.
func (c *DirChecker) existsIn(dir string, id domain.Identity) bool {
	p := filepath.Join(dir, c.Name(id))
	fi, err := os.Stat(p)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithFields(log.Fields{"path": p, "err": err}).Warn("Couldn't stat artifact")
		}
		return false
	}
	return fi.Mode().IsRegular()
}

var _ Checker = (*DirChecker)(nil)
