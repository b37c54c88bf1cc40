package main

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/hongyusu/random-spanning-tree-approximation/common/errors"
	"github.com/hongyusu/random-spanning-tree-approximation/common/log/hooks"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/cli"
)

// Parameter sweep dispatcher for the spanning tree solver.
//	Supported commands: (see "-h" for all options)
//		run [--nodes n1,n2] [--http_addr host:port]
//		plan [--list]
//		nodes
//	Global flags:
//		--config [<asset name, JSON file or literal JSON>]
//		--log_level [<error|warn|info|debug> level and above should be logged]
func main() {
	log.AddHook(hooks.NewContextHook())
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := cli.NewSimpleCLIClient().Exec(); err != nil {
		code := errors.GenericFailureExitCode
		var exitErr *errors.ExitCodeError
		if pkgerrors.As(err, &exitErr) {
			code = exitErr.GetExitCode()
		}
		log.WithField("exitCode", code).Error(err)
		os.Exit(int(code))
	}
}
