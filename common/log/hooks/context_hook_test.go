package hooks

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

const sampleStack = `goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:24 +0x5e
github.com/hongyusu/random-spanning-tree-approximation/common/log/hooks.contextHook.Fire({}, 0xc0000a6000)
	/src/random-spanning-tree-approximation/common/log/hooks/context_hook.go:30 +0x25
github.com/sirupsen/logrus.LevelHooks.Fire(0xc0000a6000?, 0x4, 0xc0000a6000)
	/go/pkg/mod/github.com/sirupsen/logrus@v1.9.3/hooks.go:28 +0x8b
github.com/hongyusu/random-spanning-tree-approximation/sweep/dispatcher.(*Dispatcher).Dispatch(0xc000010000)
	/src/random-spanning-tree-approximation/sweep/dispatcher/dispatcher.go:88 +0x1d2
main.main()
	/src/random-spanning-tree-approximation/binaries/sweep/main.go:12 +0x1d`

func TestCallSiteSkipsLoggingFrames(t *testing.T) {
	assert.Equal(t, "sweep/dispatcher/dispatcher.go:88", callSite(sampleStack))
}

func TestCallSiteEmptyStack(t *testing.T) {
	assert.Equal(t, "", callSite(""))
}

func TestHookAddsField(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New()
	logger.Out = &buf
	logger.AddHook(NewContextHook())
	logger.Info("hello")
	assert.True(t, strings.Contains(buf.String(), "file:line="), buf.String())
}
