package remote

import (
	"bytes"
	"path"
	"text/template"

	"github.com/pkg/errors"

	"github.com/hongyusu/random-spanning-tree-approximation/sweep/domain"
)

// DefaultCommandTemplate starts the solver detached, with its output in a
// per-job log on the node. The shell returns as soon as matlab is forked.
const DefaultCommandTemplate = `cd {{.WorkDir}}; rm -rf /var/tmp/.matlab; export OMP_NUM_THREADS=32; ` +
	`nohup matlab -nodisplay -r "run_RSTA '{{.Dataset}}' '{{.GraphType}}' '{{.T}}' '{{.FoldMarker}}' '{{.Fold}}' '{{.LNorm}}' '{{.Kappa}}' '{{.SlackC}}'" ` +
	`> {{.LogPath}} 2>&1 < /dev/null &`

const DefaultLogDir = "/var/tmp"
const DefaultFoldMarker = "0"

// CommandVars are the fields available to a command template.
type CommandVars struct {
	domain.Identity
	FoldMarker string
	WorkDir    string
	LogPath    string
}

// CommandBuilder renders the remote shell command for a job.
type CommandBuilder struct {
	tmpl       *template.Template
	workDir    string
	logDir     string
	foldMarker string
}

// NewCommandBuilder parses text, or DefaultCommandTemplate if text is empty.
// The template is executed once against a sample job so that references to
// unknown fields fail here rather than at dispatch time.
func NewCommandBuilder(text, workDir, logDir, foldMarker string) (*CommandBuilder, error) {
	if text == "" {
		text = DefaultCommandTemplate
	}
	if logDir == "" {
		logDir = DefaultLogDir
	}
	if foldMarker == "" {
		foldMarker = DefaultFoldMarker
	}
	tmpl, err := template.New("command").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "parsing command template")
	}
	b := &CommandBuilder{tmpl: tmpl, workDir: workDir, logDir: logDir, foldMarker: foldMarker}
	if _, err := b.Build(domain.Job{}); err != nil {
		return nil, err
	}
	return b, nil
}

// LogPath is where the solver's output for job goes on the node.
func (b *CommandBuilder) LogPath(job domain.Job) string {
	return path.Join(b.logDir, "tmp_"+job.Tag()+"_RSTAs")
}

func (b *CommandBuilder) Build(job domain.Job) (string, error) {
	vars := CommandVars{
		Identity:   job.Identity,
		FoldMarker: b.foldMarker,
		WorkDir:    b.workDir,
		LogPath:    b.LogPath(job),
	}
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, vars); err != nil {
		return "", errors.Wrap(err, "rendering command template")
	}
	return buf.String(), nil
}
