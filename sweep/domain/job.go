// Package domain defines the unit of work of a parameter sweep.
package domain

import (
	"fmt"
)

// Identity is one point of the parameter space. Two jobs with equal
// identities compute the same result, whatever their sequence ids.
type Identity struct {
	Dataset   string
	GraphType string
	T         int
	Fold      int
	LNorm     string
	Kappa     string
	SlackC    string
}

// Tag is the name stem shared by the result artifact and the remote log,
// ex: "yeast_tree_10_f3_l2_k8_c0.5".
func (id Identity) Tag() string {
	return fmt.Sprintf("%s_%s_%d_f%d_l%s_k%s_c%s",
		id.Dataset, id.GraphType, id.T, id.Fold, id.LNorm, id.Kappa, id.SlackC)
}

func (id Identity) String() string {
	return fmt.Sprintf("(f)%s,(type)%s,(t)%d,(f)%d,(l)%s,(k)%s,(c)%s",
		id.Dataset, id.GraphType, id.T, id.Fold, id.LNorm, id.Kappa, id.SlackC)
}

// Job is an immutable, queued configuration. SequenceID orders jobs in logs
// and is not part of the identity; a requeued job keeps its id.
type Job struct {
	SequenceID int
	Identity
}

func NewJob(seq int, id Identity) Job {
	return Job{SequenceID: seq, Identity: id}
}

// Fields returns log fields describing the job.
func (j Job) Fields() map[string]interface{} {
	return map[string]interface{}{
		"seq":     j.SequenceID,
		"dataset": j.Dataset,
		"graph":   j.GraphType,
		"t":       j.T,
		"fold":    j.Fold,
		"l":       j.LNorm,
		"kappa":   j.Kappa,
		"c":       j.SlackC,
	}
}
