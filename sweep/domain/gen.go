package domain

import (
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
)

// GenIdentity generates identities drawn from small domains, so that
// generated collections contain equal identities.
func GenIdentity() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("yeast", "scene", "emotions"),
		gen.OneConstOf("tree", "chain"),
		gen.IntRange(1, 40),
		gen.IntRange(1, 5),
		gen.OneConstOf("2"),
		gen.OneConstOf("2", "8", "16", "20"),
		gen.OneConstOf("100", "1", "0.1", "0.01"),
	).Map(func(vs []interface{}) Identity {
		return Identity{
			Dataset:   vs[0].(string),
			GraphType: vs[1].(string),
			T:         vs[2].(int),
			Fold:      vs[3].(int),
			LNorm:     vs[4].(string),
			Kappa:     vs[5].(string),
			SlackC:    vs[6].(string),
		}
	})
}

// GenJobs generates job lists with distinct sequence ids 1..n.
func GenJobs() gopter.Gen {
	return gen.SliceOf(GenIdentity()).Map(func(ids []Identity) []Job {
		jobs := make([]Job, len(ids))
		for i, id := range ids {
			jobs[i] = NewJob(i+1, id)
		}
		return jobs
	})
}
