// Package importers turns share links from files and subscription URLs into
// stored profiles. Every link is committed through its own add session, so
// imported profiles obey exactly the rules of hand-entered ones.
package importers

import (
	"context"

	"proxyconf/internal/logger"
	"proxyconf/internal/model"
	"proxyconf/internal/profile"
	"proxyconf/internal/sharelink"
)

type Store interface {
	profile.Store
	List(ctx context.Context) ([]model.Proxy, error)
}

type Failure struct {
	Link string
	Err  error
}

type Result struct {
	Imported []model.Proxy
	Skipped  int // already stored under some name
	Failed   []Failure
}

// Import commits each link as a new profile. Links pointing at a server that
// is already stored are skipped. onProgress, if set, is called once per link.
func Import(ctx context.Context, st Store, links []string, onProgress func()) (Result, error) {
	var res Result

	existing, err := st.List(ctx)
	if err != nil {
		return res, err
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[sharelink.Fingerprint(p)] = true
	}

	for _, raw := range links {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		importLink(ctx, st, raw, seen, &res)
		if onProgress != nil {
			onProgress()
		}
	}
	return res, nil
}

func importLink(ctx context.Context, st Store, raw string, seen map[string]bool, res *Result) {
	link, err := sharelink.Parse(raw)
	if err != nil {
		res.Failed = append(res.Failed, Failure{Link: raw, Err: err})
		return
	}

	fp := link.Fingerprint()
	if seen[fp] {
		logger.Log.Debugf("Skipping %s: already stored", link.Host)
		res.Skipped++
		return
	}

	p, err := profile.NewAddSession(st).Submit(ctx, link.Fields(""))
	if err != nil {
		res.Failed = append(res.Failed, Failure{Link: raw, Err: err})
		return
	}
	seen[fp] = true
	res.Imported = append(res.Imported, p)
}
