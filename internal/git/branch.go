package git

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mikanfactory/hibiki/internal/model"
)

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch() (string, error) {
	out, err := r.runner.Run(r.root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DefaultBranch returns the remote's default branch name, falling back
// to "main" when origin/HEAD is not configured.
func (r *Repo) DefaultBranch() string {
	out, err := r.runner.Run(r.root, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err != nil {
		return "main"
	}
	return strings.TrimPrefix(strings.TrimSpace(out), "origin/")
}

// BranchStatus computes the current branch's position relative to its
// remote counterparts. When no remote information is reachable, ahead
// and behind are zero rather than an error: the UI must never show a
// false "unpushed work" indicator just because the remote is unknown.
func (r *Repo) BranchStatus() (model.BranchStatus, error) {
	branch, err := r.CurrentBranch()
	if err != nil {
		return model.BranchStatus{}, err
	}
	defaultBranch := r.DefaultBranch()

	ahead, behind := r.aheadBehind(branch, defaultBranch)

	aheadOfDefault := 0
	if out, err := r.runner.Run(r.root, "rev-list", "--count", "origin/"+defaultBranch+"..HEAD"); err == nil {
		aheadOfDefault, _ = strconv.Atoi(strings.TrimSpace(out))
	}

	return model.BranchStatus{
		Branch:         branch,
		DefaultBranch:  defaultBranch,
		Ahead:          ahead,
		Behind:         behind,
		AheadOfDefault: aheadOfDefault,
	}, nil
}

// AheadCount returns how many local commits the remote does not have.
// Callers paginating through history should compute this once and pass
// it back into Log so the push boundary stays fixed across pages.
func (r *Repo) AheadCount() int {
	branch, err := r.CurrentBranch()
	if err != nil {
		return 0
	}
	ahead, _ := r.aheadBehind(branch, r.DefaultBranch())
	return ahead
}

// aheadBehind compares HEAD against the first reachable of three
// references: the branch's configured upstream, a same-named branch on
// origin, and the remote's default branch. A branch may lack upstream
// tracking, so each tier is a separate attempt and the first success
// short-circuits the rest. All three failing yields {0, 0}.
func (r *Repo) aheadBehind(branch, defaultBranch string) (int, int) {
	type counts struct{ ahead, behind int }

	result, err := firstSuccess(
		func() (counts, error) {
			a, b, err := r.revListCounts(branch + "@{upstream}")
			return counts{a, b}, err
		},
		func() (counts, error) {
			a, b, err := r.revListCounts("origin/" + branch)
			return counts{a, b}, err
		},
		func() (counts, error) {
			a, b, err := r.revListCounts("origin/" + defaultBranch)
			return counts{a, b}, err
		},
	)
	if err != nil {
		return 0, 0
	}
	return result.ahead, result.behind
}

// revListCounts returns (ahead, behind) of HEAD relative to ref.
func (r *Repo) revListCounts(ref string) (int, int, error) {
	out, err := r.runner.Run(r.root, "rev-list", "--left-right", "--count", "HEAD..."+ref)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// firstSuccess runs the attempts in order and returns the first result
// that does not error. Fallback chains (ahead/behind tiers, diff
// fallbacks) read better as an ordered list than as nested retries.
func firstSuccess[T any](attempts ...func() (T, error)) (T, error) {
	var zero T
	var err error
	for _, attempt := range attempts {
		var result T
		result, err = attempt()
		if err == nil {
			return result, nil
		}
	}
	return zero, err
}
