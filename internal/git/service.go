// Package git adapts an on-disk repository into the commit stream the layout
// engine consumes: newest-first pages of commits plus ref decoration labels.
package git

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/thiagokokada/gitgraph-go/internal/layout"
)

const DefaultBatch = 1000

type Service struct {
	// mu serializes access to repo operations that share iterators/state (scan session).
	mu sync.Mutex

	repo repoState
	scan *scanSession
}

type repoState struct {
	*gitlib.Repository
	path string
}

// Entry pairs the layout input for one commit with its display summary.
type Entry struct {
	Record  layout.CommitRecord
	Summary string
}

func Open(repoPath string) (*Service, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Service{repo: repoState{path: abs, Repository: repo}}, nil
}

// NewWithRepository wraps an already-open repository, e.g. one backed by
// in-memory storage.
func NewWithRepository(repo *gitlib.Repository, path string) *Service {
	return &Service{repo: repoState{path: path, Repository: repo}}
}

func (s *Service) RepoPath() string {
	return s.repo.path
}

// ScanCommits returns the next page of commits starting at offset skip,
// walking first from HEAD in committer-time order (git's default log order).
// Note histories with committer-clock skew can order a parent before one of
// its children; the layout engine is fed whatever order the walk produces.
// A nil slice with a nil error means the repository has no HEAD yet.
func (s *Service) ScanCommits(skip, batch int) ([]*Entry, string, bool, error) {
	if batch <= 0 {
		batch = DefaultBatch
	}
	slog.Debug("ScanCommits start", slog.Int("skip", skip), slog.Int("batch", batch))
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			if s.scan != nil {
				s.scan.close()
				s.scan = nil
			}
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	if err := s.ensureScanSessionLocked(ref); err != nil {
		return nil, "", false, err
	}
	if skip < 0 {
		skip = 0
	}
	// If the caller requests a different position than the current session, reset and advance to skip.
	if skip != s.scan.returned {
		slog.Debug("ScanCommits reset session",
			slog.Int("requested_skip", skip),
			slog.Int("session_returned", s.scan.returned),
			slog.String("head", s.scan.headName),
		)
		if err := s.resetScanLocked(ref); err != nil {
			return nil, "", false, err
		}
		if err := s.scan.discard(skip); err != nil {
			if err == io.EOF {
				return nil, s.scan.headName, false, nil
			}
			return nil, "", false, fmt.Errorf("iterate commits: %w", err)
		}
	}

	entries := make([]*Entry, 0, batch)
	for len(entries) < batch {
		commit, err := s.scan.next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, "", false, fmt.Errorf("iterate commits: %w", err)
		}
		entries = append(entries, newEntry(commit, s.scan.labels))
	}
	hasMore, err := s.scan.hasMore()
	if err != nil {
		return nil, "", false, err
	}
	slog.Debug("ScanCommits done",
		slog.Int("returned", len(entries)),
		slog.Int("session_returned", s.scan.returned),
		slog.Bool("has_more", hasMore),
		slog.String("head", s.scan.headName),
	)
	return entries, s.scan.headName, hasMore, nil
}

// RefLabels maps commit hashes to their decoration labels: branches, remotes
// (minus the symbolic */HEAD entries), tags as "tag: name", and a leading
// "HEAD" or "HEAD -> branch" label on the checked-out commit.
func (s *Service) RefLabels() (map[string][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refLabelsLocked()
}

func (s *Service) refLabelsLocked() (map[string][]string, error) {
	labels := map[string][]string{}
	if s.repo.Repository == nil {
		return labels, nil
	}
	refs, err := s.repo.References()
	if err != nil {
		return nil, err
	}
	defer refs.Close()
	headRef, err := s.repo.Head()
	var headHash plumbing.Hash
	var headBranch string
	if err == nil && headRef != nil {
		headHash = headRef.Hash()
		if headRef.Name().IsBranch() {
			headBranch = headRef.Name().Short()
		}
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		short := name.Short()
		switch {
		case name.IsBranch():
			labels[ref.Hash().String()] = append(labels[ref.Hash().String()], short)
		case name.IsRemote():
			if strings.HasSuffix(short, "/HEAD") {
				return nil
			}
			labels[ref.Hash().String()] = append(labels[ref.Hash().String()], short)
		case name.IsTag():
			hash := ref.Hash()
			// Annotated tags point at a tag object; peel to the commit.
			if tag, err := s.repo.TagObject(hash); err == nil {
				hash = tag.Target
			}
			labels[hash.String()] = append(labels[hash.String()], "tag: "+short)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if headHash != plumbing.ZeroHash {
		key := headHash.String()
		label := "HEAD"
		if headBranch != "" {
			label = fmt.Sprintf("HEAD -> %s", headBranch)
		}
		labels[key] = append([]string{label}, labels[key]...)
	}
	return labels, nil
}

type scanSession struct {
	head     plumbing.Hash
	headName string

	displayIter object.CommitIter
	labels      map[string][]string

	// buffered holds the next commit returned by hasMore() so ScanCommits can keep consuming in-order.
	buffered  *object.Commit
	exhausted bool
	returned  int
}

func (s *Service) ensureScanSessionLocked(ref *plumbing.Reference) error {
	if s.scan != nil && s.scan.head == ref.Hash() {
		return nil
	}
	return s.resetScanLocked(ref)
}

func (s *Service) resetScanLocked(ref *plumbing.Reference) error {
	if s.scan != nil {
		s.scan.close()
		s.scan = nil
	}
	displayIter, err := s.repo.Log(&gitlib.LogOptions{From: ref.Hash(), Order: gitlib.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("read commits: %w", err)
	}
	labels, err := s.refLabelsLocked()
	if err != nil {
		displayIter.Close()
		return fmt.Errorf("read refs: %w", err)
	}
	s.scan = &scanSession{
		head:        ref.Hash(),
		headName:    refName(ref),
		displayIter: displayIter,
		labels:      labels,
	}
	slog.Debug("ScanCommits session initialized", slog.String("head", s.scan.headName))
	return nil
}

func (s *scanSession) close() {
	if s == nil {
		return
	}
	if s.displayIter != nil {
		s.displayIter.Close()
	}
	s.displayIter = nil
	s.buffered = nil
	s.exhausted = true
}

func (s *scanSession) hasMore() (bool, error) {
	if s.exhausted {
		return false, nil
	}
	if s.buffered != nil {
		return true, nil
	}
	// Read-ahead a single commit into buffered so hasMore doesn't consume an extra commit.
	commit, err := s.displayIter.Next()
	if err != nil {
		if err == io.EOF {
			s.exhausted = true
			return false, nil
		}
		return false, fmt.Errorf("iterate commits: %w", err)
	}
	s.buffered = commit
	return true, nil
}

func (s *scanSession) next() (*object.Commit, error) {
	if s.exhausted {
		return nil, io.EOF
	}
	if s.buffered != nil {
		commit := s.buffered
		s.buffered = nil
		s.returned++
		return commit, nil
	}
	commit, err := s.displayIter.Next()
	if err != nil {
		if err == io.EOF {
			s.exhausted = true
		}
		return nil, err
	}
	s.returned++
	return commit, nil
}

func (s *scanSession) discard(count int) error {
	// Consume and drop commits to align the session position with the requested skip.
	for range count {
		if _, err := s.next(); err != nil {
			return err
		}
	}
	return nil
}

// Records extracts the layout inputs from a page of entries.
func Records(entries []*Entry) []layout.CommitRecord {
	records := make([]layout.CommitRecord, len(entries))
	for i, entry := range entries {
		records[i] = entry.Record
	}
	return records
}

func newEntry(c *object.Commit, labels map[string][]string) *Entry {
	record := layout.CommitRecord{
		SHA:      layout.Oid(c.Hash.String()),
		RefNames: labels[c.Hash.String()],
	}
	for _, parent := range c.ParentHashes {
		record.Parents = append(record.Parents, layout.Oid(parent.String()))
	}
	return &Entry{Record: record, Summary: formatSummary(c)}
}

func formatSummary(c *object.Commit) string {
	firstLine := strings.SplitN(strings.TrimSpace(c.Message), "\n", 2)[0]
	if len(firstLine) > 80 {
		firstLine = firstLine[:77] + "..."
	}
	timestamp := c.Committer.When.Format("2006-01-02 15:04")
	return fmt.Sprintf("%s  %s  %s", c.Hash.String()[:7], timestamp, firstLine)
}

func refName(ref *plumbing.Reference) string {
	name := ref.Name().Short()
	if name == "" {
		name = ref.Name().String()
	}
	return name
}
