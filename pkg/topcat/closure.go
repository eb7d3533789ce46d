package topcat

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/filenode"
)

// Closure returns the seeds together with every name they transitively
// require, following the raw requires: relation regardless of layers.
//
// An empty seed list yields an empty set. A seed that is not in nodes is an
// [errors.ErrCodeInternal] error; a required name that is not in nodes is
// [errors.ErrCodeMissingDependency], naming the requesting node.
func Closure(seeds []string, nodes map[string]*filenode.Node) (map[string]struct{}, error) {
	required := make(map[string]struct{}, len(seeds))
	queue := make([]string, 0, len(seeds))

	sorted := slices.Clone(seeds)
	slices.Sort(sorted)
	for _, s := range slices.Compact(sorted) {
		if _, ok := nodes[s]; !ok {
			return nil, errors.New(errors.ErrCodeInternal, "closure seed %s is not a known node", s)
		}
		required[s] = struct{}{}
		queue = append(queue, s)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		n := nodes[name]
		for _, dep := range n.Deps.Sorted() {
			if _, seen := required[dep]; seen {
				continue
			}
			if _, ok := nodes[dep]; !ok {
				return nil, errors.New(errors.ErrCodeMissingDependency,
					"%s depends on %s but it is missing", name, dep).WithPath(n.Path)
			}
			required[dep] = struct{}{}
			queue = append(queue, dep)
		}
	}
	return required, nil
}

// nodesUnder returns the names of nodes whose file lies under root, sorted.
// Both root and every node path are made absolute with symlinks resolved
// before comparing, so "./sql" and "sql/../sql" select the same files.
func nodesUnder(root string, nodes map[string]*filenode.Node) ([]string, error) {
	canonRoot, err := canonicalize(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "resolve subdirectory filter %s", root).WithPath(root)
	}

	var seeds []string
	for _, n := range filenode.SortedNodes(nodes) {
		p, err := canonicalize(n.Path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "resolve %s", n.Path).WithPath(n.Path)
		}
		if within(canonRoot, p) {
			seeds = append(seeds, n.Name)
		}
	}
	return seeds, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// within reports whether path equals root or lies below it, comparing whole
// path components so "/sql2/a" is not under "/sql".
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
