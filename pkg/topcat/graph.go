package topcat

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topcat/pkg/dag"
	"github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/filenode"
	"github.com/matzehuels/topcat/pkg/layer"
	"github.com/matzehuels/topcat/pkg/observability"
	"github.com/matzehuels/topcat/pkg/render/nodelink"
	"github.com/matzehuels/topcat/pkg/source"
)

// Config configures a [Graph].
type Config struct {
	Sources       source.Options // Candidate file discovery
	CommentPrefix string         // Header line prefix; defaults to "--"
	Layers        []string       // Layer names in emission order; defaults to prepend, normal, append
	FallbackLayer string         // Layer for nodes that declare none; defaults to normal

	IncludeNodePrefixes []string // Emit only names starting with one of these
	ExcludeNodePrefixes []string // Never emit names starting with one of these

	// SubdirFilter limits the output to files under this directory plus
	// everything they transitively require. Empty disables the filter.
	SubdirFilter string

	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger
}

// DefaultCommentPrefix starts every header line unless configured otherwise.
const DefaultCommentPrefix = "--"

// Graph discovers, parses and orders a set of header-annotated files.
//
// A Graph is built exactly once with [Graph.Build]; every read method fails
// with [errors.ErrCodeGraphMissing] until a build has succeeded. After that
// the graph is never modified, and reads are free of side effects.
type Graph struct {
	cfg    Config
	seq    layer.Sequence
	logger *log.Logger

	built  bool
	nodes  map[string]*filenode.Node
	graphs *layer.Graphs
	stats  observability.BuildStats
}

// New validates cfg and returns an unbuilt graph.
// It returns an [errors.ErrCodeInvalidConfig] error for an empty comment
// prefix or an invalid layer list.
func New(cfg Config) (*Graph, error) {
	if cfg.CommentPrefix == "" {
		cfg.CommentPrefix = DefaultCommentPrefix
	}
	if len(cfg.Layers) == 0 {
		cfg.Layers = layer.DefaultNames
	}
	if cfg.FallbackLayer == "" {
		cfg.FallbackLayer = layer.DefaultFallback
	}
	if err := errors.ValidateCommentPrefix(cfg.CommentPrefix); err != nil {
		return nil, err
	}
	seq, err := layer.NewSequence(cfg.Layers, cfg.FallbackLayer)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Graph{cfg: cfg, seq: seq, logger: logger}, nil
}

// Build discovers the candidate files, parses their headers, builds one graph
// per layer and verifies that none of them has a cycle.
//
// Files without a name: directive are skipped with an info message. Any other
// header problem, a name declared by two files, an unresolved dependency or
// existence assertion, a dependency on a later layer and any cycle abort the
// build. A failed build can be retried; a second successful call returns
// [errors.ErrCodeAlreadyBuilt].
func (g *Graph) Build() (err error) {
	if g.built {
		return errors.New(errors.ErrCodeAlreadyBuilt, "graph has already been built")
	}

	ctx := context.Background()
	start := time.Now()
	stats := observability.BuildStats{Layers: g.seq.Len()}
	defer func() {
		observability.Build().OnBuildComplete(ctx, stats, time.Since(start), err)
	}()

	files, err := source.Discover(g.cfg.Sources)
	if err != nil {
		return err
	}
	stats.Files = len(files)
	g.logger.Debugf("Discovered %d candidate files", len(files))

	nodes, skipped, err := g.parse(ctx, files)
	if err != nil {
		return err
	}
	stats.Nodes, stats.Skipped = len(nodes), skipped

	graphs, err := layer.Build(nodes, g.seq)
	if err != nil {
		return err
	}
	if err := layer.CheckCycles(graphs, nodes); err != nil {
		if cerr, ok := err.(*errors.CycleError); ok {
			for _, c := range cerr.Cycles {
				g.logger.Debugf("Cycle in layer %s: %s", c.Layer, layer.Summary(c))
			}
		}
		return err
	}
	stats.Edges = graphs.EdgeCount()

	g.nodes, g.graphs, g.stats = nodes, graphs, stats
	g.built = true
	g.logger.Debugf("Built %d nodes and %d edges across %d layers", stats.Nodes, stats.Edges, stats.Layers)
	return nil
}

func (g *Graph) parse(ctx context.Context, files []string) (map[string]*filenode.Node, int, error) {
	opts := g.seq.ParseOptions(g.cfg.CommentPrefix)
	nodes := make(map[string]*filenode.Node, len(files))
	skipped := 0

	for _, path := range files {
		n, err := filenode.ParseFile(path, opts)
		if errors.Is(err, errors.ErrCodeNoNameDefined) {
			g.logger.Infof("Skipping %s: no name defined", path)
			observability.Build().OnFileSkipped(ctx, path, errors.UserMessage(err))
			skipped++
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		if prev, clash := nodes[n.Name]; clash {
			return nil, 0, errors.New(errors.ErrCodeNameClash,
				"name %s is declared by both %s and %s", n.Name, prev.Path, n.Path).WithPath(n.Path)
		}
		g.logger.Debugf("Parsed %s as %s (layer %s)", path, n.Name, n.Layer)
		nodes[n.Name] = n
	}
	return nodes, skipped, nil
}

// SortedFiles returns the paths of the files to concatenate, in order.
//
// Layers are emitted whole and in configured order, each through a fresh
// [dag.StableTopo]. When a subdirectory filter is set only files under it and
// their transitive requirements are kept; a filter matching nothing yields an
// empty list. Name prefix filters apply on top: a name must match one include
// prefix, if any are set, and no exclude prefix.
func (g *Graph) SortedFiles() ([]string, error) {
	if err := g.requireBuilt(); err != nil {
		return nil, err
	}

	start := time.Now()
	files, err := g.sortedFiles()
	observability.Build().OnSortComplete(context.Background(), len(files), time.Since(start), err)
	return files, err
}

func (g *Graph) sortedFiles() ([]string, error) {
	var allowed map[string]struct{}
	if g.cfg.SubdirFilter != "" {
		seeds, err := nodesUnder(g.cfg.SubdirFilter, g.nodes)
		if err != nil {
			return nil, err
		}
		if len(seeds) == 0 {
			g.logger.Infof("No files found under %s", g.cfg.SubdirFilter)
			return []string{}, nil
		}
		if allowed, err = Closure(seeds, g.nodes); err != nil {
			return nil, err
		}
		g.logger.Debugf("Subdirectory filter selected %d files, %d with dependencies", len(seeds), len(allowed))
	}

	files := []string{}
	for _, name := range g.seq.Names() {
		d, _ := g.graphs.Layer(name)
		topo := dag.NewStableTopo(d)
		for id, ok := topo.Next(); ok; id, ok = topo.Next() {
			if allowed != nil {
				if _, keep := allowed[id]; !keep {
					continue
				}
			}
			if !g.matchesPrefixes(id) {
				continue
			}
			files = append(files, g.nodes[id].Path)
		}
		if rest := topo.Remaining(); len(rest) > 0 {
			return nil, errors.New(errors.ErrCodeInternal,
				"layer %s left %d nodes unordered: %s", name, len(rest), strings.Join(rest, ", "))
		}
	}
	return files, nil
}

func (g *Graph) matchesPrefixes(name string) bool {
	if len(g.cfg.IncludeNodePrefixes) > 0 && !hasAnyPrefix(name, g.cfg.IncludeNodePrefixes) {
		return false
	}
	return !hasAnyPrefix(name, g.cfg.ExcludeNodePrefixes)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// DOT returns the graph of one layer in Graphviz DOT format.
// It fails with [errors.ErrCodeUnknownLayer] for a layer that is not configured.
func (g *Graph) DOT(layerName string, detailed bool) (string, error) {
	d, err := g.Layer(layerName)
	if err != nil {
		return "", err
	}
	return nodelink.ToDOT(d, nodelink.Options{Name: layerName, Detailed: detailed}), nil
}

// Layer returns the graph of one layer. The graph must not be modified.
func (g *Graph) Layer(name string) (*dag.DAG, error) {
	if err := g.requireBuilt(); err != nil {
		return nil, err
	}
	d, ok := g.graphs.Layer(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownLayer,
			"unknown layer %q, configured layers are [%s]", name, strings.Join(g.seq.Names(), ", "))
	}
	return d, nil
}

// Node returns the parsed node with the given name.
func (g *Graph) Node(name string) (*filenode.Node, bool, error) {
	if err := g.requireBuilt(); err != nil {
		return nil, false, err
	}
	n, ok := g.nodes[name]
	return n, ok, nil
}

// Nodes returns every parsed node, sorted by name.
func (g *Graph) Nodes() (filenode.Nodes, error) {
	if err := g.requireBuilt(); err != nil {
		return nil, err
	}
	return filenode.SortedNodes(g.nodes), nil
}

// Layers returns the configured layer names in emission order.
func (g *Graph) Layers() []string { return g.seq.Names() }

// Stats returns counters collected by the last successful build.
func (g *Graph) Stats() (observability.BuildStats, error) {
	if err := g.requireBuilt(); err != nil {
		return observability.BuildStats{}, err
	}
	return g.stats, nil
}

func (g *Graph) requireBuilt() error {
	if !g.built {
		return errors.New(errors.ErrCodeGraphMissing, "graph has not been built, call Build first")
	}
	return nil
}
