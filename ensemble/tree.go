package ensemble

import (
	"sort"
)

// minGain is the smallest squared error reduction accepted for a split
const minGain = 1e-12

type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *node
	right     *node
}

func (n *node) predict(obs []float64) float64 {
	for !n.leaf {
		if obs[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// treeBuilder grows least squares regression trees over a fixed row major feature set
type treeBuilder struct {
	x        [][]float64
	maxDepth int
	minLeaf  int
}

func (b *treeBuilder) build(idx []int, target []float64, depth int) *node {
	sum := 0.0
	for _, i := range idx {
		sum += target[i]
	}
	mean := sum / float64(len(idx))

	if depth >= b.maxDepth || len(idx) < 2*b.minLeaf {
		return &node{leaf: true, value: mean}
	}

	best, ok := b.bestSplit(idx, target)
	if !ok {
		return &node{leaf: true, value: mean}
	}

	return &node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      b.build(best.left, target, depth+1),
		right:     b.build(best.right, target, depth+1),
	}
}

// bestSplit scans every boundary between distinct feature values and keeps the first split with
// the largest reduction in squared error. Ties resolve to the lowest feature and threshold.
func (b *treeBuilder) bestSplit(idx []int, target []float64) (split, bool) {
	n := len(idx)
	total := 0.0
	for _, i := range idx {
		total += target[i]
	}
	parent := total * total / float64(n)

	var best split
	found := false

	nFeat := len(b.x[idx[0]])
	sorted := make([]int, n)
	for f := 0; f < nFeat; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})

		leftSum := 0.0
		for pos := 1; pos < n; pos++ {
			leftSum += target[sorted[pos-1]]
			if pos < b.minLeaf || n-pos < b.minLeaf {
				continue
			}
			lo, hi := b.x[sorted[pos-1]][f], b.x[sorted[pos]][f]
			if lo == hi {
				continue
			}
			rightSum := total - leftSum
			gain := leftSum*leftSum/float64(pos) + rightSum*rightSum/float64(n-pos) - parent
			if gain <= minGain {
				continue
			}
			if !found || gain > best.gain {
				found = true
				best = split{
					feature:   f,
					threshold: (lo + hi) / 2.0,
					gain:      gain,
					left:      append([]int(nil), sorted[:pos]...),
					right:     append([]int(nil), sorted[pos:]...),
				}
			}
		}
	}
	return best, found
}
